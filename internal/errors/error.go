package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoute    Category = "route"
	CategoryRuntime  Category = "runtime"
	CategoryManifest Category = "manifest"
	CategoryContent  Category = "content"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Severity distinguishes reportable problems from hard failures.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the upper-case label used in terminal output.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// RouteLocation identifies a descriptor inside a route tree.
type RouteLocation struct {
	// Path is the joined path of the parent route ("/" for the root list).
	Path string

	// Position is the zero-based position among its siblings.
	Position int
}

// String returns the location as a human readable string.
func (l *RouteLocation) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("route %s (child #%d)", l.Path, l.Position)
}

// ShellError is a structured error with a code, route location and hints.
type ShellError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type.
	Category Category

	// Severity marks warnings that do not stop processing.
	Severity Severity

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location points at the offending descriptor, if any.
	Location *RouteLocation

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ShellError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ShellError) Unwrap() error {
	return e.Wrapped
}

// AtRoute records the descriptor location.
func (e *ShellError) AtRoute(parent string, position int) *ShellError {
	e.Location = &RouteLocation{Path: parent, Position: position}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ShellError) WithSuggestion(s string) *ShellError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *ShellError) WithDetail(d string) *ShellError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ShellError) Wrap(err error) *ShellError {
	e.Wrapped = err
	return e
}

// New creates a ShellError from a registered error code.
func New(code string) *ShellError {
	template, ok := registry[code]
	if !ok {
		return &ShellError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ShellError{
		Code:     code,
		Category: template.Category,
		Severity: template.Severity,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a ShellError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ShellError {
	return &ShellError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ShellError.
// Errors that already are (or wrap) a ShellError are returned as is.
func FromError(err error, code string) *ShellError {
	if err == nil {
		return nil
	}
	var se *ShellError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a ShellError with the code.
func HasCode(err error, code string) bool {
	var se *ShellError
	for err != nil {
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Wrapped
	}
	return false
}
