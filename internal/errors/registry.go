package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Severity Severity
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route errors (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRoute,
		Severity: SeverityWarning,
		Message:  "Index route declares children",
		Detail:   "Index routes are leaves. Their children are never matched and were dropped from the compiled tree.",
	},
	"R002": {
		Category: CategoryRuntime,
		Message:  "Lazy route content failed to load",
		Detail:   "The loader returned an error. The subtree renders the error boundary until the shell is remounted.",
	},
	"R003": {
		Category: CategoryRuntime,
		Message:  "Redirect loop",
		Detail:   "Too many consecutive redirects were followed while resolving a navigation.",
	},
	"R004": {
		Category: CategoryRoute,
		Severity: SeverityWarning,
		Message:  "Duplicate sibling route",
		Detail:   "An earlier sibling matches the same path. The first declared route wins.",
	},
	"R005": {
		Category: CategoryRoute,
		Severity: SeverityWarning,
		Message:  "Route declares both static and lazy content",
		Detail:   "Static content takes priority. The lazy loader is never called.",
	},

	// ============================================
	// Manifest errors (M001-M099)
	// ============================================

	"M001": {
		Category: CategoryManifest,
		Message:  "Manifest could not be parsed",
	},
	"M002": {
		Category: CategoryManifest,
		Message:  "Manifest references unknown content",
		Detail:   "A route names static content that is not registered.",
	},
	"M003": {
		Category: CategoryManifest,
		Message:  "Manifest declares lazy content without a content store",
	},

	// ============================================
	// Content store errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategoryContent,
		Message:  "Content not found",
	},
	"S002": {
		Category: CategoryContent,
		Message:  "Content store request failed",
	},

	// ============================================
	// Config errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
