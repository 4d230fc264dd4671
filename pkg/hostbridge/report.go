package hostbridge

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/routes"
)

// Reporter receives lazy load failures.
type Reporter interface {
	ReportLoadError(err error, m routes.Match, session string)
	Flush(ctx context.Context)
}

// SentryReporter reports load failures to Sentry.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter creates a reporter with its own Sentry client.
func NewSentryReporter(opts sentry.ClientOptions) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// ReportLoadError implements Reporter.
func (r *SentryReporter) ReportLoadError(err error, m routes.Match, session string) {
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("route", m.Pathname)
		if session != "" {
			scope.SetTag("session_id", session)
		}
		if se := errors.FromError(err, "R002"); se != nil {
			scope.SetTag("code", se.Code)
		}
		hub.CaptureException(err)
	})
}

// Flush waits for buffered events until ctx is done.
func (r *SentryReporter) Flush(ctx context.Context) {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	r.hub.Flush(timeout)
}
