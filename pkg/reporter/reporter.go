// Package reporter forwards delivery failures to Sentry.
package reporter

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ikkim/marketing-survey/pkg/logger"
)

// Reporter captures errors that are handled but must not go unnoticed.
type Reporter interface {
	CaptureError(err error, tags map[string]string)
	Flush(timeout time.Duration) bool
}

// Nop is used when no DSN is configured.
type Nop struct{}

func (Nop) CaptureError(error, map[string]string) {}
func (Nop) Flush(time.Duration) bool              { return true }

type SentryReporter struct {
	hub *sentry.Hub
}

type Options struct {
	DSN         string
	Environment string
	Release     string
	Transport   sentry.Transport // tests only
}

// New returns Nop when opts.DSN is empty.
func New(opts Options) (Reporter, error) {
	if opts.DSN == "" {
		return Nop{}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		SampleRate:       1.0,
		AttachStacktrace: true,
		Transport:        opts.Transport,
		BeforeSend:       scrubEvent,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}

	logger.Info("Sentry error reporting enabled", map[string]interface{}{
		"environment": opts.Environment,
	})
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// scrubEvent drops user and request data; submissions carry personal details.
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	event.User = sentry.User{}
	event.Request = nil
	event.ServerName = ""
	return event
}

func (r *SentryReporter) CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		r.hub.CaptureException(err)
	})
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
