package reporter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (t *recordingTransport) Configure(sentry.ClientOptions) {}

func (t *recordingTransport) SendEvent(event *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *recordingTransport) Flush(time.Duration) bool { return true }

func (t *recordingTransport) FlushWithContext(context.Context) bool { return true }

func (t *recordingTransport) Close() {}

func (t *recordingTransport) captured() []*sentry.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*sentry.Event(nil), t.events...)
}

func TestNew_WithoutDSN(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, r)
	assert.NotPanics(t, func() { r.CaptureError(errors.New("x"), nil) })
	assert.True(t, r.Flush(time.Second))
}

func TestSentryReporter_CaptureError(t *testing.T) {
	transport := &recordingTransport{}
	r, err := New(Options{
		DSN:         "https://public@example.ingest.sentry.io/1",
		Environment: "test",
		Transport:   transport,
	})
	require.NoError(t, err)

	r.CaptureError(errors.New("smtp: connection refused"), map[string]string{"component": "notification"})
	r.CaptureError(nil, nil)
	r.Flush(time.Second)

	events := transport.captured()
	require.Len(t, events, 1)
	assert.Equal(t, "notification", events[0].Tags["component"])
	assert.Equal(t, "test", events[0].Environment)
	require.NotEmpty(t, events[0].Exception)
	assert.Equal(t, "smtp: connection refused", events[0].Exception[0].Value)
	assert.Empty(t, events[0].ServerName)
}
