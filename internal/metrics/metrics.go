// Package metrics exposes Prometheus metrics for survey submissions and notifications.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 제출 결과 라벨
const (
	ResultAccepted    = "accepted"
	ResultRejected    = "rejected"
	ResultPersistFail = "persist_failed"
	ResultRateLimited = "rate_limited"
)

// SurveyMetrics 설문 처리 지표. nil 이어도 안전하게 호출 가능.
type SurveyMetrics struct {
	SubmissionsTotal     *prometheus.CounterVec   // result
	NotificationsTotal   *prometheus.CounterVec   // channel, outcome
	NotificationDuration *prometheus.HistogramVec // channel
	ExportsTotal         *prometheus.CounterVec   // format
	ActiveRecipients     prometheus.Gauge
	LiveFeedSubscribers  prometheus.Gauge

	registry *prometheus.Registry
}

// New registers every collector on the given registry.
func New(registry *prometheus.Registry) (*SurveyMetrics, error) {
	m := &SurveyMetrics{
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_submissions_total",
				Help: "Survey submissions by result",
			},
			[]string{"result"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_notifications_total",
				Help: "Notification attempts by channel and outcome",
			},
			[]string{"channel", "outcome"}, // channel: email, push, digest
		),
		NotificationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "survey_notification_duration_seconds",
				Help:    "Time spent delivering notifications",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"channel"},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_exports_total",
				Help: "Survey exports by format",
			},
			[]string{"format"},
		),
		ActiveRecipients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "survey_active_recipients",
			Help: "Active recipients seen at the last notification",
		}),
		LiveFeedSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "survey_live_feed_subscribers",
			Help: "Connected admin live feed clients",
		}),
		registry: registry,
	}

	for _, c := range []prometheus.Collector{
		m.SubmissionsTotal,
		m.NotificationsTotal,
		m.NotificationDuration,
		m.ExportsTotal,
		m.ActiveRecipients,
		m.LiveFeedSubscribers,
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register survey metrics: %w", err)
		}
	}
	return m, nil
}

// NewDefault creates a private registry with Go runtime and process collectors.
func NewDefault() (*SurveyMetrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(registry)
}

func (m *SurveyMetrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *SurveyMetrics) RecordSubmission(result string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(result).Inc()
}

func (m *SurveyMetrics) RecordNotification(channel, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(channel, outcome).Inc()
	m.NotificationDuration.WithLabelValues(channel).Observe(elapsed.Seconds())
}

func (m *SurveyMetrics) RecordExport(format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.WithLabelValues(format).Inc()
}

func (m *SurveyMetrics) SetActiveRecipients(n int) {
	if m == nil {
		return
	}
	m.ActiveRecipients.Set(float64(n))
}

func (m *SurveyMetrics) SetLiveFeedSubscribers(n int) {
	if m == nil {
		return
	}
	m.LiveFeedSubscribers.Set(float64(n))
}
