package main

import (
	"testing"
	"time"

	"github.com/ikkim/marketing-survey/config"
	"github.com/stretchr/testify/assert"
)

func TestSurveyServiceOptions(t *testing.T) {
	cfg := &config.Config{
		SMTP:         config.SMTPConfig{Timeout: 12 * time.Second},
		Notification: config.NotificationConfig{Async: true},
	}

	opts := surveyServiceOptions(cfg)

	assert.True(t, opts.AsyncNotify)
	assert.Equal(t, 12*time.Second, opts.NotifyTimeout)
	assert.Nil(t, opts.Archiver)
	assert.Nil(t, opts.Alerter)
}
