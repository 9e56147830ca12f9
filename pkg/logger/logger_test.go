package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestLogger_JSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() {
		Initialize(Config{Level: "info", Format: "console"})
	})

	Info("survey submitted", map[string]interface{}{"survey_id": 7})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "survey submitted", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 7, entry["survey_id"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_ErrorAndContext(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() {
		Initialize(Config{Level: "info", Format: "console"})
	})

	l := WithContext(map[string]interface{}{"request_id": "abc"})
	l.Error("mail delivery failed", errors.New("dial tcp: timeout"))
	l.Debug("suppressed below info")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, "dial tcp: timeout", entry["error"])
}
