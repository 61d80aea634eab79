package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"trace", zerolog.TraceLevel, true},
		{" DEBUG ", zerolog.DebugLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogTimestamp, "false")

	var buf bytes.Buffer
	logger := New(ProfileTest, &buf, "error")
	logger.Warn().Msg("hidden")
	logger.Error().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "app=rowcsv")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogNoColor, "true")

	var buf bytes.Buffer
	logger := New(ProfileRuntime, &buf, "")
	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
