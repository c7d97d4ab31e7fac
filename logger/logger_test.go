package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv, err := ParseLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lv)
		})
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level")
}

func TestSlogLogger_JSONOutput(t *testing.T) {
	t.Setenv(EnvMode, "production")

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, InfoLevel, false)

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.With("component", "ec").Info("command issued", "code", "board")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "command issued", rec["msg"])
	assert.Equal(t, "ec", rec["component"])
	assert.Equal(t, "board", rec["code"])
	assert.Contains(t, rec, "ts")
}

func TestSlogLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogWriter(&buf, ErrorLevel, false)
	assert.Equal(t, ErrorLevel, l.Level())

	l.Warn("dropped")
	assert.Zero(t, buf.Len())

	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.Level())
	l.Debug("kept")
	assert.Contains(t, buf.String(), "kept")
}
