package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestProductionWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "backend.log")
	logger, err := New(Config{Level: "info", OutputPaths: []string{out}})
	require.NoError(t, err)

	logger.Command("req_1", "list_notes").Info("listed", zap.Int("count", 3))
	logger.Debug("dropped below level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "listed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "req_1", entry["request_id"])
	assert.Equal(t, "list_notes", entry["command"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestConstructorsNeverNil(t *testing.T) {
	assert.NotNil(t, NewDefault().Logger)
	assert.NotNil(t, NewDevelopment().Logger)
	assert.NotNil(t, NewNop().Logger)
}

func TestFailureLevelFollowsKind(t *testing.T) {
	tests := []struct {
		err  error
		want zapcore.Level
	}{
		{apperr.New(apperr.NotFound, "Note does not exist"), zapcore.DebugLevel},
		{apperr.New(apperr.InvalidInput, "Invalid filename format"), zapcore.DebugLevel},
		{apperr.New(apperr.PermissionDenied, "Failed to delete file"), zapcore.WarnLevel},
		{apperr.New(apperr.Unavailable, "Save dialog is not available"), zapcore.WarnLevel},
		{apperr.New(apperr.IoFailure, "Failed to write note"), zapcore.ErrorLevel},
		{os.ErrClosed, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			Failure(zap.New(core), "op failed", tt.err, Op("delete"), Filename("1-a.md"))

			entries := recorded.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, "delete", fields["op"])
			assert.Equal(t, "1-a.md", fields["filename"])
			assert.Equal(t, string(apperr.KindOf(tt.err)), fields["kind"])
		})
	}
}

func TestCommandOmitsEmptyRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	Wrap(zap.New(core)).Command("", "ping").Info("pong")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "ping", fields["command"])
	assert.NotContains(t, fields, "request_id")
}

func TestWrapNil(t *testing.T) {
	assert.NotNil(t, Wrap(nil).Logger)
}
