package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{
			name: "json to stdout",
			cfg:  LogConfig{Level: "info", Format: "json", Output: "stdout"},
		},
		{
			name: "console to stderr",
			cfg:  LogConfig{Level: "debug", Format: "console", Output: "stderr"},
		},
		{
			name:    "invalid level",
			cfg:     LogConfig{Level: "loud", Format: "json", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	require.NotNil(t, logger)

	// Must not panic.
	logger.Debug("debug", String("k", "v"))
	logger.Info("info", Int("n", 1))
	logger.Warn("warn", Bool("b", true))
	logger.Error("error", Any("x", struct{}{}))
	assert.NoError(t, logger.Sync())
}

func TestLogger_With(t *testing.T) {
	logger := NopLogger()
	child := logger.With(String("component", "filter"))

	require.NotNil(t, child)
	assert.NotSame(t, logger, child)
}

func TestLogger_WithContext(t *testing.T) {
	logger := NopLogger()

	// Without a request ID, the same logger is returned.
	same := logger.WithContext(context.Background())
	assert.Same(t, logger, same)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	child := logger.WithContext(ctx)
	assert.NotSame(t, logger, child)
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	logger := NopLogger()
	SetGlobalLogger(logger)

	assert.Same(t, logger, GetGlobalLogger())
	assert.Same(t, logger, L())
}

func TestGetGlobalLogger_DefaultWhenUnset(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(nil)
	assert.NotNil(t, GetGlobalLogger())
}
