package hostd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
}

func (e testEnv) port() int               { return 8080 }
func (e testEnv) serviceName() string     { return "test" }
func (e testEnv) logLevel() zapcore.Level { return e.level }
func (e testEnv) otelExporter() string {
	if e.otelExp == "" {
		return "stdout"
	}
	return e.otelExp
}
func (e testEnv) appEnv() string                 { return "development" }
func (e testEnv) poweredBy() string              { return "" }
func (e testEnv) handlers() map[string]string    { return nil }
func (e testEnv) healthPath() string             { return "/health" }
func (e testEnv) metricsPath() string            { return "/metrics" }
func (e testEnv) errorStatusCodes() string       { return "500-599" }
func (e testEnv) gzip() bool                     { return false }
func (e testEnv) shutdownTimeout() time.Duration { return time.Second }

func TestNewLogger(t *testing.T) {
	for _, level := range []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
	} {
		t.Run(level.String(), func(t *testing.T) {
			logger, err := NewLogger(testEnv{level: level})
			require.NoError(t, err)
			require.NotNil(t, logger)
			require.True(t, logger.Core().Enabled(level))
			require.False(t, logger.Core().Enabled(level-1))
		})
	}
}

func TestZapBhostLogger(t *testing.T) {
	zc, obs := observer.New(zapcore.DebugLevel)
	logs := newZapBhostLogger(zap.New(zc))

	logs.LogHooksInstalled()
	logs.LogHooksAlreadyInstalled()
	logs.LogLifecycleCallback("post-config", "api")
	logs.LogRegistryCleared(3)

	entries := obs.AllUntimed()
	require.Len(t, entries, 4)

	for _, e := range entries {
		require.Equal(t, "bhost.hostd", e.LoggerName)
	}

	require.Equal(t, "hooks installed", entries[0].Message)
	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
	require.Equal(t, map[string]any{"phase": "post-config", "app": "api"}, entries[2].ContextMap())
	require.Equal(t, map[string]any{"num_apps": int64(3)}, entries[3].ContextMap())
}
