package hostd_test

import (
	"testing"
	"time"

	"github.com/advdv/bhost/hostd"
	"github.com/advdv/bhost/hostd/hostdtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestValidateErrorStatusCodes(t *testing.T) {
	t.Run("valid single codes", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("500,503", 500, 503)
		require.NoError(t, err)
	})

	t.Run("valid range covering all required", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("500-599", 500, 503)
		require.NoError(t, err)
	})

	t.Run("valid mixed format", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("500,502-505", 500, 503)
		require.NoError(t, err)
	})

	t.Run("missing 500", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("502-504", 500, 503)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing: [500]")
		assert.Contains(t, err.Error(), "recommended value: \"500-599\"")
	})

	t.Run("missing both", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("400-499", 500, 503)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing: [500 503]")
	})

	t.Run("empty string fails parsing", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("", 500, 503)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("invalid format fails parsing", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("not-a-number", 500, 503)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("no required codes always passes", func(t *testing.T) {
		require.NoError(t, hostd.ValidateErrorStatusCodes("404"))
	})

	t.Run("open-ended range", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("500-", 500, 503, 599)
		require.NoError(t, err)
	})

	t.Run("default configuration", func(t *testing.T) {
		err := hostd.ValidateErrorStatusCodes("500-599", hostd.DefaultRequiredErrorStatusCodes...)
		require.NoError(t, err)
	})
}

func TestDefaultRequiredErrorStatusCodes(t *testing.T) {
	assert.ElementsMatch(t, []int{500, 503}, hostd.DefaultRequiredErrorStatusCodes)
}

func TestParseEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BH_PORT", "18090")
		t.Setenv("BH_SERVICE_NAME", "svc")

		env, err := hostd.ParseEnv[hostd.BaseEnvironment]()()
		require.NoError(t, err)
		assert.Equal(t, 18090, env.Port)
		assert.Equal(t, "svc", env.ServiceName)
		assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
		assert.Equal(t, "stdout", env.OtelExporter)
		assert.Equal(t, "development", env.Env)
		assert.Equal(t, "/health", env.HealthPath)
		assert.Equal(t, "/metrics", env.MetricsPath)
		assert.Equal(t, "500-599", env.ErrorStatusCodes)
		assert.False(t, env.Gzip)
		assert.Equal(t, 10*time.Second, env.ShutdownTimeout)
		assert.Empty(t, env.Handlers)
	})

	t.Run("overrides", func(t *testing.T) {
		hostdtest.SetBaseEnv(t, 18091).
			AppEnv("production").
			Handlers("/api:api-handler,/static:files").
			Gzip()
		t.Setenv("BH_LOG_LEVEL", "DEBUG")

		env, err := hostd.ParseEnv[hostd.BaseEnvironment]()()
		require.NoError(t, err)
		assert.Equal(t, zapcore.DebugLevel, env.LogLevel)
		assert.Equal(t, "production", env.Env)
		assert.Equal(t, map[string]string{"/api": "api-handler", "/static": "files"}, env.Handlers)
		assert.True(t, env.Gzip)
		assert.Equal(t, 5*time.Second, env.ShutdownTimeout)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Setenv("BH_SERVICE_NAME", "svc")

		_, err := hostd.ParseEnv[hostd.BaseEnvironment]()()
		require.ErrorContains(t, err, "failed to parse environment")
		require.ErrorContains(t, err, "BH_PORT")
	})

	t.Run("error status codes not covering the defaults", func(t *testing.T) {
		hostdtest.SetBaseEnv(t, 18092).ErrorStatusCodes("500-502")

		_, err := hostd.ParseEnv[hostd.BaseEnvironment]()()
		require.ErrorContains(t, err, "invalid BH_ERROR_STATUS_CODES")
		require.ErrorContains(t, err, "missing: [503]")
	})
}
