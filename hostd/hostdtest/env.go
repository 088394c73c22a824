package hostdtest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [hostd.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [hostd.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BH_SERVICE_NAME: "test"
//   - BH_OTEL_EXPORTER: "none"
//   - BH_ENV: "development"
//   - BH_HEALTH_PATH: "/health"
//   - BH_METRICS_PATH: "/metrics"
//   - BH_ERROR_STATUS_CODES: "500-599"
//   - BH_SHUTDOWN_TIMEOUT: "5s"
//
// Use the returned [Env] to override individual values:
//
//	hostdtest.SetBaseEnv(t, 18085).Handlers("/api:api").Gzip()
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BH_PORT", strconv.Itoa(port))
	t.Setenv("BH_SERVICE_NAME", "test")
	t.Setenv("BH_OTEL_EXPORTER", "none")
	t.Setenv("BH_ENV", "development")
	t.Setenv("BH_HEALTH_PATH", "/health")
	t.Setenv("BH_METRICS_PATH", "/metrics")
	t.Setenv("BH_ERROR_STATUS_CODES", "500-599")
	t.Setenv("BH_SHUTDOWN_TIMEOUT", "5s")
	return &Env{t: t}
}

// ServiceName overrides BH_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BH_SERVICE_NAME", name)
	return e
}

// AppEnv overrides BH_ENV.
func (e *Env) AppEnv(env string) *Env {
	e.t.Helper()
	e.t.Setenv("BH_ENV", env)
	return e
}

// PoweredBy sets BH_POWERED_BY.
func (e *Env) PoweredBy(v string) *Env {
	e.t.Helper()
	e.t.Setenv("BH_POWERED_BY", v)
	return e
}

// Handlers sets BH_HANDLERS.
func (e *Env) Handlers(v string) *Env {
	e.t.Helper()
	e.t.Setenv("BH_HANDLERS", v)
	return e
}

// HealthPath overrides BH_HEALTH_PATH.
func (e *Env) HealthPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BH_HEALTH_PATH", path)
	return e
}

// ErrorStatusCodes overrides BH_ERROR_STATUS_CODES.
func (e *Env) ErrorStatusCodes(expr string) *Env {
	e.t.Helper()
	e.t.Setenv("BH_ERROR_STATUS_CODES", expr)
	return e
}

// Gzip enables BH_GZIP.
func (e *Env) Gzip() *Env {
	e.t.Helper()
	e.t.Setenv("BH_GZIP", "true")
	return e
}
