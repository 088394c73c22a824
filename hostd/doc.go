// Package hostd runs bhost applications as a standalone daemon on top of the net/http host in [stdhost].
//
// # Overview
//
// hostd handles the boilerplate around the host: environment parsing, structured logging, OpenTelemetry tracing,
// prometheus metrics, the configuration phases of the host and graceful restarts. A complete daemon is created in a
// single call:
//
//	hostd.NewApp[Env](func(rt *hostd.Runtime[Env], h *Handlers) {
//	    rt.Mount(rt.NewApplication("api", bhost.FromStd(h.Mux()), bhost.WithMount("/api")))
//	    rt.Mount(rt.NewApplication("reload", rt.Reload(), bhost.WithMount("/-/reload")))
//	},
//	    hostd.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    hostd.BaseEnvironment
//	    GreetingText string `env:"GREETING_TEXT,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable              | Required | Default     | Description                                         |
//	|-----------------------|----------|-------------|-----------------------------------------------------|
//	| BH_PORT               | Yes      | -           | Port the HTTP server listens on                     |
//	| BH_SERVICE_NAME       | Yes      | -           | Service name for logging and tracing                |
//	| BH_LOG_LEVEL          | No       | info        | Log level (debug, info, warn, error)                |
//	| BH_OTEL_EXPORTER      | No       | stdout      | Trace exporter: "stdout", "xrayudp" or "none"       |
//	| BH_ENV                | No       | development | Environment setting of every application            |
//	| BH_POWERED_BY         | No       | -           | X-Powered-By override of every application          |
//	| BH_HANDLERS           | No       | -           | Handler names by path prefix ("/api:api,/s:files")  |
//	| BH_HEALTH_PATH        | No       | /health     | Health endpoint, empty to disable                   |
//	| BH_METRICS_PATH       | No       | /metrics    | Prometheus endpoint, empty to disable               |
//	| BH_ERROR_STATUS_CODES | No       | 500-599     | Results that are logged as failed requests          |
//	| BH_GZIP               | No       | false       | Compress responses for clients that accept gzip     |
//	| BH_SHUTDOWN_TIMEOUT   | No       | 10s         | Time in-flight requests get on shutdown             |
//
// BH_ERROR_STATUS_CODES is an integer interval expression and must cover [DefaultRequiredErrorStatusCodes].
//
// # Lifecycle
//
// The configure function only declares applications. When the daemon starts, every declared application is mounted
// through the [bhost.Manager], after which the host runs its post-config and child-init phases and the server starts
// listening. A SIGHUP, e.g. sent by the entry point of [Runtime.Reload], returns the host to its configuration phase
// and mounts the applications again. Requests that arrive meanwhile are answered with 503.
//
// # Logging and Tracing
//
// Entry points of applications created with [Runtime.NewApplication] can use [Log] for a trace-correlated logger
// and [Span] for the current span. [Runtime.NewRequest] returns a request builder whose transport continues the
// trace.
package hostd
