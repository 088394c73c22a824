package hostd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/advdv/bhost/stdhost"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler func(http.ResponseWriter, *http.Request)
	HostOptions   []stdhost.Option
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Host       *stdhost.Server
	Registry   *prometheus.Registry
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewRegistry creates the prometheus registry the host and the runtime collectors report to.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// NewServer creates the HTTP server. The health and metrics endpoints are served next to the host and are not
// traced; every other request is handed to the host.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	mux := http.NewServeMux()

	healthPath := params.Env.healthPath()
	if healthPath != "" {
		healthHandler := cfg.HealthHandler
		if healthHandler == nil {
			healthHandler = healthHandlerFor(params.Host)
		}
		mux.HandleFunc(healthPath, healthHandler)
	}

	metricsPath := params.Env.metricsPath()
	if metricsPath != "" {
		mux.Handle(metricsPath, promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	mux.Handle("/", params.Host)

	handler := withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(),
		healthPath, metricsPath)(mux)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// startServerHook binds the listener while the daemon starts, so an unavailable port fails the start, and serves
// in the background until the daemon stops.
func startServerHook(lc fx.Lifecycle, server *http.Server, env Environment, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", server.Addr)
			}

			logger.Info("listening", zap.Stringer("addr", ln.Addr()))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("failed to serve", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, env.shutdownTimeout())
			defer cancel()

			logger.Info("shutting down", zap.Duration("timeout", env.shutdownTimeout()))
			return server.Shutdown(ctx)
		},
	})
}

// healthHandlerFor reports 200 while the host serves requests and 503 otherwise.
func healthHandlerFor(host *stdhost.Server) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		if host.Phase() != stdhost.PhaseServing {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
