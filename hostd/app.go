package hostd

import (
	"context"
	"net/http"

	"github.com/advdv/bhost/stdhost"
	"github.com/cockroachdb/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App is a host daemon. It wraps the fx app that owns the dependency graph and its lifecycle.
type App struct {
	fx *fx.App
}

type options struct {
	server ServerConfig
	fx     []fx.Option
}

// Option configures the App.
type Option func(*options)

// WithFx adds fx options, e.g. providers for the types the configure function asks for.
func WithFx(opts ...fx.Option) Option {
	return func(o *options) { o.fx = append(o.fx, opts...) }
}

// WithHealthHandler replaces the health endpoint handler, which by default reports whether the host serves.
func WithHealthHandler(h func(http.ResponseWriter, *http.Request)) Option {
	return func(o *options) { o.server.HealthHandler = h }
}

// WithHostOptions adds options for the net/http host, e.g. extra output filters.
func WithHostOptions(opts ...stdhost.Option) Option {
	return func(o *options) { o.server.HostOptions = append(o.server.HostOptions, opts...) }
}

type runtimeIn[E Environment] struct {
	fx.In

	Env       E
	Lifecycle *lifecycle
	Logger    *zap.Logger
	Transport http.RoundTripper
}

// NewApp creates a host daemon.
//
// The configure function is invoked with dependency injection: it can ask for anything the daemon or [WithFx]
// provides and at least takes a *Runtime[E] to declare the applications the host serves.
//
// Example:
//
//	hostd.NewApp[Env](func(rt *hostd.Runtime[Env], h *Handlers) {
//	    rt.Mount(rt.NewApplication("api", bhost.FromStd(h.Mux()), bhost.WithMount("/api")))
//	},
//	    hostd.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](configure any, opts ...Option) *App {
	return &App{fx: fx.New(FxOptions[E](configure, opts...)...)}
}

// FxOptions returns the daemon's dependency graph, for test helpers that run it with fxtest.
func FxOptions[E Environment](configure any, opts ...Option) []fx.Option {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return append([]fx.Option{
		fx.NopLogger,
		fx.Supply(o.server),
		fx.Provide(
			ParseEnv[E](),
			func(e E) Environment { return e },
			func(e E) (*zap.Logger, error) { return NewLogger(e) },
			NewTracerProvider,
			NewPropagator,
			NewHTTPTransport,
			NewRegistry,
			NewHost,
			NewManager,
			newLifecycle,
			NewServer,
			func(in runtimeIn[E]) *Runtime[E] {
				return newRuntime(in.Env, in.Lifecycle, RuntimeParams{Logger: in.Logger, Transport: in.Transport})
			},
		),
		fx.Invoke(startHostHook, startServerHook, configure),
	}, o.fx...)
}

// Err returns the error that prevented the dependency graph from being built, if any.
func (a *App) Err() error { return a.fx.Err() }

// Run starts the daemon and blocks until it receives SIGINT or SIGTERM.
func (a *App) Run() {
	a.fx.Run()
}

// Start starts the daemon and stops it once ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.fx.Start(ctx); err != nil {
		return errors.Wrap(err, "start")
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.fx.StopTimeout())
	defer cancel()

	return errors.Wrap(a.fx.Stop(stopCtx), "stop")
}
