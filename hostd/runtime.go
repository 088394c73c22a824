package hostd

import (
	"net/http"

	"github.com/advdv/bhost"
	"github.com/advdv/bhost/stdhost"
	"github.com/carlmjohnson/requests"
	"go.uber.org/zap"
)

// Runtime provides access to app-scoped dependencies. The configure function passed to [NewApp] declares the
// applications through it.
//
// Example:
//
//	func configure(rt *hostd.Runtime[Env]) {
//	    rt.Mount(rt.NewApplication("api", bhost.FromStd(mux), bhost.WithMount("/api")))
//	}
type Runtime[E Environment] struct {
	env       E
	logs      *zap.Logger
	lifecycle *lifecycle
	transport http.RoundTripper
}

// RuntimeParams holds the dependencies for Runtime.
type RuntimeParams struct {
	Logger    *zap.Logger
	Transport http.RoundTripper
}

func newRuntime[E Environment](env E, l *lifecycle, params RuntimeParams) *Runtime[E] {
	return &Runtime[E]{
		env:       env,
		logs:      params.Logger,
		lifecycle: l,
		transport: params.Transport,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E { return r.env }

// Logger returns the daemon's logger.
func (r *Runtime[E]) Logger() *zap.Logger { return r.logs }

// Manager returns the bridge manager.
func (r *Runtime[E]) Manager() *bhost.Manager { return r.lifecycle.mgr }

// Host returns the net/http host.
func (r *Runtime[E]) Host() *stdhost.Server { return r.lifecycle.srv }

// NewApplication creates an application with settings taken from the environment and a request logger available
// through [Log]. Options given here override the environment.
func (r *Runtime[E]) NewApplication(name string, entry bhost.EntryPoint, opts ...bhost.Option) *bhost.Application {
	app := bhost.NewApplication(name, entry, append([]bhost.Option{
		bhost.WithSettings(bhost.Settings{
			Env:       r.env.appEnv(),
			PoweredBy: r.env.poweredBy(),
		}),
	}, opts...)...)

	app.Use(withRequestLogger(r.logs.With(zap.String("app", app.Name()))))
	return app
}

// Mount declares app. Applications are mounted into the host, in declaration order, when the daemon starts and
// again after every restart.
func (r *Runtime[E]) Mount(app *bhost.Application) {
	r.lifecycle.declare(app)
}

// Reload returns an entry point that restarts this daemon, see [bhost.Reload].
func (r *Runtime[E]) Reload(enabledIn ...string) bhost.EntryPoint {
	return bhost.Reload(bhost.SignalSelf, enabledIn...)
}

// HTTPClient returns a client whose requests continue the trace of the context they are made with.
func (r *Runtime[E]) HTTPClient() *http.Client {
	return &http.Client{Transport: r.transport}
}

// NewRequest returns a [requests.Builder] over the traced transport, for outbound calls from an entry point.
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return requests.New().Transport(r.transport)
}
