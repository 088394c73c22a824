package bhost

import (
	"strings"
)

// DefaultProductIdentifier is sent in the X-Powered-By header unless an application overrides it.
const DefaultProductIdentifier = "bhost"

const defaultName = "UnnamedModule"

// Settings are application level settings the bridge consults while serving.
type Settings struct {
	// Env names the environment the application runs in, e.g. "development".
	Env string
	// PoweredBy overrides the X-Powered-By value. "yes", "true" and "1" select the product identifier.
	PoweredBy string
	// DisablePoweredBy suppresses the X-Powered-By header.
	DisablePoweredBy bool
}

// Application is one mounted unit. It is configured before the host freezes its configuration and must not be
// modified afterwards.
type Application struct {
	name              string
	handler           string
	mount             string
	postConfig        func(*Application)
	childInit         func(*Application)
	settings          Settings
	productIdentifier string

	entry       EntryPoint
	middlewares []Middleware
	wrapped     EntryPoint
	frozen      bool
}

// Option configures an [Application].
type Option func(*Application)

// WithHandlerName restricts the application to requests whose active handler matches name, case-insensitively.
func WithHandlerName(name string) Option {
	return func(a *Application) { a.handler = strings.ToLower(name) }
}

// WithMount restricts the application to requests below prefix. The application sees prefix-relative URLs.
func WithMount(prefix string) Option {
	return func(a *Application) { a.mount = cleanPrefix(prefix) }
}

// WithPostConfig sets the callback that runs once the host finished its configuration.
func WithPostConfig(fn func(*Application)) Option {
	return func(a *Application) { a.postConfig = fn }
}

// WithChildInit sets the callback that runs when a worker starts.
func WithChildInit(fn func(*Application)) Option {
	return func(a *Application) { a.childInit = fn }
}

// WithSettings sets the application settings.
func WithSettings(s Settings) Option {
	return func(a *Application) { a.settings = s }
}

// WithProductIdentifier sets the product identifier used for the X-Powered-By header.
func WithProductIdentifier(id string) Option {
	return func(a *Application) { a.productIdentifier = id }
}

// WithMiddleware adds middleware around the entry point.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *Application) { a.middlewares = append(a.middlewares, mw...) }
}

// NewApplication creates an application that serves requests through entry.
func NewApplication(name string, entry EntryPoint, opts ...Option) *Application {
	if name == "" {
		name = defaultName
	}

	a := &Application{
		name:              name,
		entry:             entry,
		productIdentifier: DefaultProductIdentifier,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Application) Name() string              { return a.name }
func (a *Application) HandlerName() string       { return a.handler }
func (a *Application) MountPrefix() string       { return a.mount }
func (a *Application) Settings() Settings        { return a.settings }
func (a *Application) ProductIdentifier() string { return a.productIdentifier }

// Use allows providing of middleware.
func (a *Application) Use(mw ...Middleware) {
	a.ensureNotFrozen()
	a.middlewares = append(a.middlewares, mw...)
}

func (a *Application) ensureNotFrozen() {
	if a.frozen {
		panic("bhost: cannot modify application " + a.name + " after configuration froze")
	}
}

func (a *Application) freeze() {
	if a.frozen {
		return
	}

	a.wrapped = Wrap(a.entry, a.middlewares...)
	a.frozen = true
}

func (a *Application) entryPoint() EntryPoint {
	if a.wrapped != nil {
		return a.wrapped
	}

	return Wrap(a.entry, a.middlewares...)
}

// claims reports whether the application wants to look at the native request at all.
func (a *Application) claims(native Request) bool {
	if a.handler != "" && !strings.EqualFold(a.handler, native.Handler()) {
		return false
	}

	return matchesPrefix(a.mount, native.URI())
}

// Serve runs the application against a native request and returns the handler result.
func (a *Application) Serve(native Request) Result {
	if !a.claims(native) {
		return Declined
	}

	return newRequestContext(a, native).serve(a.entryPoint())
}

func (a *Application) String() string { return "<Application: " + a.name + ">" }
