package bhost

import (
	"log"

	"github.com/cockroachdb/errors"
)

// Manager installs the bridge into a host. However many applications mount, the host receives one set of hooks:
// a handler, a post-config hook, a child-init hook and a pool cleanup pair.
type Manager struct {
	logs       Logger
	registry   *Registry
	registered bool
}

// NewManager inits a manager with an empty registry.
func NewManager(logs Logger) *Manager {
	return &Manager{logs: logs, registry: NewRegistry()}
}

// DefaultManager is the process wide manager used by [Mount].
var DefaultManager = NewManager(NewStdLogger(log.Default()))

// Mount mounts app through the [DefaultManager].
func Mount(h Host, app *Application) error {
	return DefaultManager.Mount(h, app)
}

// Registry returns the manager's application registry.
func (m *Manager) Registry() *Registry { return m.registry }

// Registered reports whether hooks are currently installed.
func (m *Manager) Registered() bool { return m.registered }

// Mount loads app into the host as a module and appends it to the registry. A host refusal is returned tagged with
// [ErrRegistrationFailed]; it is fatal and startup must be aborted.
func (m *Manager) Mount(h Host, app *Application) error {
	if err := h.AddModule(app.Name(), func(pconf Pool) {
		m.RegisterHooks(h, pconf)
	}); err != nil {
		return WithKind(errors.Wrapf(err, "add module %q", app.Name()), ErrRegistrationFailed)
	}

	m.registry.Mount(app)
	return nil
}

// RegisterHooks installs the hooks. Calls after the first are no-ops until the pool cleanup ran.
func (m *Manager) RegisterHooks(h Host, pool Pool) {
	if m.registered {
		m.logs.LogHooksAlreadyInstalled()
		return
	}
	m.registered = true

	h.HookHandler(m.Handle, HookFirst)
	h.HookPostConfig(m.PostConfig, HookLast)
	h.HookChildInit(m.ChildInit, HookMiddle)
	pool.CleanupRegister(m.PoolCleanup, m.ChildCleanup)

	m.logs.LogHooksInstalled()
}

// Handle is the handler hook.
func (m *Manager) Handle(r Request) Result {
	return m.registry.Dispatch(r)
}

// PostConfig is the post-config hook. It freezes the registry and runs the applications' post-config callbacks.
func (m *Manager) PostConfig(Pool) error {
	m.registry.Freeze()

	for _, app := range m.registry.apps {
		if app.postConfig == nil {
			continue
		}

		m.logs.LogLifecycleCallback("post-config", app.Name())
		app.postConfig(app)
	}

	return nil
}

// ChildInit is the child-init hook.
func (m *Manager) ChildInit(Pool) {
	for _, app := range m.registry.apps {
		if app.childInit == nil {
			continue
		}

		m.logs.LogLifecycleCallback("child-init", app.Name())
		app.childInit(app)
	}
}

// PoolCleanup runs when the host destroys the pool the hooks were registered with. It clears the registry and
// allows hooks to be installed again, e.g. after a graceful restart.
func (m *Manager) PoolCleanup() error {
	if !m.registered {
		return nil
	}
	m.registered = false

	n := m.registry.Len()
	m.registry.Clear()
	m.logs.LogRegistryCleared(n)

	return nil
}

// ChildCleanup is the worker side of the pool cleanup. There is nothing to tear down per worker.
func (m *Manager) ChildCleanup() error {
	return nil
}
