package bhosttest

import (
	"cmp"
	"slices"

	"github.com/advdv/bhost"
	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
)

type hook[F any] struct {
	fn    F
	order bhost.HookOrder
}

func insert[F any](hooks []hook[F], fn F, order bhost.HookOrder) []hook[F] {
	hooks = append(hooks, hook[F]{fn, order})
	slices.SortStableFunc(hooks, func(a, b hook[F]) int { return cmp.Compare(a.order, b.order) })

	return hooks
}

// Host is an in-memory [bhost.Host] that loads modules synchronously into its configuration pool.
type Host struct {
	// Refuse makes AddModule fail with this error.
	Refuse error
	// Modules lists the names of the loaded modules.
	Modules []string

	pconf      *Pool
	handlers   []hook[bhost.HandlerHook]
	postConfig []hook[bhost.PostConfigHook]
	childInit  []hook[bhost.ChildInitHook]
}

// NewHost inits a host in its configuration phase.
func NewHost() *Host {
	return &Host{pconf: NewPool()}
}

// ConfigPool returns the configuration pool.
func (h *Host) ConfigPool() *Pool { return h.pconf }

func (h *Host) AddModule(name string, register func(bhost.Pool)) error {
	if h.Refuse != nil {
		return h.Refuse
	}

	h.Modules = append(h.Modules, name)
	register(h.pconf)

	return nil
}

func (h *Host) HookHandler(fn bhost.HandlerHook, order bhost.HookOrder) {
	h.handlers = insert(h.handlers, fn, order)
}

func (h *Host) HookPostConfig(fn bhost.PostConfigHook, order bhost.HookOrder) {
	h.postConfig = insert(h.postConfig, fn, order)
}

func (h *Host) HookChildInit(fn bhost.ChildInitHook, order bhost.HookOrder) {
	h.childInit = insert(h.childInit, fn, order)
}

// NumHandlerHooks returns how many handler hooks are installed.
func (h *Host) NumHandlerHooks() int { return len(h.handlers) }

// NumPostConfigHooks returns how many post-config hooks are installed.
func (h *Host) NumPostConfigHooks() int { return len(h.postConfig) }

// NumChildInitHooks returns how many child-init hooks are installed.
func (h *Host) NumChildInitHooks() int { return len(h.childInit) }

// PostConfig runs the post-config hooks.
func (h *Host) PostConfig() (err error) {
	for _, hk := range h.postConfig {
		err = multierr.Append(err, hk.fn(h.pconf))
	}

	return err
}

// ChildInit runs the child-init hooks with a fresh worker pool.
func (h *Host) ChildInit() *Pool {
	p := NewPool()
	for _, hk := range h.childInit {
		hk.fn(p)
	}

	return p
}

// Handle offers r to the handler hooks until one does not decline.
func (h *Host) Handle(r bhost.Request) bhost.Result {
	for _, hk := range h.handlers {
		if rc := hk.fn(r); rc != bhost.Declined {
			return rc
		}
	}

	return bhost.Declined
}

// Restart destroys the configuration pool and drops all hooks, the way a graceful restart does. Modules must be
// added again afterwards.
func (h *Host) Restart() error {
	err := h.pconf.Destroy()

	h.pconf = NewPool()
	h.Modules = nil
	h.handlers, h.postConfig, h.childInit = nil, nil, nil

	return errors.Wrap(err, "destroy configuration pool")
}

var _ bhost.Host = &Host{}
