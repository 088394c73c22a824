package bhost

import (
	"slices"
)

// Registry is the ordered list of mounted applications. Mount order is dispatch priority. It is written while the
// host configures, frozen when configuration completes, and read-only while requests are served.
type Registry struct {
	apps   []*Application
	frozen bool
}

// NewRegistry inits an empty registry in its write phase.
func NewRegistry() *Registry {
	return &Registry{}
}

// Mount appends app. There is no de-duplication.
func (r *Registry) Mount(app *Application) {
	r.ensureNotFrozen()
	r.apps = append(r.apps, app)
}

// Freeze ends the write phase. Mounted applications freeze with it.
func (r *Registry) Freeze() {
	r.frozen = true
	for _, app := range r.apps {
		app.freeze()
	}
}

// Frozen reports whether the registry is in its read-only phase.
func (r *Registry) Frozen() bool { return r.frozen }

// Apps returns the mounted applications in dispatch order.
func (r *Registry) Apps() []*Application { return slices.Clone(r.apps) }

// Len returns the number of mounted applications.
func (r *Registry) Len() int { return len(r.apps) }

// Clear drops all applications and returns the registry to its write phase.
func (r *Registry) Clear() {
	r.apps = nil
	r.frozen = false
}

// Dispatch offers the native request to every application in mount order. The first result that is not
// [Declined] wins; when every application declines so does Dispatch.
func (r *Registry) Dispatch(native Request) Result {
	for _, app := range r.apps {
		if rc := app.Serve(native); rc != Declined {
			return rc
		}
	}

	return Declined
}

func (r *Registry) ensureNotFrozen() {
	if r.frozen {
		panic("bhost: cannot call Mount() after configuration froze")
	}
}
