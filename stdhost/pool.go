package stdhost

import (
	"sync"

	"go.uber.org/multierr"
)

type cleanup struct {
	parent, child func() error
}

// pool implements bhost.Pool. There are no forked workers, so child cleanups never run.
type pool struct {
	mu        sync.Mutex
	cleanups  []cleanup
	destroyed bool
}

func newPool() *pool { return &pool{} }

func (p *pool) CleanupRegister(parent, child func() error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleanups = append(p.cleanups, cleanup{parent, child})
}

// destroy runs the parent cleanups, last registered first, and joins their errors.
func (p *pool) destroy() (err error) {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil
	}
	p.destroyed = true
	cleanups := p.cleanups
	p.cleanups = nil
	p.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		if fn := cleanups[i].parent; fn != nil {
			err = multierr.Append(err, fn())
		}
	}

	return err
}
