package bhosttest

import (
	"go.uber.org/multierr"
)

type cleanup struct {
	parent, child func() error
}

// Pool is an in-memory [bhost.Pool].
type Pool struct {
	cleanups  []cleanup
	destroyed bool
}

// NewPool inits a live pool.
func NewPool() *Pool {
	return &Pool{}
}

// CleanupRegister implements bhost.Pool.
func (p *Pool) CleanupRegister(parent, child func() error) {
	p.cleanups = append(p.cleanups, cleanup{parent, child})
}

// NumCleanups returns the number of registered cleanups.
func (p *Pool) NumCleanups() int { return len(p.cleanups) }

// Destroyed reports whether Destroy ran.
func (p *Pool) Destroyed() bool { return p.destroyed }

// Destroy runs the parent cleanups, last registered first.
func (p *Pool) Destroy() (err error) {
	if p.destroyed {
		return nil
	}
	p.destroyed = true

	for i := len(p.cleanups) - 1; i >= 0; i-- {
		if fn := p.cleanups[i].parent; fn != nil {
			err = multierr.Append(err, fn())
		}
	}
	p.cleanups = nil

	return err
}

// DestroyChild runs the child cleanups, the way a forked worker tears down its copy of the pool.
func (p *Pool) DestroyChild() (err error) {
	for i := len(p.cleanups) - 1; i >= 0; i-- {
		if fn := p.cleanups[i].child; fn != nil {
			err = multierr.Append(err, fn())
		}
	}

	return err
}
