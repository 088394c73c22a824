package stdhost

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/advdv/bhost"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrWrongPhase is returned when a host operation is not allowed in the current phase.
var ErrWrongPhase = errors.New("stdhost: operation not allowed in this phase")

// Phase is the lifecycle phase of a [Server].
type Phase int

const (
	PhaseConfiguring Phase = iota
	PhaseConfigured
	PhaseServing
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseConfiguring:
		return "configuring"
	case PhaseConfigured:
		return "configured"
	case PhaseServing:
		return "serving"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Server is a [bhost.Host] that serves net/http requests. Modules are added while it configures; requests are only
// served after [Server.PostConfig] and [Server.ChildInit] ran.
type Server struct {
	opts    options
	logs    *zap.Logger
	metrics *metrics

	// trans serializes phase transitions. Hooks run under trans only, so they can inspect the server.
	trans sync.Mutex

	mu         sync.RWMutex
	phase      Phase
	pconf      *pool
	pchild     *pool
	modules    []string
	handlers   hooks[bhost.HandlerHook]
	postConfig hooks[bhost.PostConfigHook]
	childInit  hooks[bhost.ChildInitHook]
}

// New inits a server in its configuration phase.
func New(logs *zap.Logger, opts ...Option) *Server {
	o := options{writeBufferSize: DefaultWriteBufferSize}
	for _, opt := range opts {
		opt(&o)
	}

	return &Server{
		opts:    o,
		logs:    logs,
		metrics: newMetrics(o.registerer),
		pconf:   newPool(),
	}
}

// Phase returns the current phase.
func (s *Server) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Modules returns the names of the loaded modules in load order.
func (s *Server) Modules() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.modules...)
}

// AddModule implements bhost.Host. The host lock is held while register runs, so it may only install hooks.
func (s *Server) AddModule(name string, register func(bhost.Pool)) error {
	s.trans.Lock()
	defer s.trans.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseConfiguring {
		return errors.Wrapf(ErrWrongPhase, "add module %q while %s", name, s.phase)
	}

	s.modules = append(s.modules, name)
	register(s.pconf)

	s.logs.Debug("module added", zap.String("module", name))
	return nil
}

// HookHandler implements bhost.Host. Hooks are only installed from within AddModule.
func (s *Server) HookHandler(fn bhost.HandlerHook, order bhost.HookOrder) {
	s.handlers = s.handlers.insert(fn, order)
}

// HookPostConfig implements bhost.Host.
func (s *Server) HookPostConfig(fn bhost.PostConfigHook, order bhost.HookOrder) {
	s.postConfig = s.postConfig.insert(fn, order)
}

// HookChildInit implements bhost.Host.
func (s *Server) HookChildInit(fn bhost.ChildInitHook, order bhost.HookOrder) {
	s.childInit = s.childInit.insert(fn, order)
}

// PostConfig ends the configuration phase and runs the post-config hooks. The first failing hook aborts. Hooks may
// call [Server.Phase] and [Server.Modules] but must not add modules or change the phase.
func (s *Server) PostConfig() error {
	s.trans.Lock()
	defer s.trans.Unlock()

	s.mu.RLock()
	phase, pconf, hks := s.phase, s.pconf, s.postConfig
	s.mu.RUnlock()

	if phase != PhaseConfiguring {
		return errors.Wrapf(ErrWrongPhase, "post-config while %s", phase)
	}

	for _, h := range hks {
		if err := h.fn(pconf); err != nil {
			return errors.Wrap(err, "post-config hook")
		}
	}

	s.mu.Lock()
	s.phase = PhaseConfigured
	s.mu.Unlock()

	return nil
}

// ChildInit runs the child-init hooks with a fresh worker pool and starts serving. The same restrictions as for
// post-config hooks apply.
func (s *Server) ChildInit() error {
	s.trans.Lock()
	defer s.trans.Unlock()

	s.mu.RLock()
	phase, hks := s.phase, s.childInit
	s.mu.RUnlock()

	if phase != PhaseConfigured {
		return errors.Wrapf(ErrWrongPhase, "child-init while %s", phase)
	}

	pchild := newPool()
	for _, h := range hks {
		h.fn(pchild)
	}

	s.mu.Lock()
	s.pchild = pchild
	s.phase = PhaseServing
	s.mu.Unlock()

	return nil
}

func (s *Server) destroyPools() error {
	var err error
	if s.pchild != nil {
		err = multierr.Append(err, s.pchild.destroy())
		s.pchild = nil
	}

	return multierr.Append(err, s.pconf.destroy())
}

// Restart waits for in-flight requests, destroys the pools, drops all modules and hooks and returns to the
// configuration phase.
func (s *Server) Restart() error {
	s.trans.Lock()
	defer s.trans.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return errors.Wrap(ErrWrongPhase, "restart while closed")
	}

	err := s.destroyPools()

	s.pconf = newPool()
	s.modules = nil
	s.handlers, s.postConfig, s.childInit = nil, nil, nil
	s.phase = PhaseConfiguring

	s.logs.Info("host restarted")
	return errors.Wrap(err, "destroy pools")
}

// Close waits for in-flight requests and destroys the pools.
func (s *Server) Close() error {
	s.trans.Lock()
	defer s.trans.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return nil
	}

	s.phase = PhaseClosed
	return errors.Wrap(s.destroyPools(), "destroy pools")
}

// handlerFor returns the active handler name for path.
func (s *Server) handlerFor(path string) string {
	rules := lo.Filter(s.opts.handlers, func(h handlerRule, _ int) bool {
		return strings.HasPrefix(path, h.prefix)
	})
	if len(rules) == 0 {
		return ""
	}

	return lo.MaxBy(rules, func(a, b handlerRule) bool { return len(a.prefix) > len(b.prefix) }).name
}

func (s *Server) newRequest(w http.ResponseWriter, hr *http.Request) *request {
	id := uuid.NewString()

	in := hr.Header.Clone()
	if in == nil {
		in = http.Header{}
	}
	if hr.Host != "" {
		in.Set("Host", hr.Host)
	}

	r := &request{
		srv:     s,
		id:      id,
		hr:      hr,
		pool:    newPool(),
		logs:    s.logs.With(zap.String("request_id", id)),
		method:  hr.Method,
		mnum:    bhost.MethodNumberOf(hr.Method),
		handler: s.handlerFor(hr.URL.Path),
		in:      table{in},
		out:     table{http.Header{}},
	}

	rc := http.NewResponseController(w)
	_ = rc.EnableFullDuplex() // bodies are read while the response streams

	r.core = &coreSink{r: r, w: w, rc: rc}
	r.sink = chain(r, s.opts.filters, r.core)

	return r
}

func (s *Server) handle(r *request) bhost.Result {
	for _, h := range s.handlers {
		if rc := h.fn(r); rc != bhost.Declined {
			return rc
		}
	}

	return bhost.Declined
}

// errorDocument sends a short plain text body for code.
func (s *Server) errorDocument(r *request, code int) error {
	r.SetStatus(code)
	r.SetContentType("text/plain; charset=utf-8")
	r.out.Unset("Content-Length")

	bb := bhost.NewBrigade()
	bb.Append(fmt.Appendf(nil, "%d %s\n", code, http.StatusText(code)))
	bb.AppendEOS()

	return r.PassBrigade(bb)
}

// finish completes the response the handler left open.
func (s *Server) finish(r *request, rc bhost.Result) error {
	switch {
	case r.core.committed && r.core.eos:
		return nil
	case !r.core.committed && rc == bhost.Declined:
		return s.errorDocument(r, http.StatusNotFound)
	case !r.core.committed && rc >= http.StatusBadRequest:
		return s.errorDocument(r, int(rc))
	}

	bb := bhost.NewBrigade()
	bb.AppendEOS()

	return r.PassBrigade(bb)
}

func (s *Server) logResult(r *request, rc bhost.Result, took time.Duration) {
	fields := []zap.Field{
		zap.String("request_id", r.id),
		zap.String("method", r.hr.Method),
		zap.String("uri", r.UnparsedURI()),
		zap.String("handler", r.handler),
		zap.String("result", resultLabel(rc)),
		zap.Int64("bytes", r.core.written),
		zap.Duration("took", took),
	}

	if s.opts.errorResult != nil && rc > bhost.OK && s.opts.errorResult(int(rc)) {
		s.logs.Error("request failed", fields...)
		return
	}

	s.logs.Debug("request served", fields...)
}

// ServeHTTP implements http.Handler. Restart and Close wait for it to return.
func (s *Server) ServeHTTP(w http.ResponseWriter, hr *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.phase != PhaseServing {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	r := s.newRequest(w, hr)

	rc := s.handle(r)
	if err := s.finish(r, rc); err != nil {
		s.logs.Warn("failed to finish response", zap.String("request_id", r.id), zap.Error(err))
	}

	if err := r.pool.destroy(); err != nil {
		s.logs.Error("failed to destroy request pool", zap.String("request_id", r.id), zap.Error(err))
	}

	took := time.Since(start)
	s.metrics.observe(rc, took)
	s.logResult(r, rc, took)
}

var _ bhost.Host = &Server{}
