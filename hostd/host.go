package hostd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/advdv/bhost"
	"github.com/advdv/bhost/stdhost"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewHost creates the net/http host from the environment. Options from [WithHostOptions] are applied last.
func NewHost(env Environment, logs *zap.Logger, reg *prometheus.Registry, cfg ServerConfig) (*stdhost.Server, error) {
	matches, err := parseErrorStatusCodes(env.errorStatusCodes())
	if err != nil {
		return nil, err
	}

	opts := []stdhost.Option{
		stdhost.WithRegisterer(reg),
		stdhost.WithErrorResults(matches),
	}
	for prefix, name := range env.handlers() {
		opts = append(opts, stdhost.WithHandlerName(prefix, name))
	}
	if env.gzip() {
		opts = append(opts, stdhost.WithOutputFilter(stdhost.GzipFilter(gzip.DefaultCompression)))
	}

	return stdhost.New(logs.Named("stdhost"), append(opts, cfg.HostOptions...)...), nil
}

// NewManager creates the bridge manager that installs the applications into the host.
func NewManager(logs *zap.Logger) *bhost.Manager {
	return bhost.NewManager(newZapBhostLogger(logs))
}

// lifecycle drives the host through its configuration phases. The applications declared while the fx graph was
// built are mounted on every (re)start.
type lifecycle struct {
	srv  *stdhost.Server
	mgr  *bhost.Manager
	logs *zap.Logger

	mu   sync.Mutex
	apps []*bhost.Application
}

func newLifecycle(srv *stdhost.Server, mgr *bhost.Manager, logs *zap.Logger) *lifecycle {
	return &lifecycle{srv: srv, mgr: mgr, logs: logs}
}

func (l *lifecycle) declare(app *bhost.Application) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.apps = append(l.apps, app)
}

// boot mounts every declared application and runs post-config and child-init.
func (l *lifecycle) boot() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, app := range l.apps {
		if err := l.mgr.Mount(l.srv, app); err != nil {
			return err
		}
	}

	if err := l.srv.PostConfig(); err != nil {
		return errors.Wrap(err, "post-config")
	}

	return errors.Wrap(l.srv.ChildInit(), "child-init")
}

// restart returns the host to its configuration phase and boots it again.
func (l *lifecycle) restart() error {
	if err := l.srv.Restart(); err != nil {
		return errors.Wrap(err, "restart host")
	}

	return l.boot()
}

// watch restarts the host whenever sig receives a signal, until done is closed.
func (l *lifecycle) watch(sig <-chan os.Signal, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case s := <-sig:
			l.logs.Info("restarting host", zap.Stringer("signal", s))
			if err := l.restart(); err != nil {
				l.logs.Error("failed to restart host", zap.Error(err))
			}
		}
	}
}

// startHostHook boots the host before the server listens and restarts it on SIGHUP.
func startHostHook(lc fx.Lifecycle, l *lifecycle) {
	sig := make(chan os.Signal, 1)
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := l.boot(); err != nil {
				return errors.Wrap(err, "boot host")
			}

			signal.Notify(sig, syscall.SIGHUP)
			go l.watch(sig, done)

			return nil
		},
		OnStop: func(context.Context) error {
			signal.Stop(sig)
			close(done)

			return l.srv.Close()
		},
	})
}
