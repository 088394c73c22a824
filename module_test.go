package bhost_test

import (
	"net/http"
	"testing"

	"github.com/advdv/bhost"
	"github.com/advdv/bhost/bhosttest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestRegisterHooksIdempotent(t *testing.T) {
	logs := bhost.NewTestLogger(t)
	mgr := bhost.NewManager(logs)
	host := bhosttest.NewHost()

	tr := &tracer{}
	require.NoError(t, mgr.Mount(host, tr.app("A", true)))
	require.NoError(t, mgr.Mount(host, tr.app("B", true)))
	require.NoError(t, mgr.Mount(host, tr.app("C", true)))

	require.Equal(t, []string{"A", "B", "C"}, host.Modules)
	require.Equal(t, 1, host.NumHandlerHooks())
	require.Equal(t, 1, host.NumPostConfigHooks())
	require.Equal(t, 1, host.NumChildInitHooks())
	require.Equal(t, 1, host.ConfigPool().NumCleanups())
	require.Equal(t, int64(1), logs.NumHooksInstalled)
	require.Equal(t, int64(2), logs.NumHooksAlreadyInstalled)

	// a direct second call is a no-op as well
	mgr.RegisterHooks(host, host.ConfigPool())
	require.Equal(t, 1, host.NumHandlerHooks())

	require.NoError(t, host.PostConfig())

	req := bhosttest.NewRequest(http.MethodGet, "/")
	require.Equal(t, bhost.Result(http.StatusOK), host.Handle(req))
	require.NoError(t, req.Finish())
	require.Equal(t, []string{"A"}, tr.tried) // no duplicate dispatch
}

func TestMountRefusedByHost(t *testing.T) {
	mgr := bhost.NewManager(bhost.NewTestLogger(t))
	host := bhosttest.NewHost()
	host.Refuse = errors.New("module limit reached")

	err := mgr.Mount(host, bhost.NewApplication("refused", entry(writeString("x"))))
	require.ErrorIs(t, err, bhost.ErrRegistrationFailed)
	require.Contains(t, err.Error(), "module limit reached")
	require.Equal(t, 0, mgr.Registry().Len())
	require.False(t, mgr.Registered())
}

func TestLifecycleCallbacks(t *testing.T) {
	logs := bhost.NewTestLogger(t)
	mgr := bhost.NewManager(logs)
	host := bhosttest.NewHost()

	var calls []string
	record := func(phase string) func(*bhost.Application) {
		return func(app *bhost.Application) { calls = append(calls, phase+":"+app.Name()) }
	}

	require.NoError(t, mgr.Mount(host, bhost.NewApplication("A", entry(writeString("a")),
		bhost.WithPostConfig(record("post")), bhost.WithChildInit(record("child")))))
	require.NoError(t, mgr.Mount(host, bhost.NewApplication("B", entry(writeString("b")))))
	require.NoError(t, mgr.Mount(host, bhost.NewApplication("C", entry(writeString("c")),
		bhost.WithPostConfig(record("post")))))

	require.NoError(t, host.PostConfig())
	require.True(t, mgr.Registry().Frozen())
	require.Equal(t, []string{"post:A", "post:C"}, calls)

	host.ChildInit()
	host.ChildInit()
	require.Equal(t, []string{"post:A", "post:C", "child:A", "child:A"}, calls)
	require.Equal(t, int64(4), logs.NumLifecycleCallback)
}

func TestRestartReinstallsHooks(t *testing.T) {
	logs := bhost.NewTestLogger(t)
	mgr := bhost.NewManager(logs)
	host := bhosttest.NewHost()

	tr := &tracer{}
	require.NoError(t, mgr.Mount(host, tr.app("old", true)))
	require.NoError(t, host.PostConfig())

	require.NoError(t, host.Restart())
	require.False(t, mgr.Registered())
	require.Equal(t, 0, mgr.Registry().Len())
	require.False(t, mgr.Registry().Frozen())
	require.Equal(t, int64(1), logs.NumRegistryCleared)

	require.NoError(t, mgr.Mount(host, tr.app("new", true)))
	require.NoError(t, host.PostConfig())
	require.Equal(t, int64(2), logs.NumHooksInstalled)

	req := bhosttest.NewRequest(http.MethodGet, "/")
	host.Handle(req)
	require.Equal(t, "new", req.Output())
	require.Equal(t, []string{"new"}, tr.tried)
}

func TestChildCleanupIsNoop(t *testing.T) {
	mgr := bhost.NewManager(bhost.NewTestLogger(t))
	host := bhosttest.NewHost()
	require.NoError(t, mgr.Mount(host, bhost.NewApplication("A", entry(writeString("a")))))

	require.NoError(t, host.ConfigPool().DestroyChild())
	require.True(t, mgr.Registered())
	require.Equal(t, 1, mgr.Registry().Len())
}
