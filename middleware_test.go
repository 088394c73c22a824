package bhost_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/advdv/bhost"
	"github.com/advdv/bhost/bhosttest"
	"github.com/advdv/bhost/internal/example"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type ctxKey string

func TestWrapWithoutMiddleware(t *testing.T) {
	ep := entry(writeString("x"))
	require.Equal(t, fmt.Sprint(ep), fmt.Sprint(bhost.Wrap(ep))) // compare addrs
}

func TestWrapOrder(t *testing.T) {
	var res string

	inner := entry(func(ctx context.Context, _ *bhost.IncomingMessage, _ *bhost.Response) error {
		res += fmt.Sprintf("inner %v", ctx.Value(ctxKey("foo")))
		return errors.New("inner error")
	})

	mw := func(name string) bhost.Middleware {
		return func(n bhost.EntryPoint) bhost.EntryPoint {
			return bhost.EntryPointFunc(func(
				ctx context.Context, err error, in *bhost.IncomingMessage, res2 *bhost.Response, next bhost.NextFunc,
			) error {
				res += name + "("
				ctx = context.WithValue(ctx, ctxKey("foo"), name)
				err = n.ServeBridge(ctx, err, in, res2, next)
				res += ")" + name
				return errors.Wrap(err, name)
			})
		}
	}

	app := bhost.NewApplication("wrapped", inner, bhost.WithMiddleware(mw("1"), mw("2")))
	app.Use(mw("3"))

	req := bhosttest.NewRequest(http.MethodGet, "/")
	require.Equal(t, bhost.Result(http.StatusInternalServerError), serve(t, app, req))
	require.Equal(t, "1(2(3(inner 3)3)2)1", res)
	require.Contains(t, req.Logs[0].Msg, "1: 2: 3: inner error")
}

func TestUseAfterFreeze(t *testing.T) {
	host := bhosttest.NewHost()
	mgr := bhost.NewManager(bhost.NewTestLogger(t))

	app := bhost.NewApplication("frozen", entry(writeString("x")))
	require.NoError(t, mgr.Mount(host, app))
	require.NoError(t, host.PostConfig())

	require.Panics(t, func() {
		app.Use(func(n bhost.EntryPoint) bhost.EntryPoint { return n })
	})
}

func TestExampleMiddleware(t *testing.T) {
	zc, obs := observer.New(zap.DebugLevel)

	app := bhost.NewApplication("logged", entry(func(ctx context.Context, _ *bhost.IncomingMessage, res *bhost.Response) error {
		example.Log(ctx).Info("handling")
		return res.End()
	}), bhost.WithMiddleware(example.Middleware(zap.New(zc))))

	req := bhosttest.NewRequest(http.MethodPut, "/")
	require.Equal(t, bhost.OK, serve(t, app, req))

	entries := obs.FilterMessage("handling").All()
	require.Len(t, entries, 1)
	require.Equal(t, "PUT", entries[0].ContextMap()["method"])
}
