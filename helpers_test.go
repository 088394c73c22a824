package bhost_test

import (
	"context"
	"testing"

	"github.com/advdv/bhost"
	"github.com/advdv/bhost/bhosttest"
	"github.com/stretchr/testify/require"
)

type serveFunc func(ctx context.Context, in *bhost.IncomingMessage, res *bhost.Response) error

func entry(fn serveFunc) bhost.EntryPoint {
	return bhost.EntryPointFunc(func(
		ctx context.Context, _ error, in *bhost.IncomingMessage, res *bhost.Response, _ bhost.NextFunc,
	) error {
		return fn(ctx, in, res)
	})
}

// serve runs app against req and destroys the request pool afterwards.
func serve(t *testing.T, app *bhost.Application, req *bhosttest.Request) bhost.Result {
	t.Helper()

	rc := app.Serve(req)
	require.NoError(t, req.Finish())

	return rc
}

// writeString is the typical entry point body: write s and end the response.
func writeString(s string) serveFunc {
	return func(_ context.Context, _ *bhost.IncomingMessage, res *bhost.Response) error {
		if _, err := res.Write([]byte(s)); err != nil {
			return err
		}

		return res.End()
	}
}
