// Package example implements example middleware in an outside package.
package example

import (
	"context"

	"github.com/advdv/bhost"
	"go.uber.org/zap"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a request scoped logger to the context.
func Middleware(logs *zap.Logger) bhost.Middleware {
	return func(n bhost.EntryPoint) bhost.EntryPoint {
		return bhost.EntryPointFunc(func(
			c context.Context, err error, in *bhost.IncomingMessage, res *bhost.Response, next bhost.NextFunc,
		) error {
			method, merr := in.Method()
			if merr != nil {
				return merr
			}

			c = context.WithValue(c, ctxKey("zap"), logs.With(zap.String("method", method)))

			return n.ServeBridge(c, err, in, res, next)
		})
	}
}

// Log returns the logger added by [Middleware], or nil.
func Log(ctx context.Context) *zap.Logger {
	v, _ := ctx.Value(ctxKey("zap")).(*zap.Logger)

	return v
}
