// Package hostdtest provides test helpers for hostd daemons.
//
// It constructs the identical DI graph as [hostd.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	hostdtest.SetBaseEnv(t, 18081)
//	app := hostdtest.New[TestEnv](t, configure)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package hostdtest

import (
	"testing"

	"github.com/advdv/bhost/hostd"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing hostd daemons.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [hostd.NewApp].
func New[E hostd.Environment](t testing.TB, configure any, opts ...hostd.Option) *App {
	return &App{App: fxtest.New(t, hostd.FxOptions[E](configure, opts...)...)}
}
