package bhost_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/advdv/bhost"
	"github.com/advdv/bhost/bhosttest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// tracer builds applications that record when they are tried.
type tracer struct{ tried []string }

func (tr *tracer) app(name string, claim bool, opts ...bhost.Option) *bhost.Application {
	return bhost.NewApplication(name, entry(func(_ context.Context, _ *bhost.IncomingMessage, res *bhost.Response) error {
		tr.tried = append(tr.tried, name)
		if !claim {
			return bhost.ErrDeclined
		}

		if _, err := res.Write([]byte(name)); err != nil {
			return err
		}

		return res.End()
	}), opts...)
}

func TestDispatchOrder(t *testing.T) {
	for _, tt := range []struct {
		name     string
		mount    []string
		claims   map[string]bool
		expTried []string
		expOut   string
	}{
		{"first claims", []string{"A", "B", "C"}, map[string]bool{"A": true, "B": true, "C": true}, []string{"A"}, "A"},
		{"second claims", []string{"A", "B", "C"}, map[string]bool{"B": true, "C": true}, []string{"A", "B"}, "B"},
		{"reordered", []string{"C", "B", "A"}, map[string]bool{"B": true, "C": true}, []string{"C"}, "C"},
		{"reordered second", []string{"A", "C", "B"}, map[string]bool{"B": true}, []string{"A", "C", "B"}, "B"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tr := &tracer{}
			reg := bhost.NewRegistry()
			for _, name := range tt.mount {
				reg.Mount(tr.app(name, tt.claims[name]))
			}
			reg.Freeze()

			req := bhosttest.NewRequest(http.MethodGet, "/")
			require.Equal(t, bhost.Result(http.StatusOK), reg.Dispatch(req))
			require.NoError(t, req.Finish())
			require.Equal(t, tt.expTried, tr.tried)
			require.Equal(t, tt.expOut, req.Output())
		})
	}
}

func TestDispatchAllDecline(t *testing.T) {
	tr := &tracer{}
	reg := bhost.NewRegistry()
	reg.Mount(tr.app("A", false))
	reg.Mount(tr.app("B", false))

	req := bhosttest.NewRequest(http.MethodGet, "/")
	require.Equal(t, bhost.Declined, reg.Dispatch(req))
	require.Equal(t, []string{"A", "B"}, tr.tried)
	require.Empty(t, req.Passed)
}

func TestDispatchHandlerNameFiltering(t *testing.T) {
	for _, tt := range []struct {
		active string
		exp    bhost.Result
	}{
		{"x-handler", http.StatusOK},
		{"X-Handler", http.StatusOK},
		{"y-handler", bhost.Declined},
		{"", bhost.Declined},
	} {
		tr := &tracer{}
		reg := bhost.NewRegistry()
		reg.Mount(tr.app("x", true, bhost.WithHandlerName("x-handler")))

		req := bhosttest.NewRequest(http.MethodGet, "/")
		req.HandlerName = tt.active

		require.Equal(t, tt.exp, reg.Dispatch(req), tt.active)
		if tt.exp == bhost.Declined {
			require.Empty(t, tr.tried, "entry point must not run for %q", tt.active)
		}
	}
}

func TestDispatchOrderBeatsSpecificity(t *testing.T) {
	tr := &tracer{}
	reg := bhost.NewRegistry()
	reg.Mount(tr.app("app1", true))
	reg.Mount(tr.app("app2", true, bhost.WithHandlerName("special")))
	reg.Freeze()

	req := bhosttest.NewRequest(http.MethodGet, "/")
	req.HandlerName = "special"

	require.Equal(t, bhost.Result(http.StatusOK), reg.Dispatch(req))
	require.Equal(t, []string{"app1"}, tr.tried)
	require.Equal(t, "app1", req.Output())
}

func TestDispatchMountPrefix(t *testing.T) {
	tr := &tracer{}
	reg := bhost.NewRegistry()
	reg.Mount(tr.app("api", true, bhost.WithMount("/api")))
	reg.Mount(tr.app("fallback", true))

	for target, exp := range map[string]string{
		"/api/users": "api",
		"/apis":      "fallback",
		"/":          "fallback",
	} {
		req := bhosttest.NewRequest(http.MethodGet, target)
		reg.Dispatch(req)
		require.Equal(t, exp, req.Output(), target)
	}
}

func TestDispatchErrorDoesNotFallThrough(t *testing.T) {
	tr := &tracer{}
	reg := bhost.NewRegistry()
	reg.Mount(bhost.NewApplication("broken", entry(func(context.Context, *bhost.IncomingMessage, *bhost.Response) error {
		return errors.New("broken")
	})))
	reg.Mount(tr.app("B", true))

	req := bhosttest.NewRequest(http.MethodGet, "/")
	require.Equal(t, bhost.Result(http.StatusInternalServerError), reg.Dispatch(req))
	require.Empty(t, tr.tried)
}

func TestRegistryPhases(t *testing.T) {
	reg := bhost.NewRegistry()
	app := bhost.NewApplication("", entry(writeString("x")))
	require.Equal(t, "UnnamedModule", app.Name())

	reg.Mount(app)
	reg.Mount(app) // no de-duplication
	require.Equal(t, 2, reg.Len())
	require.False(t, reg.Frozen())

	reg.Freeze()
	require.True(t, reg.Frozen())
	require.PanicsWithValue(t, "bhost: cannot call Mount() after configuration froze", func() {
		reg.Mount(app)
	})

	apps := reg.Apps()
	apps[0] = nil
	require.NotNil(t, reg.Apps()[0])

	reg.Clear()
	require.Equal(t, 0, reg.Len())
	require.False(t, reg.Frozen())
	reg.Mount(bhost.NewApplication("again", entry(writeString("x"))))
}
