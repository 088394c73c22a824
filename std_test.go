package bhost_test

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/advdv/bhost"
	"github.com/advdv/bhost/bhosttest"
	"github.com/stretchr/testify/require"
)

func stdMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Item", r.PathValue("id"))
		fmt.Fprintf(w, "item:%s,q:%s,host:%s", r.PathValue("id"), r.URL.Query().Get("q"), r.Host)
	})
	mux.HandleFunc("POST /items", func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"len":%d,"ct":%q}`, len(b), r.Header.Get("Content-Type"))
	})

	return mux
}

func TestFromStdGet(t *testing.T) {
	app := bhost.NewApplication("std", bhost.FromStd(stdMux()), bhost.WithMount("/api"))

	req := bhosttest.NewRequest(http.MethodGet, "/api/items/42?q=foo")
	req.In = bhosttest.NewTable("Host", "example.com")

	require.Equal(t, bhost.Result(http.StatusOK), serve(t, app, req))
	require.Equal(t, "item:42,q:foo,host:example.com", req.Output())
	require.Equal(t, 1, req.NumEOS())

	v, _ := req.Out.Get("X-Item")
	require.Equal(t, "42", v)

	ct, _ := req.ContentType()
	require.Equal(t, "text/plain; charset=utf-8", ct)
}

func TestFromStdPostBody(t *testing.T) {
	app := bhost.NewApplication("std", bhost.FromStd(stdMux()), bhost.WithMount("/api"))

	req := bhosttest.NewRequest(http.MethodPost, "/api/items").WithBody(`{"name":`, `"foo"}`)
	req.In = bhosttest.NewTable("Content-Type", "application/json", "Content-Length", "14")

	require.Equal(t, bhost.Result(http.StatusCreated), serve(t, app, req))
	require.Equal(t, `{"len":14,"ct":"application/json"}`, req.Output())
	require.Equal(t, http.StatusCreated, req.Status())
}

func TestFromStdNotFound(t *testing.T) {
	app := bhost.NewApplication("std", bhost.FromStd(stdMux()))

	req := bhosttest.NewRequest(http.MethodGet, "/nothing/here")
	require.Equal(t, bhost.Result(http.StatusNotFound), serve(t, app, req))
	require.Equal(t, "404 page not found\n", req.Output())
}

func TestFromStdEmptyHandler(t *testing.T) {
	app := bhost.NewApplication("std", bhost.FromStd(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})))

	req := bhosttest.NewRequest(http.MethodGet, "/")
	require.Equal(t, bhost.Result(http.StatusOK), serve(t, app, req))
	require.Empty(t, req.Output())
	require.Equal(t, 1, req.NumEOS())
}

func TestFromStdBadTarget(t *testing.T) {
	app := bhost.NewApplication("std", bhost.FromStd(stdMux()))

	req := bhosttest.NewRequest(http.MethodGet, "no-slash")
	require.Equal(t, bhost.Result(http.StatusBadRequest), serve(t, app, req))
	require.Equal(t, http.StatusBadRequest, req.Status())
}
