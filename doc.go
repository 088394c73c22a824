// Package bhost bridges a native, pool-allocated HTTP host to an application framework.
//
// # Overview
//
// The host owns every request. It hands the bridge a native handle that is only valid while the host keeps the
// request's memory pool alive, and it owns the output filter chain that eventually writes bytes to the client.
// bhost wraps that handle in two views an application can work with, an [IncomingMessage] and a [Response], and
// installs itself into the host as a module with a single set of hooks no matter how many applications mount.
//
// A minimal example:
//
//	app := bhost.NewApplication("hello", bhost.EntryPointFunc(
//	    func(ctx context.Context, _ error, in *bhost.IncomingMessage, res *bhost.Response, _ bhost.NextFunc) error {
//	        if err := res.Header().Set("Content-Type", "text/plain"); err != nil {
//	            return err
//	        }
//	        if _, err := res.Write([]byte("hello")); err != nil {
//	            return err
//	        }
//	        return res.End()
//	    }), bhost.WithMount("/hello"))
//
//	if err := bhost.Mount(host, app); err != nil {
//	    log.Fatal(err) // the host refused the module, startup must be aborted
//	}
//
// # Lifecycle
//
// Mounting loads the application as a host module. The first module load installs the hooks through
// [Manager.RegisterHooks]; later loads find them installed and only log. The hooks are:
//
//   - a handler hook, running first, that dispatches requests over the [Registry]
//   - a post-config hook, running last, that freezes the registry and runs post-config callbacks
//   - a child-init hook that runs child-init callbacks in every worker
//   - a cleanup on the configuration pool that clears the registry so a graceful restart can register again
//
// Applications are offered every request in mount order. An application skips requests whose active handler does
// not match its handler name, or whose path is not below its mount prefix. The first application that does not
// decline wins.
//
// # Request Context
//
// Every dispatched request gets a [RequestContext]. It refers to the native handle weakly: when the host destroys
// the request pool, or the bridge finished serving, the context is gone and every operation that would touch the
// host fails with [ErrHandleGone] instead of using freed memory.
//
// # Headers
//
// [HeaderTable] is a case-insensitive view over a host header table. On the response side Content-Type and
// Content-Encoding live in dedicated native fields; the table redirects them there. Content-Language is not
// supported and reports [ErrUnsupportedHeader].
//
// # Body
//
// [BodyReader] pulls the request body chunk by chunk from the host. Requests with a method that never carries
// content (GET, HEAD, DELETE, OPTIONS and CONNECT) read as empty without asking the host anything. It implements
// io.Reader, and [BodyReader.ReadChunks] hands out chunks without an extra copy.
//
// # Response
//
// Writes go straight to the host's output filter chain, there is no buffering in the bridge. The first write
// commits the head and adds an X-Powered-By header unless disabled in the application [Settings]. [Response.End]
// passes the end-of-stream marker and then runs the finish listeners:
//
//	res.OnFinish(func(*bhost.Response) { log.Println("done") })
//	res.WriteChunks([]byte("a"), []byte("b"))
//	res.End()
//
// # Error Handling
//
// When an entry point returns an error, or panics, the bridge logs it to the host error log with the source
// location of the error. If nothing was sent yet the status is forced to the error's [Code], created with
// [NewError], or 500 for other errors. Returning [ErrDeclined] leaves the request to the next application.
//
// # Converting from the Standard Library
//
// Any http.Handler can serve an application through [FromStd]:
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /items/{id}", getItem)
//	app := bhost.NewApplication("items", bhost.FromStd(mux), bhost.WithMount("/api"))
//
// The handler sees prefix-relative URLs and reads the body straight from the host.
package bhost
