package bhost

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

// RequestContext ties one native request to the incoming message and response derived from it. It never owns the
// native request: once the host destroys the request pool, or the bridge finished serving, the context is gone and
// every accessor fails with [ErrHandleGone].
type RequestContext struct {
	native Request
	in     *IncomingMessage
	res    *Response
}

func newRequestContext(app *Application, native Request) *RequestContext {
	c := &RequestContext{native: native}

	c.in = &IncomingMessage{ctx: c, app: app, prefix: app.mount}
	c.in.headers = newHeaderTable(c, Request.HeadersIn, false)
	c.in.body = &BodyReader{ctx: c}

	c.res = &Response{ctx: c, app: app}
	c.res.headers = newHeaderTable(c, Request.HeadersOut, true)

	c.in.res, c.res.req = c.res, c.in

	native.Pool().CleanupRegister(func() error {
		c.release()
		return nil
	}, nil)

	return c
}

// Native returns the native request, or [ErrHandleGone] when it is no longer valid.
func (c *RequestContext) Native() (Request, error) {
	if c.native == nil {
		return nil, ErrHandleGone
	}

	return c.native, nil
}

// Gone reports whether the native request was released.
func (c *RequestContext) Gone() bool { return c.native == nil }

// IncomingMessage returns the request view.
func (c *RequestContext) IncomingMessage() *IncomingMessage { return c.in }

// Response returns the response view.
func (c *RequestContext) Response() *Response { return c.res }

func (c *RequestContext) release() { c.native = nil }

// serve invokes the entry point and turns its outcome into the handler result for the host.
func (c *RequestContext) serve(ep EntryPoint) Result {
	defer c.finalize()

	err := c.invoke(ep)
	switch {
	case err == nil:
		return c.res.result()
	case errors.Is(err, ErrDeclined):
		if !c.res.headersSent {
			return Declined
		}
		return c.res.result()
	}

	status := statusOf(err)
	if native, nerr := c.Native(); nerr == nil {
		file, line := sourceOf(err)
		native.LogError(file, line, LevelError, status, "bhost: entry point failed: "+err.Error())
	}

	if !c.res.headersSent {
		_ = c.res.SetStatusCode(status)
	}

	return Result(status)
}

func (c *RequestContext) invoke(ep EntryPoint) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Newf("panic: %v", v)
		}
	}()

	return ep.ServeBridge(c.native.Context(), nil, c.in, c.res, noopNext)
}

// finalize breaks the references between the views and the application and releases the native request.
func (c *RequestContext) finalize() {
	c.in.res, c.res.req = nil, nil
	c.in.app, c.res.app = nil, nil
	c.release()
}

// sourceOf returns where err was created, falling back to the bridge itself.
func sourceOf(err error) (string, int) {
	if file, line, _, ok := errors.GetOneLineSource(err); ok {
		return file, line
	}

	_, file, line, _ := runtime.Caller(1)
	return file, line
}
