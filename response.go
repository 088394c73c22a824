package bhost

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Response is the bridge's view of the response side of a native request. Writes are passed through the host's
// output filter chain as they happen; the end-of-stream marker is emitted by [Response.End].
type Response struct {
	ctx     *RequestContext
	app     *Application
	req     *IncomingMessage
	headers *HeaderTable

	statusCode  int
	headersSent bool
	ended       bool
	finish      []func(*Response)
}

// App returns the application serving the response. Nil after the request finished.
func (r *Response) App() *Application { return r.app }

// Request returns the incoming message this responds to. Nil after the request finished.
func (r *Response) Request() *IncomingMessage { return r.req }

// Header returns the response headers.
func (r *Response) Header() *HeaderTable { return r.headers }

// HeadersSent reports whether the head was committed.
func (r *Response) HeadersSent() bool { return r.headersSent }

// Ended reports whether [Response.End] was called.
func (r *Response) Ended() bool { return r.ended }

// StatusCode returns the recorded status and whether one was recorded.
func (r *Response) StatusCode() (int, bool) {
	return r.statusCode, r.statusCode != 0
}

// SetStatusCode records the status and writes it through to the native request.
func (r *Response) SetStatusCode(code int) error {
	native, err := r.ctx.Native()
	if err != nil {
		return err
	}

	r.statusCode = code
	native.SetStatus(code)
	return nil
}

// WriteHead records the status and merges headers into the response headers.
func (r *Response) WriteHead(code int, headers http.Header) error {
	if err := r.SetStatusCode(code); err != nil {
		return err
	}

	for name, vals := range headers {
		for i, v := range vals {
			set := r.headers.Add
			if i == 0 {
				set = r.headers.Set
			}

			if err := set(name, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// OnFinish registers fn to run once after the response ended, whether or not the final flush succeeded.
func (r *Response) OnFinish(fn func(*Response)) {
	r.finish = append(r.finish, fn)
}

func (r *Response) emitFinish() {
	for len(r.finish) > 0 {
		listeners := r.finish
		r.finish = nil

		for _, fn := range listeners {
			fn(r)
		}
	}
}

// poweredBy returns the value of the identification header, or the empty string when none should be sent.
func (r *Response) poweredBy() string {
	if r.app == nil || r.app.settings.DisablePoweredBy {
		return ""
	}

	switch v := r.app.settings.PoweredBy; strings.ToLower(v) {
	case "", "yes", "true", "1":
		return r.app.productIdentifier
	default:
		return v
	}
}

func (r *Response) commitHead() error {
	if prod := r.poweredBy(); prod != "" {
		_, exists, err := r.headers.Lookup("X-Powered-By")
		if err != nil {
			return err
		}

		if !exists {
			if err := r.headers.Set("X-Powered-By", prod); err != nil {
				return err
			}
		}
	}

	r.headersSent = true
	return nil
}

// WriteChunks passes chunks through the host's output filters in one pass. The first call defaults the status to
// 200 and commits the head. Empty chunks are skipped.
func (r *Response) WriteChunks(chunks ...[]byte) error {
	if r.ended {
		return errors.Wrap(ErrAlreadyEnded, "write after end")
	}

	if _, ok := r.StatusCode(); !ok {
		if err := r.SetStatusCode(http.StatusOK); err != nil {
			return err
		}
	}

	if !r.headersSent {
		if err := r.commitHead(); err != nil {
			return err
		}
	}

	chunks = lo.Filter(chunks, func(c []byte, _ int) bool { return len(c) > 0 })
	if len(chunks) == 0 {
		return nil
	}

	native, err := r.ctx.Native()
	if err != nil {
		return err
	}

	bb := NewBrigade()
	for _, chunk := range chunks {
		if err := native.Fwrite(bb, chunk); err != nil {
			return WithKind(errors.Wrap(err, "write chunk"), ErrWriteFailed)
		}
	}

	if err := native.PassBrigade(bb); err != nil {
		return WithKind(errors.Wrap(err, "pass brigade"), ErrWriteFailed)
	}

	return nil
}

// Write implements io.Writer.
func (r *Response) Write(p []byte) (int, error) {
	if err := r.WriteChunks(p); err != nil {
		return 0, err
	}

	return len(p), nil
}

// End commits the head when needed and passes the end-of-stream marker to the host. Finish listeners run after
// the pass, in registration order, even when it failed. Ending twice returns [ErrAlreadyEnded].
func (r *Response) End() error {
	native, err := r.ctx.Native()
	if err != nil {
		return err
	}

	if r.ended {
		return ErrAlreadyEnded
	}

	if !r.headersSent {
		if err := r.commitHead(); err != nil {
			return err
		}
	}

	r.ended = true

	bb := NewBrigade()
	bb.AppendEOS()
	perr := native.PassBrigade(bb)

	r.emitFinish()

	if perr != nil {
		return WithKind(errors.Wrap(perr, "pass end of stream"), ErrWriteFailed)
	}

	return nil
}

func (r *Response) result() Result {
	if code, ok := r.StatusCode(); ok {
		return Result(code)
	}

	return OK
}

func (r *Response) String() string {
	var s strings.Builder
	s.WriteString("<Response")
	if r.ctx.Gone() {
		s.WriteString("[gone]")
	}
	if code, ok := r.StatusCode(); ok {
		fmt.Fprintf(&s, ": %d", code)
	}
	s.WriteString(">")

	return s.String()
}
