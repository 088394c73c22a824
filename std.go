package bhost

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
)

// StdRequest builds a standard library request from the incoming message. The URL is prefix-relative and the body
// streams from the native request.
func (m *IncomingMessage) StdRequest(ctx context.Context) (*http.Request, error) {
	native, err := m.ctx.Native()
	if err != nil {
		return nil, err
	}

	target := relativeTarget(m.prefix, native)
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, errors.Wrapf(err, "parse request target %q", target)
	}

	hdr, err := m.headers.All()
	if err != nil {
		return nil, err
	}

	proto := native.Protocol()
	major, minor, ok := http.ParseHTTPVersion(proto)
	if !ok {
		major, minor = 1, 1
	}

	contentLength := int64(-1)
	if cl, err := strconv.ParseInt(hdr.Get("Content-Length"), 10, 64); err == nil {
		contentLength = cl
	} else if !native.MethodNumber().HasContent() {
		contentLength = 0
	}

	req := &http.Request{
		Method:        native.Method(),
		URL:           u,
		Proto:         proto,
		ProtoMajor:    major,
		ProtoMinor:    minor,
		Header:        hdr,
		Body:          io.NopCloser(m.body),
		ContentLength: contentLength,
		Host:          hdr.Get("Host"),
		RequestURI:    target,
	}

	return req.WithContext(ctx), nil
}

// stdResponseWriter implements http.ResponseWriter on top of a [Response].
type stdResponseWriter struct {
	res         *Response
	header      http.Header
	wroteHeader bool
	err         error
}

func (w *stdResponseWriter) Header() http.Header { return w.header }

func (w *stdResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}

	w.wroteHeader = true
	w.err = w.res.WriteHead(code, w.header)
}

func (w *stdResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		if _, ok := w.header["Content-Type"]; !ok && len(p) > 0 {
			w.header.Set("Content-Type", http.DetectContentType(p))
		}

		w.WriteHeader(http.StatusOK)
	}

	if w.err != nil {
		return 0, w.err
	}

	n, err := w.res.Write(p)
	if err != nil {
		w.err = err
	}

	return n, err
}

// Flush implements http.Flusher. Every write is already passed to the host.
func (w *stdResponseWriter) Flush() {}

// FromStd converts a standard library [http.Handler] into an entry point, so any router can serve an
// application. The response is ended when the handler returns.
func FromStd(h http.Handler) EntryPoint {
	return EntryPointFunc(func(ctx context.Context, _ error, in *IncomingMessage, res *Response, _ NextFunc) error {
		req, err := in.StdRequest(ctx)
		if err != nil {
			return NewError(CodeBadRequest, err)
		}

		w := &stdResponseWriter{res: res, header: http.Header{}}
		h.ServeHTTP(w, req)

		if !w.wroteHeader {
			w.WriteHeader(http.StatusOK)
		}

		if w.err != nil {
			return w.err
		}

		return res.End()
	})
}
