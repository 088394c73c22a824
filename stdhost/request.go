package stdhost

import (
	"context"
	"io"
	"net/http"
	"slices"

	"github.com/advdv/bhost"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// request implements bhost.Request for one net/http request.
type request struct {
	srv  *Server
	id   string
	hr   *http.Request
	pool *pool
	logs *zap.Logger

	method  string
	mnum    bhost.Method
	handler string

	in, out         table
	contentType     *string
	contentEncoding *string
	status          int

	pending error
	core    *coreSink
	sink    Sink
}

func (r *request) Context() context.Context { return r.hr.Context() }
func (r *request) Pool() bhost.Pool         { return r.pool }

func (r *request) Method() string             { return r.method }
func (r *request) MethodNumber() bhost.Method { return r.mnum }
func (r *request) SetMethod(name string, num bhost.Method) {
	r.method, r.mnum = name, num
}

func (r *request) URI() string { return r.hr.URL.Path }

func (r *request) UnparsedURI() string {
	if r.hr.RequestURI != "" {
		return r.hr.RequestURI
	}

	return r.hr.URL.RequestURI()
}

func (r *request) Protocol() string { return r.hr.Proto }
func (r *request) Handler() string  { return r.handler }

func (r *request) HeadersIn() bhost.Table  { return r.in }
func (r *request) HeadersOut() bhost.Table { return r.out }

func (r *request) ContentType() (string, bool) {
	if r.contentType == nil {
		return "", false
	}

	return *r.contentType, true
}

func (r *request) SetContentType(v string) { r.contentType = &v }

func (r *request) ContentEncoding() (string, bool) {
	if r.contentEncoding == nil {
		return "", false
	}

	return *r.contentEncoding, true
}

func (r *request) SetContentEncoding(v string) { r.contentEncoding = &v }

func (r *request) Status() int        { return r.status }
func (r *request) SetStatus(code int) { r.status = code }

func (r *request) chunked() bool {
	return slices.Contains(r.hr.TransferEncoding, "chunked")
}

// SetupClientBlock checks the body against the policy. net/http dechunks on its own.
func (r *request) SetupClientBlock(policy bhost.ReadPolicy) error {
	switch policy {
	case bhost.ReadPolicyNoBody:
		if r.ShouldClientBlock() {
			return bhost.NewError(bhost.CodeRequestEntityTooLarge, errors.New("request body not allowed"))
		}
	case bhost.ReadPolicyChunkedError:
		if r.chunked() {
			return bhost.NewError(bhost.CodeLengthRequired, errors.New("chunked request body not allowed"))
		}
	}

	return nil
}

func (r *request) ShouldClientBlock() bool {
	return r.hr.Body != nil && r.hr.Body != http.NoBody && r.hr.ContentLength != 0
}

func (r *request) GetClientBlock(buf []byte) (int, error) {
	if r.pending != nil {
		return 0, r.pending
	}
	if len(buf) == 0 || r.hr.Body == nil {
		return 0, nil
	}

	for {
		n, err := r.hr.Body.Read(buf)
		switch {
		case errors.Is(err, io.EOF):
			return n, nil
		case err != nil && n > 0:
			r.pending = err
			return n, nil
		case err != nil:
			return 0, errors.Wrap(err, "read request body")
		case n > 0:
			return n, nil
		}
	}
}

func (r *request) Fwrite(bb *bhost.Brigade, p []byte) error {
	bb.Append(p)
	if bb.Len() < r.srv.opts.writeBufferSize {
		return nil
	}

	return r.PassBrigade(bb)
}

func (r *request) PassBrigade(bb *bhost.Brigade) error {
	defer bb.Cleanup()
	return r.sink.Pass(bb)
}

var zapLevels = map[bhost.Level]zapcore.Level{
	bhost.LevelError: zapcore.ErrorLevel,
	bhost.LevelWarn:  zapcore.WarnLevel,
	bhost.LevelInfo:  zapcore.InfoLevel,
	bhost.LevelDebug: zapcore.DebugLevel,
}

func (r *request) LogError(file string, line int, level bhost.Level, status int, msg string) {
	lvl, ok := zapLevels[level]
	if !ok {
		lvl = zapcore.ErrorLevel
	}

	if ce := r.logs.Check(lvl, msg); ce != nil {
		ce.Write(
			zap.String("file", file),
			zap.Int("line", line),
			zap.Int("status", status))
	}
}

var _ bhost.Request = &request{}
