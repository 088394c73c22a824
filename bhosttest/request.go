package bhosttest

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/advdv/bhost"
)

// LogEntry is one call to [Request.LogError].
type LogEntry struct {
	File   string
	Line   int
	Level  bhost.Level
	Status int
	Msg    string
}

// Request is an in-memory [bhost.Request]. Exported fields configure the fake before it is handed to the bridge,
// the counters record how the bridge used it.
type Request struct {
	Ctx         context.Context
	MethodName  string
	MethodNum   bhost.Method
	Target      string
	Proto       string
	HandlerName string

	In  *Table
	Out *Table

	// Body is handed out by GetClientBlock, one element per call. A chunk larger than the caller's buffer is split.
	Body        [][]byte
	ShouldBlock bool

	SetupErr  error
	ReadErr   error
	FwriteErr error
	PassErr   error

	SetupCalls  int
	ReadCalls   int
	FwriteCalls int
	PassCalls   int
	Passed      []bhost.Bucket
	Logs        []LogEntry

	status          int
	contentType     *string
	contentEncoding *string
	pool            *Pool
}

// NewRequest inits a request for method and target. Requests for methods that may carry content announce a body.
func NewRequest(method, target string) *Request {
	num := bhost.MethodNumberOf(method)

	return &Request{
		Ctx:         context.Background(),
		MethodName:  method,
		MethodNum:   num,
		Target:      target,
		Proto:       "HTTP/1.1",
		In:          NewTable(),
		Out:         NewTable(),
		ShouldBlock: num.HasContent(),
		pool:        NewPool(),
	}
}

// WithBody sets the body chunks.
func (r *Request) WithBody(chunks ...string) *Request {
	for _, c := range chunks {
		r.Body = append(r.Body, []byte(c))
	}

	return r
}

// Finish destroys the request pool, the way a host does after the handler returned.
func (r *Request) Finish() error { return r.pool.Destroy() }

func (r *Request) Context() context.Context { return r.Ctx }
func (r *Request) Pool() bhost.Pool         { return r.pool }

// RequestPool returns the concrete pool.
func (r *Request) RequestPool() *Pool { return r.pool }

func (r *Request) Method() string             { return r.MethodName }
func (r *Request) MethodNumber() bhost.Method { return r.MethodNum }
func (r *Request) SetMethod(name string, num bhost.Method) {
	r.MethodName, r.MethodNum = name, num
}

func (r *Request) URI() string {
	path, _, _ := strings.Cut(r.Target, "?")
	if p, err := url.PathUnescape(path); err == nil {
		return p
	}

	return path
}

func (r *Request) UnparsedURI() string { return r.Target }
func (r *Request) Protocol() string    { return r.Proto }
func (r *Request) Handler() string     { return r.HandlerName }

func (r *Request) HeadersIn() bhost.Table  { return r.In }
func (r *Request) HeadersOut() bhost.Table { return r.Out }

func (r *Request) ContentType() (string, bool) {
	if r.contentType == nil {
		return "", false
	}

	return *r.contentType, true
}

func (r *Request) SetContentType(v string) { r.contentType = &v }

func (r *Request) ContentEncoding() (string, bool) {
	if r.contentEncoding == nil {
		return "", false
	}

	return *r.contentEncoding, true
}

func (r *Request) SetContentEncoding(v string) { r.contentEncoding = &v }

func (r *Request) Status() int             { return r.status }
func (r *Request) SetStatus(code int)      { r.status = code }
func (r *Request) ShouldClientBlock() bool { return r.ShouldBlock }

func (r *Request) SetupClientBlock(bhost.ReadPolicy) error {
	r.SetupCalls++
	return r.SetupErr
}

func (r *Request) GetClientBlock(buf []byte) (int, error) {
	r.ReadCalls++
	if r.ReadErr != nil {
		return 0, r.ReadErr
	}

	if len(r.Body) == 0 {
		return 0, nil
	}

	n := copy(buf, r.Body[0])
	if n < len(r.Body[0]) {
		r.Body[0] = r.Body[0][n:]
	} else {
		r.Body = r.Body[1:]
	}

	return n, nil
}

func (r *Request) Fwrite(bb *bhost.Brigade, p []byte) error {
	r.FwriteCalls++
	if r.FwriteErr != nil {
		return r.FwriteErr
	}

	bb.Append(p)
	return nil
}

func (r *Request) PassBrigade(bb *bhost.Brigade) error {
	r.PassCalls++
	if r.PassErr != nil {
		return r.PassErr
	}

	r.Passed = append(r.Passed, bb.Buckets()...)
	bb.Cleanup()

	return nil
}

func (r *Request) LogError(file string, line int, level bhost.Level, status int, msg string) {
	r.Logs = append(r.Logs, LogEntry{file, line, level, status, msg})
}

// Output returns the concatenated data of all passed buckets.
func (r *Request) Output() string {
	var buf bytes.Buffer
	for _, b := range r.Passed {
		buf.Write(b.Data)
	}

	return buf.String()
}

// NumEOS returns how many end-of-stream markers were passed.
func (r *Request) NumEOS() (n int) {
	for _, b := range r.Passed {
		if b.EOS {
			n++
		}
	}

	return n
}

var _ bhost.Request = &Request{}
