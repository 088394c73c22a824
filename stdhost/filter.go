package stdhost

import (
	"net/http"

	"github.com/advdv/bhost"
	"github.com/cockroachdb/errors"
)

// Sink consumes brigades on their way to the client.
type Sink interface {
	Pass(bb *bhost.Brigade) error
}

// SinkFunc allow casting a function to implement [Sink].
type SinkFunc func(bb *bhost.Brigade) error

// Pass implements the [Sink] interface.
func (f SinkFunc) Pass(bb *bhost.Brigade) error { return f(bb) }

// OutputFilter wraps the next sink for one request. Filters may rewrite response headers until the first pass
// reaches the core sink, which commits them.
type OutputFilter func(r bhost.Request, next Sink) Sink

// coreSink writes brigades to the http.ResponseWriter. It is always the last sink in the chain.
type coreSink struct {
	r   *request
	w   http.ResponseWriter
	rc  *http.ResponseController
	err error

	committed bool
	eos       bool
	written   int64
}

func (s *coreSink) commit() {
	s.committed = true

	hdr := s.w.Header()
	s.r.out.Do(func(name, value string) bool {
		hdr.Add(name, value)
		return true
	})

	if ct, ok := s.r.ContentType(); ok && ct != "" {
		hdr.Set("Content-Type", ct)
	}
	if ce, ok := s.r.ContentEncoding(); ok && ce != "" {
		hdr.Set("Content-Encoding", ce)
	}

	status := s.r.Status()
	if status == 0 {
		status = http.StatusOK
	}

	s.w.WriteHeader(status)
}

func (s *coreSink) Pass(bb *bhost.Brigade) error {
	if s.err != nil {
		return s.err
	}
	if s.eos {
		return errors.New("pass after end of stream")
	}

	if !s.committed {
		s.commit()
	}

	for _, b := range bb.Buckets() {
		if b.EOS {
			s.eos = true
			break
		}

		n, err := s.w.Write(b.Data)
		s.written += int64(n)
		if err != nil {
			s.err = errors.Wrap(err, "write to client")
			return s.err
		}
	}

	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.err = errors.Wrap(err, "flush to client")
		return s.err
	}

	return nil
}

// chain builds the filter chain in front of the core sink. The first filter sees brigades first.
func chain(r bhost.Request, filters []OutputFilter, core Sink) Sink {
	s := core
	for i := len(filters) - 1; i >= 0; i-- {
		s = filters[i](r, s)
	}

	return s
}
