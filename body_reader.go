package bhost

import (
	"io"

	"github.com/cockroachdb/errors"
)

// DefaultReadBufferSize is the chunk size used when a caller does not ask for one.
const DefaultReadBufferSize = 8192

// ReaderState is the state of a [BodyReader].
type ReaderState int

const (
	ReaderNotStarted ReaderState = iota
	ReaderReading
	ReaderEOF
	ReaderFailed
)

func (s ReaderState) String() string {
	switch s {
	case ReaderNotStarted:
		return "not-started"
	case ReaderReading:
		return "reading"
	case ReaderEOF:
		return "eof"
	case ReaderFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BodyReader pulls the request body from the host's client block machinery. Bodies of methods that never carry
// content are empty without asking the host for anything.
type BodyReader struct {
	ctx   *RequestContext
	state ReaderState
	err   error
}

// State returns the current state.
func (b *BodyReader) State() ReaderState { return b.state }

func (b *BodyReader) fail(err error, msg string) error {
	b.state = ReaderFailed
	b.err = WithKind(errors.Wrap(err, msg), ErrReadFailed)
	return b.err
}

func (b *BodyReader) start() error {
	native, err := b.ctx.Native()
	if err != nil {
		return err
	}

	if !native.MethodNumber().HasContent() {
		b.state = ReaderEOF
		return nil
	}

	if err := native.SetupClientBlock(ReadPolicyDechunk); err != nil {
		return b.fail(err, "setup client block for "+native.Method())
	}

	if !native.ShouldClientBlock() {
		b.state = ReaderEOF
		return nil
	}

	b.state = ReaderReading
	return nil
}

func (b *BodyReader) pull(buf []byte) (int, error) {
	native, err := b.ctx.Native()
	if err != nil {
		return 0, err
	}

	n, err := native.GetClientBlock(buf)
	switch {
	case err != nil:
		return 0, b.fail(err, "get client block")
	case n < 0:
		return 0, b.fail(errors.Newf("client block returned %d", n), "get client block")
	case n == 0:
		b.state = ReaderEOF
	}

	return n, nil
}

// ReadChunks reads the whole body, handing every chunk to fn. The chunk is only valid during the call; its buffer
// is reused for the next pull. An error from fn stops reading and is returned as is. Calling ReadChunks after the
// body was fully read, or after reading failed, returns [ErrReaderDone].
func (b *BodyReader) ReadChunks(bufSize int, fn func(chunk []byte) error) error {
	switch b.state {
	case ReaderEOF, ReaderFailed:
		return ErrReaderDone
	case ReaderNotStarted:
		if err := b.start(); err != nil {
			return err
		}
	}

	if bufSize <= 0 {
		bufSize = DefaultReadBufferSize
	}

	buf := make([]byte, bufSize)
	for b.state == ReaderReading {
		n, err := b.pull(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}

		if err := fn(buf[:n]); err != nil {
			return err
		}
	}

	return nil
}

// Read implements io.Reader by pulling straight into p.
func (b *BodyReader) Read(p []byte) (int, error) {
	switch b.state {
	case ReaderEOF:
		return 0, io.EOF
	case ReaderFailed:
		return 0, b.err
	case ReaderNotStarted:
		if err := b.start(); err != nil {
			return 0, err
		}
		if b.state == ReaderEOF {
			return 0, io.EOF
		}
	}

	if len(p) == 0 {
		return 0, nil
	}

	n, err := b.pull(p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

var _ io.Reader = (*BodyReader)(nil)
