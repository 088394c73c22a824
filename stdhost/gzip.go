package stdhost

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/advdv/bhost"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

func acceptsGzip(r bhost.Request) bool {
	ae, _ := r.HeadersIn().Get("Accept-Encoding")
	for _, part := range strings.Split(ae, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			continue
		}

		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}

	return false
}

func shouldGzip(r bhost.Request) bool {
	if ce, ok := r.ContentEncoding(); ok && ce != "" {
		return false
	}

	switch r.Status() {
	case http.StatusNoContent, http.StatusNotModified:
		return false
	}

	return acceptsGzip(r)
}

// GzipFilter compresses response bodies for clients that accept gzip. Responses that already carry a content
// encoding pass through untouched.
func GzipFilter(level int) OutputFilter {
	return func(r bhost.Request, next Sink) Sink {
		var (
			decided, enabled bool
			buf              bytes.Buffer
			zw               *gzip.Writer
		)

		return SinkFunc(func(bb *bhost.Brigade) error {
			if !decided {
				decided, enabled = true, shouldGzip(r)
				if enabled {
					var err error
					if zw, err = gzip.NewWriterLevel(&buf, level); err != nil {
						return errors.Wrap(err, "init gzip writer")
					}

					r.SetContentEncoding("gzip")
					r.HeadersOut().Unset("Content-Length")
					r.HeadersOut().Add("Vary", "Accept-Encoding")
				}
			}

			if !enabled {
				return next.Pass(bb)
			}

			out := bhost.NewBrigade()
			for _, b := range bb.Buckets() {
				if !b.EOS {
					if _, err := zw.Write(b.Data); err != nil {
						return errors.Wrap(err, "gzip")
					}
					continue
				}

				if err := zw.Close(); err != nil {
					return errors.Wrap(err, "close gzip")
				}

				out.Append(buf.Bytes())
				buf.Reset()
				out.AppendEOS()
			}

			if buf.Len() > 0 {
				out.Append(buf.Bytes())
				buf.Reset()
			}

			bb.Cleanup()
			return next.Pass(out)
		})
	}
}
