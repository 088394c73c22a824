package stdhost

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultWriteBufferSize is how many bytes Fwrite buffers before passing them down the output filter chain.
const DefaultWriteBufferSize = 8192

type handlerRule struct{ prefix, name string }

type options struct {
	handlers        []handlerRule
	filters         []OutputFilter
	registerer      prometheus.Registerer
	writeBufferSize int
	errorResult     func(code int) bool
}

// Option configures a [Server].
type Option func(*options)

// WithHandlerName sets the active handler for requests below prefix. The longest matching prefix wins.
func WithHandlerName(prefix, name string) Option {
	return func(o *options) { o.handlers = append(o.handlers, handlerRule{prefix, name}) }
}

// WithOutputFilter appends filters to the output filter chain.
func WithOutputFilter(f ...OutputFilter) Option {
	return func(o *options) { o.filters = append(o.filters, f...) }
}

// WithRegisterer registers the host metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithWriteBufferSize sets the Fwrite buffer size.
func WithWriteBufferSize(n int) Option {
	return func(o *options) { o.writeBufferSize = n }
}

// WithErrorResults makes the host log handler results for which fn returns true at error level.
func WithErrorResults(fn func(code int) bool) Option {
	return func(o *options) { o.errorResult = fn }
}
