package hostd

import (
	"context"

	"github.com/advdv/bhost"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const ctxKeyLogger ctxKey = iota

// withRequestLogger puts a logger for the application into the entry point context.
func withRequestLogger(logs *zap.Logger) bhost.Middleware {
	return func(next bhost.EntryPoint) bhost.EntryPoint {
		return bhost.EntryPointFunc(func(
			ctx context.Context, err error, in *bhost.IncomingMessage, res *bhost.Response, nf bhost.NextFunc,
		) error {
			ctx = context.WithValue(ctx, ctxKeyLogger, logs)
			return next.ServeBridge(ctx, err, in, res, nf)
		})
	}
}

// Log returns a trace-correlated zap logger from the context. Entry points of applications created with
// [Runtime.NewApplication] always find one; elsewhere a no-op logger is returned.
func Log(ctx context.Context) *zap.Logger {
	logs, ok := ctx.Value(ctxKeyLogger).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}

	return logs.With(traceFields(ctx)...)
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
