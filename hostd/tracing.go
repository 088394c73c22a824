package hostd

import (
	"context"
	"net/http"
	"time"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const tracingInitTimeout = 5 * time.Second

// Exporter selects where spans go. It is read from BH_OTEL_EXPORTER.
type Exporter string

const (
	// ExporterStdout pretty prints every span to stdout.
	ExporterStdout Exporter = "stdout"
	// ExporterXRayUDP sends spans in batches to the X-Ray daemon and identifies the process with the Lambda
	// resource detector.
	ExporterXRayUDP Exporter = "xrayudp"
	// ExporterNone records spans, so trace ids reach the logs, but exports nothing.
	ExporterNone Exporter = "none"
)

// providerOptions returns the tracer provider options for the exporter.
func (x Exporter) providerOptions(ctx context.Context, serviceName string) ([]sdktrace.TracerProviderOption, error) {
	switch x {
	case ExporterStdout, "":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errors.Wrap(err, "stdout exporter")
		}

		return []sdktrace.TracerProviderOption{
			sdktrace.WithSyncer(exp),
			sdktrace.WithResource(serviceResource(serviceName)),
		}, nil
	case ExporterXRayUDP:
		exp, err := xrayudp.NewSpanExporter(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "xrayudp exporter")
		}

		res, err := lambda.NewResourceDetector().Detect(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "detect lambda resource")
		}

		return []sdktrace.TracerProviderOption{
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
			sdktrace.WithIDGenerator(xray.NewIDGenerator()),
		}, nil
	case ExporterNone:
		return []sdktrace.TracerProviderOption{
			sdktrace.WithResource(serviceResource(serviceName)),
		}, nil
	default:
		return nil, errors.Newf("unsupported BH_OTEL_EXPORTER: %q (supported: stdout, xrayudp, none)", string(x))
	}
}

// propagator returns the propagator matching the exporter: X-Ray headers for xrayudp, W3C trace context and
// baggage otherwise.
func (x Exporter) propagator() propagation.TextMapPropagator {
	if x == ExporterXRayUDP {
		return xray.Propagator{}
	}

	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

func serviceResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName))
}

// NewTracerProvider creates the tracer provider for the configured exporter. It is shut down, flushing pending
// spans, when the fx app stops.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tracingInitTimeout)
	defer cancel()

	opts, err := Exporter(env.otelExporter()).providerOptions(ctx, env.serviceName())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(opts...)
	lc.Append(fx.StopHook(tp.Shutdown))

	return tp, nil
}

// NewPropagator creates the propagator for the configured exporter.
func NewPropagator(env Environment) propagation.TextMapPropagator {
	return Exporter(env.otelExporter()).propagator()
}

// NewHTTPTransport wraps the default transport so outbound requests start client spans and carry the trace
// headers.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
	)
}

// withTracing starts a server span named after method and path for every request, except those to the
// untraced paths.
func withTracing(
	tp trace.TracerProvider, prop propagation.TextMapPropagator, serviceName string, untraced ...string,
) func(http.Handler) http.Handler {
	untraced = lo.Compact(untraced)

	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
			otelhttp.WithFilter(func(r *http.Request) bool {
				return !lo.Contains(untraced, r.URL.Path)
			}),
		)
	}
}
