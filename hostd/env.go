package hostd

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	logLevel() zapcore.Level
	otelExporter() string
	appEnv() string
	poweredBy() string
	handlers() map[string]string
	healthPath() string
	metricsPath() string
	errorStatusCodes() string
	gzip() bool
	shutdownTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every host daemon reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port         int           `env:"BH_PORT,required"`
	ServiceName  string        `env:"BH_SERVICE_NAME,required"`
	LogLevel     zapcore.Level `env:"BH_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"BH_OTEL_EXPORTER" envDefault:"stdout"`
	// Env is handed to every application as its environment setting, e.g. to enable the reload entry point.
	Env       string `env:"BH_ENV" envDefault:"development"`
	PoweredBy string `env:"BH_POWERED_BY"`
	// Handlers maps path prefixes to handler names, e.g. "/api:api-handler,/static:files".
	Handlers         map[string]string `env:"BH_HANDLERS"`
	HealthPath       string            `env:"BH_HEALTH_PATH" envDefault:"/health"`
	MetricsPath      string            `env:"BH_METRICS_PATH" envDefault:"/metrics"`
	ErrorStatusCodes string            `env:"BH_ERROR_STATUS_CODES" envDefault:"500-599"`
	Gzip             bool              `env:"BH_GZIP" envDefault:"false"`
	ShutdownTimeout  time.Duration     `env:"BH_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func (e BaseEnvironment) port() int                      { return e.Port }
func (e BaseEnvironment) serviceName() string            { return e.ServiceName }
func (e BaseEnvironment) logLevel() zapcore.Level        { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string           { return e.OtelExporter }
func (e BaseEnvironment) appEnv() string                 { return e.Env }
func (e BaseEnvironment) poweredBy() string              { return e.PoweredBy }
func (e BaseEnvironment) handlers() map[string]string    { return e.Handlers }
func (e BaseEnvironment) healthPath() string             { return e.HealthPath }
func (e BaseEnvironment) metricsPath() string            { return e.MetricsPath }
func (e BaseEnvironment) errorStatusCodes() string       { return e.ErrorStatusCodes }
func (e BaseEnvironment) gzip() bool                     { return e.Gzip }
func (e BaseEnvironment) shutdownTimeout() time.Duration { return e.ShutdownTimeout }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type. The error status code expression is
// validated against [DefaultRequiredErrorStatusCodes].
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		if err := ValidateErrorStatusCodes(e.errorStatusCodes(), DefaultRequiredErrorStatusCodes...); err != nil {
			return e, errors.Wrap(err, "invalid BH_ERROR_STATUS_CODES")
		}

		return e, nil
	}
}
