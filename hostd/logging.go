package hostd

import (
	"github.com/advdv/bhost"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding; BH_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogHooksInstalled() {
	l.Logger.Info("hooks installed")
}

func (l zapLogger) LogHooksAlreadyInstalled() {
	l.Logger.Debug("hooks already installed, skipping")
}

func (l zapLogger) LogLifecycleCallback(phase, app string) {
	l.Logger.Info("running lifecycle callback", zap.String("phase", phase), zap.String("app", app))
}

func (l zapLogger) LogRegistryCleared(n int) {
	l.Logger.Info("registry cleared", zap.Int("num_apps", n))
}

func newZapBhostLogger(l *zap.Logger) bhost.Logger {
	return zapLogger{l.Named("bhost").Named("hostd")}
}
