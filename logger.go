package bhost

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about lifecycle events of the [Manager].
type Logger interface {
	LogHooksInstalled()
	LogHooksAlreadyInstalled()
	LogLifecycleCallback(phase, app string)
	LogRegistryCleared(n int)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogHooksInstalled() {
	l.Logger.Printf("bhost: hooks installed")
}

func (l stdLogger) LogHooksAlreadyInstalled() {
	l.Logger.Printf("bhost: hooks already installed, skipping")
}

func (l stdLogger) LogLifecycleCallback(phase, app string) {
	l.Logger.Printf("bhost: running %s callback of %s", phase, app)
}

func (l stdLogger) LogRegistryCleared(n int) {
	l.Logger.Printf("bhost: registry cleared, dropped %d application(s)", n)
}

func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumHooksInstalled        int64
	NumHooksAlreadyInstalled int64
	NumLifecycleCallback     int64
	NumRegistryCleared       int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogHooksInstalled() {
	atomic.AddInt64(&l.NumHooksInstalled, 1)
	l.tb.Logf("bhost: hooks installed")
}

func (l *TestLogger) LogHooksAlreadyInstalled() {
	atomic.AddInt64(&l.NumHooksAlreadyInstalled, 1)
	l.tb.Logf("bhost: hooks already installed, skipping")
}

func (l *TestLogger) LogLifecycleCallback(phase, app string) {
	atomic.AddInt64(&l.NumLifecycleCallback, 1)
	l.tb.Logf("bhost: running %s callback of %s", phase, app)
}

func (l *TestLogger) LogRegistryCleared(n int) {
	atomic.AddInt64(&l.NumRegistryCleared, 1)
	l.tb.Logf("bhost: registry cleared, dropped %d application(s)", n)
}

var _ Logger = &TestLogger{}
