//go:build !unix

package bhost

import "github.com/cockroachdb/errors"

var errNoSignals = errors.New("bhost: signalling a restart is not supported on this platform")

// SignalParent is not supported on this platform.
func SignalParent() error { return errNoSignals }

// SignalSelf is not supported on this platform.
func SignalSelf() error { return errNoSignals }
