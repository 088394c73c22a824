package bhost

import (
	"context"
)

// NextFunc is the continuation handed to an entry point. The bridge does not chain to any further processing when
// it is called; a request counts as handled once the entry point returns.
type NextFunc func(args ...any)

// EntryPoint is implemented by the application framework the bridge serves. The err argument carries an error from
// an outer layer, nil when there is none. Returning [ErrDeclined] before anything was sent leaves the request to the
// next application.
type EntryPoint interface {
	ServeBridge(ctx context.Context, err error, in *IncomingMessage, res *Response, next NextFunc) error
}

// EntryPointFunc allow casting a function to implement [EntryPoint].
type EntryPointFunc func(context.Context, error, *IncomingMessage, *Response, NextFunc) error

// ServeBridge implements the [EntryPoint] interface.
func (f EntryPointFunc) ServeBridge(ctx context.Context, err error, in *IncomingMessage, res *Response, next NextFunc) error {
	return f(ctx, err, in, res, next)
}

func noopNext(...any) {}
