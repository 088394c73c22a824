package bhost

// Middleware wraps an application's entry point.
type Middleware func(EntryPoint) EntryPoint

// Wrap takes the inner entry point h and wraps it with middleware. The order is that of the Gorilla and Chi router.
// That is: the middleware provided first is called first and is the "outer" most wrapping, the middleware provided
// last will be the "inner most" wrapping (closest to the entry point).
func Wrap(h EntryPoint, m ...Middleware) EntryPoint {
	if len(m) < 1 {
		return h
	}

	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}
