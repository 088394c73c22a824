package bhost

import (
	"strings"
)

// IncomingMessage is the bridge's view of the request side of a native request.
type IncomingMessage struct {
	ctx     *RequestContext
	app     *Application
	res     *Response
	prefix  string
	headers *HeaderTable
	body    *BodyReader
}

// App returns the application serving the request. Nil after the request finished.
func (m *IncomingMessage) App() *Application { return m.app }

// Response returns the response to this message. Nil after the request finished.
func (m *IncomingMessage) Response() *Response { return m.res }

// Header returns the request headers.
func (m *IncomingMessage) Header() *HeaderTable { return m.headers }

// Body returns the streaming body reader.
func (m *IncomingMessage) Body() *BodyReader { return m.body }

// Method returns the request method.
func (m *IncomingMessage) Method() (string, error) {
	native, err := m.ctx.Native()
	if err != nil {
		return "", err
	}

	return native.Method(), nil
}

// SetMethod overrides the request method on the native request.
func (m *IncomingMessage) SetMethod(name string) error {
	native, err := m.ctx.Native()
	if err != nil {
		return err
	}

	native.SetMethod(name, MethodNumberOf(name))
	return nil
}

// HTTPVersion returns the request protocol, e.g. "HTTP/1.1".
func (m *IncomingMessage) HTTPVersion() (string, error) {
	native, err := m.ctx.Native()
	if err != nil {
		return "", err
	}

	return native.Protocol(), nil
}

// Handler returns the active handler name the host selected.
func (m *IncomingMessage) Handler() (string, error) {
	native, err := m.ctx.Native()
	if err != nil {
		return "", err
	}

	return native.Handler(), nil
}

// OriginalURL returns the request target as received, mount prefix included.
func (m *IncomingMessage) OriginalURL() (string, error) {
	native, err := m.ctx.Native()
	if err != nil {
		return "", err
	}

	return native.UnparsedURI(), nil
}

// URL returns the request target relative to the application's mount prefix.
func (m *IncomingMessage) URL() (string, error) {
	native, err := m.ctx.Native()
	if err != nil {
		return "", err
	}

	return relativeTarget(m.prefix, native), nil
}

// BaseURL returns the mount prefix the application was reached through.
func (m *IncomingMessage) BaseURL() string { return m.prefix }

func (m *IncomingMessage) String() string {
	var s strings.Builder
	s.WriteString("<Request")

	native, err := m.ctx.Native()
	if err != nil {
		s.WriteString("[gone]>")
		return s.String()
	}

	s.WriteString(": ")
	s.WriteString(native.Method())
	s.WriteString(" ")
	s.WriteString(native.UnparsedURI())
	s.WriteString(">")

	return s.String()
}
