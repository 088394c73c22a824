package bhost

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Error kinds reported by the bridge. Native failures are wrapped with context and tagged with one of these through
// [WithKind] so callers can test for both the kind and the native cause with errors.Is.
var (
	// ErrHandleGone is returned by any operation that needs the native request after the host released it.
	ErrHandleGone = errors.New("bhost: native request handle is gone")
	// ErrReadFailed is returned when the host fails to set up or perform a body read.
	ErrReadFailed = errors.New("bhost: reading request body failed")
	// ErrWriteFailed is returned when the host's output filter chain reports a failure.
	ErrWriteFailed = errors.New("bhost: writing response failed")
	// ErrUnsupportedHeader is returned for header operations the host bridge does not implement.
	ErrUnsupportedHeader = errors.New("bhost: header is not supported")
	// ErrRegistrationFailed is returned when the host refuses to load the module. It is fatal for startup.
	ErrRegistrationFailed = errors.New("bhost: module registration failed")
	// ErrDeclined can be returned by an entry point to leave the request to the next application.
	ErrDeclined = errors.New("bhost: declined")
	// ErrAlreadyEnded is returned when a response is ended twice.
	ErrAlreadyEnded = errors.New("bhost: response already ended")
	// ErrReaderDone is returned when a body reader is used after it reached a terminal state.
	ErrReaderDone = errors.New("bhost: body reader already done")
)

// WithKind tags err with one of the error kinds. The result reports err's message, unwraps to err and matches kind
// with errors.Is.
func WithKind(err, kind error) error {
	if err == nil {
		return nil
	}

	return &kindError{err: err, kind: kind}
}

type kindError struct {
	err  error
	kind error
}

func (e *kindError) Error() string        { return e.err.Error() }
func (e *kindError) Unwrap() error        { return e.err }
func (e *kindError) Is(target error) bool { return target == e.kind }

// Code is an error code that mirrors the http status codes. Entry points can return an [*Error] carrying a code to
// control the status the bridge forces when the entry point fails before headers were sent.
type Code int

const (
	CodeUnknown                      Code = 0
	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodeLengthRequired               Code = http.StatusLengthRequired               // RFC 9110, 15.5.12
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeRequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable // RFC 9110, 15.5.17
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4

	CodeInternalServerError Code = http.StatusInternalServerError // RFC 9110, 15.6.1
	CodeNotImplemented      Code = http.StatusNotImplemented      // RFC 9110, 15.6.2
	CodeBadGateway          Code = http.StatusBadGateway          // RFC 9110, 15.6.3
	CodeServiceUnavailable  Code = http.StatusServiceUnavailable  // RFC 9110, 15.6.4
	CodeGatewayTimeout      Code = http.StatusGatewayTimeout      // RFC 9110, 15.6.5
)

// Error describes an error with an http status code attached.
type Error struct {
	code Code
	err  error
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{c, underlying}
}

func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Error() string {
	status := http.StatusText(int(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	var codeErr *Error
	if errors.As(err, &codeErr) {
		return codeErr.Code()
	}
	return CodeUnknown
}

// statusOf returns the status that is forced on the response when an entry point fails with err.
func statusOf(err error) int {
	if c := CodeOf(err); c >= 400 && c <= 599 {
		return int(c)
	}
	return http.StatusInternalServerError
}
