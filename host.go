package bhost

import (
	"context"
	"strings"
)

// Result is what a handler hook reports back to the host. It is either [Declined], [OK] or an HTTP status code.
type Result int

const (
	// Declined means the hook does not claim the request; the host continues with its own processing.
	Declined Result = -1
	// OK means the request was fully handled.
	OK Result = 0
)

// HookOrder positions a hook within the host's chain for that hook kind.
type HookOrder int

const (
	// HookReallyFirst runs before every other hook.
	HookReallyFirst HookOrder = -10
	// HookFirst runs early, e.g. for hooks that claim requests.
	HookFirst HookOrder = 0
	// HookMiddle is the default position.
	HookMiddle HookOrder = 10
	// HookLast runs after most hooks.
	HookLast HookOrder = 20
	// HookReallyLast runs after every other hook.
	HookReallyLast HookOrder = 30
)

// HandlerHook serves one request. It returns [Declined] or a concrete result.
type HandlerHook func(r Request) Result

// PostConfigHook runs once after the host finished reading its configuration.
type PostConfigHook func(pconf Pool) error

// ChildInitHook runs once in every worker when it starts.
type ChildInitHook func(p Pool)

// Host is the extension point API of the native server. The bridge registers itself through it.
type Host interface {
	// AddModule loads a module into the host. The host calls register with its configuration pool while loading;
	// register installs the module's hooks. A non-nil error means the host refused the module.
	AddModule(name string, register func(pconf Pool)) error
	HookHandler(fn HandlerHook, order HookOrder)
	HookPostConfig(fn PostConfigHook, order HookOrder)
	HookChildInit(fn ChildInitHook, order HookOrder)
}

// Pool is a host managed arena. Everything allocated from it, and everything that registered a cleanup on it, is
// invalidated when the host destroys the pool.
type Pool interface {
	// CleanupRegister registers cleanups that run when the pool is destroyed. Parent runs in the process that
	// destroys the pool, child runs in forked workers.
	CleanupRegister(parent, child func() error)
}

// Table is the host's name/value multi-map. Key comparison is case-insensitive.
type Table interface {
	Get(name string) (string, bool)
	Set(name, value string)
	Add(name, value string)
	Unset(name string)
	// Do calls fn for every entry until fn returns false.
	Do(fn func(name, value string) bool)
}

// ReadPolicy tells the host how to treat transfer-encoded request bodies.
type ReadPolicy int

const (
	ReadPolicyNoBody ReadPolicy = iota
	ReadPolicyChunkedError
	ReadPolicyDechunk
)

// Level is the severity of a host error log entry.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Request is the native, host owned handle of one in-flight request. It is only valid while its Pool lives; no
// component may retain it beyond the handler invocation.
type Request interface {
	Context() context.Context
	Pool() Pool

	Method() string
	MethodNumber() Method
	SetMethod(name string, num Method)
	// URI is the decoded path of the request.
	URI() string
	// UnparsedURI is the request target as it appeared on the request line.
	UnparsedURI() string
	Protocol() string
	// Handler is the active handler name the host selected for this request. Empty when none was configured.
	Handler() string

	HeadersIn() Table
	HeadersOut() Table
	ContentType() (string, bool)
	SetContentType(v string)
	ContentEncoding() (string, bool)
	SetContentEncoding(v string)
	Status() int
	SetStatus(code int)

	// SetupClientBlock prepares reading the request body.
	SetupClientBlock(policy ReadPolicy) error
	// ShouldClientBlock reports whether there is a body to read.
	ShouldClientBlock() bool
	// GetClientBlock reads up to len(buf) body bytes. Zero bytes and a nil error mean end of body.
	GetClientBlock(buf []byte) (int, error)

	// Fwrite appends p to bb. The host may pass bb through the output filters when it buffered enough.
	Fwrite(bb *Brigade, p []byte) error
	// PassBrigade passes bb through the output filter chain. The host empties bb.
	PassBrigade(bb *Brigade) error

	// LogError writes to the host's error log.
	LogError(file string, line int, level Level, status int, msg string)
}

// Method is the host's numeric method identifier.
type Method int

const (
	MethodGet Method = iota
	MethodPut
	MethodPost
	MethodDelete
	MethodConnect
	MethodOptions
	MethodTrace
	MethodPatch
	MethodInvalid
)

// MethodNumberOf returns the method number for a method name. HEAD shares the number of GET, unknown methods are
// [MethodInvalid].
func MethodNumberOf(name string) Method {
	switch strings.ToUpper(name) {
	case "GET", "HEAD":
		return MethodGet
	case "PUT":
		return MethodPut
	case "POST":
		return MethodPost
	case "DELETE":
		return MethodDelete
	case "CONNECT":
		return MethodConnect
	case "OPTIONS":
		return MethodOptions
	case "TRACE":
		return MethodTrace
	case "PATCH":
		return MethodPatch
	default:
		return MethodInvalid
	}
}

// HasContent reports whether requests with this method may carry a body.
func (m Method) HasContent() bool {
	switch m {
	case MethodGet, MethodDelete, MethodOptions, MethodConnect:
		return false
	default:
		return true
	}
}
