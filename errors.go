package wisp

import "wisp/internal/wruntime"

// ErrorCode is the flat enumeration the embedding API reports back to a
// host (§6).
type ErrorCode = wruntime.ErrorCode

const (
	ErrNone                  = wruntime.ErrNone
	ErrOutOfMemory           = wruntime.ErrOutOfMemory
	ErrRuntime               = wruntime.ErrRuntime
	ErrLexer                 = wruntime.ErrLexer
	ErrCompile               = wruntime.ErrCompile
	ErrFunctionArityMismatch = wruntime.ErrFunctionArityMismatch
	ErrModuleAlreadyDefined  = wruntime.ErrModuleAlreadyDefined
	ErrModuleNotFound        = wruntime.ErrModuleNotFound
	ErrInvalidOpOnType       = wruntime.ErrInvalidOpOnType
	ErrInvalidArgument       = wruntime.ErrInvalidArgument
)

// StackTraceKind tags the three synthetic event kinds an ErrorCallback
// receives while a runtime error unwinds (§6).
type StackTraceKind uint8

const (
	StackTraceBegin StackTraceKind = iota
	StackTraceFrame
	StackTraceEnd
)

// ErrorCallback is the host hook invoked once per popped frame while a
// runtime error unwinds to its entry point, bracketed by a Begin and an
// End event (§4.6, §6).
type ErrorCallback func(kind StackTraceKind, frameIndex int, line uint32, functionName string)

// Error is the error type every wisp entry point returns on failure. It
// wraps the lower-level RuntimeError (or a compile/lex diagnostic summary)
// behind the flat ErrorCode enum §6 promises a host.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

func wrapRuntimeErr(err error) error {
	if err == nil {
		return nil
	}
	if rerr, ok := err.(*wruntime.RuntimeError); ok {
		return &Error{Code: rerr.Code, Message: rerr.Message}
	}
	return &Error{Code: ErrRuntime, Message: err.Error()}
}
