package wruntime

import "fmt"

// ErrorCode is the flat enumeration the embedding API reports back to the
// host (§6).
type ErrorCode uint8

const (
	ErrNone ErrorCode = iota
	ErrOutOfMemory
	ErrRuntime
	ErrLexer
	ErrCompile
	ErrFunctionArityMismatch
	ErrModuleAlreadyDefined
	ErrModuleNotFound
	ErrInvalidOpOnType
	ErrInvalidArgument
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNone:
		return "none"
	case ErrOutOfMemory:
		return "out of memory"
	case ErrRuntime:
		return "runtime error"
	case ErrLexer:
		return "lexer error"
	case ErrCompile:
		return "compile error"
	case ErrFunctionArityMismatch:
		return "function arity mismatch"
	case ErrModuleAlreadyDefined:
		return "module already defined"
	case ErrModuleNotFound:
		return "module not found"
	case ErrInvalidOpOnType:
		return "invalid operation on type"
	case ErrInvalidArgument:
		return "invalid argument"
	default:
		return "unknown error"
	}
}

// StackTraceKind tags the three synthetic event kinds the error callback
// receives while a RuntimeError unwinds (§6).
type StackTraceKind uint8

const (
	StackTraceBegin StackTraceKind = iota
	StackTraceFrame
	StackTraceEnd
)

// ErrorCallback is the host hook invoked once per popped frame while a
// RuntimeError unwinds to its entry point, bracketed by a Begin and an End
// event (§4.6, §6).
type ErrorCallback func(kind StackTraceKind, frameIndex int, line uint32, functionName string)

// RuntimeError is raised internally (via panic, recovered at the nearest
// host entry point — Go's substitute for the reference implementation's
// longjmp-based unwind) whenever script execution hits an arithmetic,
// symbol-resolution, call, or allocation fault (§4.6).
type RuntimeError struct {
	Code    ErrorCode
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func raisef(code ErrorCode, format string, args ...any) {
	panic(&RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)})
}
