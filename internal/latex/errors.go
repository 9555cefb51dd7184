package latex

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures so callers can map them to transport
// semantics without parsing error strings.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindTemplateIntegrity
	KindCompilationFailed
	KindCompilationTimeout
	KindResourceExhausted
)

// String returns the stable identifier for the kind
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindTemplateIntegrity:
		return "TEMPLATE_INTEGRITY_ERROR"
	case KindCompilationFailed:
		return "COMPILATION_FAILED"
	case KindCompilationTimeout:
		return "COMPILATION_TIMEOUT"
	case KindResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// Error is a classified engine failure. Log holds the external compiler's
// combined stdout/stderr verbatim when compilation was attempted; the
// engine never parses or summarizes it.
type Error struct {
	Kind  ErrorKind
	Msg   string
	Log   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf extracts the classification from err, or KindValidation=false if
// err is not an engine error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an engine error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// DiagnosticLog returns the compiler log attached to err, if any
func DiagnosticLog(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Log
	}
	return ""
}
