package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit    Phase = "init"    // VM registration / environment access
	PhaseResolve Phase = "resolve" // class, method, and field lookup
	PhaseMarshal Phase = "marshal" // argument and result conversion
	PhaseCall    Phase = "call"    // runtime invocation
)

// Kind categorizes the error
type Kind string

const (
	KindClassNotFound     Kind = "class_not_found"
	KindMethodNotFound    Kind = "method_not_found"
	KindFieldNotFound     Kind = "field_not_found"
	KindConstructorFailed Kind = "constructor_failed"
	KindPendingException  Kind = "pending_exception"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindNotInitialized    Kind = "not_initialized"
	KindNullHandle        Kind = "null_handle"
	KindUnsupportedType   Kind = "unsupported_type"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Class     string
	Member    string
	Signature string
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" {
		b.WriteString(" at ")
		b.WriteString(e.Class)
		if e.Member != "" {
			b.WriteByte('.')
			b.WriteString(e.Member)
		}
	} else if e.Member != "" {
		b.WriteString(" at ")
		b.WriteString(e.Member)
	}

	if e.Signature != "" {
		b.WriteString(" sig ")
		b.WriteString(e.Signature)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the owning class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Member sets the failing member name
func (b *Builder) Member(name string) *Builder {
	b.err.Member = name
	return b
}

// Signature sets the descriptor involved in the failure
func (b *Builder) Signature(sig string) *Builder {
	b.err.Signature = sig
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ClassNotFound creates a class resolution failure
func ClassNotFound(name string) *Error {
	return &Error{
		Phase: PhaseResolve,
		Kind:  KindClassNotFound,
		Class: name,
	}
}

// MethodNotFound creates a method resolution failure
func MethodNotFound(class, name, sig string) *Error {
	return &Error{
		Phase:     PhaseResolve,
		Kind:      KindMethodNotFound,
		Class:     class,
		Member:    name,
		Signature: sig,
	}
}

// FieldNotFound creates a field resolution failure
func FieldNotFound(class, name, sig string) *Error {
	return &Error{
		Phase:     PhaseResolve,
		Kind:      KindFieldNotFound,
		Class:     class,
		Member:    name,
		Signature: sig,
	}
}

// ConstructorFailed records a failed object construction
func ConstructorFailed(class, sig string, cause error) *Error {
	return &Error{
		Phase:     PhaseCall,
		Kind:      KindConstructorFailed,
		Class:     class,
		Member:    "<init>",
		Signature: sig,
		Cause:     cause,
	}
}

// PendingException surfaces an exception raised by the runtime itself
func PendingException(phase Phase, message string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindPendingException,
		Detail: message,
	}
}

// NotInitialized creates a use-before-init error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NullHandle reports an operation against an unset object handle
func NullHandle(class, member string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNullHandle,
		Class:  class,
		Member: member,
	}
}

// UnsupportedType reports a Go type without a descriptor encoding
func UnsupportedType(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedType,
		Detail: fmt.Sprintf("no descriptor encoding for Go type %s", goType),
	}
}

// SignatureMismatch reports a descriptor that does not line up with a
// cached or resolved member
func SignatureMismatch(class, member, sig, detail string) *Error {
	return &Error{
		Phase:     PhaseResolve,
		Kind:      KindSignatureMismatch,
		Class:     class,
		Member:    member,
		Signature: sig,
		Detail:    detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
