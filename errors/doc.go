// Package errors provides structured error types for the jmi bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the class, member, and
// descriptor involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindMethodNotFound).
//		Class("java/lang/String").
//		Member("charAt").
//		Signature("(I)C").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ClassNotFound("com/acme/Widget")
//	err := errors.MethodNotFound("com/acme/Widget", "spin", "(I)V")
//
// All errors implement the standard error interface and support
// errors.Is/As. Two *Error values match under errors.Is when their
// Phase and Kind agree.
package errors
