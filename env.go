package jmi

import (
	"sync/atomic"

	"github.com/Framatome/jmi/errors"
)

// Env is the thread-affine environment handle through which native code
// invokes runtime operations. Implementations wrap a real JNI environment
// or an in-memory fake (see jmitest).
//
// Lookup primitives return the zero handle on failure and leave the
// failure as pending exception state; callers are expected to check and
// clear it. The typed invoke family of the underlying runtime is selected
// through the ret Kind parameter.
//
// An Env is only valid on the thread it was obtained for and must be
// re-obtained from the VM on every operation, never stored.
type Env interface {
	FindClass(name string) ClassRef

	GetMethodID(cls ClassRef, name, sig string) MethodID
	GetStaticMethodID(cls ClassRef, name, sig string) MethodID
	GetFieldID(cls ClassRef, name, sig string) FieldID
	GetStaticFieldID(cls ClassRef, name, sig string) FieldID

	NewObject(cls ClassRef, ctor MethodID, args []Value) ObjectRef
	CallMethod(obj ObjectRef, id MethodID, ret Kind, args []Value) Value
	CallStaticMethod(cls ClassRef, id MethodID, ret Kind, args []Value) Value

	GetField(obj ObjectRef, id FieldID, k Kind) Value
	SetField(obj ObjectRef, id FieldID, v Value)
	GetStaticField(cls ClassRef, id FieldID, k Kind) Value
	SetStaticField(cls ClassRef, id FieldID, v Value)

	NewArray(elem Kind, length int) ObjectRef
	ArrayLength(arr ObjectRef) int
	SetArrayRegion(arr ObjectRef, start int, vals []Value)
	GetArrayRegion(arr ObjectRef, start, length int) []Value

	NewString(s string) ObjectRef
	GetString(str ObjectRef) string

	NewGlobalRef(obj ObjectRef) ObjectRef
	DeleteRef(obj ObjectRef)
	IsSameObject(a, b ObjectRef) bool

	ExceptionCheck() bool
	ExceptionClear()
	// ExceptionMessage returns the pending exception's message without
	// clearing it, or "" if none is pending.
	ExceptionMessage() string
}

// VM is the process-wide runtime entry point. Env returns the calling
// thread's environment handle; the thread must already be attached.
type VM interface {
	Env() Env
}

var registeredVM atomic.Pointer[vmBox]

// box so a VM interface value fits an atomic.Pointer slot
type vmBox struct{ vm VM }

// Register installs the process-wide VM entry point. It is meant to be
// called exactly once during load-time initialization; a second call
// fails and leaves the first registration in place.
func Register(vm VM) error {
	if vm == nil {
		return errors.InvalidInput(errors.PhaseInit, "vm cannot be nil")
	}
	if !registeredVM.CompareAndSwap(nil, &vmBox{vm: vm}) {
		return errors.New(errors.PhaseInit, errors.KindNotInitialized).
			Detail("vm already registered").
			Build()
	}
	return nil
}

// Registered reports whether a VM entry point has been installed.
func Registered() bool {
	return registeredVM.Load() != nil
}

// Current returns the calling thread's environment handle from the
// registered VM. Use before Register is a reportable error, not a crash.
func Current() (Env, error) {
	box := registeredVM.Load()
	if box == nil {
		return nil, errors.NotInitialized(errors.PhaseInit, "vm")
	}
	env := box.vm.Env()
	if env == nil {
		return nil, errors.NotInitialized(errors.PhaseInit, "thread environment")
	}
	return env, nil
}
