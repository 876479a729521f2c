package bridge

import (
	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
	"github.com/Framatome/jmi/signature"
)

// Object wraps a runtime object reference tagged with its class identity.
// The wrapper owns a global reference: created by Create or adoption,
// released by Dispose. A zero-reference handle is "unset"; operations on
// it fail cleanly with the recorded error instead of reaching the runtime.
//
// Object is not safe for concurrent mutation. Concurrent read-only calls
// are fine.
type Object struct {
	cls     *Class
	ref     jmi.ObjectRef
	lastErr error
}

// NewObject returns an unset handle for the given class. Call Create to
// construct the underlying managed object.
func NewObject(cls *Class) *Object {
	return &Object{cls: cls}
}

// WrapObject adopts an existing reference, taking a new global reference
// for the wrapper. The caller keeps ownership of ref.
func WrapObject(cls *Class, env jmi.Env, ref jmi.ObjectRef) *Object {
	o := &Object{cls: cls}
	if !ref.IsNull() {
		o.ref = env.NewGlobalRef(ref)
	}
	return o
}

// JavaClassName implements signature.ClassNamer: an object argument
// encodes as its own class descriptor.
func (o *Object) JavaClassName() string { return o.cls.name }

// Class returns the handle's logical class identity.
func (o *Object) Class() *Class { return o.cls }

// Ref returns the underlying reference; zero when unset.
func (o *Object) Ref() jmi.ObjectRef { return o.ref }

// IsNull reports whether the handle is unset.
func (o *Object) IsNull() bool { return o.ref.IsNull() }

// Err returns the error recorded by the last failing operation, or nil.
// Any successful operation on the handle clears it.
func (o *Object) Err() error { return o.lastErr }

func (o *Object) fail(err error) error {
	o.lastErr = err
	return err
}

// Create constructs the underlying managed object, deriving the
// constructor descriptor from the argument types. On failure the handle
// stays unset, the error is recorded, and Create returns false.
// A handle that already holds an object is disposed first.
func (o *Object) Create(args ...any) bool {
	env, err := jmi.Current()
	if err != nil {
		o.fail(err)
		return false
	}
	if !o.ref.IsNull() {
		o.disposeWith(env)
	}

	frame, err := marshalArgs(env, args)
	if err != nil {
		o.fail(errors.ConstructorFailed(o.cls.name, "", err))
		return false
	}
	defer frame.release(env)

	sig := signature.MethodFor("V", frame.descs...)
	ctor, err := o.cls.methodID(env, "<init>", sig, false)
	if err != nil {
		o.fail(errors.ConstructorFailed(o.cls.name, sig, err))
		return false
	}

	cls, _ := o.cls.Resolve(env)
	local := env.NewObject(cls, ctor, frame.vals)
	if cbErr := frame.copyBack(env); cbErr != nil {
		o.fail(errors.ConstructorFailed(o.cls.name, sig, cbErr))
		return false
	}
	if err := checkPending(env, errors.PhaseCall); err != nil || local.IsNull() {
		o.fail(errors.ConstructorFailed(o.cls.name, sig, err))
		return false
	}

	o.ref = env.NewGlobalRef(local)
	env.DeleteRef(local)
	o.lastErr = nil
	return true
}

// Dispose releases the object's reference. Cached class and member
// handles are untouched; they outlive every object of the class.
func (o *Object) Dispose() {
	env, err := jmi.Current()
	if err != nil {
		return
	}
	o.disposeWith(env)
}

func (o *Object) disposeWith(env jmi.Env) {
	if !o.ref.IsNull() {
		env.DeleteRef(o.ref)
		o.ref = 0
	}
}

// Reset replaces the wrapped reference, taking a new global reference
// for ref. A zero ref leaves the handle unset.
func (o *Object) Reset(ref jmi.ObjectRef) {
	env, err := jmi.Current()
	if err != nil {
		o.fail(err)
		return
	}
	o.disposeWith(env)
	if !ref.IsNull() {
		o.ref = env.NewGlobalRef(ref)
	}
	o.lastErr = nil
}

// Equal reports whether both handles denote the same runtime object, per
// the runtime's reference equality. Wrapper identity does not matter.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.ref.IsNull() || other.ref.IsNull() {
		return o.ref == other.ref
	}
	env, err := jmi.Current()
	if err != nil {
		return false
	}
	return env.IsSameObject(o.ref, other.ref)
}
