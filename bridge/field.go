package bridge

import (
	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
	"github.com/Framatome/jmi/signature"
)

// Accessor is a typed handle to one field of an object or class.
//
// A name-keyed accessor resolves the field on every access: a bare string
// has no stable cache slot of its own. A tag-keyed accessor resolves once
// through its tag cell, like tag-based calls.
type Accessor[T any] struct {
	obj     *Object // nil for static accessors
	cls     *Class
	name    string
	tag     *FieldTag
	desc    string
	descErr error
}

// Field returns a name-keyed accessor bound to an object.
func Field[T any](o *Object, name string) *Accessor[T] {
	a := &Accessor[T]{obj: o, cls: o.cls, name: name}
	a.desc, a.descErr = signature.Of[T]()
	return a
}

// FieldByTag returns a tag-keyed accessor bound to an object.
func FieldByTag[T any](o *Object, tag *FieldTag) *Accessor[T] {
	a := &Accessor[T]{obj: o, cls: o.cls, name: tag.name, tag: tag}
	a.desc, a.descErr = signature.Of[T]()
	return a
}

// StaticField returns a name-keyed accessor bound to the class.
func StaticField[T any](c *Class, name string) *Accessor[T] {
	a := &Accessor[T]{cls: c, name: name}
	a.desc, a.descErr = signature.Of[T]()
	return a
}

// StaticFieldByTag returns a tag-keyed accessor bound to the class.
func StaticFieldByTag[T any](c *Class, tag *FieldTag) *Accessor[T] {
	a := &Accessor[T]{cls: c, name: tag.name, tag: tag}
	a.desc, a.descErr = signature.Of[T]()
	return a
}

func (a *Accessor[T]) static() bool { return a.obj == nil }

func (a *Accessor[T]) prepare() (jmi.Env, jmi.FieldID, error) {
	if a.descErr != nil {
		return nil, 0, a.descErr
	}
	if a.obj != nil && a.obj.ref.IsNull() {
		if a.obj.lastErr != nil {
			return nil, 0, a.obj.lastErr
		}
		return nil, 0, a.obj.fail(errors.NullHandle(a.cls.name, a.name))
	}

	env, err := jmi.Current()
	if err != nil {
		return nil, 0, err
	}

	var id jmi.FieldID
	if a.tag != nil {
		id, err = a.tag.resolve(env, a.cls, a.desc, a.static())
	} else {
		// resolved on every access, on purpose
		cls, rerr := a.cls.Resolve(env)
		if rerr != nil {
			err = rerr
		} else {
			id, err = resolveField(env, a.cls.name, cls, a.name, a.desc, a.static())
		}
	}
	if err != nil {
		if a.obj != nil {
			a.obj.fail(err)
		}
		return nil, 0, err
	}
	return env, id, nil
}

// Get reads the field.
func (a *Accessor[T]) Get() (T, error) {
	var zero T
	env, id, err := a.prepare()
	if err != nil {
		return zero, err
	}

	var v jmi.Value
	if a.static() {
		cls, err := a.cls.Resolve(env)
		if err != nil {
			return zero, err
		}
		v = env.GetStaticField(cls, id, signature.KindOf(a.desc))
	} else {
		v = env.GetField(a.obj.ref, id, signature.KindOf(a.desc))
	}
	if err := checkPending(env, errors.PhaseCall); err != nil {
		return zero, err
	}
	return convertResult[T](env, v)
}

// Set writes the field.
func (a *Accessor[T]) Set(value T) error {
	env, id, err := a.prepare()
	if err != nil {
		return err
	}

	frame, err := marshalArgs(env, []any{value})
	if err != nil {
		return err
	}
	defer frame.release(env)

	if a.static() {
		cls, err := a.cls.Resolve(env)
		if err != nil {
			return err
		}
		env.SetStaticField(cls, id, frame.vals[0])
	} else {
		env.SetField(a.obj.ref, id, frame.vals[0])
	}
	if frame.vals[0].Kind.IsReference() {
		// ownership of the reference moved into the field
		frame.released = true
	}
	return checkPending(env, errors.PhaseCall)
}
