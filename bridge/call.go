package bridge

import (
	"reflect"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
	"github.com/Framatome/jmi/signature"
)

// The return type is an explicit type parameter of every call: the
// descriptor derives from it and the static argument types, and the
// runtime's typed invoke entry point is selected by its kind. Argument
// values alone cannot disambiguate overloads that differ only in return
// type, so inference is never attempted.

func returnDescriptor[R any]() (string, error) {
	return signature.TypeOf(reflect.TypeOf((*R)(nil)).Elem())
}

// Call invokes an instance method by name. The member handle comes from
// the process-wide member store, resolved on first use per distinct
// (class, name, signature).
func Call[R any](o *Object, name string, args ...any) (R, error) {
	var zero R
	ret, err := returnDescriptor[R]()
	if err != nil {
		return zero, err
	}
	v, err := callInstance(o, name, nil, ret, args)
	if err != nil {
		return zero, err
	}
	env, _ := jmi.Current()
	return convertResult[R](env, v)
}

// CallTag invokes an instance method through a per-call-site tag,
// guaranteeing at most one handle resolution for the tag's lifetime.
func CallTag[R any](o *Object, tag *MethodTag, args ...any) (R, error) {
	var zero R
	ret, err := returnDescriptor[R]()
	if err != nil {
		return zero, err
	}
	v, err := callInstance(o, tag.name, tag, ret, args)
	if err != nil {
		return zero, err
	}
	env, _ := jmi.Current()
	return convertResult[R](env, v)
}

// CallObject invokes an instance method returning an object of retClass.
// The returned handle owns its reference; a null result yields an unset
// handle and no error.
func CallObject(o *Object, name string, retClass *Class, args ...any) (*Object, error) {
	v, err := callInstance(o, name, nil, retClass.Descriptor(), args)
	if err != nil {
		return nil, err
	}
	return adoptResult(retClass, v)
}

// CallStatic invokes a static method by name on the class.
func CallStatic[R any](c *Class, name string, args ...any) (R, error) {
	var zero R
	ret, err := returnDescriptor[R]()
	if err != nil {
		return zero, err
	}
	v, err := callStatic(c, name, nil, ret, args)
	if err != nil {
		return zero, err
	}
	env, _ := jmi.Current()
	return convertResult[R](env, v)
}

// CallStaticTag invokes a static method through a per-call-site tag.
func CallStaticTag[R any](c *Class, tag *MethodTag, args ...any) (R, error) {
	var zero R
	ret, err := returnDescriptor[R]()
	if err != nil {
		return zero, err
	}
	v, err := callStatic(c, tag.name, tag, ret, args)
	if err != nil {
		return zero, err
	}
	env, _ := jmi.Current()
	return convertResult[R](env, v)
}

// CallStaticObject invokes a static method returning an object of retClass.
func CallStaticObject(c *Class, name string, retClass *Class, args ...any) (*Object, error) {
	v, err := callStatic(c, name, nil, retClass.Descriptor(), args)
	if err != nil {
		return nil, err
	}
	return adoptResult(retClass, v)
}

func adoptResult(retClass *Class, v jmi.Value) (*Object, error) {
	if v.Ref.IsNull() {
		return NewObject(retClass), nil
	}
	env, err := jmi.Current()
	if err != nil {
		return nil, err
	}
	o := WrapObject(retClass, env, v.Ref)
	env.DeleteRef(v.Ref)
	return o, nil
}

func callInstance(o *Object, name string, tag *MethodTag, retDesc string, args []any) (jmi.Value, error) {
	if o == nil {
		return jmi.Value{}, errors.InvalidInput(errors.PhaseCall, "nil object handle")
	}
	// An unset handle never reaches the runtime: report the recorded
	// construction failure, or a plain null-handle condition.
	if o.ref.IsNull() {
		if o.lastErr != nil {
			return jmi.Value{}, o.lastErr
		}
		return jmi.Value{}, o.fail(errors.NullHandle(o.cls.name, name))
	}

	env, err := jmi.Current()
	if err != nil {
		return jmi.Value{}, o.fail(err)
	}

	frame, err := marshalArgs(env, args)
	if err != nil {
		return jmi.Value{}, o.fail(err)
	}
	defer frame.release(env)

	sig := signature.MethodFor(retDesc, frame.descs...)
	var id jmi.MethodID
	if tag != nil {
		id, err = tag.resolve(env, o.cls, sig, false)
	} else {
		id, err = o.cls.methodID(env, name, sig, false)
	}
	if err != nil {
		return jmi.Value{}, o.fail(err)
	}

	ret := env.CallMethod(o.ref, id, signature.KindOf(retDesc), frame.vals)
	if cbErr := frame.copyBack(env); cbErr != nil {
		return jmi.Value{}, o.fail(cbErr)
	}
	if err := checkPending(env, errors.PhaseCall); err != nil {
		return jmi.Value{}, o.fail(errors.New(errors.PhaseCall, errors.KindPendingException).
			Class(o.cls.name).
			Member(name).
			Signature(sig).
			Cause(err).
			Build())
	}

	o.lastErr = nil
	return ret, nil
}

func callStatic(c *Class, name string, tag *MethodTag, retDesc string, args []any) (jmi.Value, error) {
	if c == nil {
		return jmi.Value{}, errors.InvalidInput(errors.PhaseCall, "nil class")
	}
	env, err := jmi.Current()
	if err != nil {
		return jmi.Value{}, err
	}

	frame, err := marshalArgs(env, args)
	if err != nil {
		return jmi.Value{}, err
	}
	defer frame.release(env)

	sig := signature.MethodFor(retDesc, frame.descs...)
	var id jmi.MethodID
	if tag != nil {
		id, err = tag.resolve(env, c, sig, true)
	} else {
		id, err = c.methodID(env, name, sig, true)
	}
	if err != nil {
		return jmi.Value{}, err
	}

	cls, err := c.Resolve(env)
	if err != nil {
		return jmi.Value{}, err
	}

	ret := env.CallStaticMethod(cls, id, signature.KindOf(retDesc), frame.vals)
	if cbErr := frame.copyBack(env); cbErr != nil {
		return jmi.Value{}, cbErr
	}
	if err := checkPending(env, errors.PhaseCall); err != nil {
		return jmi.Value{}, errors.New(errors.PhaseCall, errors.KindPendingException).
			Class(c.name).
			Member(name).
			Signature(sig).
			Cause(err).
			Build()
	}
	return ret, nil
}
