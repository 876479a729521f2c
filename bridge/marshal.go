package bridge

import (
	"reflect"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
	"github.com/Framatome/jmi/signature"
)

// OutArg marks a primitive buffer argument whose runtime-side values are
// copied back into the native buffer after the call. Construct with Out.
type OutArg struct {
	ptr any
}

// Out declares an output binding for ptr, which must point to a slice of
// primitives. The slice keeps its length: the runtime array is copied
// back element for element, never grown or shrunk.
func Out(ptr any) OutArg {
	return OutArg{ptr: ptr}
}

type outBinding struct {
	arr jmi.ObjectRef
	dst reflect.Value // the bound slice
}

// callFrame carries everything marshalArgs produced for one invocation.
type callFrame struct {
	vals     []jmi.Value
	descs    []string
	outs     []outBinding
	released bool
	temps    []jmi.ObjectRef
}

// release deletes the temporary references created for the call: interim
// strings and array copies. Object arguments are the caller's and stay.
func (f *callFrame) release(env jmi.Env) {
	if f.released {
		return
	}
	f.released = true
	for _, ref := range f.temps {
		env.DeleteRef(ref)
	}
}

// copyBack writes runtime array contents into the bound native buffers,
// honoring each buffer's length exactly.
func (f *callFrame) copyBack(env jmi.Env) error {
	for _, out := range f.outs {
		n := out.dst.Len()
		vals := env.GetArrayRegion(out.arr, 0, n)
		if err := checkPending(env, errors.PhaseMarshal); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := setFromValue(env, out.dst.Index(i), vals[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// marshalArgs converts native arguments into the runtime's calling
// convention. Primitives box into the tagged union, strings and slices
// copy into runtime objects, object handles pass by reference.
func marshalArgs(env jmi.Env, args []any) (*callFrame, error) {
	f := &callFrame{
		vals:  make([]jmi.Value, 0, len(args)),
		descs: make([]string, 0, len(args)),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case bool:
			f.push(jmi.Boolean(v), "Z")
		case int8:
			f.push(jmi.Byte(v), "B")
		case uint16:
			f.push(jmi.Char(v), "C")
		case int16:
			f.push(jmi.Short(v), "S")
		case int32:
			f.push(jmi.Int(v), "I")
		case int:
			f.push(jmi.Int(int32(v)), "I")
		case int64:
			f.push(jmi.Long(v), "J")
		case float32:
			f.push(jmi.Float(v), "F")
		case float64:
			f.push(jmi.Double(v), "D")
		case string:
			ref := env.NewString(v)
			f.temps = append(f.temps, ref)
			if err := checkPending(env, errors.PhaseMarshal); err != nil {
				f.release(env)
				return nil, err
			}
			f.push(jmi.Object(ref), "Ljava/lang/String;")
		case *Object:
			if v == nil {
				f.release(env)
				return nil, errors.InvalidInput(errors.PhaseMarshal, "nil *Object argument")
			}
			f.push(jmi.Object(v.ref), v.cls.Descriptor())
		case OutArg:
			if err := f.pushOut(env, v); err != nil {
				f.release(env)
				return nil, err
			}
		default:
			if err := f.pushReflected(env, arg); err != nil {
				f.release(env)
				return nil, err
			}
		}
	}
	return f, nil
}

func (f *callFrame) push(v jmi.Value, desc string) {
	f.vals = append(f.vals, v)
	f.descs = append(f.descs, desc)
}

func (f *callFrame) pushOut(env jmi.Env, out OutArg) error {
	rv := reflect.ValueOf(out.ptr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return errors.InvalidInput(errors.PhaseMarshal, "Out requires a non-nil pointer to a slice")
	}
	slice := rv.Elem()

	elemDesc, err := signature.TypeOf(slice.Type().Elem())
	if err != nil {
		return err
	}
	if !signature.KindOf(elemDesc).IsPrimitive() {
		return errors.InvalidInput(errors.PhaseMarshal, "Out buffers must hold primitives")
	}

	ref, err := f.copyInArray(env, slice, elemDesc)
	if err != nil {
		return err
	}
	f.outs = append(f.outs, outBinding{arr: ref, dst: slice})
	f.push(jmi.Array(ref), "["+elemDesc)
	return nil
}

func (f *callFrame) pushReflected(env jmi.Env, arg any) error {
	if arg == nil {
		return errors.UnsupportedType(errors.PhaseMarshal, "untyped nil")
	}
	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.UnsupportedType(errors.PhaseMarshal, rv.Type().String())
	}

	elemDesc, err := signature.TypeOf(rv.Type().Elem())
	if err != nil {
		return err
	}
	ref, err := f.copyInArray(env, rv, elemDesc)
	if err != nil {
		return err
	}
	f.push(jmi.Array(ref), "["+elemDesc)
	return nil
}

// copyInArray copies a Go slice or array into a runtime array. Every
// reference it mints, the array itself and per-element strings and nested
// arrays, is recorded in temps so release reclaims it after the call.
func (f *callFrame) copyInArray(env jmi.Env, src reflect.Value, elemDesc string) (jmi.ObjectRef, error) {
	elemKind := signature.KindOf(elemDesc)
	n := src.Len()

	arr := env.NewArray(elemKind, n)
	f.temps = append(f.temps, arr)
	if err := checkPending(env, errors.PhaseMarshal); err != nil {
		return 0, err
	}

	vals := make([]jmi.Value, n)
	for i := 0; i < n; i++ {
		v, err := f.valueFrom(env, src.Index(i), elemDesc)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	env.SetArrayRegion(arr, 0, vals)
	if err := checkPending(env, errors.PhaseMarshal); err != nil {
		return 0, err
	}
	return arr, nil
}

// valueFrom boxes one Go value of a known descriptor into the tagged union.
func (f *callFrame) valueFrom(env jmi.Env, rv reflect.Value, desc string) (jmi.Value, error) {
	switch signature.KindOf(desc) {
	case jmi.KindBoolean:
		return jmi.Boolean(rv.Bool()), nil
	case jmi.KindByte:
		return jmi.Byte(int8(rv.Int())), nil
	case jmi.KindChar:
		return jmi.Char(uint16(rv.Uint())), nil
	case jmi.KindShort:
		return jmi.Short(int16(rv.Int())), nil
	case jmi.KindInt:
		return jmi.Int(int32(rv.Int())), nil
	case jmi.KindLong:
		return jmi.Long(rv.Int()), nil
	case jmi.KindFloat:
		return jmi.Float(float32(rv.Float())), nil
	case jmi.KindDouble:
		return jmi.Double(rv.Float()), nil
	case jmi.KindObject:
		// string elements; other object elements have no Go-side type
		if rv.Kind() == reflect.String {
			ref := env.NewString(rv.String())
			f.temps = append(f.temps, ref)
			if err := checkPending(env, errors.PhaseMarshal); err != nil {
				return jmi.Value{}, err
			}
			return jmi.Object(ref), nil
		}
		return jmi.Value{}, errors.UnsupportedType(errors.PhaseMarshal, rv.Type().String())
	case jmi.KindArray:
		ref, err := f.copyInArray(env, rv, desc[1:])
		if err != nil {
			return jmi.Value{}, err
		}
		return jmi.Array(ref), nil
	}
	return jmi.Value{}, errors.UnsupportedType(errors.PhaseMarshal, rv.Type().String())
}

// setFromValue writes one unboxed element into native storage.
func setFromValue(env jmi.Env, dst reflect.Value, v jmi.Value) error {
	switch v.Kind {
	case jmi.KindBoolean:
		dst.SetBool(v.AsBoolean())
	case jmi.KindByte:
		dst.SetInt(int64(v.AsByte()))
	case jmi.KindChar:
		dst.SetUint(uint64(v.AsChar()))
	case jmi.KindShort:
		dst.SetInt(int64(v.AsShort()))
	case jmi.KindInt:
		dst.SetInt(int64(v.AsInt()))
	case jmi.KindLong:
		dst.SetInt(v.AsLong())
	case jmi.KindFloat:
		dst.SetFloat(float64(v.AsFloat()))
	case jmi.KindDouble:
		dst.SetFloat(v.AsDouble())
	case jmi.KindObject:
		if dst.Kind() == reflect.String {
			dst.SetString(jmi.GoString(env, v.Ref))
			return nil
		}
		return errors.UnsupportedType(errors.PhaseMarshal, dst.Type().String())
	default:
		return errors.UnsupportedType(errors.PhaseMarshal, dst.Type().String())
	}
	return nil
}

// convertResult unboxes the call result into R. Reference results are
// copied out and their interim references released.
func convertResult[R any](env jmi.Env, v jmi.Value) (R, error) {
	var zero R

	switch p := any(&zero).(type) {
	case *jmi.Void:
		return zero, nil
	case *bool:
		*p = v.AsBoolean()
	case *int8:
		*p = v.AsByte()
	case *uint16:
		*p = v.AsChar()
	case *int16:
		*p = v.AsShort()
	case *int32:
		*p = v.AsInt()
	case *int:
		*p = int(v.AsInt())
	case *int64:
		*p = v.AsLong()
	case *float32:
		*p = v.AsFloat()
	case *float64:
		*p = v.AsDouble()
	case *string:
		if v.Ref.IsNull() {
			return zero, nil
		}
		*p = env.GetString(v.Ref)
		env.DeleteRef(v.Ref)
	case *jmi.ObjectRef:
		*p = v.Ref
	default:
		return convertReflected[R](env, v)
	}
	return zero, nil
}

// convertReflected handles slice results.
func convertReflected[R any](env jmi.Env, v jmi.Value) (R, error) {
	var zero R
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Slice {
		hint := "unsupported return type"
		if t != nil {
			hint = "unsupported return type " + t.String() + " (object returns go through CallObject)"
		}
		return zero, errors.InvalidInput(errors.PhaseMarshal, hint)
	}
	if v.Ref.IsNull() {
		return zero, nil
	}

	n := env.ArrayLength(v.Ref)
	if err := checkPending(env, errors.PhaseMarshal); err != nil {
		return zero, err
	}
	vals := env.GetArrayRegion(v.Ref, 0, n)
	if err := checkPending(env, errors.PhaseMarshal); err != nil {
		return zero, err
	}

	out := reflect.MakeSlice(t, n, n)
	for i := 0; i < n; i++ {
		if err := setFromValue(env, out.Index(i), vals[i]); err != nil {
			return zero, err
		}
	}
	env.DeleteRef(v.Ref)
	return out.Interface().(R), nil
}
