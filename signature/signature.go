package signature

import (
	"reflect"
	"strings"
	"sync"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
)

// ClassNamer is implemented by types carrying a logical class identity.
// The returned name may use either '.' or '/' separators.
type ClassNamer interface {
	JavaClassName() string
}

const stringDescriptor = "Ljava/lang/String;"

var (
	voidType  = reflect.TypeOf(jmi.Void{})
	namerType = reflect.TypeOf((*ClassNamer)(nil)).Elem()
)

// NormalizeClass converts a fully-qualified class name to the runtime's
// slash-separated form.
func NormalizeClass(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// Object returns the descriptor for an object of the named class.
func Object(class string) string {
	return "L" + NormalizeClass(class) + ";"
}

// TypeOf returns the descriptor for a Go static type.
func TypeOf(t reflect.Type) (string, error) {
	if t == nil {
		return "", errors.UnsupportedType(errors.PhaseMarshal, "<nil>")
	}
	if t == voidType {
		return "V", nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return "Z", nil
	case reflect.Int8:
		return "B", nil
	case reflect.Uint16:
		return "C", nil
	case reflect.Int16:
		return "S", nil
	case reflect.Int32, reflect.Int:
		return "I", nil
	case reflect.Int64:
		return "J", nil
	case reflect.Float32:
		return "F", nil
	case reflect.Float64:
		return "D", nil
	case reflect.String:
		return stringDescriptor, nil
	case reflect.Slice, reflect.Array:
		elem, err := TypeOf(t.Elem())
		if err != nil {
			return "", err
		}
		return "[" + elem, nil
	}

	if t.Implements(namerType) && t.Kind() == reflect.Struct {
		return Object(reflect.Zero(t).Interface().(ClassNamer).JavaClassName()), nil
	}

	return "", errors.UnsupportedType(errors.PhaseMarshal, t.String())
}

// Of returns the descriptor for T.
func Of[T any]() (string, error) {
	return TypeOf(reflect.TypeOf((*T)(nil)).Elem())
}

// OfValue returns the descriptor for a concrete value. Values implementing
// ClassNamer encode through their class identity, so an object wrapper
// encodes as its own class rather than a generic object type.
func OfValue(v any) (string, error) {
	if namer, ok := v.(ClassNamer); ok {
		return Object(namer.JavaClassName()), nil
	}
	if v == nil {
		return "", errors.UnsupportedType(errors.PhaseMarshal, "untyped nil")
	}
	return TypeOf(reflect.TypeOf(v))
}

// Method composes a method descriptor from parameter and return
// descriptors.
func Method(ret string, params ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(p)
	}
	b.WriteByte(')')
	b.WriteString(ret)
	return b.String()
}

// Combinations with more parameters than this bypass the intern tables.
const maxInterned = 12

type comboKey struct {
	ret    reflect.Type
	n      int
	params [maxInterned]reflect.Type
}

type methodKey struct {
	ret    string
	n      int
	params [maxInterned]string
}

var (
	interned       sync.Map // comboKey -> string
	methodInterned sync.Map // methodKey -> string
)

// MethodFor returns the interned method descriptor for a combination of
// return and parameter descriptors. Each distinct combination is composed
// once for the process lifetime, so per-call paths reuse the stored string
// instead of rebuilding it on every invocation.
func MethodFor(ret string, params ...string) string {
	if len(params) > maxInterned {
		return Method(ret, params...)
	}
	var key methodKey
	key.ret = ret
	key.n = len(params)
	copy(key.params[:], params)
	if sig, ok := methodInterned.Load(key); ok {
		return sig.(string)
	}
	sig, _ := methodInterned.LoadOrStore(key, Method(ret, params...))
	return sig.(string)
}

// ForCall derives the full method descriptor for a call with the given
// return and parameter types. A nil ret encodes as void. The result is
// interned so each distinct type combination is derived once for the
// process lifetime.
func ForCall(ret reflect.Type, params ...reflect.Type) (string, error) {
	if ret == nil {
		ret = voidType
	}

	var key comboKey
	cacheable := len(params) <= maxInterned
	if cacheable {
		key.ret = ret
		key.n = len(params)
		copy(key.params[:], params)
		if sig, ok := interned.Load(key); ok {
			return sig.(string), nil
		}
	}

	parts := make([]string, len(params))
	for i, p := range params {
		d, err := TypeOf(p)
		if err != nil {
			return "", err
		}
		parts[i] = d
	}
	retDesc, err := TypeOf(ret)
	if err != nil {
		return "", err
	}

	sig := MethodFor(retDesc, parts...)
	if cacheable {
		interned.Store(key, sig)
	}
	return sig, nil
}

// KindOf classifies a descriptor by its leading byte for the runtime's
// typed invoke dispatch.
func KindOf(desc string) jmi.Kind {
	if desc == "" {
		return jmi.KindVoid
	}
	switch desc[0] {
	case 'Z':
		return jmi.KindBoolean
	case 'B':
		return jmi.KindByte
	case 'C':
		return jmi.KindChar
	case 'S':
		return jmi.KindShort
	case 'I':
		return jmi.KindInt
	case 'J':
		return jmi.KindLong
	case 'F':
		return jmi.KindFloat
	case 'D':
		return jmi.KindDouble
	case 'L':
		return jmi.KindObject
	case '[':
		return jmi.KindArray
	default:
		return jmi.KindVoid
	}
}

// ReturnOf extracts the return descriptor from a method descriptor, or
// returns desc unchanged if it is not a method descriptor.
func ReturnOf(desc string) string {
	if i := strings.LastIndexByte(desc, ')'); i >= 0 {
		return desc[i+1:]
	}
	return desc
}
