package jmi

import "math"

// ClassRef is an opaque runtime-issued reference to a resolved class.
// The zero value means "no class".
type ClassRef uint64

// ObjectRef is an opaque runtime-issued reference to a managed object,
// string, or array. The zero value is the null reference.
type ObjectRef uint64

// MethodID identifies a resolved method within its class.
// The zero value means "unresolved".
type MethodID uint64

// FieldID identifies a resolved field within its class.
// The zero value means "unresolved".
type FieldID uint64

// IsNull reports whether r is the null reference.
func (r ObjectRef) IsNull() bool { return r == 0 }

// Void is the return type marker for methods that return nothing.
type Void struct{}

// Kind is the value category used by the runtime's typed invoke family.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBoolean
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindObject
	KindArray
)

var kindNames = [...]string{
	KindVoid:    "void",
	KindBoolean: "boolean",
	KindByte:    "byte",
	KindChar:    "char",
	KindShort:   "short",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
	KindObject:  "object",
	KindArray:   "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is a primitive (non-reference) category.
func (k Kind) IsPrimitive() bool {
	return k > KindVoid && k < KindObject
}

// IsReference reports whether values of this kind carry an ObjectRef.
func (k Kind) IsReference() bool {
	return k == KindObject || k == KindArray
}

// Value is the tagged union of the runtime's native-array calling
// convention. Primitive payloads live in Bits; references in Ref.
type Value struct {
	Kind Kind
	Bits uint64
	Ref  ObjectRef
}

func Boolean(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}
	return Value{Kind: KindBoolean, Bits: bits}
}

func Byte(v int8) Value      { return Value{Kind: KindByte, Bits: uint64(uint8(v))} }
func Char(v uint16) Value    { return Value{Kind: KindChar, Bits: uint64(v)} }
func Short(v int16) Value    { return Value{Kind: KindShort, Bits: uint64(uint16(v))} }
func Int(v int32) Value      { return Value{Kind: KindInt, Bits: uint64(uint32(v))} }
func Long(v int64) Value     { return Value{Kind: KindLong, Bits: uint64(v)} }
func Float(v float32) Value  { return Value{Kind: KindFloat, Bits: uint64(math.Float32bits(v))} }
func Double(v float64) Value { return Value{Kind: KindDouble, Bits: math.Float64bits(v)} }

// Object wraps a reference into a Value. Arrays use Array instead so the
// typed dispatch can distinguish them.
func Object(r ObjectRef) Value { return Value{Kind: KindObject, Ref: r} }
func Array(r ObjectRef) Value  { return Value{Kind: KindArray, Ref: r} }

func (v Value) AsBoolean() bool  { return v.Bits != 0 }
func (v Value) AsByte() int8     { return int8(uint8(v.Bits)) }
func (v Value) AsChar() uint16   { return uint16(v.Bits) }
func (v Value) AsShort() int16   { return int16(uint16(v.Bits)) }
func (v Value) AsInt() int32     { return int32(uint32(v.Bits)) }
func (v Value) AsLong() int64    { return int64(v.Bits) }
func (v Value) AsFloat() float32 { return math.Float32frombits(uint32(v.Bits)) }
func (v Value) AsDouble() float64 {
	return math.Float64frombits(v.Bits)
}
