package jmi_test

import (
	"math"
	"testing"

	"github.com/Framatome/jmi"
)

func TestValueRoundTrips(t *testing.T) {
	if v := jmi.Boolean(true); !v.AsBoolean() || v.Kind != jmi.KindBoolean {
		t.Error("boolean round trip failed")
	}
	if v := jmi.Boolean(false); v.AsBoolean() {
		t.Error("false read back as true")
	}
	if v := jmi.Byte(-128); v.AsByte() != -128 {
		t.Errorf("byte = %d", v.AsByte())
	}
	if v := jmi.Char(0xFFFF); v.AsChar() != 0xFFFF {
		t.Errorf("char = %d", v.AsChar())
	}
	if v := jmi.Short(-32768); v.AsShort() != -32768 {
		t.Errorf("short = %d", v.AsShort())
	}
	if v := jmi.Int(math.MinInt32); v.AsInt() != math.MinInt32 {
		t.Errorf("int = %d", v.AsInt())
	}
	if v := jmi.Long(math.MinInt64); v.AsLong() != math.MinInt64 {
		t.Errorf("long = %d", v.AsLong())
	}
	if v := jmi.Float(float32(math.Pi)); v.AsFloat() != float32(math.Pi) {
		t.Errorf("float = %g", v.AsFloat())
	}
	if v := jmi.Double(math.SmallestNonzeroFloat64); v.AsDouble() != math.SmallestNonzeroFloat64 {
		t.Errorf("double = %g", v.AsDouble())
	}
	if v := jmi.Float(float32(math.NaN())); !math.IsNaN(float64(v.AsFloat())) {
		t.Error("NaN did not survive the float round trip")
	}
}

func TestValueReferences(t *testing.T) {
	v := jmi.Object(jmi.ObjectRef(42))
	if v.Kind != jmi.KindObject || v.Ref != 42 {
		t.Errorf("object value = %+v", v)
	}
	a := jmi.Array(jmi.ObjectRef(7))
	if a.Kind != jmi.KindArray || a.Ref != 7 {
		t.Errorf("array value = %+v", a)
	}
}

func TestKindClassification(t *testing.T) {
	prims := []jmi.Kind{
		jmi.KindBoolean, jmi.KindByte, jmi.KindChar, jmi.KindShort,
		jmi.KindInt, jmi.KindLong, jmi.KindFloat, jmi.KindDouble,
	}
	for _, k := range prims {
		if !k.IsPrimitive() {
			t.Errorf("%s should be primitive", k)
		}
		if k.IsReference() {
			t.Errorf("%s should not be a reference", k)
		}
	}
	for _, k := range []jmi.Kind{jmi.KindObject, jmi.KindArray} {
		if !k.IsReference() {
			t.Errorf("%s should be a reference", k)
		}
		if k.IsPrimitive() {
			t.Errorf("%s should not be primitive", k)
		}
	}
	if jmi.KindVoid.IsPrimitive() || jmi.KindVoid.IsReference() {
		t.Error("void is neither primitive nor reference")
	}
	if jmi.KindInt.String() != "int" {
		t.Errorf("KindInt.String() = %q", jmi.KindInt.String())
	}
}

func TestObjectRefIsNull(t *testing.T) {
	if !jmi.ObjectRef(0).IsNull() {
		t.Error("zero ref should be null")
	}
	if jmi.ObjectRef(1).IsNull() {
		t.Error("non-zero ref should not be null")
	}
}
