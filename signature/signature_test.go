package signature

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
)

type pointIdentity struct{}

func (pointIdentity) JavaClassName() string { return "com.acme.Point" }

func TestTypeOf(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeOf(false), "Z"},
		{reflect.TypeOf(int8(0)), "B"},
		{reflect.TypeOf(uint16(0)), "C"},
		{reflect.TypeOf(int16(0)), "S"},
		{reflect.TypeOf(int32(0)), "I"},
		{reflect.TypeOf(int(0)), "I"},
		{reflect.TypeOf(int64(0)), "J"},
		{reflect.TypeOf(float32(0)), "F"},
		{reflect.TypeOf(float64(0)), "D"},
		{reflect.TypeOf(""), "Ljava/lang/String;"},
		{reflect.TypeOf([]float32{}), "[F"},
		{reflect.TypeOf([16]float32{}), "[F"},
		{reflect.TypeOf([][]int32{}), "[[I"},
		{reflect.TypeOf([]string{}), "[Ljava/lang/String;"},
		{reflect.TypeOf(jmi.Void{}), "V"},
		{reflect.TypeOf(pointIdentity{}), "Lcom/acme/Point;"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := TypeOf(tt.typ)
			if err != nil {
				t.Fatalf("TypeOf(%v): %v", tt.typ, err)
			}
			if got != tt.want {
				t.Errorf("TypeOf(%v) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestTypeOf_Unsupported(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeOf(uint32(0)),
		reflect.TypeOf(map[string]int{}),
		reflect.TypeOf(make(chan int)),
		nil,
	} {
		_, err := TypeOf(typ)
		if err == nil {
			t.Errorf("TypeOf(%v) should fail", typ)
			continue
		}
		var e *errors.Error
		if !stderrors.As(err, &e) || e.Kind != errors.KindUnsupportedType {
			t.Errorf("TypeOf(%v) error = %v, want unsupported_type", typ, err)
		}
	}
}

func TestOf(t *testing.T) {
	got, err := Of[[]float64]()
	if err != nil {
		t.Fatal(err)
	}
	if got != "[D" {
		t.Errorf("Of[[]float64]() = %q, want %q", got, "[D")
	}
}

func TestOfValue(t *testing.T) {
	if got, err := OfValue(int64(0)); err != nil || got != "J" {
		t.Errorf("OfValue(int64) = %q, %v", got, err)
	}
	// a value carrying a class identity encodes as its own class
	if got, err := OfValue(pointIdentity{}); err != nil || got != "Lcom/acme/Point;" {
		t.Errorf("OfValue(pointIdentity) = %q, %v", got, err)
	}
	if _, err := OfValue(nil); err == nil {
		t.Error("OfValue(nil) should fail")
	}
}

func TestMethod(t *testing.T) {
	tests := []struct {
		ret    string
		params []string
		want   string
	}{
		{"V", []string{"I"}, "(I)V"},
		{"I", []string{"Ljava/lang/String;"}, "(Ljava/lang/String;)I"},
		{"V", nil, "()V"},
		{"[F", []string{"[F", "F"}, "([FF)[F"},
	}
	for _, tt := range tests {
		if got := Method(tt.ret, tt.params...); got != tt.want {
			t.Errorf("Method(%q, %v) = %q, want %q", tt.ret, tt.params, got, tt.want)
		}
	}
}

func TestMethodFor(t *testing.T) {
	tests := []struct {
		ret    string
		params []string
		want   string
	}{
		{"I", []string{"Ljava/lang/String;"}, "(Ljava/lang/String;)I"},
		{"V", nil, "()V"},
		{"D", []string{"D", "D"}, "(DD)D"},
	}
	for _, tt := range tests {
		if got := MethodFor(tt.ret, tt.params...); got != tt.want {
			t.Errorf("MethodFor(%q, %v) = %q, want %q", tt.ret, tt.params, got, tt.want)
		}
		if again := MethodFor(tt.ret, tt.params...); again != tt.want {
			t.Errorf("interned MethodFor(%q, %v) = %q, want %q", tt.ret, tt.params, again, tt.want)
		}
	}

	// Combinations past the intern limit still compose correctly.
	wide := make([]string, maxInterned+1)
	want := "("
	for i := range wide {
		wide[i] = "I"
		want += "I"
	}
	want += ")V"
	if got := MethodFor("V", wide...); got != want {
		t.Errorf("MethodFor wide = %q, want %q", got, want)
	}
}

func TestForCall(t *testing.T) {
	sig, err := ForCall(reflect.TypeOf(int32(0)), reflect.TypeOf(""))
	if err != nil {
		t.Fatal(err)
	}
	if sig != "(Ljava/lang/String;)I" {
		t.Errorf("ForCall = %q", sig)
	}

	void, err := ForCall(nil, reflect.TypeOf(int32(0)))
	if err != nil {
		t.Fatal(err)
	}
	if void != "(I)V" {
		t.Errorf("ForCall void = %q", void)
	}

	// Same combination again must come from the intern table and agree.
	again, err := ForCall(reflect.TypeOf(int32(0)), reflect.TypeOf(""))
	if err != nil {
		t.Fatal(err)
	}
	if again != sig {
		t.Errorf("interned ForCall = %q, want %q", again, sig)
	}
}

func TestNormalizeClass(t *testing.T) {
	if got := NormalizeClass("java.lang.String"); got != "java/lang/String" {
		t.Errorf("NormalizeClass = %q", got)
	}
	if got := Object("java.lang.Object"); got != "Ljava/lang/Object;" {
		t.Errorf("Object = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		desc string
		want jmi.Kind
	}{
		{"Z", jmi.KindBoolean},
		{"B", jmi.KindByte},
		{"C", jmi.KindChar},
		{"S", jmi.KindShort},
		{"I", jmi.KindInt},
		{"J", jmi.KindLong},
		{"F", jmi.KindFloat},
		{"D", jmi.KindDouble},
		{"Ljava/lang/String;", jmi.KindObject},
		{"[F", jmi.KindArray},
		{"V", jmi.KindVoid},
		{"", jmi.KindVoid},
	}
	for _, tt := range tests {
		if got := KindOf(tt.desc); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestReturnOf(t *testing.T) {
	if got := ReturnOf("(Ljava/lang/String;)I"); got != "I" {
		t.Errorf("ReturnOf = %q", got)
	}
	if got := ReturnOf("[F"); got != "[F" {
		t.Errorf("ReturnOf non-method = %q", got)
	}
}
