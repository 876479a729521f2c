package jmitest

import (
	"testing"

	"github.com/Framatome/jmi"
)

func TestFindClass(t *testing.T) {
	vm := NewVM()
	vm.DefineClass("com/acme/Widget")
	env := vm.Env()

	ref := env.FindClass("com/acme/Widget")
	if ref == 0 {
		t.Fatal("FindClass returned null ref")
	}
	if env.ExceptionCheck() {
		t.Fatalf("unexpected pending exception: %s", env.ExceptionMessage())
	}
	if got := vm.FindClassCalls("com/acme/Widget"); got != 1 {
		t.Errorf("FindClassCalls = %d, want 1", got)
	}

	if env.FindClass("com/acme/Missing") != 0 {
		t.Error("unknown class should return null ref")
	}
	if !env.ExceptionCheck() {
		t.Error("unknown class should leave a pending exception")
	}
	env.ExceptionClear()
	if env.ExceptionCheck() {
		t.Error("ExceptionClear did not clear")
	}
}

func TestMethodLookupAndCall(t *testing.T) {
	vm := NewVM()
	cls := vm.DefineClass("com/acme/Adder")
	cls.Method("add", "(II)I", func(env *Env, self *Object, args []jmi.Value) jmi.Value {
		return jmi.Int(args[0].AsInt() + args[1].AsInt())
	})
	env := vm.Env()

	ref := env.FindClass("com/acme/Adder")
	id := env.GetMethodID(ref, "add", "(II)I")
	if id == 0 {
		t.Fatal("GetMethodID failed")
	}
	if got := vm.MethodLookups("com/acme/Adder", "add", "(II)I"); got != 1 {
		t.Errorf("MethodLookups = %d, want 1", got)
	}

	ctorID := env.GetMethodID(ref, "<init>", "()V")
	if ctorID != 0 {
		t.Error("undeclared constructor should not resolve")
	}
	env.ExceptionClear()

	// no scripted ctor needed for a bare object
	cls.Constructor("()V", nil)
	ctorID = env.GetMethodID(ref, "<init>", "()V")
	obj := env.NewObject(ref, ctorID, nil)
	if obj == 0 {
		t.Fatal("NewObject failed")
	}

	got := env.CallMethod(obj, id, jmi.KindInt, []jmi.Value{jmi.Int(2), jmi.Int(40)})
	if got.AsInt() != 42 {
		t.Errorf("add = %d, want 42", got.AsInt())
	}
}

func TestFields(t *testing.T) {
	vm := NewVM()
	cls := vm.DefineClass("com/acme/Holder")
	cls.Constructor("()V", nil)
	cls.Field("count", "I")
	cls.StaticField("shared", "J", jmi.Long(7))
	env := vm.Env()

	ref := env.FindClass("com/acme/Holder")
	ctor := env.GetMethodID(ref, "<init>", "()V")
	obj := env.NewObject(ref, ctor, nil)

	fid := env.GetFieldID(ref, "count", "I")
	if fid == 0 {
		t.Fatal("GetFieldID failed")
	}
	env.SetField(obj, fid, jmi.Int(5))
	if got := env.GetField(obj, fid, jmi.KindInt); got.AsInt() != 5 {
		t.Errorf("count = %d, want 5", got.AsInt())
	}

	sid := env.GetStaticFieldID(ref, "shared", "J")
	if got := env.GetStaticField(ref, sid, jmi.KindLong); got.AsLong() != 7 {
		t.Errorf("shared = %d, want 7", got.AsLong())
	}
	env.SetStaticField(ref, sid, jmi.Long(8))
	if got := env.GetStaticField(ref, sid, jmi.KindLong); got.AsLong() != 8 {
		t.Errorf("shared = %d, want 8", got.AsLong())
	}
}

func TestArraysAndStrings(t *testing.T) {
	vm := NewVM()
	env := vm.Env()

	arr := env.NewArray(jmi.KindFloat, 4)
	if env.ArrayLength(arr) != 4 {
		t.Fatalf("ArrayLength = %d", env.ArrayLength(arr))
	}
	env.SetArrayRegion(arr, 1, []jmi.Value{jmi.Float(1.5), jmi.Float(2.5)})
	vals := env.GetArrayRegion(arr, 0, 4)
	if vals[1].AsFloat() != 1.5 || vals[2].AsFloat() != 2.5 || vals[0].AsFloat() != 0 {
		t.Errorf("array contents wrong: %v", vals)
	}

	env.GetArrayRegion(arr, 2, 10)
	if !env.ExceptionCheck() {
		t.Error("out of bounds read should throw")
	}
	env.ExceptionClear()

	str := env.NewString("hello")
	if env.GetString(str) != "hello" {
		t.Errorf("GetString = %q", env.GetString(str))
	}
}

func TestRefsAndIdentity(t *testing.T) {
	vm := NewVM()
	cls := vm.DefineClass("com/acme/Thing")
	cls.Constructor("()V", nil)
	env := vm.Env()

	ref := env.FindClass("com/acme/Thing")
	ctor := env.GetMethodID(ref, "<init>", "()V")
	a := env.NewObject(ref, ctor, nil)
	b := env.NewObject(ref, ctor, nil)

	alias := env.NewGlobalRef(a)
	if alias == a {
		t.Error("NewGlobalRef should mint a fresh ref")
	}
	if !env.IsSameObject(a, alias) {
		t.Error("alias should be the same object")
	}
	if env.IsSameObject(a, b) {
		t.Error("distinct objects should differ")
	}

	before := vm.LiveRefs()
	env.DeleteRef(alias)
	if vm.LiveRefs() != before-1 {
		t.Error("DeleteRef did not drop the ref")
	}
	// deleting the alias must not invalidate the original
	if !env.IsSameObject(a, a) {
		t.Error("original ref should still be alive")
	}
}

func TestThrowFromMethod(t *testing.T) {
	vm := NewVM()
	cls := vm.DefineClass("com/acme/Bomb")
	cls.Constructor("()V", nil)
	cls.Method("explode", "()V", func(env *Env, self *Object, args []jmi.Value) jmi.Value {
		env.Throw("java.lang.IllegalStateException: boom")
		return jmi.Value{}
	})
	env := vm.Env()

	ref := env.FindClass("com/acme/Bomb")
	ctor := env.GetMethodID(ref, "<init>", "()V")
	obj := env.NewObject(ref, ctor, nil)
	id := env.GetMethodID(ref, "explode", "()V")

	env.CallMethod(obj, id, jmi.KindVoid, nil)
	if !env.ExceptionCheck() {
		t.Fatal("Throw should leave pending state")
	}
	if env.ExceptionMessage() != "java.lang.IllegalStateException: boom" {
		t.Errorf("ExceptionMessage = %q", env.ExceptionMessage())
	}
	env.ExceptionClear()
}

func TestFailNextAlloc(t *testing.T) {
	vm := NewVM()
	env := vm.Env()

	vm.FailNextAlloc("java.lang.OutOfMemoryError")
	if ref := env.NewString("x"); ref != 0 {
		t.Error("failed allocation should yield null ref")
	}
	if !env.ExceptionCheck() {
		t.Fatal("failed allocation should leave pending state")
	}
	if env.ExceptionMessage() != "java.lang.OutOfMemoryError" {
		t.Errorf("ExceptionMessage = %q", env.ExceptionMessage())
	}
	env.ExceptionClear()

	// one-shot: the next allocation succeeds
	if ref := env.NewString("x"); ref == 0 {
		t.Error("allocation after the injected failure should succeed")
	}

	vm.FailNextAlloc("java.lang.OutOfMemoryError")
	if ref := env.NewArray(jmi.KindInt, 3); ref != 0 {
		t.Error("failed array allocation should yield null ref")
	}
	env.ExceptionClear()
}

func TestConstructorThrowDropsObject(t *testing.T) {
	vm := NewVM()
	cls := vm.DefineClass("com/acme/Fussy")
	cls.Constructor("(I)V", func(env *Env, self *Object, args []jmi.Value) jmi.Value {
		if args[0].AsInt() < 0 {
			env.Throw("java.lang.IllegalArgumentException: negative")
		}
		return jmi.Value{}
	})
	env := vm.Env()

	ref := env.FindClass("com/acme/Fussy")
	ctor := env.GetMethodID(ref, "<init>", "(I)V")

	obj := env.NewObject(ref, ctor, []jmi.Value{jmi.Int(-1)})
	if obj != 0 {
		t.Error("throwing constructor should yield null ref")
	}
	if !env.ExceptionCheck() {
		t.Error("pending exception expected")
	}
	env.ExceptionClear()
}
