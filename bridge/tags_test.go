package bridge_test

import (
	"sync"
	"testing"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/bridge"
	"github.com/Framatome/jmi/errors"
	"github.com/Framatome/jmi/jmitest"
)

func TestCallTag_ResolvesOnce(t *testing.T) {
	vm := testVM(t)
	vm.DefineClass("com/acme/tag/Repeat").
		Constructor("()V", nil).
		Method("twice", "(I)I", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			return jmi.Int(args[0].AsInt() * 2)
		})

	o := bridge.NewObject(bridge.ForName("com/acme/tag/Repeat"))
	if !o.Create() {
		t.Fatalf("Create: %v", o.Err())
	}
	defer o.Dispose()

	tag := bridge.NewMethodTag("twice")
	for i := int32(0); i < 5; i++ {
		got, err := bridge.CallTag[int32](o, tag, i)
		if err != nil {
			t.Fatalf("CallTag: %v", err)
		}
		if got != i*2 {
			t.Errorf("twice(%d) = %d", i, got)
		}
	}
	if got := vm.MethodLookups("com/acme/tag/Repeat", "twice", "(I)I"); got != 1 {
		t.Errorf("MethodLookups = %d, want 1 (tag binds on first use)", got)
	}
}

func TestCallTag_Concurrent(t *testing.T) {
	vm := testVM(t)
	vm.DefineClass("com/acme/tag/Race").
		Constructor("()V", nil).
		Method("echo", "(I)I", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			return args[0]
		})

	o := bridge.NewObject(bridge.ForName("com/acme/tag/Race"))
	if !o.Create() {
		t.Fatalf("Create: %v", o.Err())
	}
	defer o.Dispose()

	tag := bridge.NewMethodTag("echo")
	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			got, err := bridge.CallTag[int32](o, tag, int32(w))
			if err == nil && got != int32(w) {
				err = errors.InvalidInput(errors.PhaseCall, "wrong echo")
			}
			errs[w] = err
		}(w)
	}
	wg.Wait()
	for w, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", w, err)
		}
	}

	// the published binding serves later calls without another lookup
	before := vm.MethodLookups("com/acme/tag/Race", "echo", "(I)I")
	if _, err := bridge.CallTag[int32](o, tag, int32(99)); err != nil {
		t.Fatal(err)
	}
	if after := vm.MethodLookups("com/acme/tag/Race", "echo", "(I)I"); after != before {
		t.Errorf("lookup count moved %d -> %d after the tag was bound", before, after)
	}
}

func TestCallTag_ClassMismatch(t *testing.T) {
	vm := testVM(t)
	body := func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
		return jmi.Int(0)
	}
	vm.DefineClass("com/acme/tag/First").Constructor("()V", nil).Method("run", "()I", body)
	vm.DefineClass("com/acme/tag/Second").Constructor("()V", nil).Method("run", "()I", body)

	a := bridge.NewObject(bridge.ForName("com/acme/tag/First"))
	b := bridge.NewObject(bridge.ForName("com/acme/tag/Second"))
	if !a.Create() || !b.Create() {
		t.Fatalf("Create: %v / %v", a.Err(), b.Err())
	}
	defer a.Dispose()
	defer b.Dispose()

	tag := bridge.NewMethodTag("run")
	if _, err := bridge.CallTag[int32](a, tag); err != nil {
		t.Fatalf("first binding: %v", err)
	}
	_, err := bridge.CallTag[int32](b, tag)
	wantKind(t, err, errors.KindSignatureMismatch)
}

func TestCallStaticTag(t *testing.T) {
	vm := testVM(t)
	vm.DefineClass("com/acme/tag/Registry").
		Constructor("()V", nil).
		StaticMethod("size", "()I", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			return jmi.Int(3)
		})

	cls := bridge.ForName("com/acme/tag/Registry")
	tag := bridge.NewMethodTag("size")
	for i := 0; i < 3; i++ {
		got, err := bridge.CallStaticTag[int32](cls, tag)
		if err != nil {
			t.Fatalf("CallStaticTag: %v", err)
		}
		if got != 3 {
			t.Errorf("size = %d, want 3", got)
		}
	}
	if got := vm.MethodLookups("com/acme/tag/Registry", "size", "()I"); got != 1 {
		t.Errorf("MethodLookups = %d, want 1", got)
	}

	// staticness is part of the binding
	o := bridge.NewObject(cls)
	if !o.Create() {
		t.Fatalf("Create: %v", o.Err())
	}
	defer o.Dispose()
	_, err := bridge.CallTag[int32](o, tag)
	wantKind(t, err, errors.KindSignatureMismatch)
}

func TestStaticFieldByTag(t *testing.T) {
	vm := testVM(t)
	vm.DefineClass("com/acme/tag/Limits").
		StaticField("max", "J", jmi.Long(100))

	cls := bridge.ForName("com/acme/tag/Limits")
	tag := bridge.NewFieldTag("max")
	acc := bridge.StaticFieldByTag[int64](cls, tag)

	for i := 0; i < 3; i++ {
		got, err := acc.Get()
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != 100 {
			t.Errorf("max = %d, want 100", got)
		}
	}
	if got := vm.FieldLookups("com/acme/tag/Limits", "max", "J"); got != 1 {
		t.Errorf("FieldLookups = %d, want 1", got)
	}
}

func TestFieldTag_ResolvesOnce(t *testing.T) {
	vm := testVM(t)
	vm.DefineClass("com/acme/tag/Slot").
		Constructor("()V", nil).
		Field("value", "I")

	o := bridge.NewObject(bridge.ForName("com/acme/tag/Slot"))
	if !o.Create() {
		t.Fatalf("Create: %v", o.Err())
	}
	defer o.Dispose()

	tag := bridge.NewFieldTag("value")
	acc := bridge.FieldByTag[int32](o, tag)
	for i := int32(0); i < 4; i++ {
		if err := acc.Set(i); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := acc.Get()
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != i {
			t.Errorf("value = %d, want %d", got, i)
		}
	}
	if got := vm.FieldLookups("com/acme/tag/Slot", "value", "I"); got != 1 {
		t.Errorf("FieldLookups = %d, want 1 (tag binds on first access)", got)
	}
}
