package jmitest

import "github.com/Framatome/jmi"

// Env is a thin per-call view over the shared VM state, mirroring the
// thread-affine environment handle of a real runtime.
type Env struct {
	vm *VM
}

var _ jmi.Env = (*Env)(nil)

// VM returns the owning fake VM.
func (e *Env) VM() *VM { return e.vm }

// Throw leaves a pending exception with the given message. Scripted
// method bodies use it to simulate runtime exceptions.
func (e *Env) Throw(msg string) {
	e.vm.throw(msg)
}

func (e *Env) FindClass(name string) jmi.ClassRef {
	e.vm.countFindClass(name)
	c := e.vm.lookupClass(name)
	if c == nil {
		e.vm.throw("java.lang.NoClassDefFoundError: " + name)
		return 0
	}
	return c.ref
}

func (e *Env) GetMethodID(cls jmi.ClassRef, name, sig string) jmi.MethodID {
	c := e.vm.classByRef(cls)
	if c == nil {
		e.vm.throw("java.lang.NoClassDefFoundError: <bad class ref>")
		return 0
	}
	e.vm.countMethodLookup(c.name + "#" + name + sig)
	def, ok := c.methods[name+sig]
	if !ok {
		e.vm.throw("java.lang.NoSuchMethodError: " + c.name + "." + name + sig)
		return 0
	}
	return def.id
}

func (e *Env) GetStaticMethodID(cls jmi.ClassRef, name, sig string) jmi.MethodID {
	c := e.vm.classByRef(cls)
	if c == nil {
		e.vm.throw("java.lang.NoClassDefFoundError: <bad class ref>")
		return 0
	}
	e.vm.countMethodLookup(c.name + "#" + name + sig)
	def, ok := c.statics[name+sig]
	if !ok {
		e.vm.throw("java.lang.NoSuchMethodError: " + c.name + "." + name + sig)
		return 0
	}
	return def.id
}

func (e *Env) GetFieldID(cls jmi.ClassRef, name, sig string) jmi.FieldID {
	return e.fieldID(cls, name, sig, false)
}

func (e *Env) GetStaticFieldID(cls jmi.ClassRef, name, sig string) jmi.FieldID {
	return e.fieldID(cls, name, sig, true)
}

func (e *Env) fieldID(cls jmi.ClassRef, name, sig string, static bool) jmi.FieldID {
	c := e.vm.classByRef(cls)
	if c == nil {
		e.vm.throw("java.lang.NoClassDefFoundError: <bad class ref>")
		return 0
	}
	e.vm.countFieldLookup(c.name + "#" + name + sig)
	def, ok := c.fields[name]
	if !ok || def.Static != static || def.Sig != sig {
		e.vm.throw("java.lang.NoSuchFieldError: " + c.name + "." + name)
		return 0
	}
	return def.id
}

func (e *Env) NewObject(cls jmi.ClassRef, ctor jmi.MethodID, args []jmi.Value) jmi.ObjectRef {
	c := e.vm.classByRef(cls)
	if c == nil {
		e.vm.throw("java.lang.NoClassDefFoundError: <bad class ref>")
		return 0
	}
	e.vm.idMu.Lock()
	def := e.vm.methodIDs[ctor]
	e.vm.idMu.Unlock()
	if def == nil {
		e.vm.throw("java.lang.NoSuchMethodError: " + c.name + ".<init>")
		return 0
	}

	obj := &Object{Class: c, Fields: make(map[string]jmi.Value)}
	ref := e.vm.newRef(&refCell{obj: obj})
	if def.fn != nil {
		def.fn(e, obj, args)
		if e.vm.pendingMessage() != "" {
			e.vm.dropRef(ref)
			return 0
		}
	}
	return ref
}

func (e *Env) CallMethod(obj jmi.ObjectRef, id jmi.MethodID, ret jmi.Kind, args []jmi.Value) jmi.Value {
	cell := e.vm.cell(obj)
	if cell == nil || cell.obj == nil {
		e.vm.throw("java.lang.NullPointerException")
		return jmi.Value{Kind: ret}
	}
	return e.invoke(id, cell.obj, ret, args)
}

func (e *Env) CallStaticMethod(cls jmi.ClassRef, id jmi.MethodID, ret jmi.Kind, args []jmi.Value) jmi.Value {
	if e.vm.classByRef(cls) == nil {
		e.vm.throw("java.lang.NoClassDefFoundError: <bad class ref>")
		return jmi.Value{Kind: ret}
	}
	return e.invoke(id, nil, ret, args)
}

func (e *Env) invoke(id jmi.MethodID, self *Object, ret jmi.Kind, args []jmi.Value) jmi.Value {
	e.vm.idMu.Lock()
	def := e.vm.methodIDs[id]
	e.vm.idMu.Unlock()
	if def == nil {
		e.vm.throw("java.lang.NoSuchMethodError: <bad method id>")
		return jmi.Value{Kind: ret}
	}
	if def.fn == nil {
		return jmi.Value{Kind: ret}
	}
	out := def.fn(e, self, args)
	if out.Kind != ret && e.vm.pendingMessage() == "" {
		// scripted return disagrees with the call's declared kind
		e.vm.throw("java.lang.ClassCastException: " + out.Kind.String() + " as " + ret.String())
		return jmi.Value{Kind: ret}
	}
	return out
}

func (e *Env) GetField(obj jmi.ObjectRef, id jmi.FieldID, k jmi.Kind) jmi.Value {
	cell := e.vm.cell(obj)
	if cell == nil || cell.obj == nil {
		e.vm.throw("java.lang.NullPointerException")
		return jmi.Value{Kind: k}
	}
	def := e.fieldByID(id)
	if def == nil {
		e.vm.throw("java.lang.NoSuchFieldError: <bad field id>")
		return jmi.Value{Kind: k}
	}
	if v, ok := cell.obj.Fields[def.Name]; ok {
		return e.reref(v)
	}
	return jmi.Value{Kind: k}
}

// reref mints a fresh reference for reference-kind values read out of
// storage, so callers own what they receive and may delete it.
func (e *Env) reref(v jmi.Value) jmi.Value {
	if !v.Kind.IsReference() || v.Ref.IsNull() {
		return v
	}
	cell := e.vm.cell(v.Ref)
	if cell == nil {
		return v
	}
	alias := *cell
	v.Ref = e.vm.newRef(&alias)
	return v
}

func (e *Env) SetField(obj jmi.ObjectRef, id jmi.FieldID, v jmi.Value) {
	cell := e.vm.cell(obj)
	if cell == nil || cell.obj == nil {
		e.vm.throw("java.lang.NullPointerException")
		return
	}
	def := e.fieldByID(id)
	if def == nil {
		e.vm.throw("java.lang.NoSuchFieldError: <bad field id>")
		return
	}
	cell.obj.Fields[def.Name] = v
}

func (e *Env) GetStaticField(cls jmi.ClassRef, id jmi.FieldID, k jmi.Kind) jmi.Value {
	def := e.fieldByID(id)
	if def == nil || e.vm.classByRef(cls) == nil {
		e.vm.throw("java.lang.NoSuchFieldError: <bad field id>")
		return jmi.Value{Kind: k}
	}
	def.class.staticMu.Lock()
	defer def.class.staticMu.Unlock()
	if v, ok := def.class.staticValues[def.Name]; ok {
		return e.reref(v)
	}
	return jmi.Value{Kind: k}
}

func (e *Env) SetStaticField(cls jmi.ClassRef, id jmi.FieldID, v jmi.Value) {
	def := e.fieldByID(id)
	if def == nil || e.vm.classByRef(cls) == nil {
		e.vm.throw("java.lang.NoSuchFieldError: <bad field id>")
		return
	}
	def.class.staticMu.Lock()
	def.class.staticValues[def.Name] = v
	def.class.staticMu.Unlock()
}

func (e *Env) fieldByID(id jmi.FieldID) *FieldDef {
	e.vm.idMu.Lock()
	defer e.vm.idMu.Unlock()
	return e.vm.fieldIDs[id]
}

func (e *Env) NewArray(elem jmi.Kind, length int) jmi.ObjectRef {
	if msg, ok := e.vm.takeAllocFailure(); ok {
		e.vm.throw(msg)
		return 0
	}
	if length < 0 {
		e.vm.throw("java.lang.NegativeArraySizeException")
		return 0
	}
	arr := &arrayState{elem: elem, vals: make([]jmi.Value, length)}
	for i := range arr.vals {
		arr.vals[i] = jmi.Value{Kind: elem}
	}
	return e.vm.newRef(&refCell{arr: arr})
}

func (e *Env) ArrayLength(arr jmi.ObjectRef) int {
	cell := e.vm.cell(arr)
	if cell == nil || cell.arr == nil {
		e.vm.throw("java.lang.NullPointerException")
		return 0
	}
	return len(cell.arr.vals)
}

func (e *Env) SetArrayRegion(arr jmi.ObjectRef, start int, vals []jmi.Value) {
	cell := e.vm.cell(arr)
	if cell == nil || cell.arr == nil {
		e.vm.throw("java.lang.NullPointerException")
		return
	}
	if start < 0 || start+len(vals) > len(cell.arr.vals) {
		e.vm.throw("java.lang.ArrayIndexOutOfBoundsException")
		return
	}
	copy(cell.arr.vals[start:], vals)
}

func (e *Env) GetArrayRegion(arr jmi.ObjectRef, start, length int) []jmi.Value {
	cell := e.vm.cell(arr)
	if cell == nil || cell.arr == nil {
		e.vm.throw("java.lang.NullPointerException")
		return nil
	}
	if start < 0 || length < 0 || start+length > len(cell.arr.vals) {
		e.vm.throw("java.lang.ArrayIndexOutOfBoundsException")
		return nil
	}
	out := make([]jmi.Value, length)
	copy(out, cell.arr.vals[start:start+length])
	return out
}

func (e *Env) NewString(s string) jmi.ObjectRef {
	if msg, ok := e.vm.takeAllocFailure(); ok {
		e.vm.throw(msg)
		return 0
	}
	return e.vm.newRef(&refCell{str: &stringState{s: s}})
}

func (e *Env) GetString(str jmi.ObjectRef) string {
	cell := e.vm.cell(str)
	if cell == nil || cell.str == nil {
		e.vm.throw("java.lang.NullPointerException")
		return ""
	}
	return cell.str.s
}

// RefOf mints a fresh reference to obj, for scripted method bodies
// that return or pass an object.
func (e *Env) RefOf(obj *Object) jmi.ObjectRef {
	if obj == nil {
		return 0
	}
	return e.vm.newRef(&refCell{obj: obj})
}

func (e *Env) NewGlobalRef(obj jmi.ObjectRef) jmi.ObjectRef {
	cell := e.vm.cell(obj)
	if cell == nil {
		return 0
	}
	alias := *cell
	return e.vm.newRef(&alias)
}

func (e *Env) DeleteRef(obj jmi.ObjectRef) {
	e.vm.dropRef(obj)
}

func (e *Env) IsSameObject(a, b jmi.ObjectRef) bool {
	if a.IsNull() || b.IsNull() {
		return a == b
	}
	ca, cb := e.vm.cell(a), e.vm.cell(b)
	if ca == nil || cb == nil {
		return false
	}
	return ca.same(cb)
}

func (e *Env) ExceptionCheck() bool {
	return e.vm.pendingMessage() != ""
}

func (e *Env) ExceptionClear() {
	e.vm.clearPending()
}

func (e *Env) ExceptionMessage() string {
	return e.vm.pendingMessage()
}
