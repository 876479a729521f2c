package jmitest

import (
	"sort"
	"sync"

	"github.com/Framatome/jmi"
)

// MethodFunc backs a scripted method. self is nil for static methods.
// Implementations may call env.Throw to leave a pending exception.
type MethodFunc func(env *Env, self *Object, args []jmi.Value) jmi.Value

// Object is the fake runtime's object state. Fields maps field names to
// their current values. Not safe for concurrent mutation, matching the
// bridge's object handle contract.
type Object struct {
	Class  *ClassDef
	Fields map[string]jmi.Value
}

type arrayState struct {
	elem jmi.Kind
	vals []jmi.Value
}

type stringState struct {
	s string
}

// refCell backs one ObjectRef. Global refs made from an existing ref get
// their own cell aliasing the same payload, so IsSameObject compares
// payload identity, not ref numbers.
type refCell struct {
	obj *Object
	arr *arrayState
	str *stringState
}

func (c *refCell) same(o *refCell) bool {
	return c.obj == o.obj && c.arr == o.arr && c.str == o.str
}

// MethodDef is a scripted method or constructor.
type MethodDef struct {
	Name   string
	Sig    string
	Static bool

	id jmi.MethodID
	fn MethodFunc
}

// FieldDef is a scripted field.
type FieldDef struct {
	Name   string
	Sig    string
	Static bool

	id    jmi.FieldID
	class *ClassDef
}

// ClassDef is a scripted class definition.
type ClassDef struct {
	name string
	vm   *VM

	ref     jmi.ClassRef
	methods map[string]*MethodDef // key: name + sig, instance
	statics map[string]*MethodDef // key: name + sig, static
	fields  map[string]*FieldDef

	staticMu     sync.Mutex
	staticValues map[string]jmi.Value
}

// VM is the process-wide fake runtime entry point.
type VM struct {
	mu      sync.RWMutex
	classes map[string]*ClassDef

	refMu   sync.Mutex
	nextRef uint64
	refs    map[jmi.ObjectRef]*refCell

	idMu      sync.Mutex
	nextID    uint64
	methodIDs map[jmi.MethodID]*MethodDef
	fieldIDs  map[jmi.FieldID]*FieldDef
	classRefs map[jmi.ClassRef]*ClassDef

	countMu      sync.Mutex
	findClass    map[string]int
	methodLookup map[string]int
	fieldLookup  map[string]int

	pendingMu sync.Mutex
	pending   string

	allocMu   sync.Mutex
	allocFail string
}

var (
	installOnce sync.Once
	installed   *VM
)

// Install registers a process-wide fake VM with jmi and returns it. The
// same VM comes back on every call, so test files sharing one binary all
// script against one runtime. Classes defined by one test stay defined;
// use distinct class names per test.
func Install() *VM {
	installOnce.Do(func() {
		installed = NewVM()
		if err := jmi.Register(installed); err != nil {
			panic(err)
		}
	})
	return installed
}

func NewVM() *VM {
	return &VM{
		classes:      make(map[string]*ClassDef),
		refs:         make(map[jmi.ObjectRef]*refCell),
		methodIDs:    make(map[jmi.MethodID]*MethodDef),
		fieldIDs:     make(map[jmi.FieldID]*FieldDef),
		classRefs:    make(map[jmi.ClassRef]*ClassDef),
		findClass:    make(map[string]int),
		methodLookup: make(map[string]int),
		fieldLookup:  make(map[string]int),
		nextRef:      0x1000,
	}
}

// Env returns the calling thread's environment view. The fake has no real
// thread affinity; each call returns a fresh thin view over the shared VM.
func (vm *VM) Env() jmi.Env {
	return &Env{vm: vm}
}

// DefineClass registers a scripted class, replacing any previous
// definition under the same name.
func (vm *VM) DefineClass(name string) *ClassDef {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	c := &ClassDef{
		name:         name,
		vm:           vm,
		methods:      make(map[string]*MethodDef),
		statics:      make(map[string]*MethodDef),
		fields:       make(map[string]*FieldDef),
		staticValues: make(map[string]jmi.Value),
		ref:          vm.newClassRef(),
	}
	vm.idMu.Lock()
	vm.classRefs[c.ref] = c
	vm.idMu.Unlock()
	vm.classes[name] = c
	return c
}

func (vm *VM) newClassRef() jmi.ClassRef {
	vm.refMu.Lock()
	defer vm.refMu.Unlock()
	vm.nextRef++
	return jmi.ClassRef(vm.nextRef)
}

func (vm *VM) lookupClass(name string) *ClassDef {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.classes[name]
}

func (vm *VM) classByRef(ref jmi.ClassRef) *ClassDef {
	vm.idMu.Lock()
	defer vm.idMu.Unlock()
	return vm.classRefs[ref]
}

// ClassNames lists the defined classes in sorted order.
func (vm *VM) ClassNames() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	names := make([]string, 0, len(vm.classes))
	for name := range vm.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Class returns the definition for name, or nil.
func (vm *VM) Class(name string) *ClassDef {
	return vm.lookupClass(name)
}

func (vm *VM) newID() uint64 {
	vm.idMu.Lock()
	defer vm.idMu.Unlock()
	vm.nextID++
	return vm.nextID
}

func (vm *VM) newRef(cell *refCell) jmi.ObjectRef {
	vm.refMu.Lock()
	defer vm.refMu.Unlock()
	vm.nextRef++
	ref := jmi.ObjectRef(vm.nextRef)
	vm.refs[ref] = cell
	return ref
}

func (vm *VM) cell(ref jmi.ObjectRef) *refCell {
	vm.refMu.Lock()
	defer vm.refMu.Unlock()
	return vm.refs[ref]
}

func (vm *VM) dropRef(ref jmi.ObjectRef) {
	vm.refMu.Lock()
	defer vm.refMu.Unlock()
	delete(vm.refs, ref)
}

// LiveRefs reports how many object, string, and array references are
// currently alive. Useful for leak assertions.
func (vm *VM) LiveRefs() int {
	vm.refMu.Lock()
	defer vm.refMu.Unlock()
	return len(vm.refs)
}

func (vm *VM) countFindClass(name string) {
	vm.countMu.Lock()
	vm.findClass[name]++
	vm.countMu.Unlock()
}

func (vm *VM) countMethodLookup(key string) {
	vm.countMu.Lock()
	vm.methodLookup[key]++
	vm.countMu.Unlock()
}

func (vm *VM) countFieldLookup(key string) {
	vm.countMu.Lock()
	vm.fieldLookup[key]++
	vm.countMu.Unlock()
}

// FindClassCalls returns how many FindClass calls were made for name.
func (vm *VM) FindClassCalls(name string) int {
	vm.countMu.Lock()
	defer vm.countMu.Unlock()
	return vm.findClass[name]
}

// MethodLookups returns how many GetMethodID / GetStaticMethodID calls
// were made for the given member.
func (vm *VM) MethodLookups(class, name, sig string) int {
	vm.countMu.Lock()
	defer vm.countMu.Unlock()
	return vm.methodLookup[class+"#"+name+sig]
}

// FieldLookups returns how many GetFieldID / GetStaticFieldID calls were
// made for the given field.
func (vm *VM) FieldLookups(class, name, sig string) int {
	vm.countMu.Lock()
	defer vm.countMu.Unlock()
	return vm.fieldLookup[class+"#"+name+sig]
}

// FailNextAlloc makes the next string or array allocation throw msg
// instead of producing a reference. One-shot: consumed by the first
// allocation that observes it.
func (vm *VM) FailNextAlloc(msg string) {
	vm.allocMu.Lock()
	vm.allocFail = msg
	vm.allocMu.Unlock()
}

func (vm *VM) takeAllocFailure() (string, bool) {
	vm.allocMu.Lock()
	defer vm.allocMu.Unlock()
	if vm.allocFail == "" {
		return "", false
	}
	msg := vm.allocFail
	vm.allocFail = ""
	return msg, true
}

func (vm *VM) throw(msg string) {
	vm.pendingMu.Lock()
	vm.pending = msg
	vm.pendingMu.Unlock()
}

func (vm *VM) pendingMessage() string {
	vm.pendingMu.Lock()
	defer vm.pendingMu.Unlock()
	return vm.pending
}

func (vm *VM) clearPending() {
	vm.pendingMu.Lock()
	vm.pending = ""
	vm.pendingMu.Unlock()
}

// Name returns the class's slash-separated name.
func (c *ClassDef) Name() string { return c.name }

// Ref returns the class's reference as handed out by FindClass.
func (c *ClassDef) Ref() jmi.ClassRef { return c.ref }

// Constructor scripts a constructor under the <init> name.
func (c *ClassDef) Constructor(sig string, fn MethodFunc) *ClassDef {
	return c.Method("<init>", sig, fn)
}

// Method scripts an instance method. A nil fn returns the zero value of
// the declared return kind.
func (c *ClassDef) Method(name, sig string, fn MethodFunc) *ClassDef {
	def := &MethodDef{
		Name: name,
		Sig:  sig,
		id:   jmi.MethodID(c.vm.newID()),
		fn:   fn,
	}
	c.vm.idMu.Lock()
	c.vm.methodIDs[def.id] = def
	c.vm.idMu.Unlock()
	c.methods[name+sig] = def
	return c
}

// StaticMethod scripts a static method.
func (c *ClassDef) StaticMethod(name, sig string, fn MethodFunc) *ClassDef {
	def := &MethodDef{
		Name:   name,
		Sig:    sig,
		Static: true,
		id:     jmi.MethodID(c.vm.newID()),
		fn:     fn,
	}
	c.vm.idMu.Lock()
	c.vm.methodIDs[def.id] = def
	c.vm.idMu.Unlock()
	c.statics[name+sig] = def
	return c
}

// Field declares an instance field.
func (c *ClassDef) Field(name, sig string) *ClassDef {
	def := &FieldDef{
		Name:  name,
		Sig:   sig,
		id:    jmi.FieldID(c.vm.newID()),
		class: c,
	}
	c.vm.idMu.Lock()
	c.vm.fieldIDs[def.id] = def
	c.vm.idMu.Unlock()
	c.fields[name] = def
	return c
}

// StaticField declares a static field with an initial value.
func (c *ClassDef) StaticField(name, sig string, initial jmi.Value) *ClassDef {
	def := &FieldDef{
		Name:   name,
		Sig:    sig,
		Static: true,
		id:     jmi.FieldID(c.vm.newID()),
		class:  c,
	}
	c.vm.idMu.Lock()
	c.vm.fieldIDs[def.id] = def
	c.vm.idMu.Unlock()
	c.fields[name] = def
	c.staticMu.Lock()
	c.staticValues[name] = initial
	c.staticMu.Unlock()
	return c
}

// Methods lists the scripted methods, constructors included, sorted by
// name then signature.
func (c *ClassDef) Methods() []*MethodDef {
	defs := make([]*MethodDef, 0, len(c.methods)+len(c.statics))
	for _, d := range c.methods {
		defs = append(defs, d)
	}
	for _, d := range c.statics {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Name != defs[j].Name {
			return defs[i].Name < defs[j].Name
		}
		return defs[i].Sig < defs[j].Sig
	})
	return defs
}
