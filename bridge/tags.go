package bridge

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
)

// A tag is a per-call-site cache cell. Declare one as a package-level
// variable next to the call site; its member handle resolves on first use
// and is published with a compare-and-swap, so resolution happens at most
// once for the process lifetime regardless of call count. Racing first
// uses may duplicate the resolution work, but only the first published
// handle is ever observed.
//
// A tag binds to the class, signature, and staticness of its first
// successful use; reuse against anything else is reported, never aliased.

type methodEntry struct {
	class  *Class
	id     jmi.MethodID
	sig    string
	static bool
}

// MethodTag is the static cache cell for one method call site.
type MethodTag struct {
	name string
	slot atomic.Pointer[methodEntry]
}

func NewMethodTag(name string) *MethodTag {
	return &MethodTag{name: name}
}

// Name returns the method name the tag was declared with.
func (t *MethodTag) Name() string { return t.name }

func (t *MethodTag) resolve(env jmi.Env, c *Class, sig string, static bool) (jmi.MethodID, error) {
	if e := t.slot.Load(); e != nil {
		return t.check(e, c, sig, static)
	}

	cls, err := c.Resolve(env)
	if err != nil {
		return 0, err
	}
	id, err := resolveMethod(env, c.name, cls, t.name, sig, static)
	if err != nil {
		return 0, err
	}

	entry := &methodEntry{class: c, id: id, sig: sig, static: static}
	if t.slot.CompareAndSwap(nil, entry) {
		Logger().Debug("published method tag",
			zap.String("class", c.name),
			zap.String("method", t.name),
			zap.String("sig", sig))
		return id, nil
	}
	// lost the publish race; adopt the winner
	return t.check(t.slot.Load(), c, sig, static)
}

func (t *MethodTag) check(e *methodEntry, c *Class, sig string, static bool) (jmi.MethodID, error) {
	if e.class != c || e.sig != sig || e.static != static {
		return 0, errors.SignatureMismatch(c.name, t.name, sig,
			"tag already bound to "+e.class.name+"."+t.name+e.sig)
	}
	return e.id, nil
}

type fieldEntry struct {
	class  *Class
	id     jmi.FieldID
	sig    string
	static bool
}

// FieldTag is the static cache cell for one field access site.
type FieldTag struct {
	name string
	slot atomic.Pointer[fieldEntry]
}

func NewFieldTag(name string) *FieldTag {
	return &FieldTag{name: name}
}

// Name returns the field name the tag was declared with.
func (t *FieldTag) Name() string { return t.name }

func (t *FieldTag) resolve(env jmi.Env, c *Class, sig string, static bool) (jmi.FieldID, error) {
	if e := t.slot.Load(); e != nil {
		return t.check(e, c, sig, static)
	}

	cls, err := c.Resolve(env)
	if err != nil {
		return 0, err
	}
	id, err := resolveField(env, c.name, cls, t.name, sig, static)
	if err != nil {
		return 0, err
	}

	entry := &fieldEntry{class: c, id: id, sig: sig, static: static}
	if t.slot.CompareAndSwap(nil, entry) {
		Logger().Debug("published field tag",
			zap.String("class", c.name),
			zap.String("field", t.name),
			zap.String("sig", sig))
		return id, nil
	}
	return t.check(t.slot.Load(), c, sig, static)
}

func (t *FieldTag) check(e *fieldEntry, c *Class, sig string, static bool) (jmi.FieldID, error) {
	if e.class != c || e.sig != sig || e.static != static {
		return 0, errors.SignatureMismatch(c.name, t.name, sig,
			"tag already bound to "+e.class.name+"."+t.name+" "+e.sig)
	}
	return e.id, nil
}
