package bridge

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/signature"
)

// Class is the process-wide singleton for one logical class identity.
// The runtime handle is resolved lazily and kept for the process lifetime;
// class handles are never released (their validity is bounded by the class
// loader, which this design assumes is single and persistent).
type Class struct {
	name string
	ref  atomic.Uint64 // jmi.ClassRef, 0 = unresolved
}

// classStore maps logical identity to its singleton. Load-or-compute keeps
// exactly one *Class per name under concurrent first use.
var classStore = xsync.NewMapOf[string, *Class]()

// memberKey addresses one member handle in the process-wide member store.
// Two classes with identically named members occupy distinct keys.
type memberKey struct {
	class  string
	name   string
	sig    string
	static bool
}

var (
	methodStore = xsync.NewMapOf[memberKey, jmi.MethodID]()
	fieldStore  = xsync.NewMapOf[memberKey, jmi.FieldID]()
)

// ForName returns the class identity for a fully-qualified name. Both '.'
// and '/' separators are accepted. No runtime traffic happens here; the
// handle resolves on first use.
func ForName(name string) *Class {
	normalized := signature.NormalizeClass(name)
	cls, _ := classStore.LoadOrCompute(normalized, func() *Class {
		return &Class{name: normalized}
	})
	return cls
}

// Name returns the slash-separated class name.
func (c *Class) Name() string { return c.name }

// Descriptor returns the class's object descriptor, L<name>;.
func (c *Class) Descriptor() string { return signature.Object(c.name) }

// Resolve returns the runtime class handle, resolving it on first use.
// Failures are not cached; a later call retries.
func (c *Class) Resolve(env jmi.Env) (jmi.ClassRef, error) {
	if r := c.ref.Load(); r != 0 {
		return jmi.ClassRef(r), nil
	}

	ref, err := resolveClass(env, c.name)
	if err != nil {
		return 0, err
	}

	// First published handle wins; a racing duplicate is discarded.
	if c.ref.CompareAndSwap(0, uint64(ref)) {
		Logger().Debug("resolved class",
			zap.String("class", c.name),
			zap.Uint64("ref", uint64(ref)))
	}
	return jmi.ClassRef(c.ref.Load()), nil
}

// methodID returns the cached member handle for (c, name, sig, static),
// resolving and publishing it on first use.
func (c *Class) methodID(env jmi.Env, name, sig string, static bool) (jmi.MethodID, error) {
	key := memberKey{class: c.name, name: name, sig: sig, static: static}
	if id, ok := methodStore.Load(key); ok {
		return id, nil
	}

	cls, err := c.Resolve(env)
	if err != nil {
		return 0, err
	}
	id, err := resolveMethod(env, c.name, cls, name, sig, static)
	if err != nil {
		return 0, err
	}

	actual, loaded := methodStore.LoadOrStore(key, id)
	if !loaded {
		Logger().Debug("resolved method",
			zap.String("class", c.name),
			zap.String("method", name),
			zap.String("sig", sig),
			zap.Bool("static", static))
	}
	return actual, nil
}

// fieldID is the field counterpart of methodID.
func (c *Class) fieldID(env jmi.Env, name, sig string, static bool) (jmi.FieldID, error) {
	key := memberKey{class: c.name, name: name, sig: sig, static: static}
	if id, ok := fieldStore.Load(key); ok {
		return id, nil
	}

	cls, err := c.Resolve(env)
	if err != nil {
		return 0, err
	}
	id, err := resolveField(env, c.name, cls, name, sig, static)
	if err != nil {
		return 0, err
	}

	actual, loaded := fieldStore.LoadOrStore(key, id)
	if !loaded {
		Logger().Debug("resolved field",
			zap.String("class", c.name),
			zap.String("field", name),
			zap.String("sig", sig),
			zap.Bool("static", static))
	}
	return actual, nil
}
