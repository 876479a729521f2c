// Package bridge is the high-level API for calling into the managed
// runtime: class identities, handle caches, managed object handles, typed
// calls, and field accessors.
//
// # Class Identities
//
// A *Class is the process-wide singleton for one logical class name.
// Its runtime handle is resolved lazily, at most once, and never released:
//
//	cls := bridge.ForName("com/acme/Counter")
//
// # Calls
//
// The return type is an explicit type parameter of every call; the method
// descriptor is derived from it and the static types of the arguments:
//
//	n, err := bridge.Call[int32](counter, "next")        // ()I
//	s, err := bridge.Call[string](counter, "label", 7)   // (I)Ljava/lang/String;
//	_, err = bridge.Call[jmi.Void](counter, "reset")     // ()V
//
// Methods returning objects need the return class spelled out, since a Go
// type parameter cannot carry it:
//
//	peer, err := bridge.CallObject(counter, "peer", cls) // ()Lcom/acme/Counter;
//
// # Tags
//
// A name-based call resolves its member handle through the process-wide
// member store. A tag-based call owns a single cache cell bound to its
// call site, so resolution happens exactly once no matter how often the
// site runs:
//
//	var nextTag = bridge.NewMethodTag("next")
//
//	n, err := bridge.CallTag[int32](counter, nextTag)
//
// # Output Parameters
//
// Primitive buffers mutated by the callee are declared with Out; the
// runtime-side values are copied back after the call, preserving the
// buffer's length:
//
//	buf := make([]float32, 16)
//	_, err := bridge.Call[jmi.Void](mixer, "fill", bridge.Out(&buf))
//
// Object arguments are passed by reference and mutated in place; they
// need no binding.
package bridge
