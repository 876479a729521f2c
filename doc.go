// Package jmi provides a Go bridge to a JVM-style managed runtime reached
// through an opaque, string-keyed interop API.
//
// Resolving a class, method, or field by name is expensive and the resulting
// handles are only valid for the lifetime of the class loader that produced
// them. This library resolves each handle at most once per distinct name,
// derives JVM type descriptors from Go static types, and marshals arguments
// and results across the boundary.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	jmi/            Root package with the Env and VM collaborator interfaces,
//	                opaque reference types, and the tagged Value union
//	├── bridge/     High-level API: class identities, handle caches, tags,
//	                managed object handles, field accessors, call marshaling
//	├── signature/  JVM type descriptor derivation from Go static types
//	├── errors/     Structured error types for debugging
//	├── jmitest/    In-memory fake VM for tests and tooling
//	└── cmd/jmi/    Interactive class and method explorer
//
// # Quick Start
//
// Register the VM entry point once at load time, then use the bridge:
//
//	if err := jmi.Register(myVM); err != nil {
//	    log.Fatal(err)
//	}
//
//	cls := bridge.ForName("java/lang/StringBuilder")
//	sb := bridge.NewObject(cls)
//	if !sb.Create("hello") {
//	    log.Fatal(sb.Err())
//	}
//	n, err := bridge.Call[int32](sb, "length")
//
// # Environment Model
//
// The environment handle is thread-affine: each thread attached to the
// runtime has its own Env. The core never stores an Env; it asks the
// registered VM for the current thread's handle on entry to every operation.
// Attaching and detaching threads is the embedder's responsibility.
//
// # Handle Caching
//
// Class handles are cached per logical class identity for the process
// lifetime. Member handles are cached either by (class, name, signature)
// for name-based calls, or by a per-call-site tag that guarantees exactly
// one resolution no matter how many times the call site runs.
//
// # Thread Safety
//
// The class and member stores are safe for concurrent use; first-use races
// settle to exactly one published handle per key. Object handles are NOT
// safe for concurrent mutation; concurrent read-only calls are fine.
package jmi
