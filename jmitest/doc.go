// Package jmitest provides an in-memory fake VM implementing the jmi.VM
// and jmi.Env collaborator interfaces.
//
// Classes are scripted in Go: define a class, attach constructors, methods,
// and fields backed by Go functions, then register the VM and drive it
// through the bridge exactly like a real runtime. The fake keeps reference
// tables for objects, strings, and arrays, models pending exception state,
// and counts every FindClass / GetMethodID / GetFieldID call so tests can
// assert that handle resolution happened exactly once.
//
//	vm := jmitest.NewVM()
//	cls := vm.DefineClass("com/acme/Counter")
//	cls.Field("count", "I")
//	cls.Constructor("(I)V", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
//		self.Fields["count"] = args[0]
//		return jmi.Value{}
//	})
//	cls.Method("next", "()I", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
//		n := self.Fields["count"].AsInt() + 1
//		self.Fields["count"] = jmi.Int(n)
//		return jmi.Int(n)
//	})
package jmitest
