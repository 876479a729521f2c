package main

import (
	"strings"
	"time"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/jmitest"
)

// installDemo registers an in-process runtime with a few scripted
// classes, enough to exercise every call path from the command line.
func installDemo() *jmitest.VM {
	vm := jmitest.Install()

	vm.DefineClass("com/demo/Calculator").
		StaticMethod("add", "(JJ)J", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			return jmi.Long(args[0].AsLong() + args[1].AsLong())
		}).
		StaticMethod("mul", "(DD)D", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			return jmi.Double(args[0].AsDouble() * args[1].AsDouble())
		})

	vm.DefineClass("com/demo/Greeter").
		Constructor("()V", nil).
		Method("greet", "(Ljava/lang/String;)Ljava/lang/String;",
			func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
				name := env.GetString(args[0].Ref)
				if name == "" {
					name = "stranger"
				}
				return jmi.Object(env.NewString("hello, " + name))
			}).
		Method("shout", "(Ljava/lang/String;)Ljava/lang/String;",
			func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
				return jmi.Object(env.NewString(strings.ToUpper(env.GetString(args[0].Ref)) + "!"))
			})

	vm.DefineClass("com/demo/Counter").
		Constructor("()V", nil).
		Field("value", "I").
		Method("increment", "()I", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			n := self.Fields["value"].AsInt() + 1
			self.Fields["value"] = jmi.Int(n)
			return jmi.Int(n)
		}).
		Method("reset", "()V", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			self.Fields["value"] = jmi.Int(0)
			return jmi.Value{}
		})

	vm.DefineClass("com/demo/Clock").
		StaticMethod("currentTimeMillis", "()J", func(env *jmitest.Env, self *jmitest.Object, args []jmi.Value) jmi.Value {
			return jmi.Long(time.Now().UnixMilli())
		})

	return vm
}
