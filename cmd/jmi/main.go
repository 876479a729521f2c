package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Framatome/jmi/bridge"
	"github.com/Framatome/jmi/jmitest"
)

func main() {
	var (
		className   = flag.String("class", "", "Class to call (slash or dot separated)")
		methodName  = flag.String("method", "", "Method to call")
		argList     = flag.String("args", "", "Arguments (comma-separated)")
		list        = flag.Bool("list", false, "List demo classes and methods, then exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log handle resolution")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		bridge.SetLogger(logger)
	}

	vm := installDemo()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(vm); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *list {
		listClasses(vm)
		return
	}

	if *className == "" || *methodName == "" {
		fmt.Fprintln(os.Stderr, "Usage: jmi -class <name> -method <name> [-args a,b,...]")
		fmt.Fprintln(os.Stderr, "       jmi -list")
		fmt.Fprintln(os.Stderr, "       jmi -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(vm, *className, *methodName, *argList); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listClasses(vm *jmitest.VM) {
	for _, name := range vm.ClassNames() {
		fmt.Printf("%s\n", strings.ReplaceAll(name, "/", "."))
		for _, def := range vm.Class(name).Methods() {
			if def.Name == "<init>" {
				continue
			}
			fmt.Printf("  %s\n", formatMethod(def.Name, def.Sig, def.Static))
		}
	}
}

func formatMethod(name, sig string, static bool) string {
	descs, err := paramDescs(sig)
	if err != nil {
		return name + sig
	}
	params := make([]string, len(descs))
	for i, d := range descs {
		params[i] = javaType(d)
	}
	mod := ""
	if static {
		mod = "static "
	}
	ret := javaType(sig[strings.IndexByte(sig, ')')+1:])
	return fmt.Sprintf("%s%s %s(%s)", mod, ret, name, strings.Join(params, ", "))
}

func run(vm *jmitest.VM, class, method, argList string) error {
	class = strings.ReplaceAll(class, ".", "/")
	cls := vm.Class(class)
	if cls == nil {
		return fmt.Errorf("unknown class %s (try -list)", class)
	}

	var def *jmitest.MethodDef
	for _, d := range cls.Methods() {
		if d.Name == method {
			def = d
			break
		}
	}
	if def == nil {
		return fmt.Errorf("unknown method %s.%s (try -list)", class, method)
	}

	var rawArgs []string
	if argList != "" {
		rawArgs = strings.Split(argList, ",")
	}

	result, err := invoke(class, def, rawArgs)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", result)
	return nil
}
