package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/bridge"
	"github.com/Framatome/jmi/jmitest"
	"github.com/Framatome/jmi/signature"
)

const stringDesc = "Ljava/lang/String;"

// paramDescs splits a method descriptor into its parameter descriptors.
func paramDescs(sig string) ([]string, error) {
	if len(sig) < 2 || sig[0] != '(' {
		return nil, fmt.Errorf("malformed descriptor %q", sig)
	}
	var out []string
	i := 1
	for i < len(sig) && sig[i] != ')' {
		start := i
		for i < len(sig) && sig[i] == '[' {
			i++
		}
		if i == len(sig) {
			return nil, fmt.Errorf("malformed descriptor %q", sig)
		}
		switch sig[i] {
		case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
			i++
		case 'L':
			end := strings.IndexByte(sig[i:], ';')
			if end < 0 {
				return nil, fmt.Errorf("malformed descriptor %q", sig)
			}
			i += end + 1
		default:
			return nil, fmt.Errorf("malformed descriptor %q", sig)
		}
		out = append(out, sig[start:i])
	}
	if i == len(sig) {
		return nil, fmt.Errorf("malformed descriptor %q", sig)
	}
	return out, nil
}

// convertArg parses one command-line value into the Go type matching a
// parameter descriptor.
func convertArg(value, desc string) (any, error) {
	switch desc {
	case "Z":
		return value == "true" || value == "1", nil
	case "B":
		v, err := strconv.ParseInt(value, 10, 8)
		return int8(v), err
	case "C":
		v, err := strconv.ParseUint(value, 10, 16)
		return uint16(v), err
	case "S":
		v, err := strconv.ParseInt(value, 10, 16)
		return int16(v), err
	case "I":
		v, err := strconv.ParseInt(value, 10, 32)
		return int32(v), err
	case "J":
		return strconv.ParseInt(value, 10, 64)
	case "F":
		v, err := strconv.ParseFloat(value, 32)
		return float32(v), err
	case "D":
		return strconv.ParseFloat(value, 64)
	case stringDesc:
		return value, nil
	}
	return nil, fmt.Errorf("no command-line form for parameter type %s", desc)
}

// invoke calls one scripted method by name through the bridge, parsing
// rawArgs per its declared signature, and renders the result.
func invoke(class string, def *jmitest.MethodDef, rawArgs []string) (string, error) {
	descs, err := paramDescs(def.Sig)
	if err != nil {
		return "", err
	}
	if len(rawArgs) != len(descs) {
		return "", fmt.Errorf("%s.%s takes %d argument(s), got %d", class, def.Name, len(descs), len(rawArgs))
	}
	args := make([]any, len(descs))
	for i, d := range descs {
		if args[i], err = convertArg(rawArgs[i], d); err != nil {
			return "", fmt.Errorf("argument %d: %w", i+1, err)
		}
	}

	cls := bridge.ForName(class)
	if def.Static {
		return callStaticTyped(cls, def, args)
	}

	o := bridge.NewObject(cls)
	if !o.Create() {
		return "", o.Err()
	}
	defer o.Dispose()
	return callTyped(o, def, args)
}

func callTyped(o *bridge.Object, def *jmitest.MethodDef, args []any) (string, error) {
	ret := signature.ReturnOf(def.Sig)
	switch signature.KindOf(ret) {
	case jmi.KindVoid:
		_, err := bridge.Call[jmi.Void](o, def.Name, args...)
		return "void", err
	case jmi.KindBoolean:
		return render(bridge.Call[bool](o, def.Name, args...))
	case jmi.KindByte:
		return render(bridge.Call[int8](o, def.Name, args...))
	case jmi.KindChar:
		return render(bridge.Call[uint16](o, def.Name, args...))
	case jmi.KindShort:
		return render(bridge.Call[int16](o, def.Name, args...))
	case jmi.KindInt:
		return render(bridge.Call[int32](o, def.Name, args...))
	case jmi.KindLong:
		return render(bridge.Call[int64](o, def.Name, args...))
	case jmi.KindFloat:
		return render(bridge.Call[float32](o, def.Name, args...))
	case jmi.KindDouble:
		return render(bridge.Call[float64](o, def.Name, args...))
	case jmi.KindObject:
		if ret == stringDesc {
			return render(bridge.Call[string](o, def.Name, args...))
		}
		res, err := bridge.CallObject(o, def.Name, bridge.ForName(ret[1:len(ret)-1]), args...)
		if err != nil {
			return "", err
		}
		defer res.Dispose()
		return fmt.Sprintf("%s@%d", res.Class().Name(), res.Ref()), nil
	}
	return "", fmt.Errorf("no command-line form for return type %s", ret)
}

func callStaticTyped(cls *bridge.Class, def *jmitest.MethodDef, args []any) (string, error) {
	ret := signature.ReturnOf(def.Sig)
	switch signature.KindOf(ret) {
	case jmi.KindVoid:
		_, err := bridge.CallStatic[jmi.Void](cls, def.Name, args...)
		return "void", err
	case jmi.KindBoolean:
		return render(bridge.CallStatic[bool](cls, def.Name, args...))
	case jmi.KindByte:
		return render(bridge.CallStatic[int8](cls, def.Name, args...))
	case jmi.KindChar:
		return render(bridge.CallStatic[uint16](cls, def.Name, args...))
	case jmi.KindShort:
		return render(bridge.CallStatic[int16](cls, def.Name, args...))
	case jmi.KindInt:
		return render(bridge.CallStatic[int32](cls, def.Name, args...))
	case jmi.KindLong:
		return render(bridge.CallStatic[int64](cls, def.Name, args...))
	case jmi.KindFloat:
		return render(bridge.CallStatic[float32](cls, def.Name, args...))
	case jmi.KindDouble:
		return render(bridge.CallStatic[float64](cls, def.Name, args...))
	case jmi.KindObject:
		if ret == stringDesc {
			return render(bridge.CallStatic[string](cls, def.Name, args...))
		}
		res, err := bridge.CallStaticObject(cls, def.Name, bridge.ForName(ret[1:len(ret)-1]), args...)
		if err != nil {
			return "", err
		}
		defer res.Dispose()
		return fmt.Sprintf("%s@%d", res.Class().Name(), res.Ref()), nil
	}
	return "", fmt.Errorf("no command-line form for return type %s", ret)
}

func render[T any](v T, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", v), nil
}

// javaType formats a descriptor for display.
func javaType(desc string) string {
	array := 0
	for array < len(desc) && desc[array] == '[' {
		array++
	}
	base := desc[array:]
	var name string
	switch {
	case base == "Z":
		name = "boolean"
	case base == "B":
		name = "byte"
	case base == "C":
		name = "char"
	case base == "S":
		name = "short"
	case base == "I":
		name = "int"
	case base == "J":
		name = "long"
	case base == "F":
		name = "float"
	case base == "D":
		name = "double"
	case base == "V":
		name = "void"
	case strings.HasPrefix(base, "L") && strings.HasSuffix(base, ";"):
		name = strings.ReplaceAll(base[1:len(base)-1], "/", ".")
	default:
		name = base
	}
	return name + strings.Repeat("[]", array)
}
