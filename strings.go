package jmi

// String conversion helpers. Pure and stateless: each call copies between
// the native and runtime string representations, nothing is cached.

// JavaString converts a Go string into a runtime string reference.
// The caller owns the returned reference.
func JavaString(env Env, s string) ObjectRef {
	return env.NewString(s)
}

// GoString copies a runtime string into a Go string. The null reference
// converts to "".
func GoString(env Env, str ObjectRef) string {
	if str.IsNull() {
		return ""
	}
	return env.GetString(str)
}
