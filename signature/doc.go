// Package signature derives JVM type descriptors from Go static types.
//
// The encoder is pure: it never talks to the runtime and never fails at
// call time for a supported type. Descriptors follow the JVM grammar:
//
//	Go Type          Descriptor
//	───────────────────────────
//	bool             Z
//	int8             B
//	uint16           C
//	int16            S
//	int32, int       I
//	int64            J
//	float32          F
//	float64          D
//	string           Ljava/lang/String;
//	[]T, [N]T        [ + descriptor of T
//	jmi.Void         V (return position only)
//	ClassNamer       L<slash/separated/name>;
//
// Types that carry a logical class identity implement ClassNamer and
// encode through it. Method descriptors compose as "(params)return":
//
//	sig, _ := signature.ForCall(reflect.TypeOf(int32(0)), reflect.TypeOf(""))
//	// "(Ljava/lang/String;)I"
//
// A derived method descriptor is interned for the process lifetime, so a
// given (argument-types, return-type) combination is computed once.
package signature
