package bridge

import (
	"github.com/Framatome/jmi"
	"github.com/Framatome/jmi/errors"
)

// checkPending checks and clears pending exception state, converting it
// into a structured error. Clearing keeps the environment usable for
// subsequent calls even when the caller ignores the error.
func checkPending(env jmi.Env, phase errors.Phase) error {
	if !env.ExceptionCheck() {
		return nil
	}
	msg := env.ExceptionMessage()
	env.ExceptionClear()
	return errors.PendingException(phase, msg)
}

func resolveClass(env jmi.Env, name string) (jmi.ClassRef, error) {
	ref := env.FindClass(name)
	if err := checkPending(env, errors.PhaseResolve); err != nil {
		return 0, errors.New(errors.PhaseResolve, errors.KindClassNotFound).
			Class(name).
			Cause(err).
			Build()
	}
	if ref == 0 {
		return 0, errors.ClassNotFound(name)
	}
	return ref, nil
}

func resolveMethod(env jmi.Env, class string, cls jmi.ClassRef, name, sig string, static bool) (jmi.MethodID, error) {
	var id jmi.MethodID
	if static {
		id = env.GetStaticMethodID(cls, name, sig)
	} else {
		id = env.GetMethodID(cls, name, sig)
	}
	if err := checkPending(env, errors.PhaseResolve); err != nil {
		return 0, errors.New(errors.PhaseResolve, errors.KindMethodNotFound).
			Class(class).
			Member(name).
			Signature(sig).
			Cause(err).
			Build()
	}
	if id == 0 {
		return 0, errors.MethodNotFound(class, name, sig)
	}
	return id, nil
}

func resolveField(env jmi.Env, class string, cls jmi.ClassRef, name, sig string, static bool) (jmi.FieldID, error) {
	var id jmi.FieldID
	if static {
		id = env.GetStaticFieldID(cls, name, sig)
	} else {
		id = env.GetFieldID(cls, name, sig)
	}
	if err := checkPending(env, errors.PhaseResolve); err != nil {
		return 0, errors.New(errors.PhaseResolve, errors.KindFieldNotFound).
			Class(class).
			Member(name).
			Signature(sig).
			Cause(err).
			Build()
	}
	if id == 0 {
		return 0, errors.FieldNotFound(class, name, sig)
	}
	return id, nil
}
