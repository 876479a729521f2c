package bridge_test

import (
	stderrors "errors"
	"testing"

	"github.com/Framatome/jmi/errors"
	"github.com/Framatome/jmi/jmitest"
)

// Every test shares one registered VM, so class names are unique per
// test to keep lookup counters independent.
func testVM(t *testing.T) *jmitest.VM {
	t.Helper()
	return jmitest.Install()
}

func wantKind(t *testing.T, err error, kind errors.Kind) *errors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if e.Kind != kind {
		t.Fatalf("error kind = %s, want %s (%v)", e.Kind, kind, err)
	}
	return e
}
