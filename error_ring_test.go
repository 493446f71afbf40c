package gauge

import (
	"fmt"
	"testing"
)

func TestErrorRing_NilSafe(t *testing.T) {
	var r *errorRing

	// All operations should be safe on nil
	r.push(errBoom)
	r.clear()

	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestErrorRing_ZeroSize(t *testing.T) {
	if newErrorRing(0) != nil || newErrorRing(-1) != nil {
		t.Error("expected nil ring for non-positive size")
	}
}

func TestErrorRing_IgnoresNil(t *testing.T) {
	r := newErrorRing(2)
	r.push(nil)
	if len(r.all()) != 0 {
		t.Error("nil errors must not be recorded")
	}
}

func TestErrorRing_Wraps(t *testing.T) {
	r := newErrorRing(3)
	for i := 1; i <= 5; i++ {
		r.push(fmt.Errorf("error%d", i))
	}

	errs := r.all()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	for i, want := range []string{"error3", "error4", "error5"} {
		if errs[i].Error() != want {
			t.Errorf("errs[%d] = %q, want %q", i, errs[i], want)
		}
	}
}

func TestErrorRing_Clear(t *testing.T) {
	r := newErrorRing(2)
	r.push(errBoom)
	r.clear()
	if r.all() != nil {
		t.Error("expected empty ring after clear")
	}
	r.push(errBoom)
	if len(r.all()) != 1 {
		t.Error("expected ring usable after clear")
	}
}
