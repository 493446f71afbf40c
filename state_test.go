package gauge

import "testing"

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateIdle:             "idle",
		StateAwaitingDebounce: "awaiting_debounce",
		StateRequestInFlight:  "request_in_flight",
		StateSettled:          "settled",
		StateError:            "error",
		State(999):            "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestState_Values(t *testing.T) {
	// Verify iota ordering
	if StateIdle != 0 {
		t.Errorf("expected StateIdle=0, got %d", StateIdle)
	}
	if StateError != 4 {
		t.Errorf("expected StateError=4, got %d", StateError)
	}
}

func TestSide(t *testing.T) {
	if Primary.Other() != Secondary || Secondary.Other() != Primary {
		t.Error("Other() must flip the side")
	}
	if Primary.String() != "primary" || Secondary.String() != "secondary" {
		t.Error("unexpected side names")
	}
	if Side(7).String() != "unknown" || Side(7).valid() {
		t.Error("expected invalid side")
	}
}
