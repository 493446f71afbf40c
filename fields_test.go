package gauge

import (
	"testing"
	"time"
)

func TestStringKeys(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{KeyConverter.Field("pressure").Key().Name(), "converter"},
		{KeyState.Field("settled").Key().Name(), "state"},
		{KeyOldState.Field("idle").Key().Name(), "old_state"},
		{KeyNewState.Field("settled").Key().Name(), "new_state"},
		{KeyError.Field("boom").Key().Name(), "error"},
		{KeyKind.Field("malformed_response").Key().Name(), "kind"},
		{KeySide.Field("primary").Key().Name(), "side"},
		{KeyUnit.Field("bar").Key().Name(), "unit"},
		{KeyValue.Field("1.5").Key().Name(), "value"},
		{KeyEndpoint.Field("barometric-leg/").Key().Name(), "endpoint"},
		{KeyTarget.Field("T2").Key().Name(), "target"},
		{KeySource.Field("provider").Key().Name(), "source"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected key %q, got %q", tt.want, tt.got)
		}
	}
}

func TestKeyEpoch(t *testing.T) {
	field := KeyEpoch.Field(3)
	if field.Key().Name() != "epoch" {
		t.Errorf("expected key 'epoch', got %q", field.Key().Name())
	}
}

func TestKeyAttempt(t *testing.T) {
	field := KeyAttempt.Field(2)
	if field.Key().Name() != "attempt" {
		t.Errorf("expected key 'attempt', got %q", field.Key().Name())
	}
}

func TestKeyDelay(t *testing.T) {
	field := KeyDelay.Field(time.Second)
	if field.Key().Name() != "delay" {
		t.Errorf("expected key 'delay', got %q", field.Key().Name())
	}
}

func TestKeyDebounce(t *testing.T) {
	field := KeyDebounce.Field(800 * time.Millisecond)
	if field.Key().Name() != "debounce" {
		t.Errorf("expected key 'debounce', got %q", field.Key().Name())
	}
}
