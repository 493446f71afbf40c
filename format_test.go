package gauge

import (
	"math"
	"testing"
)

func TestFormatField(t *testing.T) {
	cases := map[float64]string{
		0.00001:   "0.00001",
		100000:    "100000",
		-40:       "-40",
		1.5e-12:   "0.0000000000015",
		123.45678: "123.45678",
	}
	for v, want := range cases {
		got := FormatField(v)
		if got != want {
			t.Errorf("FormatField(%v) = %q, want %q", v, got, want)
		}
		if !IsComplete(got) {
			t.Errorf("FormatField(%v) = %q is not complete", v, got)
		}
	}
	if FormatField(math.NaN()) != "" || FormatField(math.Inf(1)) != "" {
		t.Error("non-finite values render empty")
	}
}

func TestFormatDisplay(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		0.00001:   "1.0000e-05",
		0.005:     "0.005000",
		0.5:       "0.5000",
		12.3456:   "12.35",
		101325:    "101325",
		-0.000001: "-1.0000e-06",
	}
	for v, want := range cases {
		if got := FormatDisplay(v); got != want {
			t.Errorf("FormatDisplay(%v) = %q, want %q", v, got, want)
		}
	}
}
