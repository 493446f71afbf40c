package testing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/zoobzio/gauge"
)

func TestFactorProvider_CoversCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		catalog *gauge.Catalog
		factors map[gauge.UnitID]float64
	}{
		{"pressure", gauge.PressureCatalog(), PressureFactors},
		{"vacuum", gauge.VacuumCatalog(), VacuumFactors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFactorProvider(tt.factors)
			for _, u := range tt.catalog.Units() {
				res, err := p.Convert(context.Background(), gauge.ConversionRequest{Value: 1, FromUnit: u.ID})
				if err != nil {
					t.Fatalf("Convert(%s) error = %v", u.ID, err)
				}
				if err := tt.catalog.CheckComplete(res); err != nil {
					t.Fatalf("Convert(%s) incomplete: %v", u.ID, err)
				}
			}
		})
	}
}

func TestFactorProvider_Convert(t *testing.T) {
	p := NewFactorProvider(PressureFactors)

	res, err := p.Convert(context.Background(), gauge.ConversionRequest{Value: 1, FromUnit: "bar"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res["pa"]; got != 100000 {
		t.Errorf("expected 100000 pa, got %v", got)
	}
	if got := res["kpa"]; got != 100 {
		t.Errorf("expected 100 kpa, got %v", got)
	}
	if p.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", p.Calls())
	}
}

func TestFactorProvider_GaugeUnits(t *testing.T) {
	p := NewFactorProvider(VacuumFactors)

	res, err := p.Convert(context.Background(), gauge.ConversionRequest{Value: 1, FromUnit: "atm"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res["psig"]; math.Abs(got) > 1e-9 {
		t.Errorf("expected 0 psig at one atmosphere, got %v", got)
	}
}

func TestFactorProvider_UnknownUnit(t *testing.T) {
	p := NewFactorProvider(PressureFactors)

	_, err := p.Convert(context.Background(), gauge.ConversionRequest{Value: 1, FromUnit: "furlong"})
	if gauge.KindOf(err) != gauge.KindProviderRejected {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestWaitFor(t *testing.T) {
	tests := []struct {
		name      string
		condition func() bool
		timeout   time.Duration
		want      bool
	}{
		{
			name:      "immediate true",
			condition: func() bool { return true },
			timeout:   100 * time.Millisecond,
			want:      true,
		},
		{
			name:      "always false",
			condition: func() bool { return false },
			timeout:   50 * time.Millisecond,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WaitFor(t, tt.timeout, tt.condition); got != tt.want {
				t.Errorf("WaitFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWaitFor_EventualTrue(t *testing.T) {
	start := time.Now()
	got := WaitFor(t, time.Second, func() bool {
		return time.Since(start) > 30*time.Millisecond
	})
	if !got {
		t.Error("expected condition to become true")
	}
}

func newConverter(t *testing.T) *gauge.Converter {
	t.Helper()
	c := gauge.NewPressureConverter(NewFactorProvider(PressureFactors)).
		Defaults("2", "bar", "kpa").
		Timeout(0)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRequireState(t *testing.T) {
	c := newConverter(t)
	RequireState(t, c, gauge.StateSettled)
}

func TestRequireValue(t *testing.T) {
	c := newConverter(t)
	RequireValue(t, c, gauge.Secondary, 200)
}

func TestWaitForState(t *testing.T) {
	c := gauge.NewPressureConverter(NewFactorProvider(PressureFactors)).
		Defaults("", "bar", "kpa").
		ValueDebounce(10 * time.Millisecond).
		Timeout(0)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer c.Close()

	if err := c.SetText(gauge.Primary, "3"); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	if !WaitForState(t, c, gauge.StateSettled, time.Second) {
		t.Fatalf("expected settled, got %s", c.State())
	}
	RequireValue(t, c, gauge.Secondary, 300)
}
