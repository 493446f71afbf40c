// Package testing provides test utilities for gauge converters and
// calculators: a consistent conversion table, a fake tools API server and
// polling helpers.
package testing

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/gauge"
)

// PressureFactors maps every pressure catalog unit to pascals per unit.
var PressureFactors = map[gauge.UnitID]float64{
	"pa": 1, "pascal": 1, "kilopascal": 1e3, "kpa": 1e3, "bar": 1e5,
	"psi": 6894.757293168, "ksi": 6894757.293168, "atm": 101325,
	"epa": 1e18, "ppa": 1e15, "tpa": 1e12, "gpa": 1e9, "mpa": 1e6,
	"hpa": 100, "dapa": 10, "dpa": 0.1, "cpa": 0.01,
	"mpa_small": 1e-3, "µpa": 1e-6, "npa": 1e-9, "ppa_small": 1e-12, "fpa": 1e-15, "apa": 1e-18,
	"newton_per_m2": 1, "newton_per_cm2": 1e4, "newton_per_mm2": 1e6, "kilonewton_per_m2": 1e3,
	"millibar": 100, "mbar": 100, "microbar": 0.1, "dyne_per_cm2": 0.1,
	"kgf_per_m2": 9.80665, "kgf_per_cm2": 98066.5, "kgf_per_mm2": 9806650, "gf_per_cm2": 98.0665,
	"ton_short_per_sqft": 95760.5179, "ton_short_per_sqin": 13789514.58,
	"ton_long_per_sqft": 107251.7801, "ton_long_per_sqin": 15444256.33,
	"kip_per_sqin": 6894757.293168, "psf": 47.88025898, "psi_small": 6894.757293168,
	"poundal_per_sqft": 1.488163944,
	"torr": 133.3223684, "cmhg": 1333.22387415, "mmhg": 133.322387415, "inhg": 3386.389,
	"cmh2o": 98.0665, "mmh2o": 9.80665, "inhaq": 249.08891, "ftaq": 2989.06692,
	"at": 98066.5,
}

// VacuumFactors maps every vacuum catalog unit to pascals per unit. Gauge
// units are offset from one atmosphere and are handled by FactorProvider.
var VacuumFactors = map[gauge.UnitID]float64{
	"atm": 101325, "pa": 1, "kpa": 1e3, "bar": 1e5, "torr": 133.3223684,
	"mtorr": 0.1333223684, "mbar": 100, "inhg_abs": 3386.389, "psi_abs": 6894.757293168,
	"inh2o": 249.08891, "mmws": 9.80665, "mws": 9806.65,
	"psig": 6894.757293168, "inhg_g": 3386.389,
}

var gaugeUnits = map[gauge.UnitID]bool{"psig": true, "inhg_g": true}

// FactorProvider converts through a table of pascals per unit, so
// conversions are exact inverses of each other up to rounding.
type FactorProvider struct {
	factors map[gauge.UnitID]float64
	calls   atomic.Int64
}

// NewFactorProvider creates a provider over factors.
func NewFactorProvider(factors map[gauge.UnitID]float64) *FactorProvider {
	return &FactorProvider{factors: factors}
}

// Calls returns how many conversions were requested.
func (p *FactorProvider) Calls() int64 { return p.calls.Load() }

// Convert implements gauge.Provider.
func (p *FactorProvider) Convert(_ context.Context, req gauge.ConversionRequest) (gauge.ConversionResult, error) {
	p.calls.Add(1)
	return p.convert(req.Value, req.FromUnit)
}

func (p *FactorProvider) convert(value float64, from gauge.UnitID) (gauge.ConversionResult, error) {
	f, ok := p.factors[from]
	if !ok {
		return nil, gauge.RejectedError(http.StatusBadRequest, "Invalid unit: "+string(from))
	}
	base := value * f
	if gaugeUnits[from] {
		base += gauge.SeaLevelPressure
	}
	out := make(gauge.ConversionResult, len(p.factors))
	for u, uf := range p.factors {
		v := base
		if gaugeUnits[u] {
			v -= gauge.SeaLevelPressure
		}
		out[u] = v / uf
	}
	return out, nil
}

// APIServer is a fake tools API serving conversions, boiling points and
// barometric legs.
type APIServer struct {
	*httptest.Server

	pressure *FactorProvider
	vacuum   *FactorProvider

	mu       sync.Mutex
	delay    time.Duration
	failure  int
	requests map[string]int
}

// NewAPIServer starts a fake API and closes it when the test ends.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()
	s := &APIServer{
		pressure: NewFactorProvider(PressureFactors),
		vacuum:   NewFactorProvider(VacuumFactors),
		requests: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetDelay delays every response by d.
func (s *APIServer) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetFailure answers every request with status until reset with zero.
func (s *APIServer) SetFailure(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = status
}

// Requests returns how many requests hit path.
func (s *APIServer) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

func (s *APIServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests[r.URL.Path]++
	delay, fail := s.delay, s.failure
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if fail != 0 {
		writeJSON(w, fail, map[string]string{})
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch strings.Trim(r.URL.Path, "/") {
	case "pressure-convertor", "pressure-converter":
		s.convert(w, s.pressure, body, "from_unit")
	case "vaccum-convertor", "vacuum-convertor", "vacuum-converter":
		s.convert(w, s.vacuum, body, "unit")
	case "boiling-point-calculator":
		boilingPoint(w, body)
	case "barometric-leg":
		barometricLeg(w, body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func (s *APIServer) convert(w http.ResponseWriter, p *FactorProvider, body map[string]any, unitKey string) {
	value, _ := body["value"].(float64)
	unit, _ := body[unitKey].(string)
	res, err := p.convert(value, gauge.UnitID(unit))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": gauge.Message(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"conversions": res}})
}

// gasConstant is R in kJ/(mol·K).
const gasConstant = 0.008314

// boilingPoint solves Clausius-Clapeyron with temperatures in °C.
func boilingPoint(w http.ResponseWriter, body map[string]any) {
	p1, _ := body["P1"].(float64)
	t1, _ := body["T1"].(float64)
	hvap, _ := body["Hvap"].(float64)
	t1k := t1 + 273.15

	if p2, ok := body["P2"].(float64); ok {
		inv := 1/t1k - gasConstant*math.Log(p2/p1)/hvap
		writeJSON(w, http.StatusOK, map[string]float64{"T2": 1/inv - 273.15})
		return
	}
	if t2, ok := body["T2"].(float64); ok {
		t2k := t2 + 273.15
		p2 := p1 * math.Exp(-hvap/gasConstant*(1/t2k-1/t1k))
		writeJSON(w, http.StatusOK, map[string]float64{"P2": p2})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": "P2 or T2 is required"})
}

func barometricLeg(w http.ResponseWriter, body map[string]any) {
	rho, _ := body["rho"].(float64)
	p, ok := body["p"].(float64)
	if !ok {
		p = gauge.SeaLevelPressure
	}
	h := gauge.LegHeight(p, rho)
	writeJSON(w, http.StatusOK, map[string]any{
		"result": map[string]float64{"h_meters": h, "h_feet": h * gauge.FeetPerMeter},
		"input":  map[string]float64{"computed_pressure": p},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the converter reaches the expected state or timeout occurs.
func WaitForState(t *testing.T, c *gauge.Converter, expected gauge.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return c.State() == expected
	})
}

// RequireState fails the test immediately if the converter is not in the expected state.
func RequireState(t *testing.T, c *gauge.Converter, expected gauge.State) {
	t.Helper()
	if got := c.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireValue fails the test unless side holds a complete value within a
// relative tolerance of want.
func RequireValue(t *testing.T, c *gauge.Converter, side gauge.Side, want float64) {
	t.Helper()
	got, ok := c.Field(side).Value()
	if !ok {
		t.Fatalf("expected %s to hold a value, got %q", side, c.Field(side).Text)
	}
	if math.Abs(got-want) > 1e-9*math.Max(math.Abs(want), 1) {
		t.Fatalf("expected %s = %v, got %v", side, want, got)
	}
}
