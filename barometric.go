package gauge

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Physical constants for leg height and the standard atmosphere.
const (
	SeaLevelPressure = 101325.0 // Pa
	Gravity          = 9.81     // m/s², as used for leg heights
	FeetPerMeter     = 3.28084

	lapseRate      = 0.0065    // K/m
	seaLevelTemp   = 288.15    // K
	standardG      = 9.80665   // m/s²
	molarMassAir   = 0.0289644 // kg/mol
	gasConstant    = 8.31446   // J/(mol·K)
	defaultDensity = 1000.0    // kg/m³, water
)

// LegSource labels where a leg result came from.
type LegSource string

const (
	SourceProvider      LegSource = "provider"
	SourceLocalFallback LegSource = "local_fallback"
)

// Density is a named liquid density in kg/m³.
type Density struct {
	Name  string
	Value float64
}

// Densities lists common barometric leg liquids.
var Densities = []Density{
	{"Air", 1.225},
	{"Water", 1000},
	{"Sea Water", 1025},
	{"Ethanol", 789},
	{"Methanol", 791},
	{"Glycerol", 1261},
	{"Mercury", 13593},
	{"Oil (Light)", 850},
	{"Oil (Heavy)", 900},
	{"Gasoline", 745},
	{"Diesel", 850},
	{"Brine (25% NaCl)", 1190},
	{"Sulfuric Acid", 1840},
	{"Ethylene Glycol", 1113},
}

// ElevationData is the outcome of an elevation lookup. PressurePa may be
// nil when the lookup did not report a pressure.
type ElevationData struct {
	Latitude   float64
	Longitude  float64
	ElevationM float64
	PressurePa *float64
}

// LegResult is a barometric leg height.
type LegResult struct {
	HeightMeters float64
	HeightFeet   float64
	PressurePa   float64
	Density      float64
	Source       LegSource

	// PressureEstimated is set when PressurePa came from the standard
	// atmosphere rather than a measurement.
	PressureEstimated bool
}

// StandardPressure returns the standard-atmosphere pressure in Pa at
// elevation meters above sea level.
func StandardPressure(elevation float64) float64 {
	exp := standardG * molarMassAir / (gasConstant * lapseRate)
	return SeaLevelPressure * math.Pow(1-lapseRate*elevation/seaLevelTemp, exp)
}

// LegHeight computes h = p / (ρ·g) in meters.
func LegHeight(pressure, density float64) float64 {
	return pressure / (density * Gravity)
}

// Barometric computes barometric leg heights through a provider and falls
// back to the local formula when the provider cannot serve a result.
type Barometric struct {
	provider BarometricProvider
	clock    clockz.Clock
	timeout  time.Duration
}

// NewBarometric creates a calculator backed by provider.
func NewBarometric(provider BarometricProvider) *Barometric {
	return &Barometric{
		provider: provider,
		clock:    clockz.RealClock,
		timeout:  defaultTimeout,
	}
}

// Clock sets the clock used for timeouts.
func (b *Barometric) Clock(clock clockz.Clock) *Barometric {
	b.clock = clock
	return b
}

// Timeout bounds each provider call. Zero disables the bound.
func (b *Barometric) Timeout(d time.Duration) *Barometric {
	b.timeout = d
	return b
}

// SeaLevel computes the leg height at sea-level pressure. A non-positive
// density uses water.
//
// When the provider fails or answers with an unexpected shape, the height
// is computed locally and returned labeled SourceLocalFallback together
// with an error wrapping ErrLocalFallback.
func (b *Barometric) SeaLevel(ctx context.Context, density float64) (LegResult, error) {
	return b.compute(ctx, nil, SeaLevelPressure, false, density)
}

// AtElevation computes the leg height at the pressure reported by an
// elevation lookup. A missing pressure is estimated with StandardPressure
// and flagged. Fallback behaviour matches SeaLevel.
func (b *Barometric) AtElevation(ctx context.Context, data ElevationData, density float64) (LegResult, error) {
	if data.PressurePa != nil && *data.PressurePa > 0 {
		p := *data.PressurePa
		return b.compute(ctx, &p, p, false, density)
	}
	p := StandardPressure(data.ElevationM)
	return b.compute(ctx, &p, p, true, density)
}

func (b *Barometric) compute(ctx context.Context, sent *float64, pressure float64, estimated bool, density float64) (LegResult, error) {
	if density <= 0 || math.IsNaN(density) || math.IsInf(density, 0) {
		density = defaultDensity
	}

	req := BarometricRequest{Rho: density, P: sent}
	resp, err := WithTimeout(ctx, b.clock, b.timeout, func(ctx context.Context) (BarometricResponse, error) {
		return b.provider.BarometricLeg(ctx, req)
	})
	if err == nil {
		if res, ok := fromResponse(resp, pressure, density); ok {
			res.PressureEstimated = estimated
			return res, nil
		}
		err = MalformedError("barometric response has no height", nil)
	}

	h := LegHeight(pressure, density)
	res := LegResult{
		HeightMeters:      h,
		HeightFeet:        h * FeetPerMeter,
		PressurePa:        pressure,
		Density:           density,
		Source:            SourceLocalFallback,
		PressureEstimated: estimated,
	}
	capitan.Emit(ctx, BarometricFallback,
		KeySource.Field(string(SourceLocalFallback)),
		KeyKind.Field(KindOf(err).String()),
		KeyError.Field(err.Error()),
	)
	return res, fmt.Errorf("%w: %w", ErrLocalFallback, err)
}

// fromResponse reads either response shape. Zero heights are treated as
// missing.
func fromResponse(resp BarometricResponse, pressure, density float64) (LegResult, bool) {
	res := LegResult{PressurePa: pressure, Density: density, Source: SourceProvider}

	if resp.Result != nil && resp.Result.HMeters != nil {
		res.HeightMeters = *resp.Result.HMeters
		if resp.Result.HFeet != nil {
			res.HeightFeet = *resp.Result.HFeet
		}
		if resp.Input != nil && positive(resp.Input.ComputedPressure) {
			res.PressurePa = *resp.Input.ComputedPressure
		}
	} else {
		switch {
		case positive(resp.HMeters):
			res.HeightMeters = *resp.HMeters
		case positive(resp.Height):
			res.HeightMeters = *resp.Height
		default:
			return LegResult{}, false
		}
		if positive(resp.HFeet) {
			res.HeightFeet = *resp.HFeet
		}
		if positive(resp.Pressure) {
			res.PressurePa = *resp.Pressure
		}
	}

	if res.HeightMeters <= 0 || math.IsNaN(res.HeightMeters) || math.IsInf(res.HeightMeters, 0) {
		return LegResult{}, false
	}
	if res.HeightFeet <= 0 {
		res.HeightFeet = res.HeightMeters * FeetPerMeter
	}
	return res, true
}

func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0)
}
