package gauge

import "context"

// ConversionRequest asks a provider for every unit equivalent of Value.
type ConversionRequest struct {
	Value    float64
	FromUnit UnitID
	ToUnit   UnitID
}

// ConversionResult maps every catalog unit to its equivalent value.
type ConversionResult map[UnitID]float64

// Provider performs unit conversions remotely. Implementations must honour
// ctx cancellation.
type Provider interface {
	Convert(ctx context.Context, req ConversionRequest) (ConversionResult, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req ConversionRequest) (ConversionResult, error)

// Convert calls f.
func (f ProviderFunc) Convert(ctx context.Context, req ConversionRequest) (ConversionResult, error) {
	return f(ctx, req)
}

// BoilingPointRequest carries the Clausius-Clapeyron inputs. Exactly one of
// P2 and T2 is set; the provider computes the other.
type BoilingPointRequest struct {
	P1   float64  `json:"P1"`
	T1   float64  `json:"T1"`
	Hvap float64  `json:"Hvap"`
	P2   *float64 `json:"P2,omitempty"`
	T2   *float64 `json:"T2,omitempty"`
}

// BoilingPointResponse holds the computed target.
type BoilingPointResponse struct {
	P2 *float64 `json:"P2,omitempty"`
	T2 *float64 `json:"T2,omitempty"`
}

// BoilingPointProvider computes the missing boiling-point target.
type BoilingPointProvider interface {
	BoilingPoint(ctx context.Context, req BoilingPointRequest) (BoilingPointResponse, error)
}

// BarometricRequest asks for the barometric leg height supported by pressure
// P (Pa) for a liquid of density Rho (kg/m³). A nil P means sea level.
type BarometricRequest struct {
	Rho float64  `json:"rho"`
	P   *float64 `json:"p,omitempty"`
}

// BarometricResponse accepts both response shapes the service produces:
// nested under result/input, or flat.
type BarometricResponse struct {
	Result *struct {
		HMeters *float64 `json:"h_meters"`
		HFeet   *float64 `json:"h_feet"`
	} `json:"result,omitempty"`
	Input *struct {
		ComputedPressure *float64 `json:"computed_pressure"`
	} `json:"input,omitempty"`

	HMeters  *float64 `json:"h_meters,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	HFeet    *float64 `json:"h_feet,omitempty"`
	Pressure *float64 `json:"pressure,omitempty"`
}

// BarometricProvider computes barometric leg heights.
type BarometricProvider interface {
	BarometricLeg(ctx context.Context, req BarometricRequest) (BarometricResponse, error)
}
