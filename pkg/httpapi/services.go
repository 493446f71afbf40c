package httpapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/zoobzio/gauge"
)

// Endpoint variants. The service has been published under several
// spellings; each list is tried in order.
var (
	PressureEndpoints   = []string{"pressure-convertor/", "pressure-converter/"}
	VacuumEndpoints     = []string{"vaccum-convertor/", "vacuum-convertor/", "vacuum-converter/"}
	BoilingEndpoints    = []string{"boiling-point-calculator/"}
	BarometricEndpoints = []string{"barometric-leg/"}
	ElevationEndpoints  = []string{"elevation/"}
)

// ConversionService is a gauge.Provider for one converter endpoint family.
type ConversionService struct {
	client    *Client
	endpoints []string
	unitKey   string
}

// Pressure returns the pressure conversion service. The source unit is sent
// as "from_unit".
func (c *Client) Pressure() *ConversionService {
	return &ConversionService{client: c, endpoints: PressureEndpoints, unitKey: "from_unit"}
}

// Vacuum returns the vacuum conversion service. The source unit is sent as
// "unit".
func (c *Client) Vacuum() *ConversionService {
	return &ConversionService{client: c, endpoints: VacuumEndpoints, unitKey: "unit"}
}

// Endpoints returns the endpoint variants tried by Convert.
func (s *ConversionService) Endpoints() []string {
	return append([]string(nil), s.endpoints...)
}

type conversionResponse struct {
	Conversions map[gauge.UnitID]float64 `json:"conversions"`
}

// Convert implements gauge.Provider.
func (s *ConversionService) Convert(ctx context.Context, req gauge.ConversionRequest) (gauge.ConversionResult, error) {
	payload := map[string]any{
		"value":   req.Value,
		s.unitKey: req.FromUnit,
		"to_unit": req.ToUnit,
	}
	return gauge.Fallback(ctx, s.endpoints, func(ctx context.Context, endpoint string) (gauge.ConversionResult, error) {
		var resp conversionResponse
		if err := s.client.Post(ctx, endpoint, payload, &resp); err != nil {
			return nil, err
		}
		if resp.Conversions == nil {
			return nil, gauge.MalformedError("response has no conversions", nil)
		}
		return gauge.ConversionResult(resp.Conversions), nil
	})
}

// BoilingPoint implements gauge.BoilingPointProvider.
func (c *Client) BoilingPoint(ctx context.Context, req gauge.BoilingPointRequest) (gauge.BoilingPointResponse, error) {
	return gauge.Fallback(ctx, BoilingEndpoints, func(ctx context.Context, endpoint string) (gauge.BoilingPointResponse, error) {
		var resp gauge.BoilingPointResponse
		err := c.Post(ctx, endpoint, req, &resp)
		return resp, err
	})
}

// BarometricLeg implements gauge.BarometricProvider.
func (c *Client) BarometricLeg(ctx context.Context, req gauge.BarometricRequest) (gauge.BarometricResponse, error) {
	return gauge.Fallback(ctx, BarometricEndpoints, func(ctx context.Context, endpoint string) (gauge.BarometricResponse, error) {
		var resp gauge.BarometricResponse
		err := c.Post(ctx, endpoint, req, &resp)
		return resp, err
	})
}

type elevationResponse struct {
	ElevationM *float64 `json:"elevation_m"`
	PressurePa *float64 `json:"pressure_pa"`
}

// Elevation looks up the elevation and, when reported, the local pressure
// at a coordinate.
func (c *Client) Elevation(ctx context.Context, lat, lon float64) (gauge.ElevationData, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))

	return gauge.Fallback(ctx, ElevationEndpoints, func(ctx context.Context, endpoint string) (gauge.ElevationData, error) {
		var resp elevationResponse
		if err := c.Get(ctx, endpoint, q, &resp); err != nil {
			return gauge.ElevationData{}, err
		}
		if resp.ElevationM == nil {
			return gauge.ElevationData{}, gauge.MalformedError("response has no elevation_m", nil)
		}
		data := gauge.ElevationData{
			Latitude:   lat,
			Longitude:  lon,
			ElevationM: *resp.ElevationM,
		}
		if resp.PressurePa != nil && *resp.PressurePa > 0 {
			p := *resp.PressurePa
			data.PressurePa = &p
		}
		return data, nil
	})
}

var (
	_ gauge.Provider             = (*ConversionService)(nil)
	_ gauge.BoilingPointProvider = (*Client)(nil)
	_ gauge.BarometricProvider   = (*Client)(nil)
)
