package gauge

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Fallback calls each endpoint in order until one succeeds.
//
// The service has been deployed under several spellings of the same route,
// so adapters list every known variant and let Fallback find the live one.
// A cancelled context stops the loop immediately. When every endpoint fails
// the last error is returned wrapped.
//
// Example:
//
//	res, err := gauge.Fallback(ctx, []string{"vaccum-convertor/", "vacuum-converter/"},
//	    func(ctx context.Context, endpoint string) (Result, error) {
//	        return client.Post(ctx, endpoint, req)
//	    })
func Fallback[T any](ctx context.Context, endpoints []string, call func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if len(endpoints) == 0 {
		return zero, ErrNoEndpoints
	}

	var lastErr error
	for _, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		out, err := call(ctx, endpoint)
		if err == nil {
			return out, nil
		}
		lastErr = err
		capitan.Emit(ctx, ProviderEndpointFailed,
			KeyEndpoint.Field(endpoint),
			KeyError.Field(err.Error()),
		)
		if ctx.Err() != nil {
			return zero, err
		}
	}
	return zero, fmt.Errorf("all %d endpoints failed: %w", len(endpoints), lastErr)
}
