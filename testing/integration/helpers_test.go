package integration

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/gauge"
	"github.com/zoobzio/gauge/pkg/httpapi"
	gaugetest "github.com/zoobzio/gauge/testing"
)

// waitFor polls a condition until it returns true or timeout is reached.
// Uses short polling intervals for fast tests with reliable results.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
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

// newAPI starts a fake tools API and a client pointed at it.
func newAPI(t *testing.T) (*gaugetest.APIServer, *httpapi.Client) {
	t.Helper()
	srv := gaugetest.NewAPIServer(t)
	return srv, httpapi.New(srv.URL, httpapi.WithToken("test-token"))
}

// startConverter starts c with short debounces and closes it with the test.
func startConverter(t *testing.T, c *gauge.Converter) *gauge.Converter {
	t.Helper()
	c.ValueDebounce(20 * time.Millisecond).
		UnitDebounce(20 * time.Millisecond).
		Timeout(2 * time.Second)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
