package gauge

import (
	"maps"
	"sync"
)

// FanOut holds the most recent complete conversion result. Readers always
// receive copies.
type FanOut struct {
	mu     sync.RWMutex
	result ConversionResult
}

// Set replaces the cached result with a copy of res.
func (f *FanOut) Set(res ConversionResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = maps.Clone(res)
}

// Get returns a copy of the cached result. ok is false when the cache is
// empty.
func (f *FanOut) Get() (res ConversionResult, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.result) == 0 {
		return nil, false
	}
	return maps.Clone(f.result), true
}

// Lookup returns the cached value for unit.
func (f *FanOut) Lookup(unit UnitID) (float64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.result[unit]
	return v, ok
}

// Clear empties the cache.
func (f *FanOut) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = nil
}

// Len returns the number of cached units.
func (f *FanOut) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.result)
}
