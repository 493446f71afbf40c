package gauge

import "sync"

// Target selects one of two mutually exclusive fields.
type Target int

const (
	TargetA Target = iota
	TargetB
)

// Other returns the opposite target.
func (t Target) Other() Target {
	if t == TargetA {
		return TargetB
	}
	return TargetA
}

// Exclusive holds two mutually exclusive text fields.
//
// Set records a user edit: a non-empty value clears the other field, an
// empty value leaves it alone, so user edits never leave both filled.
// Resolve writes a computed value without clearing and marks it derived.
// A derived value still counts as filled: Given rejects the pair until one
// of them is edited away.
type Exclusive struct {
	mu      sync.RWMutex
	names   [2]string
	values  [2]string
	derived [2]bool
}

// NewExclusive creates a guard over two named fields. The names are used in
// validation messages.
func NewExclusive(a, b string) *Exclusive {
	return &Exclusive{names: [2]string{a, b}}
}

// Set applies a user edit to which.
func (e *Exclusive) Set(which Target, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.values[which] = text
	e.derived[which] = false
	if text != "" {
		e.values[which.Other()] = ""
		e.derived[which.Other()] = false
	}
}

// Resolve writes a computed value into which. The other field is untouched.
func (e *Exclusive) Resolve(which Target, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.values[which] = text
	e.derived[which] = text != ""
}

// Value returns the current text of which.
func (e *Exclusive) Value(which Target) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.values[which]
}

// Derived reports whether which holds a computed value.
func (e *Exclusive) Derived(which Target) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.derived[which]
}

// Given returns the single filled field. Neither or both filled is an
// ExclusivityViolation naming both fields.
func (e *Exclusive) Given() (Target, string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a := e.values[TargetA] != ""
	b := e.values[TargetB] != ""
	switch {
	case a && b:
		return 0, "", exclusivity(e.names[0], e.names[1],
			"Please enter only one target value (either "+e.names[0]+" or "+e.names[1]+"), not both")
	case a:
		return TargetA, e.values[TargetA], nil
	case b:
		return TargetB, e.values[TargetB], nil
	default:
		return 0, "", exclusivity(e.names[0], e.names[1],
			"Please enter either "+e.names[0]+" or "+e.names[1])
	}
}

// Clear empties both fields.
func (e *Exclusive) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values = [2]string{}
	e.derived = [2]bool{}
}
