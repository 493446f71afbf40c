package gauge

import (
	"fmt"
	"strings"
)

// Substance is a liquid with its enthalpy of vaporization in kJ/mol.
type Substance struct {
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Hvap     float64 `json:"hvap" yaml:"hvap"`
}

var substances = []Substance{
	{"Water", "Common", 40.65},
	{"Ammonia", "Common", 23.35},
	{"Acetone", "Common", 29.10},
	{"Methanol", "Alcohols", 35.21},
	{"Ethanol", "Alcohols", 38.56},
	{"Isopropanol", "Alcohols", 39.85},
	{"Benzene", "Hydrocarbons", 30.72},
	{"Toluene", "Hydrocarbons", 33.18},
	{"n-Hexane", "Hydrocarbons", 28.85},
	{"n-Heptane", "Hydrocarbons", 31.77},
	{"Diethyl ether", "Solvents", 26.52},
	{"Chloroform", "Solvents", 29.24},
}

// Substances returns the built-in substance table.
func Substances() []Substance {
	out := make([]Substance, len(substances))
	copy(out, substances)
	return out
}

// LookupSubstance finds a substance by case-insensitive name. Unknown names
// yield an InvalidInput error with a suggestion when one is close.
func LookupSubstance(name string) (Substance, error) {
	for _, s := range substances {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	msg := fmt.Sprintf("Unknown substance %q", name)
	if s, ok := closest(name, substances, func(s Substance) string { return s.Name }); ok {
		msg += fmt.Sprintf(". Did you mean %q?", s)
	}
	return Substance{}, invalidInput("substance", msg)
}
