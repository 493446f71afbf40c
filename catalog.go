package gauge

import (
	"fmt"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// UnitID identifies a unit within a catalog.
type UnitID string

// AllUnits is the target unit requesting a full fan-out. It is never a
// catalog member.
const AllUnits UnitID = "all"

// Unit describes one catalog entry.
type Unit struct {
	ID       UnitID `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Category string `json:"category" yaml:"category"`
}

// Catalog is a fixed, ordered set of units. A Catalog is immutable once
// built and safe for concurrent use.
type Catalog struct {
	name  string
	units []Unit
	index map[UnitID]int
}

// NewCatalog builds a catalog from units in display order.
func NewCatalog(name string, units []Unit) (*Catalog, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("catalog %q: no units", name)
	}
	c := &Catalog{
		name:  name,
		units: make([]Unit, len(units)),
		index: make(map[UnitID]int, len(units)),
	}
	for i, u := range units {
		switch {
		case u.ID == "":
			return nil, fmt.Errorf("catalog %q: unit %d has no id", name, i)
		case u.ID == AllUnits:
			return nil, fmt.Errorf("catalog %q: %q is reserved", name, AllUnits)
		}
		if _, dup := c.index[u.ID]; dup {
			return nil, fmt.Errorf("catalog %q: duplicate unit %q", name, u.ID)
		}
		c.index[u.ID] = i
		c.units[i] = u
	}
	return c, nil
}

type catalogFile struct {
	Name  string `json:"name" yaml:"name"`
	Units []Unit `json:"units" yaml:"units"`
}

// LoadCatalog decodes a catalog definition of the form
// {name, units: [{id, label, category}]}.
func LoadCatalog(data []byte, codec Codec) (*Catalog, error) {
	var f catalogFile
	if err := codec.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog (%s): %w", codec.ContentType(), err)
	}
	return NewCatalog(f.Name, f.Units)
}

// EncodeCatalog renders c in the form LoadCatalog reads.
func EncodeCatalog(c *Catalog, codec Codec) ([]byte, error) {
	data, err := codec.Encode(catalogFile{Name: c.name, Units: c.Units()})
	if err != nil {
		return nil, fmt.Errorf("encode catalog (%s): %w", codec.ContentType(), err)
	}
	return data, nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Len returns the number of units.
func (c *Catalog) Len() int { return len(c.units) }

// Units returns a copy of the units in display order.
func (c *Catalog) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Contains reports whether id is a member of the catalog.
func (c *Catalog) Contains(id UnitID) bool {
	_, ok := c.index[id]
	return ok
}

// Lookup returns the unit for id. Unknown ids yield an InvalidInput error
// that suggests the closest member when one is near enough.
func (c *Catalog) Lookup(id UnitID) (Unit, error) {
	if i, ok := c.index[id]; ok {
		return c.units[i], nil
	}
	msg := fmt.Sprintf("Unknown unit %q", id)
	if s, ok := c.suggest(id); ok {
		msg += fmt.Sprintf(". Did you mean %q?", s)
	}
	return Unit{}, invalidInput("unit", msg)
}

// Label returns the display label for id. Units without a label are shown
// with underscores replaced by spaces and upper-cased.
func (c *Catalog) Label(id UnitID) string {
	if i, ok := c.index[id]; ok && c.units[i].Label != "" {
		return c.units[i].Label
	}
	return strings.ToUpper(strings.ReplaceAll(string(id), "_", " "))
}

// Category groups units under a shared heading.
type Category struct {
	Name  string
	Units []UnitID
}

// Categories returns the catalog's categories in order of first appearance.
func (c *Catalog) Categories() []Category {
	var out []Category
	pos := make(map[string]int)
	for _, u := range c.units {
		i, ok := pos[u.Category]
		if !ok {
			i = len(out)
			pos[u.Category] = i
			out = append(out, Category{Name: u.Category})
		}
		out[i].Units = append(out[i].Units, u.ID)
	}
	return out
}

// CheckComplete reports a MalformedResponse unless res holds a finite value
// for every catalog unit.
func (c *Catalog) CheckComplete(res ConversionResult) error {
	var missing []string
	for _, u := range c.units {
		v, ok := res[u.ID]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			missing = append(missing, string(u.ID))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if len(missing) > 5 {
		missing = append(missing[:5], fmt.Sprintf("and %d more", len(missing)-5))
	}
	return MalformedError("conversion result missing units: "+strings.Join(missing, ", "), nil)
}

func (c *Catalog) suggest(id UnitID) (string, bool) {
	return closest(string(id), c.units, func(u Unit) string { return string(u.ID) })
}

// closest returns the candidate nearest to s when the edit distance is
// small relative to its length.
func closest[T any](s string, candidates []T, key func(T) string) (string, bool) {
	s = strings.ToLower(s)
	best, bestDist := "", math.MaxInt
	for _, c := range candidates {
		k := key(c)
		if d := levenshtein.ComputeDistance(s, strings.ToLower(k)); d < bestDist {
			best, bestDist = k, d
		}
	}
	limit := max(2, len(s)/3)
	if best == "" || bestDist > limit {
		return "", false
	}
	return best, true
}

// PressureCatalog returns the built-in pressure catalog.
func PressureCatalog() *Catalog {
	return mustCatalog("pressure", pressureUnits)
}

// VacuumCatalog returns the built-in vacuum catalog.
func VacuumCatalog() *Catalog {
	return mustCatalog("vacuum", vacuumUnits)
}

func mustCatalog(name string, units []Unit) *Catalog {
	c, err := NewCatalog(name, units)
	if err != nil {
		panic(err)
	}
	return c
}

const (
	catSI          = "SI Units"
	catScientific  = "Scientific Notation"
	catMetric      = "Metric Units"
	catImperial    = "Imperial Pressure"
	catWeight      = "Weight-based Imperial"
	catForce       = "Force-based Units"
	catMassForce   = "Mass-force Units"
	catMercury     = "Mercury Units"
	catWaterColumn = "Water Column Units"
	catAtmosphere  = "Atmosphere"
)

var pressureUnits = []Unit{
	{"pa", "Pascal", catSI},
	{"pascal", "Pascal", catSI},
	{"kilopascal", "Kilopascal", catSI},
	{"kpa", "Kilopascal", catSI},
	{"bar", "Bar", catMetric},
	{"psi", "PSI", catImperial},
	{"ksi", "KSI", catImperial},
	{"atm", "Atmosphere", catAtmosphere},
	{"epa", "Exapascal", catSI},
	{"ppa", "Petapascal", catSI},
	{"tpa", "Terapascal", catSI},
	{"gpa", "Gigapascal", catSI},
	{"mpa", "Megapascal", catSI},
	{"hpa", "Hectopascal", catSI},
	{"dapa", "Decapascal", catSI},
	{"dpa", "Decipascal", catSI},
	{"cpa", "Centipascal", catSI},
	{"mpa_small", "Millipascal", catScientific},
	{"µpa", "Micropascal", catScientific},
	{"npa", "Nanopascal", catScientific},
	{"ppa_small", "Picopascal", catScientific},
	{"fpa", "Femtopascal", catScientific},
	{"apa", "Attopascal", catScientific},
	{"newton_per_m2", "Newton per m²", catForce},
	{"newton_per_cm2", "Newton per cm²", catForce},
	{"newton_per_mm2", "Newton per mm²", catForce},
	{"kilonewton_per_m2", "Kilonewton per m²", catForce},
	{"millibar", "Millibar", catMetric},
	{"mbar", "Millibar", catMetric},
	{"microbar", "Microbar", catMetric},
	{"dyne_per_cm2", "Dyne per cm²", catForce},
	{"kgf_per_m2", "kgf per m²", catMassForce},
	{"kgf_per_cm2", "kgf per cm²", catMassForce},
	{"kgf_per_mm2", "kgf per mm²", catMassForce},
	{"gf_per_cm2", "Gram-force per cm²", catMassForce},
	{"ton_short_per_sqft", "Ton Short per sq ft", catWeight},
	{"ton_short_per_sqin", "Ton Short per sq in", catWeight},
	{"ton_long_per_sqft", "Ton Long per sq ft", catWeight},
	{"ton_long_per_sqin", "Ton Long per sq in", catWeight},
	{"kip_per_sqin", "Kip per sq in", catImperial},
	{"psf", "Pound per sq ft", catImperial},
	{"psi_small", "PSI (Small)", catImperial},
	{"poundal_per_sqft", "Poundal per sq ft", catMassForce},
	{"torr", "Torr", catMercury},
	{"cmhg", "cm Mercury", catMercury},
	{"mmhg", "mm Mercury", catMercury},
	{"inhg", "Inch Mercury", catMercury},
	{"cmh2o", "cm Water", catWaterColumn},
	{"mmh2o", "mm Water", catWaterColumn},
	{"inhaq", "Inch Water", catWaterColumn},
	{"ftaq", "Foot Water", catWaterColumn},
	{"at", "Technical Atmosphere", catMetric},
}

var vacuumUnits = []Unit{
	{"atm", "Atmosphere (atm)", "Scientific"},
	{"pa", "Pascal (Pa)", "Metric"},
	{"kpa", "Kilopascal (kPa)", "Metric"},
	{"bar", "Bar", "Metric"},
	{"torr", "Torr", "Scientific"},
	{"mtorr", "Millitorr", "Scientific"},
	{"mbar", "Millibar", "Metric"},
	{"inhg_abs", "Inches of Mercury (abs)", "Imperial"},
	{"psi_abs", "PSI (abs)", "Imperial"},
	{"inh2o", "Inches of Water", "Imperial"},
	{"mmws", "mm Water Column", "Water"},
	{"mws", "Meter Water Column", "Water"},
	{"psig", "PSI (gauge)", "Imperial"},
	{"inhg_g", "Inches of Mercury (gauge)", "Imperial"},
}
