package gauge

// Side identifies one of the two linked fields of a Converter.
type Side int

const (
	// Primary is the left-hand field. It is the default change source.
	Primary Side = iota

	// Secondary is the right-hand field.
	Secondary
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Primary {
		return Secondary
	}
	return Primary
}

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "unknown"
	}
}

func (s Side) valid() bool {
	return s == Primary || s == Secondary
}
