package gauge

// Field is one side of a converter: the raw text shown to the user and the
// unit it is expressed in.
type Field struct {
	Text string `json:"text" yaml:"text"`
	Unit UnitID `json:"unit" yaml:"unit"`
}

// Complete reports whether the field text denotes a finite number.
func (f Field) Complete() bool {
	return IsComplete(f.Text)
}

// Value returns the parsed field value. ok is false when the text is not
// complete.
func (f Field) Value() (v float64, ok bool) {
	return parseComplete(f.Text)
}
