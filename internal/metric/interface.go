package metric

// ValueKind classifies a metric's values
type ValueKind int

const (
	// KindNumeric marks metrics whose values parse as decimal numbers
	KindNumeric ValueKind = iota
	// KindText marks everything else
	KindText
)

func (k ValueKind) String() string {
	if k == KindNumeric {
		return "numeric"
	}

	return "text"
}

// Descriptor classifies one (class, attribute) pair. DisplayKind mirrors
// ValueKind for this system; Unit may be empty.
type Descriptor struct {
	ValueKind   ValueKind
	DisplayKind ValueKind
	Unit        string
}

// Value is the typed form of one observed attribute value, produced by
// CoerceValue so downstream consumers can switch exhaustively on Kind.
type Value struct {
	Kind    ValueKind
	Numeric float64
	Text    string
}
