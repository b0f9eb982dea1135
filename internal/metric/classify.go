package metric

import "strconv"

// Classifier resolves (class, attribute) pairs to descriptors, using
// the registry first and value-based inference as the fallback.
type Classifier struct {
	registry *Registry
}

func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify returns the descriptor for the pair. Registry entries win
// regardless of the sample; otherwise a sample that parses as a decimal
// number infers numeric, anything else (including the empty string)
// infers text. Classification never fails.
func (c *Classifier) Classify(class, attribute, sample string) Descriptor {
	if desc, ok := c.registry.Lookup(class, attribute); ok {
		return desc
	}

	if IsNumeric(sample) {
		return Descriptor{ValueKind: KindNumeric, DisplayKind: KindNumeric}
	}

	return Descriptor{ValueKind: KindText, DisplayKind: KindText}
}

// IsNumeric reports whether raw parses as a decimal number. The empty
// string is not numeric.
func IsNumeric(raw string) bool {
	if raw == "" {
		return false
	}

	_, err := strconv.ParseFloat(raw, 64)

	return err == nil
}

// CoerceValue converts a raw hub string into the typed form dictated by
// the descriptor. Raw values that contradict a numeric descriptor fall
// back to zero rather than failing; the descriptor stays authoritative.
func CoerceValue(desc Descriptor, raw string) Value {
	if desc.ValueKind == KindNumeric {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			parsed = 0
		}

		return Value{Kind: KindNumeric, Numeric: parsed}
	}

	return Value{Kind: KindText, Text: raw}
}
