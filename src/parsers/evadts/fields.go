// src/parsers/evadts/fields.go
package evadts

import "strconv"

// minorUnitsPerUnit converts minor currency units (cents) into decimal amounts.
const minorUnitsPerUnit = 100.0

// stringField returns the field at index, or nil when it is missing or blank.
func stringField(seg *dataSegment, index int) *string {
	v := seg.field(index)
	if v == "" {
		return nil
	}
	return &v
}

// intField parses the field at index as a base-10 integer. Malformed input yields nil.
func intField(seg *dataSegment, index int) *int {
	v := seg.field(index)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// currencyField parses the field at index as an integer amount of minor units and
// returns it divided by 100. Malformed input yields nil.
func currencyField(seg *dataSegment, index int) *float64 {
	v := seg.field(index)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	amount := float64(n) / minorUnitsPerUnit
	return &amount
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
