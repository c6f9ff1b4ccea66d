package inflation

import (
	"math"
	"strconv"
	"strings"
)

// IngestionDivisor scales a published percentage into the normalized index.
// The calculator divides by 100 again, so a published 101.3 contributes a
// factor of 0.1013. This matches the historic behavior of the service.
const IngestionDivisor = 10

// RawKind tells how a published index value was represented
type RawKind int

const (
	RawBlank RawKind = iota
	RawText
	RawNumber
)

// RawIndex is a published monthly index before normalization
type RawIndex struct {
	Kind   RawKind
	Text   string
	Number float64
}

// TextIndex wraps a textual cell such as "101,3%"
func TextIndex(s string) RawIndex {
	if strings.TrimSpace(s) == "" {
		return RawIndex{Kind: RawBlank}
	}
	return RawIndex{Kind: RawText, Text: s}
}

// NumberIndex wraps an already numeric cell
func NumberIndex(v float64) RawIndex {
	return RawIndex{Kind: RawNumber, Number: v}
}

// Normalize returns the normalized index, or false when the value is blank
// or cannot be read as a finite number.
func (r RawIndex) Normalize() (float64, bool) {
	var v float64
	switch r.Kind {
	case RawNumber:
		v = r.Number
	case RawText:
		parsed, ok := parsePercent(r.Text)
		if !ok {
			return 0, false
		}
		v = parsed
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v / IngestionDivisor, true
}

var percentReplacer = strings.NewReplacer("%", "", ",", ".", " ", "", "\u00a0", "")

func parsePercent(s string) (float64, bool) {
	s = percentReplacer.Replace(strings.TrimSpace(s))
	if s == "" || strings.Trim(s, "-–—") == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
