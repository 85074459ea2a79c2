// Package dialog - User input parsing
// Numeric answers tolerate either decimal separator; volumes may be
// dimension expressions.
package dialog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"cargo-quote/internal/errors"
)

// CentimeterThreshold marks dimension components as centimeters: any
// component above it means the whole expression is in cm and is
// converted to meters
const CentimeterThreshold = 10.0

// ParseNumber parses a decimal accepting both "." and "," separators
func ParseNumber(input string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(input, ",", "."))
	if s == "" {
		return 0, errors.Input("empty number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Input("not a number: " + input)
	}
	return v, nil
}

// ParsePositive parses a strictly positive decimal
func ParsePositive(input string) (float64, error) {
	v, err := ParseNumber(input)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.Input("value must be positive: " + input)
	}
	return v, nil
}

var dimensionSeparators = strings.NewReplacer("×", "x", "х", "x", "Х", "x", "X", "x", "*", "x")

// ParseDimensions parses a volume from a dimension expression such as
// "1.2x0.8x0.5" or "3 x 60x40x30" (a leading repeat count multiplies
// the volume). Components above CentimeterThreshold are treated as
// centimeters and converted.
func ParseDimensions(input string) (float64, error) {
	s := dimensionSeparators.Replace(strings.ToLower(strings.TrimSpace(input)))
	parts := strings.Split(s, "x")
	if len(parts) != 3 && len(parts) != 4 {
		return 0, errors.Input("expected LxWxH or N x LxWxH: " + input)
	}

	count := 1.0
	if len(parts) == 4 {
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || n < 1 {
			return 0, errors.Input("repeat count must be a whole number: " + input)
		}
		count = float64(n)
		parts = parts[1:]
	}

	dims := make([]float64, 3)
	for i, p := range parts {
		v, err := ParsePositive(p)
		if err != nil {
			return 0, errors.Input("bad dimension in: " + input)
		}
		dims[i] = v
	}

	// Values above the threshold were measured in centimeters
	if dims[0] > CentimeterThreshold || dims[1] > CentimeterThreshold || dims[2] > CentimeterThreshold {
		for i := range dims {
			dims[i] /= 100
		}
	}

	return count * dims[0] * dims[1] * dims[2], nil
}

// ParseVolume interprets a volume answer: a plain number first, then a
// dimension expression. The second return is true when no usable volume
// could be read and the default-density assumption should apply.
func ParseVolume(input string) (volume float64, assumed bool) {
	if v, err := ParseNumber(input); err == nil {
		if v > 0 {
			return v, false
		}
		return 0, true // explicit "0" means no measured volume
	}
	if v, err := ParseDimensions(input); err == nil && v > 0 {
		return v, false
	}
	return 0, true
}

// "3 x 20", "3 boxes of 20 kg", "3 коробки по 20 кг"
var boxAnswerRE = regexp.MustCompile(`^(\d+)\s*(?:(?:box|коробк|посылк|упаковк|шт)\S*\s+)?(?:по|of|x|х|×|\*)\s*(\d+(?:[.,]\d+)?)\s*(?:kg|кг)?$`)

// "2 pallets", "2 паллеты"
var palletAnswerRE = regexp.MustCompile(`^(\d+)\s*(?:pallet|паллет)\S*$`)

// ParseBoxes reads a repeated-box weight answer: a count and a per-box
// weight. The last return is false when the input is not a box count.
func ParseBoxes(input string) (count int, weightEach float64, ok bool) {
	m := boxAnswerRE.FindStringSubmatch(strings.ToLower(strings.TrimSpace(input)))
	if m == nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, 0, false
	}
	w, err := ParsePositive(m[2])
	if err != nil {
		return 0, 0, false
	}
	return n, w, true
}

// ParsePallets reads a pallet-count answer
func ParsePallets(input string) (count int, ok bool) {
	m := palletAnswerRE.FindStringSubmatch(strings.ToLower(strings.TrimSpace(input)))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NormalizePhone strips formatting from a phone answer and validates a
// plausible digit count
func NormalizePhone(input string) (string, error) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	p := digits.String()
	if len(p) < 10 || len(p) > 15 {
		return "", errors.Input("phone must contain 10 to 15 digits")
	}
	return p, nil
}
