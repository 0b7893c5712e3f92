package rule

import (
	"fmt"
	"strconv"
)

// unitMultipliers maps Chinese magnitude suffixes to their scale in yuan
// (or shares, for volume). Longest units must be matched before their
// prefixes, so the regex alternation in patterns.go lists 万亿 before 亿.
var unitMultipliers = map[string]float64{
	"万":  1e4,
	"十万": 1e5,
	"百万": 1e6,
	"千万": 1e7,
	"亿":  1e8,
	"十亿": 1e9,
	"百亿": 1e10,
	"千亿": 1e11,
	"万亿": 1e12,
}

// unitAlternation is the regex alternation for magnitude suffixes,
// longest first.
const unitAlternation = `万亿|千亿|百亿|十亿|千万|百万|十万|亿|万`

// parseAmount parses a decimal literal with an optional magnitude
// suffix, e.g. "200" + "亿" = 2e10.
func parseAmount(num, unit string) (float64, error) {
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", num, err)
	}
	if unit == "" {
		return v, nil
	}
	mult, ok := unitMultipliers[unit]
	if !ok {
		return 0, fmt.Errorf("unknown magnitude unit %q", unit)
	}
	return v * mult, nil
}
