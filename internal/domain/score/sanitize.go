// Package score implements the sanction engine that corrects raw
// per-player reports against a team's shared objective.
package score

import "math"

// SanitizeNonNegativeInt coerces an arbitrary numeric value into a usable
// point quantity. Non-finite or negative input maps to 0; anything else is
// floored toward zero. This is the single line of defense against malformed
// captured data, so it never fails.
func SanitizeNonNegativeInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int(math.Floor(v))
}
