// Package convert holds overflow-checked integer conversions.
package convert

import (
	"fmt"
	"math"
)

// IntToInt32 converts v, failing on overflow.
func IntToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("integer overflow: %d does not fit in int32", v)
	}
	return int32(v), nil
}

// ClampPositive returns v limited to [1, max], or def when v is not positive.
func ClampPositive(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
