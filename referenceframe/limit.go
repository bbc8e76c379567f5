package referenceframe

import (
	"math"

	"go.viam.com/robotpost/utils"
)

// Limit represents the limits of motion for a joint.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MakeIncreasing returns the limit with Min and Max swapped when they are out of order.
func (l Limit) MakeIncreasing() Limit {
	if l.Min > l.Max {
		return Limit{Min: l.Max, Max: l.Min}
	}
	return l
}

// Includes returns whether value lies inside the limit, allowing for floating point error.
func (l Limit) Includes(value float64) bool {
	const epsilon = 1e-9
	return value >= l.Min-epsilon && value <= l.Max+epsilon
}

// Mid returns the centre of the limit.
func (l Limit) Mid() float64 {
	return (l.Min + l.Max) / 2
}

// Span returns the length of the limit.
func (l Limit) Span() float64 {
	return math.Abs(l.Max - l.Min)
}

func limitsAlmostEqual(a, b []Limit) bool {
	if len(a) != len(b) {
		return false
	}

	const epsilon = 1e-5
	for idx, x := range a {
		if !utils.Float64AlmostEqual(x.Min, b[idx].Min, epsilon) ||
			!utils.Float64AlmostEqual(x.Max, b[idx].Max, epsilon) {
			return false
		}
	}

	return true
}
