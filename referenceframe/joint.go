// Package referenceframe defines the joints of robot mechanisms, their limits and the
// manufacturers that build them.
package referenceframe

import (
	"math"

	"go.viam.com/robotpost/spatialmath"
)

// JointType describes how a joint moves.
type JointType string

const (
	// RevoluteJoint rotates about its axis. Values are radians.
	RevoluteJoint = JointType("revolute")
	// PrismaticJoint translates along its axis. Values are millimeters.
	PrismaticJoint = JointType("prismatic")
)

// JointConfig is a joint as written in a mechanism definition. Angles are degrees and speeds
// are per second. A NaN Alpha or Theta and a zero Sign mean "use the mechanism default".
type JointConfig struct {
	Type     JointType
	A        float64
	D        float64
	Alpha    float64
	Theta    float64
	Sign     int
	Range    Limit
	MaxSpeed float64
	Mesh     *spatialmath.Mesh
}

// NewRevoluteJointConfig returns a revolute joint definition that takes every offset from the
// mechanism defaults.
func NewRevoluteJointConfig(a, d float64, rangeDegrees Limit, maxSpeedDegrees float64) JointConfig {
	return JointConfig{
		Type:     RevoluteJoint,
		A:        a,
		D:        d,
		Alpha:    math.NaN(),
		Theta:    math.NaN(),
		Range:    rangeDegrees,
		MaxSpeed: maxSpeedDegrees,
	}
}

// NewPrismaticJointConfig returns a prismatic joint definition that takes every offset from the
// mechanism defaults.
func NewPrismaticJointConfig(rangeMM Limit, maxSpeedMM float64) JointConfig {
	return JointConfig{
		Type:     PrismaticJoint,
		Alpha:    math.NaN(),
		Theta:    math.NaN(),
		Range:    rangeMM,
		MaxSpeed: maxSpeedMM,
	}
}

// Joint is a single actuated axis after normalization: every angular field is in radians,
// Range is increasing and Sign is either -1 or 1.
type Joint struct {
	Index    int
	Type     JointType
	A        float64
	D        float64
	Alpha    float64
	Theta    float64
	Sign     int
	Range    Limit
	MaxSpeed float64
	Mesh     *spatialmath.Mesh
}

// IsRevolute returns whether the joint rotates.
func (j *Joint) IsRevolute() bool {
	return j.Type != PrismaticJoint
}

// InRange returns whether value is within the joint range.
func (j *Joint) InRange(value float64) bool {
	return j.Range.Includes(value)
}

// JointsAlmostEqual returns whether two joint lists describe the same axes up to floating point error.
func JointsAlmostEqual(a, b []Joint) bool {
	if len(a) != len(b) {
		return false
	}
	limitsA := make([]Limit, 0, len(a))
	limitsB := make([]Limit, 0, len(b))
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Sign != b[i].Sign {
			return false
		}
		limitsA = append(limitsA, a[i].Range, Limit{a[i].Alpha, a[i].Theta}, Limit{a[i].A, a[i].D})
		limitsB = append(limitsB, b[i].Range, Limit{b[i].Alpha, b[i].Theta}, Limit{b[i].A, b[i].D})
	}
	return limitsAlmostEqual(limitsA, limitsB)
}
