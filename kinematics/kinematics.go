// Package kinematics solves mechanisms for targets: joint values, joint planes and the arm
// configuration for each target, with kinematic problems recorded instead of returned.
package kinematics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
)

// ErrTargetOutOfReach is the solution error for a target the arm cannot reach.
const ErrTargetOutOfReach = "Target out of reach."

// Chain is the kinematic description of a mechanism.
type Chain interface {
	Joints() []referenceframe.Joint
	BasePose() spatialmath.Pose
}

// Solver computes the joint values for a target.
type Solver interface {
	// Solve returns the solution for t. prevJoints, when not nil, makes the solver prefer the
	// branch and angle wrapping closest to the previous values. A nil basePose uses the
	// mechanism's own base.
	Solve(t target.Target, prevJoints []float64, basePose spatialmath.Pose) *Solution
}

// Solution is the result of solving one mechanism for one target. It is not modified after
// it is returned.
type Solution struct {
	// Joints are radians for revolute axes and mm for prismatic axes.
	Joints        []float64
	Configuration target.Configuration
	// Planes are the base plane, one plane per joint, then the plane the mechanism carries
	// (the tool center point for arms).
	Planes      []spatialmath.Pose
	Errors      []string
	Unreachable bool
	OutOfRange  []int
}

// HasErrors returns whether anything went wrong while solving.
func (s *Solution) HasErrors() bool {
	return len(s.Errors) > 0
}

// EndPlane returns the last plane of the solution: the tool center point of an arm or the
// plane an external mechanism carries.
func (s *Solution) EndPlane() spatialmath.Pose {
	if len(s.Planes) == 0 {
		return spatialmath.NewZeroPose()
	}
	return s.Planes[len(s.Planes)-1]
}

// AxisOutOfRangeError is the solution error for an axis beyond its limits. Axes count from 1.
func AxisOutOfRangeError(index int) string {
	return fmt.Sprintf("Axis %d is outside the permitted range.", index+1)
}

// checkRanges records every joint outside its range.
func checkRanges(joints []referenceframe.Joint, values []float64, sol *Solution) {
	for i := range joints {
		if i >= len(values) {
			break
		}
		if !joints[i].InRange(values[i]) {
			sol.OutOfRange = append(sol.OutOfRange, i)
			sol.Errors = append(sol.Errors, AxisOutOfRangeError(i))
		}
	}
}

// jointValues returns the values of a joint target sized to the joints, recording a DoF
// mismatch as a solution error.
func jointValues(values []float64, dof int, sol *Solution) []float64 {
	out := make([]float64, dof)
	copy(out, values)
	if len(values) != dof {
		sol.Errors = append(sol.Errors, referenceframe.NewIncorrectDoFError(len(values), dof).Error())
	}
	return out
}

// wrapNear shifts a revolute value by whole turns so it is as close as possible to near.
func wrapNear(value, near float64) float64 {
	return value + 2*math.Pi*math.Round((near-value)/(2*math.Pi))
}

// wrapIntoRange shifts a revolute value by a whole turn when that brings it within limit.
func wrapIntoRange(value float64, limit referenceframe.Limit) float64 {
	if limit.Includes(value) {
		return value
	}
	for _, shift := range []float64{-2 * math.Pi, 2 * math.Pi} {
		if limit.Includes(value + shift) {
			return value + shift
		}
	}
	return value
}

// jointDistance returns the euclidean distance between two joint vectors.
func jointDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// baseOrDefault returns basePose, or the chain base when it is nil.
func baseOrDefault(c Chain, basePose spatialmath.Pose) spatialmath.Pose {
	if basePose == nil {
		return c.BasePose()
	}
	return basePose
}

// externalValues returns the axis values a target carries for an external mechanism.
func externalValues(t target.Target) []float64 {
	return target.Match(t,
		func(c *target.CartesianTarget) []float64 { return c.External },
		func(j *target.JointTarget) []float64 { return j.Joints })
}
