package kinematics

import (
	"github.com/golang/geo/r3"

	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
)

// TrackSolver solves linear external axes that carry the robot. Axis i translates along the
// X, Y and Z axes of the base plane in turn.
type TrackSolver struct {
	chain Chain
}

// NewTrackSolver returns a solver for a track chain.
func NewTrackSolver(chain Chain) *TrackSolver {
	return &TrackSolver{chain: chain}
}

// Solve reads the axis values from a joint target, or from the external values of a
// Cartesian target. The last plane is where the robot base ends up.
func (s *TrackSolver) Solve(t target.Target, _ []float64, basePose spatialmath.Pose) *Solution {
	base := baseOrDefault(s.chain, basePose)
	joints := s.chain.Joints()
	sol := &Solution{}
	sol.Joints = jointValues(externalValues(t), len(joints), sol)
	checkRanges(joints, sol.Joints, sol)

	sol.Planes = append(sol.Planes, base)
	var offset r3.Vector
	for i, j := range joints {
		step := float64(j.Sign) * sol.Joints[i]
		switch i % 3 {
		case 0:
			offset.X += step
		case 1:
			offset.Y += step
		default:
			offset.Z += step
		}
		sol.Planes = append(sol.Planes, spatialmath.Compose(base, spatialmath.NewPoseFromPoint(offset)))
	}
	sol.Planes = append(sol.Planes, sol.Planes[len(sol.Planes)-1])
	return sol
}

// PositionerSolver solves a revolute external chain that carries work objects on its flange.
type PositionerSolver struct {
	chain Chain
}

// NewPositionerSolver returns a solver for a positioner chain.
func NewPositionerSolver(chain Chain) *PositionerSolver {
	return &PositionerSolver{chain: chain}
}

// Solve reads the axis values like TrackSolver. The last plane is the flange that coupled
// frames move with.
func (s *PositionerSolver) Solve(t target.Target, _ []float64, basePose spatialmath.Pose) *Solution {
	base := baseOrDefault(s.chain, basePose)
	joints := s.chain.Joints()
	sol := &Solution{}
	sol.Joints = jointValues(externalValues(t), len(joints), sol)
	checkRanges(joints, sol.Joints, sol)
	sol.Planes = ForwardKinematics(joints, base, sol.Joints)
	sol.Planes = append(sol.Planes, sol.Planes[len(sol.Planes)-1])
	return sol
}
