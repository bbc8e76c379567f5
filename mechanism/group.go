package mechanism

import (
	"github.com/pkg/errors"

	"go.viam.com/robotpost/kinematics"
	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
)

// MechanicalGroup is a robot arm and the external axes that move with it. A group is driven by
// one controller task.
type MechanicalGroup struct {
	Index     int
	Name      string
	Robot     *Mechanism
	Externals []*Mechanism
}

// NewMechanicalGroup returns the group made of exactly one robot arm and any number of external
// axes, kept in the given order.
func NewMechanicalGroup(index int, name string, mechanisms []*Mechanism) (*MechanicalGroup, error) {
	g := &MechanicalGroup{Index: index, Name: name}
	for _, m := range mechanisms {
		if m.Kind() != RobotArm {
			g.Externals = append(g.Externals, m)
			continue
		}
		if g.Robot != nil {
			return nil, errors.Errorf("mechanical group %d has more than one robot arm", index)
		}
		g.Robot = m
	}
	if g.Robot == nil {
		return nil, errors.Errorf("mechanical group %d has no robot arm", index)
	}
	return g, nil
}

// Mechanisms returns the robot followed by the external axes.
func (g *MechanicalGroup) Mechanisms() []*Mechanism {
	return append([]*Mechanism{g.Robot}, g.Externals...)
}

// ExternalDoF returns the number of external axes.
func (g *MechanicalGroup) ExternalDoF() int {
	dof := 0
	for _, m := range g.Externals {
		dof += m.DoF()
	}
	return dof
}

// RadiansToDegreesExternal converts the external values of t to controller values, each
// through the convention of the mechanism owning the axis.
func (g *MechanicalGroup) RadiansToDegreesExternal(t target.Target) []float64 {
	external := t.Attributes().External
	values := make([]float64, len(external))
	count := 0
	for _, m := range g.Externals {
		for axis := 0; axis < m.DoF(); axis++ {
			if count >= len(external) {
				return values
			}
			values[count] = m.RadianToDegree(external[count], axis)
			count++
		}
	}
	copy(values[count:], external[count:])
	return values
}

// DegreesToRadiansExternal converts controller values of the external axes to radians or
// mm. It is the inverse of RadiansToDegreesExternal.
func (g *MechanicalGroup) DegreesToRadiansExternal(values []float64) []float64 {
	out := make([]float64, len(values))
	count := 0
	for _, m := range g.Externals {
		for axis := 0; axis < m.DoF() && count < len(values); axis++ {
			out[count] = m.DegreeToRadian(values[count], axis)
			count++
		}
	}
	copy(out[count:], values[count:])
	return out
}

// Kinematics solves every mechanism of the group for t and returns the robot solution
// followed by one solution per external mechanism. External axes are solved first: a track
// that moves the robot carries the robot base, and a frame coupled to an external mechanism
// of this group is carried by its last plane.
func (g *MechanicalGroup) Kinematics(t target.Target, prevJoints []float64) []*kinematics.Solution {
	external := t.Attributes().External
	solutions := make([]*kinematics.Solution, 1, 1+len(g.Externals))
	robotBase := g.Robot.BasePose()

	offset := 0
	for _, m := range g.Externals {
		var values []float64
		if offset < len(external) {
			values = external[offset:min(offset+m.DoF(), len(external))]
		}
		offset += m.DoF()

		sol := m.Kinematics(&target.JointTarget{Joints: values}, nil, nil)
		solutions = append(solutions, sol)
		if m.MovesRobot() {
			robotBase = spatialmath.Compose(sol.EndPlane(), spatialmath.PoseBetween(m.BasePose(), g.Robot.BasePose()))
		}
	}

	robotTarget := t
	if frame := t.Attributes().Frame; frame != nil && frame.IsCoupled() && frame.CoupledMechanicalGroup == g.Index &&
		frame.CoupledMechanism >= 0 && frame.CoupledMechanism < len(g.Externals) {
		m := g.Externals[frame.CoupledMechanism]
		home := m.StartPlanes()
		carried := *frame
		carried.Plane = spatialmath.Compose(
			solutions[1+frame.CoupledMechanism].EndPlane(),
			spatialmath.PoseBetween(home[len(home)-1], frame.Plane),
		)
		robotTarget = withFrame(t, &carried)
	}

	solutions[0] = g.Robot.Kinematics(robotTarget, prevJoints, robotBase)
	return solutions
}

func withFrame(t target.Target, frame *target.Frame) target.Target {
	return target.Match(t,
		func(c *target.CartesianTarget) target.Target {
			cp := *c
			cp.Frame = frame
			return &cp
		},
		func(j *target.JointTarget) target.Target {
			cp := *j
			cp.Frame = frame
			return &cp
		})
}
