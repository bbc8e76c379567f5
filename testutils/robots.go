package testutils

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
)

// IRB120Joints returns the joint definitions of an ABB IRB 120.
func IRB120Joints() []referenceframe.JointConfig {
	a := []float64{0, 270, 70, 0, 0, 0}
	d := []float64{290, 0, 0, 302, 0, 72}
	ranges := []referenceframe.Limit{{-165, 165}, {-110, 110}, {-110, 70}, {-160, 160}, {-120, 120}, {-400, 400}}
	speeds := []float64{250, 250, 250, 320, 320, 420}
	joints := make([]referenceframe.JointConfig, 6)
	for i := range joints {
		joints[i] = referenceframe.NewRevoluteJointConfig(a[i], d[i], ranges[i], speeds[i])
	}
	return joints
}

// NewIRB120 returns an ABB IRB 120 at base.
func NewIRB120(base spatialmath.Pose) *mechanism.Mechanism {
	return mechanism.NewRobotABB("IRB120", 3, base, nil, IRB120Joints())
}

// NewTrack returns a 4 m linear track that carries the robot.
func NewTrack(base spatialmath.Pose) *mechanism.Mechanism {
	return mechanism.NewTrack("Track4000", referenceframe.ABB, 0, base, nil, []referenceframe.JointConfig{
		referenceframe.NewPrismaticJointConfig(referenceframe.Limit{Min: 0, Max: 4000}, 1000),
	}, true)
}

// NewTurntable returns a single axis positioner.
func NewTurntable(base spatialmath.Pose) *mechanism.Mechanism {
	return mechanism.NewPositioner("IRBP_A250", referenceframe.ABB, 250, base, nil, []referenceframe.JointConfig{
		referenceframe.NewRevoluteJointConfig(0, 0, referenceframe.Limit{Min: -180, Max: 180}, 90),
	})
}

// NewGroup returns a mechanical group and fails the test if it is invalid.
func NewGroup(t *testing.T, index int, mechanisms ...*mechanism.Mechanism) *mechanism.MechanicalGroup {
	t.Helper()
	g, err := mechanism.NewMechanicalGroup(index, "", mechanisms)
	test.That(t, err, test.ShouldBeNil)
	return g
}

// ReachablePlane returns a plane in front of an IRB 120 at the origin, pointing down, offset
// along X by dx mm.
func ReachablePlane(dx float64) spatialmath.Pose {
	return spatialmath.NewPoseFromPlane(r3.Vector{X: 350 + dx, Y: 0, Z: 300}, r3.Vector{X: 1}, r3.Vector{Y: -1})
}
