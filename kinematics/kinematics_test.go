package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/utils"
)

type testChain struct {
	joints []referenceframe.Joint
	base   spatialmath.Pose
}

func (c *testChain) Joints() []referenceframe.Joint { return c.joints }
func (c *testChain) BasePose() spatialmath.Pose      { return c.base }

func irb120(base spatialmath.Pose) *testChain {
	a := []float64{0, 270, 70, 0, 0, 0}
	d := []float64{290, 0, 0, 302, 0, 72}
	alpha := []float64{-math.Pi / 2, 0, -math.Pi / 2, math.Pi / 2, -math.Pi / 2, 0}
	theta := []float64{0, -math.Pi, 0, 0, 0, math.Pi}
	joints := make([]referenceframe.Joint, 6)
	for i := range joints {
		joints[i] = referenceframe.Joint{
			Index: i,
			Type:  referenceframe.RevoluteJoint,
			A:     a[i],
			D:     d[i],
			Alpha: alpha[i],
			Theta: theta[i],
			Sign:  1,
			Range: referenceframe.Limit{Min: -2 * math.Pi, Max: 2 * math.Pi},
		}
	}
	return &testChain{joints: joints, base: base}
}

func jointsClose(t *testing.T, actual, expected []float64) {
	t.Helper()
	test.That(t, actual, test.ShouldHaveLength, len(expected))
	for i := range expected {
		test.That(t, utils.WrapAngle(actual[i]-expected[i]), test.ShouldAlmostEqual, 0, 1e-6)
	}
}

var poses = [][]float64{
	{0.3, 1.2, 0.4, 0.5, 0.7, -0.6},
	{-1.1, 1.9, -0.3, -1.2, -0.9, 2.1},
	{2.5, 0.8, 0.9, 0.2, 1.4, 0.3},
	{0, math.Pi / 2, 0, 0.4, 0.5, 0},
}

func TestForwardKinematicsHome(t *testing.T) {
	chain := irb120(spatialmath.NewZeroPose())
	planes := ForwardKinematics(chain.joints, chain.base, []float64{0, math.Pi / 2, 0, 0, 0, 0})
	test.That(t, planes, test.ShouldHaveLength, 7)
	wrist := planes[4].Point()
	test.That(t, spatialmath.R3VectorAlmostEqual(wrist, r3.Vector{X: 302, Z: 630}, 1e-6), test.ShouldBeTrue)
	flange := planes[6]
	test.That(t, spatialmath.R3VectorAlmostEqual(flange.Point(), r3.Vector{X: 374, Z: 630}, 1e-6), test.ShouldBeTrue)
	z := flange.Orientation().RotationMatrix().Col(2)
	test.That(t, spatialmath.R3VectorAlmostEqual(z, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
}

func TestSphericalWristRoundTrip(t *testing.T) {
	base := spatialmath.NewPose(r3.Vector{X: 100, Y: -50, Z: 20}, &spatialmath.EulerAngles{Yaw: 0.3})
	chain := irb120(base)
	solver := NewSphericalWristSolver(chain)

	for _, q := range poses {
		flange := ForwardKinematics(chain.joints, base, q)[6]
		tgt := &target.CartesianTarget{Plane: flange}

		sol := solver.Solve(tgt, q, nil)
		test.That(t, sol.Errors, test.ShouldBeEmpty)
		jointsClose(t, sol.Joints, q)
		test.That(t, spatialmath.PoseAlmostEqualEps(sol.EndPlane(), flange, 1e-6), test.ShouldBeTrue)

		cands := solver.inverse(spatialmath.PoseBetween(base, flange), nil)
		for code, cand := range cands {
			if cand.unreachable {
				continue
			}
			reached := ForwardKinematics(chain.joints, base, cand.values)[6]
			test.That(t, spatialmath.PoseAlmostEqualEps(reached, flange, 1e-6), test.ShouldBeTrue)
			test.That(t, solver.configuration(cand.values).Encode(), test.ShouldEqual, code)
		}
	}
}

func TestSphericalWristConfigurationSelection(t *testing.T) {
	chain := irb120(spatialmath.NewZeroPose())
	solver := NewSphericalWristSolver(chain)
	q := poses[0]
	flange := ForwardKinematics(chain.joints, chain.base, q)[6]
	config := solver.configuration(q)

	sol := solver.Solve(&target.CartesianTarget{Plane: flange, Configuration: &config}, nil, nil)
	test.That(t, sol.Configuration, test.ShouldResemble, config)
	jointsClose(t, sol.Joints, q)

	forced := target.Configuration{Elbow: !config.Elbow, Shoulder: config.Shoulder, Wrist: config.Wrist}
	sol = solver.Solve(&target.CartesianTarget{Plane: flange, Configuration: &forced}, q, nil)
	test.That(t, sol.Configuration, test.ShouldResemble, forced)
	test.That(t, solver.configuration(sol.Joints), test.ShouldResemble, forced)

	// without a configuration or previous joints the first branch wins
	sol = solver.Solve(&target.CartesianTarget{Plane: flange}, nil, nil)
	test.That(t, sol.Configuration.Encode(), test.ShouldEqual, 0)
}

func TestSphericalWristDeterministic(t *testing.T) {
	chain := irb120(spatialmath.NewZeroPose())
	solver := NewSphericalWristSolver(chain)
	tgt := &target.CartesianTarget{Plane: spatialmath.NewPose(r3.Vector{X: 300, Y: 100, Z: 400}, &spatialmath.EulerAngles{Pitch: math.Pi / 2})}
	first := solver.Solve(tgt, nil, nil)
	second := solver.Solve(tgt, nil, nil)
	test.That(t, second.Joints, test.ShouldResemble, first.Joints)
	test.That(t, second.Configuration, test.ShouldResemble, first.Configuration)
}

func TestSphericalWristContinuity(t *testing.T) {
	chain := irb120(spatialmath.NewZeroPose())
	solver := NewSphericalWristSolver(chain)
	q := []float64{0.3, 1.2, 0.4, 0.5, 0.7, 3.0}
	flange := ForwardKinematics(chain.joints, chain.base, q)[6]

	prev := append([]float64{}, q...)
	prev[5] = 3.0 + 2*math.Pi
	sol := solver.Solve(&target.CartesianTarget{Plane: flange}, prev, nil)
	test.That(t, sol.Joints[5], test.ShouldAlmostEqual, prev[5], 1e-6)
}

func TestSphericalWristErrors(t *testing.T) {
	chain := irb120(spatialmath.NewZeroPose())
	chain.joints[0].Range = referenceframe.Limit{Min: -1, Max: 1}
	solver := NewSphericalWristSolver(chain)

	far := &target.CartesianTarget{Plane: spatialmath.NewPoseFromPoint(r3.Vector{X: 5000})}
	sol := solver.Solve(far, nil, nil)
	test.That(t, sol.Unreachable, test.ShouldBeTrue)
	test.That(t, sol.Errors, test.ShouldContain, ErrTargetOutOfReach)

	sol = solver.Solve(&target.JointTarget{Joints: []float64{2, math.Pi / 2, 0, 0, 0, 0}}, nil, nil)
	test.That(t, sol.OutOfRange, test.ShouldResemble, []int{0})
	test.That(t, sol.Errors, test.ShouldResemble, []string{"Axis 1 is outside the permitted range."})
	test.That(t, sol.Planes, test.ShouldHaveLength, 8)

	sol = solver.Solve(&target.JointTarget{Joints: []float64{0, 0}}, nil, nil)
	test.That(t, sol.Joints, test.ShouldHaveLength, 6)
	test.That(t, sol.HasErrors(), test.ShouldBeTrue)
}

func TestTrackSolver(t *testing.T) {
	chain := &testChain{
		joints: []referenceframe.Joint{{
			Type:  referenceframe.PrismaticJoint,
			Sign:  1,
			Range: referenceframe.Limit{Min: 0, Max: 4000},
		}},
		base: spatialmath.NewPoseFromPoint(r3.Vector{Y: 10}),
	}
	sol := NewTrackSolver(chain).Solve(&target.JointTarget{Joints: []float64{500}}, nil, nil)
	test.That(t, sol.Errors, test.ShouldBeEmpty)
	test.That(t, spatialmath.R3VectorAlmostEqual(sol.EndPlane().Point(), r3.Vector{X: 500, Y: 10}, 1e-9), test.ShouldBeTrue)

	sol = NewTrackSolver(chain).Solve(&target.CartesianTarget{Base: target.Base{External: []float64{-1}}}, nil, nil)
	test.That(t, sol.OutOfRange, test.ShouldResemble, []int{0})
}

func TestPositionerSolver(t *testing.T) {
	chain := &testChain{
		joints: []referenceframe.Joint{{
			Type:  referenceframe.RevoluteJoint,
			Sign:  1,
			Range: referenceframe.Limit{Min: -math.Pi, Max: math.Pi},
		}},
		base: spatialmath.NewPoseFromPoint(r3.Vector{X: 1000}),
	}
	sol := NewPositionerSolver(chain).Solve(&target.JointTarget{Joints: []float64{math.Pi / 2}}, nil, nil)
	test.That(t, sol.Errors, test.ShouldBeEmpty)
	x := sol.EndPlane().Orientation().RotationMatrix().Col(0)
	test.That(t, spatialmath.R3VectorAlmostEqual(x, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(sol.EndPlane().Point(), r3.Vector{X: 1000}, 1e-9), test.ShouldBeTrue)
}
