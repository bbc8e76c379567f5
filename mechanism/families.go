package mechanism

import (
	"math"

	"go.viam.com/robotpost/kinematics"
	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
)

const halfPi = math.Pi / 2

// Six axis arms share one Denavit-Hartenberg layout; the vendor conventions map each
// controller's zero position onto it.
var sixAxisAlpha = []float64{-halfPi, 0, -halfPi, halfPi, -halfPi, 0}

func sphericalWrist(c kinematics.Chain) kinematics.Solver {
	return kinematics.NewSphericalWristSolver(c)
}

var (
	abbFamily = family{
		kind:       RobotArm,
		convention: ABBConvention{},
		defaults:   Defaults{Alpha: sixAxisAlpha, Theta: []float64{0, -math.Pi, 0, 0, 0, math.Pi}},
		start:      []float64{0, halfPi, 0, 0, 0, 0},
		newSolver:  sphericalWrist,
	}
	kukaFamily = family{
		kind:       RobotArm,
		convention: KUKAConvention{},
		defaults:   Defaults{Alpha: sixAxisAlpha, Theta: []float64{0, -math.Pi, 0, 0, 0, math.Pi}},
		start:      []float64{0, halfPi, 0, 0, 0, -math.Pi},
		newSolver:  sphericalWrist,
	}
	igusFamily = family{
		kind:       RobotArm,
		convention: StandardConvention{},
		defaults:   Defaults{Alpha: sixAxisAlpha, Theta: []float64{0, -halfPi, 0, 0, 0, math.Pi}},
		start:      []float64{0, 0, 0, 0, 0, 0},
		newSolver:  sphericalWrist,
	}
	trackFamily = family{
		kind:       Track,
		convention: LinearConvention{},
		newSolver: func(c kinematics.Chain) kinematics.Solver {
			return kinematics.NewTrackSolver(c)
		},
	}
	positionerFamily = family{
		kind:       Positioner,
		convention: StandardConvention{},
		newSolver: func(c kinematics.Chain) kinematics.Solver {
			return kinematics.NewPositionerSolver(c)
		},
	}
)

// NewRobotABB returns an ABB arm. Joint values are in the controller's degrees.
func NewRobotABB(
	model string, payload float64, basePose spatialmath.Pose, baseMesh *spatialmath.Mesh, joints []referenceframe.JointConfig,
) *Mechanism {
	return newMechanism(model, referenceframe.ABB, payload, basePose, baseMesh, joints, false, abbFamily)
}

// NewRobotKUKA returns a KUKA arm. Joint values are in the controller's degrees.
func NewRobotKUKA(
	model string, payload float64, basePose spatialmath.Pose, baseMesh *spatialmath.Mesh, joints []referenceframe.JointConfig,
) *Mechanism {
	return newMechanism(model, referenceframe.KUKA, payload, basePose, baseMesh, joints, false, kukaFamily)
}

// NewRobotIgus returns an Igus arm.
func NewRobotIgus(
	model string, payload float64, basePose spatialmath.Pose, baseMesh *spatialmath.Mesh, joints []referenceframe.JointConfig,
) *Mechanism {
	return newMechanism(model, referenceframe.Igus, payload, basePose, baseMesh, joints, false, igusFamily)
}

// NewTrack returns a linear external axis. Joint values are mm.
func NewTrack(
	model string,
	manufacturer referenceframe.Manufacturer,
	payload float64,
	basePose spatialmath.Pose,
	baseMesh *spatialmath.Mesh,
	joints []referenceframe.JointConfig,
	movesRobot bool,
) *Mechanism {
	return newMechanism(model, manufacturer, payload, basePose, baseMesh, joints, movesRobot, trackFamily)
}

// NewPositioner returns a rotary external axis that work objects can be coupled to.
func NewPositioner(
	model string,
	manufacturer referenceframe.Manufacturer,
	payload float64,
	basePose spatialmath.Pose,
	baseMesh *spatialmath.Mesh,
	joints []referenceframe.JointConfig,
) *Mechanism {
	return newMechanism(model, manufacturer, payload, basePose, baseMesh, joints, false, positionerFamily)
}

// NewRobot returns an arm of the given manufacturer. Vendors without their own convention get
// the Igus layout and plain unit conversion.
func NewRobot(
	manufacturer referenceframe.Manufacturer,
	model string,
	payload float64,
	basePose spatialmath.Pose,
	baseMesh *spatialmath.Mesh,
	joints []referenceframe.JointConfig,
) *Mechanism {
	switch manufacturer {
	case referenceframe.ABB:
		return NewRobotABB(model, payload, basePose, baseMesh, joints)
	case referenceframe.KUKA:
		return NewRobotKUKA(model, payload, basePose, baseMesh, joints)
	default:
		return newMechanism(model, manufacturer, payload, basePose, baseMesh, joints, false, igusFamily)
	}
}
