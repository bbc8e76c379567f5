// Package mechanism builds robot arms and external axes from their joint definitions and
// solves them for targets.
package mechanism

import (
	"fmt"
	"math"
	"sync"

	"go.viam.com/robotpost/kinematics"
	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/utils"
)

// Kind is the role a mechanism plays in a mechanical group.
type Kind string

// Mechanism kinds.
const (
	RobotArm   = Kind("RobotArm")
	Track      = Kind("Track")
	Positioner = Kind("Positioner")
)

// Defaults are the per-family values used for joints that leave Alpha, Theta or Sign unset.
// Alpha and Theta are radians. Nil tables fall back to 0 and 1.
type Defaults struct {
	Alpha []float64
	Theta []float64
	Sign  []int
}

type family struct {
	kind       Kind
	convention AngleConvention
	defaults   Defaults
	start      []float64
	newSolver  func(kinematics.Chain) kinematics.Solver
}

// Mechanism is a kinematic chain with its base, meshes and angle convention.
type Mechanism struct {
	model        string
	manufacturer referenceframe.Manufacturer
	payload      float64
	baseMesh     *spatialmath.Mesh
	joints       []referenceframe.Joint
	movesRobot   bool
	family       family

	mu          sync.RWMutex
	basePose    spatialmath.Pose
	displayMesh *spatialmath.Mesh

	solverOnce sync.Once
	solver     kinematics.Solver
}

func newMechanism(
	model string,
	manufacturer referenceframe.Manufacturer,
	payload float64,
	basePose spatialmath.Pose,
	baseMesh *spatialmath.Mesh,
	configs []referenceframe.JointConfig,
	movesRobot bool,
	f family,
) *Mechanism {
	if basePose == nil {
		basePose = spatialmath.NewZeroPose()
	}
	m := &Mechanism{
		model:        model,
		manufacturer: manufacturer,
		payload:      payload,
		baseMesh:     baseMesh,
		movesRobot:   movesRobot,
		family:       f,
		basePose:     basePose,
	}
	m.joints = m.initJoints(configs)
	m.displayMesh = m.createDisplayMesh(basePose)
	return m
}

func (m *Mechanism) initJoints(configs []referenceframe.JointConfig) []referenceframe.Joint {
	d := m.family.defaults
	joints := make([]referenceframe.Joint, len(configs))
	for i, cfg := range configs {
		j := referenceframe.Joint{
			Index:    i,
			Type:     cfg.Type,
			A:        cfg.A,
			D:        cfg.D,
			Sign:     cfg.Sign,
			MaxSpeed: cfg.MaxSpeed,
			Mesh:     cfg.Mesh,
		}
		if j.Type == "" {
			j.Type = referenceframe.RevoluteJoint
		}
		if j.IsRevolute() {
			j.MaxSpeed = utils.DegToRad(cfg.MaxSpeed)
		}

		if math.IsNaN(cfg.Alpha) {
			j.Alpha = defaultAt(d.Alpha, i, 0)
		} else {
			j.Alpha = m.DegreeToRadian(cfg.Alpha, i)
		}
		if math.IsNaN(cfg.Theta) {
			j.Theta = defaultAt(d.Theta, i, 0)
		} else {
			j.Theta = m.DegreeToRadian(cfg.Theta, i)
		}
		switch {
		case j.Sign == 0:
			j.Sign = defaultAt(d.Sign, i, 1)
		case j.Sign > 0:
			j.Sign = 1
		default:
			j.Sign = -1
		}

		j.Range = referenceframe.Limit{
			Min: m.DegreeToRadian(cfg.Range.Min, i),
			Max: m.DegreeToRadian(cfg.Range.Max, i),
		}.MakeIncreasing()
		joints[i] = j
	}
	return joints
}

func defaultAt[T any](values []T, i int, fallback T) T {
	if i < len(values) {
		return values[i]
	}
	return fallback
}

func (m *Mechanism) createDisplayMesh(basePose spatialmath.Pose) *spatialmath.Mesh {
	if m.baseMesh == nil {
		return spatialmath.NewEmptyMesh()
	}
	mesh := spatialmath.NewEmptyMesh().Append(m.baseMesh)
	for _, j := range m.joints {
		mesh = mesh.Append(j.Mesh)
	}
	return mesh.Transform(basePose)
}

// Model returns "{manufacturer}.{model}".
func (m *Mechanism) Model() string {
	return fmt.Sprintf("%s.%s", m.manufacturer, m.model)
}

// Manufacturer returns the vendor of the mechanism.
func (m *Mechanism) Manufacturer() referenceframe.Manufacturer {
	return m.manufacturer
}

// Kind returns the role of the mechanism.
func (m *Mechanism) Kind() Kind {
	return m.family.kind
}

// Payload returns the rated payload in kg.
func (m *Mechanism) Payload() float64 {
	return m.payload
}

// Joints returns the normalized joints. The slice must not be modified.
func (m *Mechanism) Joints() []referenceframe.Joint {
	return m.joints
}

// DoF returns the number of joints.
func (m *Mechanism) DoF() int {
	return len(m.joints)
}

// MovesRobot returns whether the mechanism carries the robot of its group.
func (m *Mechanism) MovesRobot() bool {
	return m.movesRobot
}

// BaseMesh returns the mesh of the fixed base, or nil.
func (m *Mechanism) BaseMesh() *spatialmath.Mesh {
	return m.baseMesh
}

// BasePose returns the pose of the base in world coordinates.
func (m *Mechanism) BasePose() spatialmath.Pose {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.basePose
}

// DisplayMesh returns the base and joint meshes placed at the base pose.
func (m *Mechanism) DisplayMesh() *spatialmath.Mesh {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displayMesh
}

// SetBasePose moves the mechanism and rebuilds its display mesh.
func (m *Mechanism) SetBasePose(pose spatialmath.Pose) {
	if pose == nil {
		pose = spatialmath.NewZeroPose()
	}
	mesh := m.createDisplayMesh(pose)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.basePose = pose
	m.displayMesh = mesh
}

// Convention returns the angle convention of the mechanism.
func (m *Mechanism) Convention() AngleConvention {
	return m.family.convention
}

// DegreeToRadian converts a controller axis value to a kinematic value.
func (m *Mechanism) DegreeToRadian(degrees float64, axis int) float64 {
	return m.family.convention.DegreeToRadian(degrees, axis)
}

// RadianToDegree converts a kinematic value to a controller axis value.
func (m *Mechanism) RadianToDegree(radians float64, axis int) float64 {
	return m.family.convention.RadianToDegree(radians, axis)
}

// Solver returns the kinematic solver of the mechanism, creating it on first use.
func (m *Mechanism) Solver() kinematics.Solver {
	m.solverOnce.Do(func() {
		m.solver = m.family.newSolver(m)
	})
	return m.solver
}

// Kinematics solves the mechanism for t. A nil basePose uses the mechanism base.
func (m *Mechanism) Kinematics(t target.Target, prevJoints []float64, basePose spatialmath.Pose) *kinematics.Solution {
	return m.Solver().Solve(t, prevJoints, basePose)
}

// StartPose returns the joint values of the rest position.
func (m *Mechanism) StartPose() []float64 {
	start := make([]float64, len(m.joints))
	copy(start, m.family.start)
	return start
}

// StartPlanes returns the planes of the mechanism at its rest position.
func (m *Mechanism) StartPlanes() []spatialmath.Pose {
	return m.Kinematics(&target.JointTarget{Joints: m.StartPose()}, nil, nil).Planes
}

func (m *Mechanism) String() string {
	return fmt.Sprintf("%s (%s)", m.family.kind, m.Model())
}
