// Package program turns per-group toolpaths into solved programs that post processors
// translate into controller code.
package program

import (
	"github.com/pkg/errors"

	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
)

// Code is controller source text indexed by group, then file, then line.
type Code [][][]string

// PostProcessor generates the controller code of a program. Implementations must not modify
// the program other than appending warnings.
type PostProcessor interface {
	Code(system *RobotSystem, program *Program) (Code, error)
}

// RobotSystem is a cell of mechanical groups driven by one controller.
type RobotSystem struct {
	Name          string
	Manufacturer  referenceframe.Manufacturer
	BasePose      spatialmath.Pose
	Groups        []*mechanism.MechanicalGroup
	PostProcessor PostProcessor
}

// NewRobotSystem returns a robot system. Groups are renumbered in the given order.
func NewRobotSystem(
	name string,
	manufacturer referenceframe.Manufacturer,
	basePose spatialmath.Pose,
	groups []*mechanism.MechanicalGroup,
	pp PostProcessor,
) (*RobotSystem, error) {
	if len(groups) == 0 {
		return nil, errors.Errorf("robot system %q has no mechanical groups", name)
	}
	if basePose == nil {
		basePose = spatialmath.NewZeroPose()
	}
	for i, g := range groups {
		g.Index = i
	}
	return &RobotSystem{
		Name:          name,
		Manufacturer:  manufacturer,
		BasePose:      basePose,
		Groups:        groups,
		PostProcessor: pp,
	}, nil
}
