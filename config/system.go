// Package config defines the robot system and program files and builds the domain types
// they describe.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/postprocessor"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/referenceframe"
)

// JointConfig describes one axis. Angles are degrees and speeds are per second. Alpha and
// Theta fall back to the mechanism defaults when unset.
type JointConfig struct {
	Type     string   `json:"type"`
	A        float64  `json:"a"`
	D        float64  `json:"d"`
	Alpha    *float64 `json:"alpha,omitempty"`
	Theta    *float64 `json:"theta,omitempty"`
	Sign     int      `json:"sign"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	MaxSpeed float64  `json:"max_speed"`
}

// Validate ensures all parts of the config are valid.
func (cfg *JointConfig) Validate(path string) error {
	var errs error
	switch referenceframe.JointType(strings.ToLower(cfg.Type)) {
	case "", referenceframe.RevoluteJoint, referenceframe.PrismaticJoint:
	default:
		errs = multierr.Append(errs, errors.Wrap(referenceframe.NewUnsupportedJointTypeError(cfg.Type), path))
	}
	if cfg.Sign != 0 && cfg.Sign != 1 && cfg.Sign != -1 {
		errs = multierr.Append(errs, errors.Errorf("%s: sign must be 1 or -1, got %d", path, cfg.Sign))
	}
	return errs
}

func (cfg *JointConfig) joint() referenceframe.JointConfig {
	joint := referenceframe.JointConfig{
		Type:     referenceframe.RevoluteJoint,
		A:        cfg.A,
		D:        cfg.D,
		Alpha:    math.NaN(),
		Theta:    math.NaN(),
		Sign:     cfg.Sign,
		Range:    referenceframe.Limit{Min: cfg.Min, Max: cfg.Max},
		MaxSpeed: cfg.MaxSpeed,
	}
	if strings.EqualFold(cfg.Type, string(referenceframe.PrismaticJoint)) {
		joint.Type = referenceframe.PrismaticJoint
	}
	if cfg.Alpha != nil {
		joint.Alpha = *cfg.Alpha
	}
	if cfg.Theta != nil {
		joint.Theta = *cfg.Theta
	}
	return joint
}

// MechanismConfig describes a robot arm, a track or a positioner.
type MechanismConfig struct {
	Kind         string        `json:"kind"`
	Model        string        `json:"model"`
	Manufacturer string        `json:"manufacturer,omitempty"`
	Payload      float64       `json:"payload"`
	Base         *PoseConfig   `json:"base,omitempty"`
	MovesRobot   bool          `json:"moves_robot"`
	Joints       []JointConfig `json:"joints"`
}

func (cfg *MechanismConfig) kind() (mechanism.Kind, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "robot", "robotarm", "robot_arm":
		return mechanism.RobotArm, nil
	case "track":
		return mechanism.Track, nil
	case "positioner":
		return mechanism.Positioner, nil
	default:
		return "", errors.Errorf("unknown mechanism kind %q", cfg.Kind)
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *MechanismConfig) Validate(path string) error {
	var errs error
	if cfg.Model == "" {
		errs = multierr.Append(errs, errors.Errorf("%s: model is required", path))
	}
	kind, err := cfg.kind()
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, path))
	}
	if kind == mechanism.RobotArm && len(cfg.Joints) != 6 {
		errs = multierr.Append(errs, errors.Errorf("%s: a robot arm needs 6 joints, got %d", path, len(cfg.Joints)))
	}
	if len(cfg.Joints) == 0 {
		errs = multierr.Append(errs, errors.Errorf("%s: at least one joint is required", path))
	}
	if cfg.Manufacturer != "" {
		if _, err := referenceframe.ParseManufacturer(cfg.Manufacturer); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, path))
		}
	}
	errs = multierr.Append(errs, cfg.Base.Validate(path+".base"))
	for i := range cfg.Joints {
		errs = multierr.Append(errs, cfg.Joints[i].Validate(fmt.Sprintf("%s.joints.%d", path, i)))
	}
	return errs
}

// Build returns the mechanism. fallback is the manufacturer used when the config names none.
func (cfg *MechanismConfig) Build(fallback referenceframe.Manufacturer) (*mechanism.Mechanism, error) {
	kind, err := cfg.kind()
	if err != nil {
		return nil, err
	}
	manufacturer := fallback
	if cfg.Manufacturer != "" {
		if manufacturer, err = referenceframe.ParseManufacturer(cfg.Manufacturer); err != nil {
			return nil, err
		}
	}
	joints := make([]referenceframe.JointConfig, len(cfg.Joints))
	for i := range cfg.Joints {
		joints[i] = cfg.Joints[i].joint()
	}
	base := cfg.Base.Pose()
	switch kind {
	case mechanism.Track:
		return mechanism.NewTrack(cfg.Model, manufacturer, cfg.Payload, base, nil, joints, cfg.MovesRobot), nil
	case mechanism.Positioner:
		return mechanism.NewPositioner(cfg.Model, manufacturer, cfg.Payload, base, nil, joints), nil
	default:
		return mechanism.NewRobot(manufacturer, cfg.Model, cfg.Payload, base, nil, joints), nil
	}
}

// GroupConfig is a robot arm with its external mechanisms.
type GroupConfig struct {
	Name       string            `json:"name,omitempty"`
	Mechanisms []MechanismConfig `json:"mechanisms"`
}

// Validate ensures all parts of the config are valid.
func (cfg *GroupConfig) Validate(path string) error {
	var errs error
	arms := 0
	for i := range cfg.Mechanisms {
		m := &cfg.Mechanisms[i]
		errs = multierr.Append(errs, m.Validate(fmt.Sprintf("%s.mechanisms.%d", path, i)))
		if kind, err := m.kind(); err == nil && kind == mechanism.RobotArm {
			arms++
		}
	}
	if arms != 1 {
		errs = multierr.Append(errs, errors.Errorf("%s: a mechanical group needs exactly one robot arm, got %d", path, arms))
	}
	return errs
}

// SystemConfig describes a robot cell.
type SystemConfig struct {
	Name         string        `json:"name"`
	Manufacturer string        `json:"manufacturer"`
	Base         *PoseConfig   `json:"base,omitempty"`
	Groups       []GroupConfig `json:"groups"`
}

// Validate ensures all parts of the config are valid.
func (cfg *SystemConfig) Validate(path string) error {
	var errs error
	if cfg.Name == "" {
		errs = multierr.Append(errs, errors.Errorf("%s: name is required", path))
	}
	if _, err := referenceframe.ParseManufacturer(cfg.Manufacturer); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, path+".manufacturer"))
	}
	if len(cfg.Groups) == 0 {
		errs = multierr.Append(errs, errors.Errorf("%s: at least one group is required", path))
	}
	errs = multierr.Append(errs, cfg.Base.Validate(path+".base"))
	for i := range cfg.Groups {
		errs = multierr.Append(errs, cfg.Groups[i].Validate(fmt.Sprintf("%s.groups.%d", path, i)))
	}
	return errs
}

// Build returns the robot system with the post processor registered for its manufacturer.
func (cfg *SystemConfig) Build(logger logging.Logger) (*program.RobotSystem, error) {
	if err := cfg.Validate("system"); err != nil {
		return nil, err
	}
	manufacturer, err := referenceframe.ParseManufacturer(cfg.Manufacturer)
	if err != nil {
		return nil, err
	}
	pp, err := postprocessor.New(manufacturer, logger)
	if err != nil {
		return nil, err
	}

	groups := make([]*mechanism.MechanicalGroup, len(cfg.Groups))
	for g := range cfg.Groups {
		mechanisms := make([]*mechanism.Mechanism, len(cfg.Groups[g].Mechanisms))
		for i := range cfg.Groups[g].Mechanisms {
			if mechanisms[i], err = cfg.Groups[g].Mechanisms[i].Build(manufacturer); err != nil {
				return nil, errors.Wrapf(err, "group %d mechanism %d", g, i)
			}
		}
		if groups[g], err = mechanism.NewMechanicalGroup(g, cfg.Groups[g].Name, mechanisms); err != nil {
			return nil, err
		}
		logger.Debugw("built mechanical group", "group", g, "robot", groups[g].Robot.String(), "externals", len(groups[g].Externals))
	}
	return program.NewRobotSystem(cfg.Name, manufacturer, cfg.Base.Pose(), groups, pp)
}
