package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/utils"
)

// ToolConfig describes a tool. Weight is kg.
type ToolConfig struct {
	Name          string      `json:"name"`
	Tcp           *PoseConfig `json:"tcp,omitempty"`
	Weight        float64     `json:"weight"`
	Centroid      Translation `json:"centroid"`
	UseController bool        `json:"use_controller"`
}

func (cfg *ToolConfig) build() *target.Tool {
	return &target.Tool{
		Name:          cfg.Name,
		Tcp:           cfg.Tcp.Pose(),
		Weight:        cfg.Weight,
		Centroid:      cfg.Centroid.Vector(),
		UseController: cfg.UseController,
	}
}

// FrameConfig describes a work object. A frame moved by a mechanism names its group and, for
// an external mechanism, the mechanism's index among the group's externals.
type FrameConfig struct {
	Name             string      `json:"name"`
	Plane            *PoseConfig `json:"plane,omitempty"`
	CoupledGroup     *int        `json:"coupled_group,omitempty"`
	CoupledMechanism *int        `json:"coupled_mechanism,omitempty"`
	UseController    bool        `json:"use_controller"`
}

func (cfg *FrameConfig) build() *target.Frame {
	frame := &target.Frame{
		Name:             cfg.Name,
		Plane:            cfg.Plane.Pose(),
		CoupledMechanism: -1,
		UseController:    cfg.UseController,
	}
	if cfg.CoupledGroup != nil {
		frame.Coupled = true
		frame.CoupledMechanicalGroup = *cfg.CoupledGroup
	}
	if cfg.CoupledMechanism != nil {
		frame.CoupledMechanism = *cfg.CoupledMechanism
	}
	return frame
}

// SpeedConfig describes a speed. Translations are mm/s and rotations degrees/s; unset
// rotation and external limits take the usual defaults.
type SpeedConfig struct {
	Name                string  `json:"name"`
	Translation         float64 `json:"translation"`
	Rotation            float64 `json:"rotation,omitempty"`
	TranslationExternal float64 `json:"translation_external,omitempty"`
	RotationExternal    float64 `json:"rotation_external,omitempty"`
	Time                float64 `json:"time,omitempty"`
}

func (cfg *SpeedConfig) build() *target.Speed {
	speed := target.NewSpeed(cfg.Name, cfg.Translation)
	if cfg.Rotation > 0 {
		speed.RotationSpeed = utils.DegToRad(cfg.Rotation)
	}
	if cfg.TranslationExternal > 0 {
		speed.TranslationExternal = cfg.TranslationExternal
	}
	if cfg.RotationExternal > 0 {
		speed.RotationExternal = utils.DegToRad(cfg.RotationExternal)
	}
	speed.Time = cfg.Time
	return speed
}

// ZoneConfig describes an approximation zone. Distance is mm; Rotation, in degrees, defaults
// to a tenth of the distance.
type ZoneConfig struct {
	Name     string   `json:"name"`
	Distance float64  `json:"distance"`
	Rotation *float64 `json:"rotation,omitempty"`
}

func (cfg *ZoneConfig) build() *target.Zone {
	zone := target.NewZone(cfg.Name, cfg.Distance)
	if cfg.Rotation != nil {
		zone.Rotation = utils.DegToRad(*cfg.Rotation)
		zone.RotationExternal = zone.Rotation
	}
	return zone
}

// TargetConfig describes one target. A joint target lists the arm joints in controller
// degrees; a Cartesian target has a plane in its frame. External values are in controller
// units.
type TargetConfig struct {
	Type           string         `json:"type"`
	Plane          *PoseConfig    `json:"plane,omitempty"`
	Motion         string         `json:"motion,omitempty"`
	Configuration  *int           `json:"configuration,omitempty"`
	Joints         []float64      `json:"joints,omitempty"`
	Tool           string         `json:"tool,omitempty"`
	Frame          string         `json:"frame,omitempty"`
	Speed          string         `json:"speed,omitempty"`
	Zone           string         `json:"zone,omitempty"`
	Command        *CommandConfig `json:"command,omitempty"`
	External       []float64      `json:"external,omitempty"`
	ExternalCustom []string       `json:"external_custom,omitempty"`
}

func (cfg *TargetConfig) isJoint() bool {
	return strings.EqualFold(cfg.Type, "joint")
}

func (cfg *TargetConfig) motion() (target.Motion, error) {
	switch strings.ToLower(cfg.Motion) {
	case "", "joint":
		return target.JointMotion, nil
	case "linear":
		return target.LinearMotion, nil
	default:
		return 0, errors.Errorf("unknown motion %q", cfg.Motion)
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *TargetConfig) Validate(path string) error {
	var errs error
	switch strings.ToLower(cfg.Type) {
	case "joint":
		if len(cfg.Joints) == 0 {
			errs = multierr.Append(errs, errors.Errorf("%s: joint target needs joints", path))
		}
	case "", "cartesian":
		if cfg.Plane == nil {
			errs = multierr.Append(errs, errors.Errorf("%s: cartesian target needs a plane", path))
		}
		if _, err := cfg.motion(); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, path))
		}
		if cfg.Configuration != nil && (*cfg.Configuration < 0 || *cfg.Configuration > 7) {
			errs = multierr.Append(errs, errors.Errorf("%s: configuration must be between 0 and 7", path))
		}
	default:
		errs = multierr.Append(errs, errors.Errorf("%s: unknown target type %q", path, cfg.Type))
	}
	errs = multierr.Append(errs, cfg.Plane.Validate(path+".plane"))
	if cfg.Command != nil {
		errs = multierr.Append(errs, cfg.Command.Validate(path+".command"))
	}
	return errs
}

// ProgramConfig describes a program: named attributes and one toolpath per mechanical group.
// Targets refer to attributes by name; an empty name uses the default.
type ProgramConfig struct {
	Name             string           `json:"name"`
	Tools            []ToolConfig     `json:"tools,omitempty"`
	Frames           []FrameConfig    `json:"frames,omitempty"`
	Speeds           []SpeedConfig    `json:"speeds,omitempty"`
	Zones            []ZoneConfig     `json:"zones,omitempty"`
	InitCommands     []CommandConfig  `json:"init_commands,omitempty"`
	MultiFileIndices []int            `json:"multi_file_indices,omitempty"`
	Toolpaths        [][]TargetConfig `json:"toolpaths"`
}

// Validate ensures all parts of the config are valid.
func (cfg *ProgramConfig) Validate(path string) error {
	var errs error
	if cfg.Name == "" {
		errs = multierr.Append(errs, errors.Errorf("%s: name is required", path))
	}
	if len(cfg.Toolpaths) == 0 {
		errs = multierr.Append(errs, errors.Errorf("%s: at least one toolpath is required", path))
	}
	errs = multierr.Append(errs, duplicateNames(path+".tools", len(cfg.Tools), func(i int) string { return cfg.Tools[i].Name }))
	errs = multierr.Append(errs, duplicateNames(path+".frames", len(cfg.Frames), func(i int) string { return cfg.Frames[i].Name }))
	errs = multierr.Append(errs, duplicateNames(path+".speeds", len(cfg.Speeds), func(i int) string { return cfg.Speeds[i].Name }))
	errs = multierr.Append(errs, duplicateNames(path+".zones", len(cfg.Zones), func(i int) string { return cfg.Zones[i].Name }))
	for i := range cfg.Tools {
		errs = multierr.Append(errs, cfg.Tools[i].Tcp.Validate(fmt.Sprintf("%s.tools.%d.tcp", path, i)))
	}
	for i := range cfg.Frames {
		errs = multierr.Append(errs, cfg.Frames[i].Plane.Validate(fmt.Sprintf("%s.frames.%d.plane", path, i)))
	}
	for i := range cfg.InitCommands {
		errs = multierr.Append(errs, cfg.InitCommands[i].Validate(fmt.Sprintf("%s.init_commands.%d", path, i)))
	}
	for g, toolpath := range cfg.Toolpaths {
		for i := range toolpath {
			errs = multierr.Append(errs, toolpath[i].Validate(fmt.Sprintf("%s.toolpaths.%d.%d", path, g, i)))
		}
	}
	return errs
}

func duplicateNames(path string, n int, name func(int) string) error {
	var errs error
	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		switch {
		case name(i) == "":
			errs = multierr.Append(errs, errors.Errorf("%s.%d: name is required", path, i))
		case seen[name(i)]:
			errs = multierr.Append(errs, errors.Errorf("%s.%d: duplicate name %q", path, i, name(i)))
		}
		seen[name(i)] = true
	}
	return errs
}

// attributes indexes the named attributes of a program.
type attributes struct {
	tools  map[string]*target.Tool
	frames map[string]*target.Frame
	speeds map[string]*target.Speed
	zones  map[string]*target.Zone
}

func (cfg *ProgramConfig) attributes() attributes {
	a := attributes{
		tools:  map[string]*target.Tool{},
		frames: map[string]*target.Frame{},
		speeds: map[string]*target.Speed{},
		zones:  map[string]*target.Zone{},
	}
	for i := range cfg.Tools {
		a.tools[cfg.Tools[i].Name] = cfg.Tools[i].build()
	}
	for i := range cfg.Frames {
		a.frames[cfg.Frames[i].Name] = cfg.Frames[i].build()
	}
	for i := range cfg.Speeds {
		a.speeds[cfg.Speeds[i].Name] = cfg.Speeds[i].build()
	}
	for i := range cfg.Zones {
		a.zones[cfg.Zones[i].Name] = cfg.Zones[i].build()
	}
	return a
}

func find[T any](kind string, values map[string]*T, name string) (*T, error) {
	if name == "" {
		return nil, nil
	}
	v, ok := values[name]
	if !ok {
		return nil, errors.Errorf("unknown %s %q", kind, name)
	}
	return v, nil
}

func (a attributes) base(cfg *TargetConfig, g *mechanism.MechanicalGroup) (target.Base, error) {
	var (
		b    target.Base
		err  error
		errs error
	)
	b.Tool, err = find("tool", a.tools, cfg.Tool)
	errs = multierr.Append(errs, err)
	b.Frame, err = find("frame", a.frames, cfg.Frame)
	errs = multierr.Append(errs, err)
	b.Speed, err = find("speed", a.speeds, cfg.Speed)
	errs = multierr.Append(errs, err)
	b.Zone, err = find("zone", a.zones, cfg.Zone)
	errs = multierr.Append(errs, err)
	if cfg.Command != nil {
		b.Command, err = cfg.Command.Build()
		errs = multierr.Append(errs, err)
	}
	b.External = g.DegreesToRadiansExternal(cfg.External)
	b.ExternalCustom = cfg.ExternalCustom
	return b, errs
}

func (a attributes) target(cfg *TargetConfig, g *mechanism.MechanicalGroup) (target.Target, error) {
	b, err := a.base(cfg, g)
	if err != nil {
		return nil, err
	}
	if cfg.isJoint() {
		joints := make([]float64, len(cfg.Joints))
		for i, v := range cfg.Joints {
			joints[i] = g.Robot.DegreeToRadian(v, i)
		}
		return &target.JointTarget{Base: b, Joints: joints}, nil
	}
	motion, err := cfg.motion()
	if err != nil {
		return nil, err
	}
	t := &target.CartesianTarget{Base: b, Plane: cfg.Plane.Pose(), Motion: motion}
	if cfg.Configuration != nil {
		c := target.ConfigurationFromInt(*cfg.Configuration)
		t.Configuration = &c
	}
	return t, nil
}

// BuildToolpaths returns one list of targets per mechanical group of system.
func (cfg *ProgramConfig) BuildToolpaths(system *program.RobotSystem) ([][]target.Target, error) {
	if len(cfg.Toolpaths) != len(system.Groups) {
		return nil, errors.Errorf("program %q has %d toolpaths but robot system %q has %d mechanical groups",
			cfg.Name, len(cfg.Toolpaths), system.Name, len(system.Groups))
	}
	attrs := cfg.attributes()
	toolpaths := make([][]target.Target, len(cfg.Toolpaths))
	var errs error
	for g, path := range cfg.Toolpaths {
		toolpaths[g] = make([]target.Target, len(path))
		for i := range path {
			t, err := attrs.target(&path[i], system.Groups[g])
			if err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "toolpath %d target %d", g, i))
				continue
			}
			toolpaths[g][i] = t
		}
	}
	if errs != nil {
		return nil, errs
	}
	return toolpaths, nil
}

// Build validates the config and solves the program on system.
func (cfg *ProgramConfig) Build(system *program.RobotSystem, logger logging.Logger) (*program.Program, error) {
	if err := cfg.Validate("program"); err != nil {
		return nil, err
	}
	toolpaths, err := cfg.BuildToolpaths(system)
	if err != nil {
		return nil, err
	}
	initCommands, err := buildCommands(cfg.InitCommands, "init_commands")
	if err != nil {
		return nil, err
	}
	return program.NewProgram(cfg.Name, system, toolpaths,
		program.WithInitCommands(initCommands...),
		program.WithMultiFileIndices(cfg.MultiFileIndices...),
		program.WithLogger(logger),
	)
}
