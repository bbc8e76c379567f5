package program

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/robotpost/kinematics"
	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/target"
)

// ProgramTarget is the target of one group at one step of a program, with its solution.
type ProgramTarget struct {
	Target             target.Target
	Kinematics         *kinematics.Solution
	ExternalKinematics []*kinematics.Solution
	// Index is the step of the program the target belongs to.
	Index int
	Group int
	// Commands are the flattened commands of the target.
	Commands []target.Command
}

// CellTarget is one step of a program: the targets all groups reach together.
type CellTarget struct {
	Index          int
	ProgramTargets []*ProgramTarget
	// DeltaTime is the estimated time in seconds to reach this step from the previous one.
	DeltaTime float64
	TotalTime float64
}

// Program is a solved robot program.
type Program struct {
	Name             string
	System           *RobotSystem
	Targets          []*CellTarget
	MultiFileIndices []int
	InitCommands     []target.Command
	Attributes       Attributes
	// Duration is the estimated run time in seconds.
	Duration float64

	logger   logging.Logger
	mu       sync.Mutex
	warnings []string
	errors   []string
}

type options struct {
	initCommands     []target.Command
	multiFileIndices []int
	logger           logging.Logger
}

// Option customizes a program at creation time.
type Option func(*options)

// WithInitCommands adds commands run once when the program starts.
func WithInitCommands(commands ...target.Command) Option {
	return func(o *options) {
		o.initCommands = append(o.initCommands, commands...)
	}
}

// WithMultiFileIndices splits the program into files starting at the given target indices.
func WithMultiFileIndices(indices ...int) Option {
	return func(o *options) {
		o.multiFileIndices = append(o.multiFileIndices, indices...)
	}
}

// WithLogger sets the logger warnings are reported to.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewProgram solves toolpaths, one per mechanical group of system, and returns the program.
// Every toolpath must have the same number of targets. Kinematic problems do not fail the
// call; they are reported by Errors.
func NewProgram(name string, system *RobotSystem, toolpaths [][]target.Target, opts ...Option) (*Program, error) {
	o := options{logger: logging.Global()}
	for _, opt := range opts {
		opt(&o)
	}
	if system == nil {
		return nil, errors.New("program needs a robot system")
	}
	if len(toolpaths) != len(system.Groups) {
		return nil, errors.Errorf("program has %d toolpaths but robot system %q has %d mechanical groups",
			len(toolpaths), system.Name, len(system.Groups))
	}
	count := len(toolpaths[0])
	if count == 0 {
		return nil, errors.New("program has no targets")
	}
	for g, path := range toolpaths {
		if len(path) != count {
			return nil, errors.Errorf("toolpath %d has %d targets, expected %d", g, len(path), count)
		}
	}

	p := &Program{
		Name:             name,
		System:           system,
		MultiFileIndices: FixMultiFileIndices(o.multiFileIndices, count),
		InitCommands:     lo.FlatMap(o.initCommands, func(c target.Command, _ int) []target.Command { return target.Flatten(c) }),
		logger:           o.logger.Sublogger("program"),
	}
	p.Targets = make([]*CellTarget, count)
	for i := range p.Targets {
		cell := &CellTarget{Index: i}
		for g, path := range toolpaths {
			if path[i] == nil {
				return nil, errors.Errorf("target %d of toolpath %d is nil", i, g)
			}
			t := target.WithDefaults(path[i])
			cell.ProgramTargets = append(cell.ProgramTargets, &ProgramTarget{
				Target:   t,
				Index:    i,
				Group:    g,
				Commands: target.Commands(t),
			})
		}
		p.Targets[i] = cell
	}

	attrs, err := collectAttributes(system.Manufacturer, p.InitCommands, p.Targets)
	if err != nil {
		return nil, err
	}
	p.Attributes = attrs
	p.solve()
	return p, nil
}

// GroupTargets returns the targets of group in program order.
func (p *Program) GroupTargets(group int) []*ProgramTarget {
	out := make([]*ProgramTarget, 0, len(p.Targets))
	for _, cell := range p.Targets {
		out = append(out, cell.ProgramTargets[group])
	}
	return out
}

// IsMultiFile returns whether the program is split into more than one file per group.
func (p *Program) IsMultiFile() bool {
	return len(p.MultiFileIndices) > 1
}

// AddWarning records a warning. It is safe to call concurrently.
func (p *Program) AddWarning(warning string) {
	p.mu.Lock()
	p.warnings = append(p.warnings, warning)
	p.mu.Unlock()
	p.logger.Warnw("program warning", "program", p.Name, "warning", warning)
}

func (p *Program) addError(err string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, err)
}

// Warnings returns the warnings recorded so far.
func (p *Program) Warnings() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.warnings...)
}

// Errors returns the kinematic errors found while solving.
func (p *Program) Errors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.errors...)
}

// HasErrors returns whether any target could not be solved cleanly.
func (p *Program) HasErrors() bool {
	return len(p.Errors()) > 0
}

// Code generates the controller code with the post processor of the robot system.
func (p *Program) Code() (Code, error) {
	if p.System.PostProcessor == nil {
		return nil, errors.Errorf("robot system %q has no post processor", p.System.Name)
	}
	code, err := p.System.PostProcessor.Code(p.System, p)
	if err != nil {
		p.logger.Errorw("code generation failed", "program", p.Name, "error", err)
		return code, err
	}
	p.logger.Debugw("generated code", "program", p.Name, "groups", len(code))
	return code, nil
}

func (p *Program) String() string {
	return fmt.Sprintf("Program (%s with %d targets and %.1f s duration)", p.Name, len(p.Targets), p.Duration)
}
