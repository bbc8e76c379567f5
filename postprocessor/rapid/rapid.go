// Package rapid generates RAPID modules for ABB IRC5 controllers.
package rapid

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/postprocessor"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/referenceframe"
)

func init() {
	postprocessor.Register(referenceframe.ABB, NewPostProcessor)
}

// PostProcessor emits one main module per mechanical group, followed by one sub module per
// program file.
type PostProcessor struct {
	logger logging.Logger
}

// NewPostProcessor returns the RAPID post processor.
func NewPostProcessor(logger logging.Logger) program.PostProcessor {
	return &PostProcessor{logger: logger.Sublogger("rapid")}
}

// Code generates the modules of every group in parallel. A sub module that fails leaves a nil
// entry and its error is combined with the others; every other module is still returned.
func (pp *PostProcessor) Code(system *program.RobotSystem, p *program.Program) (program.Code, error) {
	code := make(program.Code, len(system.Groups))
	errs := make([]error, len(system.Groups))

	var eg errgroup.Group
	for i := range system.Groups {
		eg.Go(func() error {
			in := &instance{system: system, program: p, group: system.Groups[i]}
			groupCode, err := in.code()
			code[i] = groupCode
			if err != nil {
				errs[i] = errors.Wrapf(err, "group %s", in.groupName())
			}
			return errs[i]
		})
	}
	if err := eg.Wait(); err != nil {
		combined := multierr.Combine(errs...)
		pp.logger.Warnw("RAPID generation failed", "program", p.Name, "error", combined)
		return code, combined
	}
	return code, nil
}

// FileNames names the main module {program}_{group}.MOD and every sub module
// {program}_{group}_{file:000}.MOD. A program in a single file puts both in the main module.
func (pp *PostProcessor) FileNames(p *program.Program, code program.Code) [][]string {
	names := make([][]string, len(code))
	for g, files := range code {
		name := groupName(groupAt(p, g))
		for f := range files {
			switch {
			case f == 0 || !p.IsMultiFile():
				names[g] = append(names[g], fmt.Sprintf("%s_%s.MOD", p.Name, name))
			default:
				names[g] = append(names[g], fmt.Sprintf("%s_%s_%03d.MOD", p.Name, name, f-1))
			}
		}
	}
	return names
}

func groupAt(p *program.Program, g int) *mechanism.MechanicalGroup {
	if g < len(p.System.Groups) {
		return p.System.Groups[g]
	}
	return &mechanism.MechanicalGroup{Index: g}
}

// groupName returns the task name of a group, T_ROB1 for the first unnamed group.
func groupName(g *mechanism.MechanicalGroup) string {
	if g.Name != "" {
		return g.Name
	}
	return fmt.Sprintf("T_ROB%d", g.Index+1)
}
