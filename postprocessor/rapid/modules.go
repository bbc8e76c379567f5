package rapid

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/target"
)

// instance generates the modules of one group.
type instance struct {
	system  *program.RobotSystem
	program *program.Program
	group   *mechanism.MechanicalGroup
}

func (in *instance) groupName() string {
	return groupName(in.group)
}

func (in *instance) multiGroup() bool {
	return len(in.system.Groups) > 1
}

// code returns the main module followed by every sub module. A sub module that fails is left
// nil and the others are still generated.
func (in *instance) code() ([][]string, error) {
	files := [][]string{in.mainModule()}
	var errs error
	for f := range in.program.MultiFileIndices {
		sub, err := in.subModule(f)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "file %03d", f))
		}
		files = append(files, sub)
	}
	return files, errs
}

func (in *instance) mainModule() []string {
	p := in.program
	name := in.groupName()
	multiFile := p.IsMultiFile()

	lines := []string{fmt.Sprintf("MODULE %s_%s", p.Name, name)}
	if len(in.group.Externals) == 0 {
		lines = append(lines, "VAR extjoint extj := [9E9,9E9,9E9,9E9,9E9,9E9];")
	}
	lines = append(lines, "VAR confdata conf := [0,0,0,0];")

	if in.multiGroup() {
		tasks := make([]string, len(in.system.Groups))
		for i := range tasks {
			tasks[i] = fmt.Sprintf(`["T_ROB%d"]`, i+1)
		}
		lines = append(lines,
			"VAR syncident sync1;",
			"VAR syncident sync2;",
			fmt.Sprintf("TASK PERS tasks all_tasks{%d} := [%s];", len(tasks), strings.Join(tasks, ", ")),
		)
	}

	attrs := p.Attributes
	for _, tool := range lo.Filter(attrs.Tools, func(t *target.Tool, _ int) bool { return !t.UseController }) {
		lines = append(lines, toolDeclaration(tool))
	}
	for _, frame := range lo.Filter(attrs.Frames, func(f *target.Frame, _ int) bool { return !f.UseController }) {
		lines = append(lines, frameDeclaration(in.system.BasePose, frame))
	}
	for _, speed := range attrs.Speeds {
		lines = append(lines, speedDeclaration(speed))
	}
	for _, zone := range lo.Filter(attrs.Zones, func(z *target.Zone, _ int) bool { return z.IsFlyBy() }) {
		lines = append(lines, zoneDeclaration(zone))
	}
	for _, command := range attrs.Commands {
		if declaration := command.Declaration(referenceframe.ABB); strings.TrimSpace(declaration) != "" {
			lines = append(lines, declaration)
		}
	}

	lines = append(lines, "PROC Main()")
	if !multiFile {
		lines = append(lines, `ConfL \Off;`)
	}
	if in.group.Index == 0 {
		lines = appendCommands(lines, p.InitCommands)
	}
	if in.multiGroup() {
		lines = append(lines, "SyncMoveOn sync1, all_tasks;")
	}

	if multiFile {
		for i := range p.MultiFileIndices {
			module := fmt.Sprintf("%s_%s_%03d", p.Name, name, i)
			path := fmt.Sprintf("HOME:/%s/%s.MOD", p.Name, module)
			lines = append(lines,
				fmt.Sprintf(`Load\Dynamic, "%s";`, path),
				fmt.Sprintf(`%%"%s:Main"%%;`, module),
				fmt.Sprintf(`UnLoad "%s";`, path),
			)
		}
		if in.multiGroup() {
			lines = append(lines, "SyncMoveOff sync2;")
		}
		lines = append(lines, "ENDPROC", "ENDMODULE")
	}
	return lines
}

func (in *instance) subModule(file int) ([]string, error) {
	p := in.program
	multiFile := p.IsMultiFile()
	start := p.MultiFileIndices[file]
	end := len(p.Targets)
	if file < len(p.MultiFileIndices)-1 {
		end = p.MultiFileIndices[file+1]
	}

	var lines []string
	if multiFile {
		lines = append(lines,
			fmt.Sprintf("MODULE %s_%s_%03d", p.Name, in.groupName(), file),
			"PROC Main()",
			`ConfL \Off;`,
		)
	}

	for j := start; j < end; j++ {
		pt := p.Targets[j].ProgramTargets[in.group.Index]
		move, err := in.moveText(pt)
		if err != nil {
			return nil, err
		}
		before, after := lo.FilterReject(pt.Commands, func(c target.Command, _ int) bool { return c.RunBefore() })
		lines = appendCommands(lines, before)
		lines = append(lines, move)
		lines = appendCommands(lines, after)
	}

	if !multiFile && in.multiGroup() {
		lines = append(lines, "SyncMoveOff sync2;")
	}
	return append(lines, "ENDPROC", "ENDMODULE"), nil
}

func appendCommands(lines []string, commands []target.Command) []string {
	for _, c := range commands {
		if code := c.Code(referenceframe.ABB); code != "" {
			lines = append(lines, code)
		}
	}
	return lines
}
