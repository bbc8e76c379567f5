package program

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/utils"
)

// Table prints out a table of every solved target, with columns of step, group, motion, joints
// in controller units, configuration, time and errors.
func (p *Program) Table() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Group", "Motion", "Joints", "Config", "Time", "Errors"})
	for _, cell := range p.Targets {
		for _, pt := range cell.ProgramTargets {
			g := p.System.Groups[pt.Group]
			joints := make([]string, 0, len(pt.Kinematics.Joints))
			for i, j := range pt.Kinematics.Joints {
				joints = append(joints, utils.FormatFloat(g.Robot.RadianToDegree(j, i), 2))
			}
			var errs []string
			errs = append(errs, pt.Kinematics.Errors...)
			for _, ext := range pt.ExternalKinematics {
				errs = append(errs, ext.Errors...)
			}
			name := g.Name
			if name == "" {
				name = fmt.Sprintf("%d", g.Index)
			}
			t.AppendRow(table.Row{
				fmt.Sprintf("%d", cell.Index),
				name,
				motion(pt.Target),
				strings.Join(joints, ", "),
				fmt.Sprintf("%d", pt.Kinematics.Configuration.Encode()),
				utils.FormatFloat(cell.TotalTime, 2),
				strings.Join(errs, "; "),
			})
		}
	}
	t.AppendFooter(table.Row{"", "", "", "", "", utils.FormatFloat(p.Duration, 2), fmt.Sprintf("%d", len(p.Errors()))})
	return t.Render()
}

func motion(t target.Target) string {
	return target.Match(t,
		func(c *target.CartesianTarget) string { return c.Motion.String() },
		func(*target.JointTarget) string { return "Joint" },
	)
}
