package program

import (
	"fmt"
	"math"

	"go.viam.com/robotpost/kinematics"
	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
)

// solve computes the kinematics of every target, group by group, feeding each solution to the
// next target of the same group, and estimates the time between steps.
func (p *Program) solve() {
	groups := p.System.Groups
	prev := make([]*ProgramTarget, len(groups))
	total := 0.0

	for i, cell := range p.Targets {
		delta := 0.0
		for _, pt := range cell.ProgramTargets {
			g := groups[pt.Group]
			var prevJoints []float64
			if prev[pt.Group] != nil {
				prevJoints = prev[pt.Group].Kinematics.Joints
			}

			solutions := g.Kinematics(pt.Target, prevJoints)
			pt.Kinematics = solutions[0]
			pt.ExternalKinematics = solutions[1:]
			p.recordErrors(i, pt.Group, solutions)

			step := waitTime(pt.Commands)
			if prev[pt.Group] != nil {
				step += motionTime(g, prev[pt.Group], pt)
			}
			delta = math.Max(delta, step)
			prev[pt.Group] = pt
		}
		total += delta
		cell.DeltaTime = delta
		cell.TotalTime = total
	}
	p.Duration = total
}

func (p *Program) recordErrors(index, group int, solutions []*kinematics.Solution) {
	var errs []string
	for _, s := range solutions {
		errs = append(errs, s.Errors...)
	}
	if len(errs) == 0 {
		return
	}
	p.addError(fmt.Sprintf("Errors in target %d of robot %d:", index, group))
	for _, e := range errs {
		p.addError(e)
	}
	p.logger.Debugw("kinematic errors", "program", p.Name, "target", index, "group", group, "errors", errs)
}

func waitTime(commands []target.Command) float64 {
	total := 0.0
	for _, c := range commands {
		if w, ok := c.(*target.Wait); ok {
			total += w.Seconds
		}
	}
	return total
}

// motionTime estimates how long the group takes to move from prev to cur: the slowest of the
// tool center point, every arm joint and every external axis.
func motionTime(g *mechanism.MechanicalGroup, prev, cur *ProgramTarget) float64 {
	speed := cur.Target.Attributes().Speed
	if speed.Time > 0 {
		return speed.Time
	}

	t := 0.0
	linear := target.Match(cur.Target,
		func(c *target.CartesianTarget) bool { return c.Motion == target.LinearMotion },
		func(*target.JointTarget) bool { return false })
	if linear {
		from, to := prev.Kinematics.EndPlane(), cur.Kinematics.EndPlane()
		distance := to.Point().Sub(from.Point()).Norm()
		angle := spatialmath.OrientationBetween(from.Orientation(), to.Orientation()).AxisAngles().Theta
		t = math.Max(ratio(distance, speed.TranslationSpeed), ratio(math.Abs(angle), speed.RotationSpeed))
	} else {
		for i, j := range g.Robot.Joints() {
			t = math.Max(t, ratio(jointTravel(prev.Kinematics, cur.Kinematics, i), j.MaxSpeed))
		}
	}

	for k, m := range g.Externals {
		if k >= len(prev.ExternalKinematics) || k >= len(cur.ExternalKinematics) {
			break
		}
		for i, j := range m.Joints() {
			limit := speed.TranslationExternal
			if j.IsRevolute() {
				limit = speed.RotationExternal
			}
			if j.MaxSpeed > 0 {
				limit = math.Min(limit, j.MaxSpeed)
			}
			t = math.Max(t, ratio(jointTravel(prev.ExternalKinematics[k], cur.ExternalKinematics[k], i), limit))
		}
	}
	return t
}

func jointTravel(from, to *kinematics.Solution, i int) float64 {
	if i >= len(from.Joints) || i >= len(to.Joints) {
		return 0
	}
	return math.Abs(to.Joints[i] - from.Joints[i])
}

func ratio(amount, speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	return amount / speed
}
