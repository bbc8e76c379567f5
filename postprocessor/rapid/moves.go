package rapid

import (
	"fmt"
	"math"
	"strings"

	"go.viam.com/robotpost/postprocessor"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/utils"
)

// externalCount is the number of external axes in a RAPID extjoint.
const externalCount = 6

// noValue marks an unused external axis.
const noValue = "9E9"

// quadrant returns the RAPID quadrant of a joint angle: quarter turns truncated toward zero,
// one less for negative angles.
func quadrant(radians float64) int {
	q := radians / (math.Pi / 2)
	cf := int(q)
	if q < 0 {
		cf--
	}
	return cf
}

// cfx packs the arm configuration the way the IRB controllers read it. Elbow is measured
// from the opposite side when the shoulder is flipped.
func cfx(c target.Configuration) int {
	shoulder, elbow, wrist := c.Shoulder, c.Elbow, c.Wrist
	if shoulder {
		elbow = !elbow
	}
	value := 0
	if wrist {
		value++
	}
	if elbow {
		value += 2
	}
	if shoulder {
		value += 4
	}
	return value
}

func (in *instance) externalText(pt *program.ProgramTarget) string {
	if len(in.group.Externals) == 0 {
		return "extj"
	}
	values := make([]string, externalCount)
	for i := range values {
		values[i] = noValue
	}
	for i, v := range in.group.RadiansToDegreesExternal(pt.Target) {
		if i < externalCount {
			values[i] = utils.FormatFloat(v, 4)
		}
	}
	for i, custom := range pt.Target.Attributes().ExternalCustom {
		if i < externalCount && custom != "" {
			values[i] = custom
		}
	}
	return "[" + strings.Join(values, ",") + "]"
}

func (in *instance) zoneText(zone *target.Zone) (string, error) {
	if !zone.IsFlyBy() {
		return "fine", nil
	}
	if zone.Name == "" {
		return "", postprocessor.NewUnnamedZoneError()
	}
	return zone.Name, nil
}

func (in *instance) idText(pt *program.ProgramTarget) string {
	if !in.multiGroup() {
		return ""
	}
	return fmt.Sprintf(`\ID:=%d`, pt.Index)
}

// moveText renders the move instruction of one program target.
func (in *instance) moveText(pt *program.ProgramTarget) (string, error) {
	attrs := pt.Target.Attributes()
	zone, err := in.zoneText(attrs.Zone)
	if err != nil {
		return "", err
	}
	id := in.idText(pt)
	external := in.externalText(pt)

	if t, ok := pt.Target.(*target.CartesianTarget); ok {
		var conf string
		switch t.Motion {
		case target.JointMotion:
			joints := make([]float64, 6)
			copy(joints, pt.Kinematics.Joints)
			conf = fmt.Sprintf("[%d,%d,%d,%d]",
				quadrant(joints[0]), quadrant(joints[3]), quadrant(joints[5]), cfx(pt.Kinematics.Configuration))
		case target.LinearMotion:
			conf = "conf"
		default:
			return "", postprocessor.NewUnsupportedMotionError(t.Motion)
		}
		return fmt.Sprintf(`Move%s [%s,%s,%s,%s]%s,%s,%s,%s \WObj:=%s;`,
			motionLetter(t.Motion), pointText(t.Plane.Point()), quaternionText(t.Plane), conf, external,
			id, attrs.Speed.Name, zone, attrs.Tool.Name, attrs.Frame.Name), nil
	}

	degrees := make([]float64, len(pt.Kinematics.Joints))
	for i, v := range pt.Kinematics.Joints {
		degrees[i] = in.group.Robot.RadianToDegree(v, i)
	}
	return fmt.Sprintf("MoveAbsJ [[%s],%s]%s,%s,%s,%s;",
		utils.FormatFloats(degrees, 4), external, id, attrs.Speed.Name, zone, attrs.Tool.Name), nil
}

func motionLetter(m target.Motion) string {
	if m == target.LinearMotion {
		return "L"
	}
	return "J"
}
