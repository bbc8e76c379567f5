package rapid

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/utils"
)

// minimumWeight is the lightest tool load the controller accepts.
const minimumWeight = 0.001

// minimumCentroid is the shortest centroid offset the controller accepts, in mm.
const minimumCentroid = 0.001

func pointText(p r3.Vector) string {
	return fmt.Sprintf("[%s,%s,%s]", utils.FormatFloat(p.X, 3), utils.FormatFloat(p.Y, 3), utils.FormatFloat(p.Z, 3))
}

func quaternionText(pose spatialmath.Pose) string {
	q := spatialmath.CanonicalQuaternion(pose.Orientation().Quaternion())
	return fmt.Sprintf("[%s,%s,%s,%s]",
		utils.FormatFloat(q.Real, 5), utils.FormatFloat(q.Imag, 5), utils.FormatFloat(q.Jmag, 5), utils.FormatFloat(q.Kmag, 5))
}

// poseText renders a pose as [[x,y,z],[q1,q2,q3,q4]].
func poseText(pose spatialmath.Pose) string {
	return fmt.Sprintf("[%s,%s]", pointText(pose.Point()), quaternionText(pose))
}

func toolDeclaration(tool *target.Tool) string {
	weight := math.Max(tool.Weight, minimumWeight)
	centroid := "[0,0,0.001]"
	if tool.Centroid.Norm() >= minimumCentroid {
		centroid = pointText(tool.Centroid)
	}
	tcp := tool.Tcp
	if tcp == nil {
		tcp = spatialmath.NewZeroPose()
	}
	return fmt.Sprintf("PERS tooldata %s:=[TRUE,%s,[%s,%s,[1,0,0,0],0,0,0]];",
		tool.Name, poseText(tcp), utils.FormatFloat(weight, 3), centroid)
}

// frameDeclaration expresses the frame plane relative to the base of the system. A coupled
// frame names the unit moving it, ROB_n for a robot and STN_n for an external mechanism.
func frameDeclaration(basePose spatialmath.Pose, frame *target.Frame) string {
	plane := frame.Plane
	if plane == nil {
		plane = spatialmath.NewZeroPose()
	}
	if basePose != nil {
		plane = spatialmath.PoseBetween(basePose, plane)
	}
	fixed, unit := "TRUE", ""
	if frame.IsCoupled() {
		fixed = "FALSE"
		if frame.CoupledMechanism == -1 {
			unit = fmt.Sprintf("ROB_%d", frame.CoupledMechanicalGroup+1)
		} else {
			unit = fmt.Sprintf("STN_%d", frame.CoupledMechanism+1)
		}
	}
	return fmt.Sprintf(`TASK PERS wobjdata %s:=[FALSE,%s,"%s",%s,[[0,0,0],[1,0,0,0]]];`,
		frame.Name, fixed, unit, poseText(plane))
}

func speedDeclaration(speed *target.Speed) string {
	return fmt.Sprintf("TASK PERS speeddata %s:=[%s,%s,%s,%s];",
		speed.Name,
		utils.FormatFloat(speed.TranslationSpeed, 3),
		utils.FormatFloat(utils.RadToDeg(speed.RotationSpeed), 3),
		utils.FormatFloat(speed.TranslationExternal, 3),
		utils.FormatFloat(utils.RadToDeg(speed.RotationExternal), 3),
	)
}

func zoneDeclaration(zone *target.Zone) string {
	d := utils.FormatFloat(zone.Distance, 3)
	return fmt.Sprintf("TASK PERS zonedata %s:=[FALSE,%s,%s,%s,%s,%s,%s];",
		zone.Name, d, d, d,
		utils.FormatFloat(utils.RadToDeg(zone.Rotation), 3), d,
		utils.FormatFloat(utils.RadToDeg(zone.RotationExternal), 3),
	)
}
