package kinematics

import (
	"github.com/golang/geo/r3"

	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
)

// dhPose returns Rz(theta) Tz(d) Tx(a) Rx(alpha).
func dhPose(theta, d, a, alpha float64) spatialmath.Pose {
	rot := spatialmath.RotZ(theta).Mul(spatialmath.RotX(alpha))
	pt := spatialmath.RotZ(theta).MulVec(r3.Vector{X: a, Z: d})
	return spatialmath.NewPose(pt, rot)
}

// dhTheta returns the DH rotation of a revolute joint for a joint value.
func dhTheta(j referenceframe.Joint, value float64) float64 {
	return float64(j.Sign)*value + j.Theta
}

// jointFromDH is the inverse of dhTheta.
func jointFromDH(j referenceframe.Joint, theta float64) float64 {
	return (theta - j.Theta) * float64(j.Sign)
}

// ForwardKinematics returns the base pose followed by the plane of every joint of a
// Denavit-Hartenberg chain. Prismatic joints extend along their z axis.
func ForwardKinematics(joints []referenceframe.Joint, basePose spatialmath.Pose, values []float64) []spatialmath.Pose {
	planes := make([]spatialmath.Pose, 0, len(joints)+1)
	planes = append(planes, basePose)
	current := basePose
	for i, j := range joints {
		var value float64
		if i < len(values) {
			value = values[i]
		}
		var link spatialmath.Pose
		if j.IsRevolute() {
			link = dhPose(dhTheta(j, value), j.D, j.A, j.Alpha)
		} else {
			link = dhPose(j.Theta, j.D+float64(j.Sign)*value, j.A, j.Alpha)
		}
		current = spatialmath.Compose(current, link)
		planes = append(planes, current)
	}
	return planes
}
