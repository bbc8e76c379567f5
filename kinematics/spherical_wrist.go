package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/utils"
)

const (
	wristDoF          = 6
	singularThreshold = 1e-9
)

// SphericalWristSolver is the closed form solver of a six axis arm whose last three axes
// intersect. The chain must follow the standard Denavit-Hartenberg convention with the
// second and third axes parallel and every other twist a quarter turn.
type SphericalWristSolver struct {
	chain Chain
}

// NewSphericalWristSolver returns a solver for chain.
func NewSphericalWristSolver(chain Chain) *SphericalWristSolver {
	return &SphericalWristSolver{chain: chain}
}

type candidate struct {
	values      []float64
	unreachable bool
}

// Solve solves the arm for a Cartesian or joint target.
func (s *SphericalWristSolver) Solve(t target.Target, prevJoints []float64, basePose spatialmath.Pose) *Solution {
	base := baseOrDefault(s.chain, basePose)
	joints := s.chain.Joints()
	attrs := t.Attributes().WithDefaults()
	sol := &Solution{}
	if len(prevJoints) != len(joints) {
		prevJoints = nil
	}

	sol.Joints = target.Match(t,
		func(c *target.CartesianTarget) []float64 {
			if len(joints) != wristDoF {
				sol.Errors = append(sol.Errors, referenceframe.NewIncorrectDoFError(len(joints), wristDoF).Error())
				return make([]float64, len(joints))
			}
			tcp := spatialmath.Compose(attrs.Frame.Plane, c.Plane)
			flange := spatialmath.Compose(tcp, spatialmath.PoseInverse(attrs.Tool.Tcp))
			candidates := s.inverse(spatialmath.PoseBetween(base, flange), prevJoints)

			chosen := 0
			switch {
			case c.Configuration != nil:
				chosen = c.Configuration.Encode()
			case prevJoints != nil:
				best := math.Inf(1)
				for i, cand := range candidates {
					if d := jointDistance(cand.values, prevJoints); d < best {
						best = d
						chosen = i
					}
				}
			}
			sol.Configuration = target.ConfigurationFromInt(chosen)
			if candidates[chosen].unreachable {
				sol.Unreachable = true
				sol.Errors = append(sol.Errors, ErrTargetOutOfReach)
			}
			return candidates[chosen].values
		},
		func(j *target.JointTarget) []float64 {
			values := jointValues(j.Joints, len(joints), sol)
			if len(joints) == wristDoF {
				sol.Configuration = s.configuration(values)
			}
			return values
		})

	checkRanges(joints, sol.Joints, sol)
	sol.Planes = ForwardKinematics(joints, base, sol.Joints)
	sol.Planes = append(sol.Planes, spatialmath.Compose(sol.Planes[len(sol.Planes)-1], attrs.Tool.Tcp))
	return sol
}

// inverse returns the eight analytic solutions for the flange pose local, relative to the
// base, indexed by their configuration code.
func (s *SphericalWristSolver) inverse(local spatialmath.Pose, prev []float64) [8]candidate {
	j := s.chain.Joints()
	var out [8]candidate

	r06 := local.Orientation().RotationMatrix()
	wristRot := r06.Mul(spatialmath.RotX(j[5].Alpha).Transpose())
	center := local.Point().Sub(wristRot.MulVec(r3.Vector{X: j[5].A, Z: j[5].D}))

	e := math.Copysign(1, math.Sin(j[0].Alpha))
	c := math.Copysign(1, math.Sin(j[2].Alpha))
	a := math.Copysign(1, math.Sin(j[3].Alpha))
	b := math.Copysign(1, math.Sin(j[4].Alpha))
	l := math.Hypot(j[2].A, j[3].D)
	phi := math.Atan2(c*j[3].D, j[2].A)
	rho := math.Hypot(center.X, center.Y)
	y1 := e * (center.Z - j[0].D)

	for code := range out {
		config := target.ConfigurationFromInt(code)
		theta := make([]float64, wristDoF)

		theta[0] = math.Atan2(center.Y, center.X)
		x1 := rho - j[0].A
		if config.Shoulder {
			theta[0] += math.Pi
			x1 = -rho - j[0].A
		}

		cosGamma := (x1*x1 + y1*y1 - j[1].A*j[1].A - l*l) / (2 * j[1].A * l)
		unreachable := cosGamma > 1 || cosGamma < -1
		gamma := math.Acos(utils.Clamp(cosGamma, -1, 1))
		if config.Elbow {
			gamma = -gamma
		}
		theta[1] = math.Atan2(y1, x1) - math.Atan2(l*math.Sin(gamma), j[1].A+l*math.Cos(gamma))
		theta[2] = gamma + phi

		r03 := spatialmath.RotZ(theta[0]).Mul(spatialmath.RotX(j[0].Alpha)).
			Mul(spatialmath.RotZ(theta[1])).Mul(spatialmath.RotX(j[1].Alpha)).
			Mul(spatialmath.RotZ(theta[2])).Mul(spatialmath.RotX(j[2].Alpha))
		r := r03.Transpose().Mul(wristRot)

		c5 := utils.Clamp(-a*b*r.At(2, 2), -1, 1)
		s5 := math.Sqrt(1 - c5*c5)
		if config.Wrist {
			s5 = -s5
		}
		theta[4] = math.Atan2(s5, c5)

		if math.Abs(s5) < singularThreshold {
			previous := 0.0
			if prev != nil {
				previous = prev[3]
			}
			theta[3] = dhTheta(j[3], previous)
		} else {
			theta[3] = math.Atan2(r.At(1, 2)/(b*s5), r.At(0, 2)/(b*s5))
		}

		m := spatialmath.NewRotationMatrix([9]float64{
			c5, 0, b * s5,
			0, -a * b, 0,
			a * s5, 0, -a * b * c5,
		})
		p := m.Transpose().Mul(spatialmath.RotZ(theta[3]).Transpose()).Mul(r)
		theta[5] = math.Atan2(p.At(1, 0), p.At(0, 0))

		values := make([]float64, wristDoF)
		for i := range values {
			v := utils.WrapAngle(jointFromDH(j[i], theta[i]))
			if prev != nil {
				v = wrapNear(v, prev[i])
			} else {
				v = wrapIntoRange(v, j[i].Range)
			}
			values[i] = v
		}
		out[code] = candidate{values: values, unreachable: unreachable}
	}
	return out
}

// configuration labels a set of joint values with the branch they belong to.
func (s *SphericalWristSolver) configuration(values []float64) target.Configuration {
	j := s.chain.Joints()
	theta := make([]float64, wristDoF)
	for i := range theta {
		theta[i] = dhTheta(j[i], values[i])
	}
	c := math.Copysign(1, math.Sin(j[2].Alpha))
	phi := math.Atan2(c*j[3].D, j[2].A)
	x1 := j[1].A*math.Cos(theta[1]) +
		j[2].A*math.Cos(theta[1]+theta[2]) +
		c*j[3].D*math.Sin(theta[1]+theta[2])
	return target.Configuration{
		Shoulder: j[0].A+x1 < 0,
		Elbow:    utils.WrapAngle(theta[2]-phi) < 0,
		Wrist:    math.Sin(theta[4]) < 0,
	}
}
