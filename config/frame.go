package config

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/utils"
)

// Translation is a point or a direction. Points are always in millimeters.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector returns the translation as a vector.
func (t Translation) Vector() r3.Vector {
	return r3.Vector{X: t.X, Y: t.Y, Z: t.Z}
}

// Orientation is a rotation of TH degrees around the axis (X, Y, Z).
type Orientation struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	TH float64 `json:"th"`
}

// PoseConfig is a pose or plane. The rotation is given either as an orientation or, CAD
// style, as the X and Y axes of the plane; leaving both out keeps the parent orientation.
type PoseConfig struct {
	Translation Translation  `json:"translation"`
	Orientation *Orientation `json:"orientation,omitempty"`
	XAxis       *Translation `json:"x_axis,omitempty"`
	YAxis       *Translation `json:"y_axis,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (p *PoseConfig) Validate(path string) error {
	if p == nil {
		return nil
	}
	if (p.XAxis == nil) != (p.YAxis == nil) {
		return errors.Errorf("%s: x_axis and y_axis must be set together", path)
	}
	if p.XAxis != nil && p.Orientation != nil {
		return errors.Errorf("%s: orientation cannot be combined with x_axis and y_axis", path)
	}
	if p.XAxis != nil {
		x, y := p.XAxis.Vector(), p.YAxis.Vector()
		if x.Norm() == 0 || y.Norm() == 0 || x.Cross(y).Norm() == 0 {
			return errors.Errorf("%s: x_axis and y_axis must be independent non-zero vectors", path)
		}
	}
	return nil
}

// Pose returns the pose, the zero pose for a nil config.
func (p *PoseConfig) Pose() spatialmath.Pose {
	if p == nil {
		return spatialmath.NewZeroPose()
	}
	origin := p.Translation.Vector()
	switch {
	case p.XAxis != nil && p.YAxis != nil:
		return spatialmath.NewPoseFromPlane(origin, p.XAxis.Vector(), p.YAxis.Vector())
	case p.Orientation != nil:
		o := p.Orientation
		return spatialmath.NewPose(origin, &spatialmath.R4AA{Theta: utils.DegToRad(o.TH), RX: o.X, RY: o.Y, RZ: o.Z})
	default:
		return spatialmath.NewPoseFromPoint(origin)
	}
}
