package mechanism

import (
	"go.viam.com/robotpost/utils"
)

// AngleConvention converts between the values a controller displays for an axis (degrees, or
// mm for linear axes) and the values used by the kinematics (radians or mm). Axes count from 0.
type AngleConvention interface {
	DegreeToRadian(degrees float64, axis int) float64
	RadianToDegree(radians float64, axis int) float64
}

// StandardConvention is the plain unit conversion.
type StandardConvention struct{}

// DegreeToRadian converts degrees to radians.
func (StandardConvention) DegreeToRadian(degrees float64, _ int) float64 {
	return utils.DegToRad(degrees)
}

// RadianToDegree converts radians to degrees.
func (StandardConvention) RadianToDegree(radians float64, _ int) float64 {
	return utils.RadToDeg(radians)
}

// LinearConvention leaves millimeters untouched.
type LinearConvention struct{}

// DegreeToRadian returns the value as is.
func (LinearConvention) DegreeToRadian(value float64, _ int) float64 {
	return value
}

// RadianToDegree returns the value as is.
func (LinearConvention) RadianToDegree(value float64, _ int) float64 {
	return value
}

// KUKAConvention negates every axis and offsets the third by a quarter turn.
type KUKAConvention struct{}

// DegreeToRadian converts a KUKA axis value to radians.
func (KUKAConvention) DegreeToRadian(degrees float64, axis int) float64 {
	radians := utils.DegToRad(degrees)
	if axis == 2 {
		radians -= utils.HalfPi
	}
	return -radians
}

// RadianToDegree converts radians to a KUKA axis value.
func (KUKAConvention) RadianToDegree(radians float64, axis int) float64 {
	radians = -radians
	if axis == 2 {
		radians += utils.HalfPi
	}
	return utils.RadToDeg(radians)
}

// ABBConvention mirrors the second axis about a quarter turn and negates the third and fifth.
type ABBConvention struct{}

// DegreeToRadian converts an ABB axis value to radians.
func (ABBConvention) DegreeToRadian(degrees float64, axis int) float64 {
	radians := utils.DegToRad(degrees)
	switch axis {
	case 1:
		return -radians + utils.HalfPi
	case 2, 4:
		return -radians
	default:
		return radians
	}
}

// RadianToDegree converts radians to an ABB axis value.
func (ABBConvention) RadianToDegree(radians float64, axis int) float64 {
	switch axis {
	case 1:
		radians = -radians + utils.HalfPi
	case 2, 4:
		radians = -radians
	}
	return utils.RadToDeg(radians)
}
