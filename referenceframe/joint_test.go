package referenceframe

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestLimitMakeIncreasing(t *testing.T) {
	test.That(t, Limit{Min: 5, Max: -5}.MakeIncreasing(), test.ShouldResemble, Limit{Min: -5, Max: 5})
	test.That(t, Limit{Min: -1, Max: 2}.MakeIncreasing(), test.ShouldResemble, Limit{Min: -1, Max: 2})
	test.That(t, Limit{Min: -1, Max: 1}.Includes(1+1e-12), test.ShouldBeTrue)
	test.That(t, Limit{Min: -1, Max: 1}.Includes(1.1), test.ShouldBeFalse)
	test.That(t, Limit{Min: -1, Max: 3}.Mid(), test.ShouldEqual, 1.)
	test.That(t, Limit{Min: -1, Max: 3}.Span(), test.ShouldEqual, 4.)
}

func TestJointConfigDefaults(t *testing.T) {
	cfg := NewRevoluteJointConfig(70, 0, Limit{Min: -110, Max: 70}, 250)
	test.That(t, math.IsNaN(cfg.Alpha), test.ShouldBeTrue)
	test.That(t, math.IsNaN(cfg.Theta), test.ShouldBeTrue)
	test.That(t, cfg.Sign, test.ShouldEqual, 0)

	prismatic := NewPrismaticJointConfig(Limit{Min: 0, Max: 4000}, 1500)
	test.That(t, prismatic.Type, test.ShouldEqual, PrismaticJoint)
	j := Joint{Type: prismatic.Type}
	test.That(t, j.IsRevolute(), test.ShouldBeFalse)
}

func TestJointsAlmostEqual(t *testing.T) {
	a := []Joint{{Type: RevoluteJoint, Sign: 1, Range: Limit{-1, 1}}}
	b := []Joint{{Type: RevoluteJoint, Sign: 1, Range: Limit{-1, 1 + 1e-7}}}
	test.That(t, JointsAlmostEqual(a, b), test.ShouldBeTrue)
	b[0].Sign = -1
	test.That(t, JointsAlmostEqual(a, b), test.ShouldBeFalse)
}

func TestParseManufacturer(t *testing.T) {
	m, err := ParseManufacturer("abb")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldEqual, ABB)
	test.That(t, KUKA.String(), test.ShouldEqual, "KUKA")

	_, err = ParseManufacturer("acme")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "acme")
}
