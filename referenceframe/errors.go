package referenceframe

import (
	"github.com/pkg/errors"
)

// ErrUnknownManufacturer is returned when a manufacturer name cannot be parsed.
var ErrUnknownManufacturer = errors.New("unknown manufacturer")

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the DoF of a mechanism.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewUnsupportedJointTypeError returns an error indicating that a given joint type is not supported by current model
// parsing.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}
