package postprocessor

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is returned when a program asks for something a controller cannot do,
	// such as an unsupported motion type.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState is returned when a program is internally inconsistent, such as a fly-by
	// zone without a name.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnsupportedManufacturer is returned when no post processor is registered for a
	// manufacturer.
	ErrUnsupportedManufacturer = errors.New("no post processor for manufacturer")
)

// NewUnsupportedMotionError returns an ErrInvalidInput for a motion the controller lacks.
func NewUnsupportedMotionError(motion fmt.Stringer) error {
	return errors.Wrapf(ErrInvalidInput, "Motion '%s' not supported.", motion)
}

// NewUnnamedZoneError returns an ErrInvalidState for a fly-by zone without a name.
func NewUnnamedZoneError() error {
	return errors.Wrap(ErrInvalidState, "Approximation zone must have a name.")
}
