package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for world construction and stepping.
var (
	// ErrInvalidBounds indicates a box with non-positive width or height.
	ErrInvalidBounds = errors.New("dynamo: bounds must have positive width and height")

	// ErrInvalidRadius indicates a body with radius <= 0.
	ErrInvalidRadius = errors.New("dynamo: radius must be positive")

	// ErrInvalidMass indicates a body with mass <= 0.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrOutOfBounds indicates a disk that does not fit inside the bounds.
	ErrOutOfBounds = errors.New("dynamo: body does not fit within bounds")

	// ErrDuplicateID indicates two bodies sharing an identity.
	ErrDuplicateID = errors.New("dynamo: duplicate body id")

	// ErrInvalidState indicates a NaN or Inf in a body's position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid body state (NaN or Inf detected)")

	// ErrInvalidTimestep indicates a negative, NaN or infinite dt passed to Step.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be finite and non-negative")
)

// BodyError wraps a validation error with the offending body.
type BodyError struct {
	Index   int
	ID      int
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d (id %d): %v", e.Index, e.ID, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
