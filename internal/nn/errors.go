package nn

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewWeights  = errors.New("got not enough weights")
	ErrTooManyWeights = errors.New("got too many weights")
)

type ShapeMismatchKind int

const (
	TooFewWeights ShapeMismatchKind = iota + 1
	TooManyWeights
)

func (k ShapeMismatchKind) String() string {
	switch k {
	case TooFewWeights:
		return "too_few_weights"
	case TooManyWeights:
		return "too_many_weights"
	default:
		return fmt.Sprintf("shape_mismatch(%d)", int(k))
	}
}

// ShapeMismatchError reports a flat weight sequence that does not fit the
// requested topology. It matches ErrTooFewWeights or ErrTooManyWeights.
type ShapeMismatchError struct {
	Kind     ShapeMismatchKind
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %d, got %d", e.Unwrap(), e.Expected, e.Got)
}

func (e *ShapeMismatchError) Unwrap() error {
	switch e.Kind {
	case TooFewWeights:
		return ErrTooFewWeights
	case TooManyWeights:
		return ErrTooManyWeights
	default:
		return nil
	}
}
