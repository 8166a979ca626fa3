package gp

import (
	"errors"
)

var (
	// ErrUnknownModel is returned when a model name is not present in the
	// registry it is resolved against.
	ErrUnknownModel = errors.New("unknown model name")

	// ErrParamCount is returned when a hyperparameter vector does not match
	// the total width required by the named constructors.
	ErrParamCount = errors.New("hyperparameter count mismatch")

	// ErrBadFixedIndex is returned for a fixed-parameter index that is out
	// of range or duplicated.
	ErrBadFixedIndex = errors.New("bad fixed parameter index")

	// ErrUnsupportedDiff is returned when a process is asked for a
	// derivative order it does not implement.
	ErrUnsupportedDiff = errors.New("unsupported differentiation order")

	// ErrNotPositiveDefinite is returned when a covariance matrix cannot
	// be factorized.
	ErrNotPositiveDefinite = errors.New("covariance matrix is not positive definite")
)
