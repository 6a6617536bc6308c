package algorithms

import "errors"

var (
	// ErrInvalidParameter marks a parameter value a filter cannot work with.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrEmptyImage is returned for nil or zero-sized input grids.
	ErrEmptyImage = errors.New("input image is empty")
	// ErrUnknownAlgorithm is returned when a name is not in the registry.
	ErrUnknownAlgorithm = errors.New("algorithm not found")
)
