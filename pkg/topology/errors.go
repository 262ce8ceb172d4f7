package topology

import "errors"

var (
	// ErrNodeNotFound is returned when an edge references a node outside the graph
	ErrNodeNotFound = errors.New("node not found")

	// ErrUnknownModel is returned for an unsupported topology model type
	ErrUnknownModel = errors.New("unsupported model type")

	// ErrInvalidModelParams is returned when generator parameters are out of range
	ErrInvalidModelParams = errors.New("invalid model parameters")
)
