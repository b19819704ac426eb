package gridpath

import "errors"

var (
	// ErrOutOfBounds is returned when a cell outside the grid is queried or
	// used as a search endpoint.
	ErrOutOfBounds = errors.New("cell out of bounds")

	// ErrInvalidObstacle is returned when an obstacle given at construction
	// time does not lie inside the grid. No grid is created.
	ErrInvalidObstacle = errors.New("invalid obstacle")

	// ErrInvalidDimensions is returned for non-positive or ragged grids.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrExpansionLimit is returned when a search exceeds WithMaxExpansions.
	ErrExpansionLimit = errors.New("search exceeded expansion limit")
)
