package board

import "errors"

var (
	// ErrInvalidBoardDimensions is returned when a board has fewer than two
	// squares along either axis, leaving no interior corners, or more than
	// MaxCornerCount corners.
	ErrInvalidBoardDimensions = errors.New("invalid board dimensions")

	// ErrInvalidLength is returned for a non-positive or non-finite square or
	// marker length, a marker longer than its square, or a square length
	// that pushes corner coordinates to infinity.
	ErrInvalidLength = errors.New("invalid length")

	// ErrIndexOutOfRange is returned when a corner id does not name a corner
	// of the board.
	ErrIndexOutOfRange = errors.New("corner index out of range")

	// ErrInvalidTolerance is returned for a negative or non-finite
	// collinearity tolerance.
	ErrInvalidTolerance = errors.New("invalid tolerance")
)
