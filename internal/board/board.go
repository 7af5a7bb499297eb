package board

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Corner is an interior chessboard corner in board-local coordinates.
//
// The corner's id is its position in Board.Corners; it is not stored.
type Corner = r3.Vec

// MaxCornerCount bounds the number of interior corners a board may have.
// Larger boards fail with ErrInvalidBoardDimensions.
const MaxCornerCount = 1 << 20

// Size is the number of chessboard squares along each axis.
type Size struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board is an immutable ChArUco board description.
//
// Use Build or Spec.Build to create one. The zero value has no corners
// and is not useful.
type Board struct {
	size          Size
	squareLength  float64
	markerLength  float64
	legacyPattern bool
	corners       []Corner
}

// Build creates a board with countX by countY squares and computes the
// positions of its (countX-1)*(countY-1) interior corners.
//
// Parameters:
//   - countX, countY: number of squares along X and Y. Both must be >= 2,
//     and the board may have at most MaxCornerCount interior corners.
//   - squareLength: side of a chessboard square, normally in meters. Must be > 0.
//   - markerLength: side of an ArUco marker in the same unit. Must be > 0 and
//     not exceed squareLength.
//   - legacyPattern: selects the pre-4.6.0 OpenCV chessboard pattern. It is
//     recorded on the board for marker layout and does not move corners.
//
// Corners are generated row-major: the corner at (row, col) has id
// row*(countX-1)+col and position (col*squareLength, row*squareLength, 0).
func Build(countX, countY int, squareLength, markerLength float64, legacyPattern bool) (*Board, error) {
	if err := validate(countX, countY, squareLength, markerLength); err != nil {
		return nil, err
	}

	cols := countX - 1
	rows := countY - 1
	corners := make([]Corner, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			corners = append(corners, Corner{
				X: float64(col) * squareLength,
				Y: float64(row) * squareLength,
			})
		}
	}

	return &Board{
		size:          Size{X: countX, Y: countY},
		squareLength:  squareLength,
		markerLength:  markerLength,
		legacyPattern: legacyPattern,
		corners:       corners,
	}, nil
}

func validate(countX, countY int, squareLength, markerLength float64) error {
	if countX < 2 || countY < 2 {
		return fmt.Errorf("%w: %dx%d squares, need at least 2x2", ErrInvalidBoardDimensions, countX, countY)
	}
	cols, rows := countX-1, countY-1
	if cols > MaxCornerCount/rows {
		return fmt.Errorf("%w: %dx%d squares exceeds %d corners", ErrInvalidBoardDimensions, countX, countY, MaxCornerCount)
	}
	if !isPositiveFinite(squareLength) {
		return fmt.Errorf("%w: square length %g must be positive", ErrInvalidLength, squareLength)
	}
	if !isPositiveFinite(markerLength) {
		return fmt.Errorf("%w: marker length %g must be positive", ErrInvalidLength, markerLength)
	}
	if markerLength > squareLength {
		return fmt.Errorf("%w: marker length %g exceeds square length %g", ErrInvalidLength, markerLength, squareLength)
	}
	// Corner coordinates must stay finite.
	if extent := float64(max(cols, rows)) * squareLength; math.IsInf(extent, 0) {
		return fmt.Errorf("%w: square length %g overflows a %dx%d board", ErrInvalidLength, squareLength, countX, countY)
	}
	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// ChessboardSize returns the number of squares along X and Y.
func (b *Board) ChessboardSize() Size {
	return b.size
}

// SquareLength returns the chessboard square side length.
func (b *Board) SquareLength() float64 {
	return b.squareLength
}

// MarkerLength returns the ArUco marker side length.
func (b *Board) MarkerLength() float64 {
	return b.markerLength
}

// LegacyPattern reports whether the board uses the legacy chessboard pattern.
// Legacy boards start with a white square in the upper left corner when the
// row count is even. The flag only matters to marker layout.
func (b *Board) LegacyPattern() bool {
	return b.legacyPattern
}

// CornerCount returns the number of interior chessboard corners.
func (b *Board) CornerCount() int {
	return len(b.corners)
}

// Corners returns a copy of the interior corners ordered by id.
func (b *Board) Corners() []Corner {
	out := make([]Corner, len(b.corners))
	copy(out, b.corners)
	return out
}

// Corner returns the corner with the given id.
func (b *Board) Corner(id int) (Corner, error) {
	if id < 0 || id >= len(b.corners) {
		return Corner{}, fmt.Errorf("%w: id %d, board has %d corners", ErrIndexOutOfRange, id, len(b.corners))
	}
	return b.corners[id], nil
}

// CornerGrid returns the row and column of a corner id.
func (b *Board) CornerGrid(id int) (row, col int, err error) {
	if id < 0 || id >= len(b.corners) {
		return 0, 0, fmt.Errorf("%w: id %d, board has %d corners", ErrIndexOutOfRange, id, len(b.corners))
	}
	cols := b.size.X - 1
	return id / cols, id % cols, nil
}

// Tolerance returns the default collinearity tolerance for this board,
// DefaultToleranceFraction of the square length.
func (b *Board) Tolerance() float64 {
	return DefaultToleranceFraction * b.squareLength
}

// Checker returns a collinearity checker using the board's default tolerance.
func (b *Board) Checker() CollinearityChecker {
	return CollinearityChecker{Tolerance: b.Tolerance()}
}

// CheckCornersCollinear reports whether the corners named by ids lie on one
// straight line, using the board's default tolerance.
//
// Selections of two or fewer ids are always collinear. Calibration and pose
// estimation fail on collinear input, so a true result means the frame
// should be rejected.
func (b *Board) CheckCornersCollinear(ids []int) (bool, error) {
	return b.Checker().AreCollinear(b.corners, ids)
}

// Spec is a serializable board description, used by configuration
// files and tool arguments.
type Spec struct {
	SquaresX      int     `json:"squares_x"`
	SquaresY      int     `json:"squares_y"`
	SquareLength  float64 `json:"square_length"`
	MarkerLength  float64 `json:"marker_length"`
	LegacyPattern bool    `json:"legacy_pattern,omitempty"`
}

// Validate checks the spec without building corners.
func (s Spec) Validate() error {
	return validate(s.SquaresX, s.SquaresY, s.SquareLength, s.MarkerLength)
}

// Build creates the board described by s.
func (s Spec) Build() (*Board, error) {
	return Build(s.SquaresX, s.SquaresY, s.SquareLength, s.MarkerLength, s.LegacyPattern)
}

// Spec returns the description b was built from.
func (b *Board) Spec() Spec {
	return Spec{
		SquaresX:      b.size.X,
		SquaresY:      b.size.Y,
		SquareLength:  b.squareLength,
		MarkerLength:  b.markerLength,
		LegacyPattern: b.legacyPattern,
	}
}
