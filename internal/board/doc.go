// Package board describes ChArUco calibration boards and validates corner
// selections against them.
//
// A ChArUco board is a planar chessboard whose white squares carry ArUco
// markers. This package covers the deterministic geometry of such a board:
// the positions of its interior chessboard corners and whether a set of
// detected corners lies on a single straight line.
//
// # Coordinate System
//
// Corners are expressed in the board's local frame, in the same physical unit
// as the square length (normally meters):
//   - X increases along a row (column index)
//   - Y increases down the board (row index)
//   - Z is always 0; the board is planar
//
// The corner at row r and column c sits at (c*squareLength, r*squareLength, 0)
// and has id r*(countX-1) + c. Ids are the values reported by ChArUco corner
// detectors.
//
// # Collinearity
//
// Pose estimation and camera calibration fail when every detected corner sits
// on one line. CheckCornersCollinear reports that case so a frame can be
// rejected before it reaches a solver. Selections of two or fewer corners are
// always reported as collinear.
//
// # Thread Safety
//
// A Board is immutable once Build returns. Any number of goroutines may read a
// Board and run collinearity checks on it concurrently. Do not share a Board
// until Build has returned it.
//
// # Error Handling
//
// Invalid input is reported with wrapped sentinel errors that can be matched
// with errors.Is:
//   - ErrInvalidBoardDimensions: fewer than two squares along an axis
//   - ErrInvalidLength: non-positive square or marker length, or a marker
//     larger than its square
//   - ErrIndexOutOfRange: a selected corner id outside the board
//   - ErrInvalidTolerance: a negative or non-finite collinearity tolerance
//
// Invalid geometry is never clamped or corrected.
package board
