// Package imaging renders ChArUco board diagnostics as PNG images.
//
// The main entry point, RenderCornerMap, draws a board's chessboard squares
// with its interior corners marked so that a detector's corner selection can
// be inspected visually. Selected corners are highlighted and the line used by
// the collinearity check (through the first two selected corners) is drawn
// across the whole image.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Board corners are mapped
// with one square of margin, so corner id 0 lands on
// (PixelsPerSquare, PixelsPerSquare).
//
// # Colors
//
// Colors are given as "#RRGGBB" or "#RGB" hex strings. The test line is drawn
// semi-transparent and composited over the checkerboard.
//
// # Thread Safety
//
// Rendering reads the board only and allocates its own images, so concurrent
// calls are safe, including on the same board.
package imaging
