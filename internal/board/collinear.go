package board

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultToleranceFraction scales a board's square length into the default
// collinearity tolerance. Corner coordinates are multiples of the square
// length, so the tolerance tracks the board's unit.
const DefaultToleranceFraction = 1e-6

// CollinearityChecker decides whether selected corners lie on a straight line
// in the board plane.
//
// Tolerance is the largest perpendicular distance, in board units, at which a
// corner still counts as on the line. The zero value demands exact
// collinearity.
type CollinearityChecker struct {
	Tolerance float64
}

// NewCollinearityChecker returns a checker with the given tolerance.
func NewCollinearityChecker(tolerance float64) (CollinearityChecker, error) {
	if tolerance < 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return CollinearityChecker{}, fmt.Errorf("%w: %g", ErrInvalidTolerance, tolerance)
	}
	return CollinearityChecker{Tolerance: tolerance}, nil
}

// AreCollinear reports whether the corners named by selection lie on one line.
//
// Every id is validated against corners first; an id outside
// [0, len(corners)) fails with ErrIndexOutOfRange. Selections of two or fewer
// ids are trivially collinear.
//
// The test line runs through the first two selected corners (the anchors),
// projected onto the board plane. Each further corner's distance to that line
// is |(p2-p1) x (pi-p1)| / |p2-p1|. When the anchors coincide within
// tolerance there is no line to measure against, and the selection is
// collinear only if every corner coincides with the first anchor.
//
// A distance that cannot be computed, such as one involving infinite
// coordinates, counts as off the line.
//
// Neither corners nor selection is modified.
func (c CollinearityChecker) AreCollinear(corners []Corner, selection []int) (bool, error) {
	for i, id := range selection {
		if id < 0 || id >= len(corners) {
			return false, fmt.Errorf("%w: selection[%d]=%d, board has %d corners", ErrIndexOutOfRange, i, id, len(corners))
		}
	}
	if len(selection) <= 2 {
		return true, nil
	}

	p1 := project(corners[selection[0]])
	p2 := project(corners[selection[1]])
	dir := r2.Sub(p2, p1)
	span := r2.Norm(dir)

	if span <= c.Tolerance {
		for _, id := range selection[2:] {
			if !(r2.Norm(r2.Sub(project(corners[id]), p1)) <= c.Tolerance) {
				return false, nil
			}
		}
		return true, nil
	}

	for _, id := range selection[2:] {
		dist := math.Abs(r2.Cross(dir, r2.Sub(project(corners[id]), p1))) / span
		// NaN distances count as off the line.
		if !(dist <= c.Tolerance) {
			return false, nil
		}
	}
	return true, nil
}

// project drops a corner onto the board plane.
func project(p Corner) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}
