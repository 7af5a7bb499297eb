package qraruco

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when a parameter is out of range.
var ErrInvalidParams = errors.New("invalid qr aruco params")

// Params configures the Aruco-based QR code detector.
type Params struct {
	// MinModuleSizeInPyramid is the smallest QR module size, in pixels, kept
	// when building the image pyramid.
	MinModuleSizeInPyramid float64 `json:"min_module_size_in_pyramid"`

	// MaxRotation is the largest rotation of a finder pattern, in radians.
	MaxRotation float64 `json:"max_rotation"`

	// MaxModuleSizeMismatch is the largest allowed ratio between module
	// sizes of the finder patterns of one code.
	MaxModuleSizeMismatch float64 `json:"max_module_size_mismatch"`

	// MaxTimingPatternMismatch is the largest allowed deviation of the
	// timing pattern from its expected module count.
	MaxTimingPatternMismatch float64 `json:"max_timing_pattern_mismatch"`

	// MaxPenalties is the largest share of penalized modules in a candidate.
	MaxPenalties float64 `json:"max_penalties"`

	// MaxColorsMismatch is the largest share of modules whose colour
	// disagrees with the finder pattern colours.
	MaxColorsMismatch float64 `json:"max_colors_mismatch"`

	// ScaleTimingPatternScore weights the timing pattern score.
	ScaleTimingPatternScore float64 `json:"scale_timing_pattern_score"`
}

// DefaultParams returns the detector's stock parameters.
func DefaultParams() Params {
	return Params{
		MinModuleSizeInPyramid:   4.0,
		MaxRotation:              math.Pi / 12,
		MaxModuleSizeMismatch:    1.75,
		MaxTimingPatternMismatch: 2.0,
		MaxPenalties:             0.4,
		MaxColorsMismatch:        0.2,
		ScaleTimingPatternScore:  0.9,
	}
}

// Validate checks that every field is finite and within its range.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
		max   float64
	}{
		{"min_module_size_in_pyramid", p.MinModuleSizeInPyramid, math.Inf(1)},
		{"max_rotation", p.MaxRotation, math.Pi / 2},
		{"max_module_size_mismatch", p.MaxModuleSizeMismatch, math.Inf(1)},
		{"max_timing_pattern_mismatch", p.MaxTimingPatternMismatch, math.Inf(1)},
		{"max_penalties", p.MaxPenalties, 1},
		{"max_colors_mismatch", p.MaxColorsMismatch, 1},
		{"scale_timing_pattern_score", p.ScaleTimingPatternScore, 1},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidParams, f.name, f.value)
		}
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, f.name, f.value)
		}
		if f.value > f.max {
			return fmt.Errorf("%w: %s must be at most %g, got %g", ErrInvalidParams, f.name, f.max, f.value)
		}
	}
	return nil
}

// Overrides carries optional replacements for Params fields. Nil fields
// leave the base value unchanged, so partial JSON documents are safe.
type Overrides struct {
	MinModuleSizeInPyramid   *float64 `json:"min_module_size_in_pyramid,omitempty"`
	MaxRotation              *float64 `json:"max_rotation,omitempty"`
	MaxModuleSizeMismatch    *float64 `json:"max_module_size_mismatch,omitempty"`
	MaxTimingPatternMismatch *float64 `json:"max_timing_pattern_mismatch,omitempty"`
	MaxPenalties             *float64 `json:"max_penalties,omitempty"`
	MaxColorsMismatch        *float64 `json:"max_colors_mismatch,omitempty"`
	ScaleTimingPatternScore  *float64 `json:"scale_timing_pattern_score,omitempty"`
}

// Apply returns base with the non-nil overrides applied, validated.
func (o Overrides) Apply(base Params) (Params, error) {
	p := base
	setIf(&p.MinModuleSizeInPyramid, o.MinModuleSizeInPyramid)
	setIf(&p.MaxRotation, o.MaxRotation)
	setIf(&p.MaxModuleSizeMismatch, o.MaxModuleSizeMismatch)
	setIf(&p.MaxTimingPatternMismatch, o.MaxTimingPatternMismatch)
	setIf(&p.MaxPenalties, o.MaxPenalties)
	setIf(&p.MaxColorsMismatch, o.MaxColorsMismatch)
	setIf(&p.ScaleTimingPatternScore, o.ScaleTimingPatternScore)

	if err := p.Validate(); err != nil {
		return base, err
	}
	return p, nil
}

// IsEmpty reports whether no override is set.
func (o Overrides) IsEmpty() bool {
	return o == Overrides{}
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
