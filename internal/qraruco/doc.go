// Package qraruco holds the tuning parameters of the Aruco-based QR code
// detector.
//
// The detector locates QR finder patterns with the ArUco marker pipeline and
// then scores candidate codes against module-size, timing-pattern and colour
// consistency limits. This package only describes those limits: a Params
// value is a plain struct with named fields, built from DefaultParams and
// adjusted through Overrides, and checked with Validate before it is handed
// to a detector.
//
// All angles are in radians. Mismatch and penalty limits are ratios.
package qraruco
