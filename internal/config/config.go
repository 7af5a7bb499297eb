// Package config loads server settings from the environment and an optional
// JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ironsheep/charuco-tools-mcp/internal/board"
	"github.com/ironsheep/charuco-tools-mcp/internal/qraruco"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel          = "CHARUCO_MCP_LOG_LEVEL"
	EnvToleranceFraction = "CHARUCO_MCP_TOLERANCE_FRACTION"
	EnvConfigFile        = "CHARUCO_MCP_CONFIG"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config is the resolved server configuration.
type Config struct {
	// Debug enables verbose logging to stderr.
	Debug bool

	// ToleranceFraction scales a board's square length into the collinearity
	// tolerance used when a request does not pass one explicitly.
	ToleranceFraction float64

	// DefaultBoard, when set, is built at startup and registered under the
	// id "default".
	DefaultBoard *board.Spec

	// QRAruco holds the QR detector parameters served by the qr_aruco_params
	// tool when no overrides are given.
	QRAruco qraruco.Params
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ToleranceFraction: board.DefaultToleranceFraction,
		QRAruco:           qraruco.DefaultParams(),
	}
}

// File is the JSON configuration file schema. Omitted fields keep their
// defaults, so partial files are safe.
type File struct {
	ToleranceFraction *float64          `json:"tolerance_fraction,omitempty"`
	Board             *board.Spec       `json:"board,omitempty"`
	QRAruco           qraruco.Overrides `json:"qr_aruco"`
}

// LoadFile reads and validates a JSON configuration file.
func LoadFile(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &f, nil
}

// Validate checks every field that is set.
func (f *File) Validate() error {
	if f.ToleranceFraction != nil {
		if err := validateFraction(*f.ToleranceFraction); err != nil {
			return err
		}
	}
	if f.Board != nil {
		if err := f.Board.Validate(); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}
	if _, err := f.QRAruco.Apply(qraruco.DefaultParams()); err != nil {
		return fmt.Errorf("qr_aruco: %w", err)
	}
	return nil
}

// ApplyTo merges the file's settings into cfg.
func (f *File) ApplyTo(cfg *Config) error {
	if f.ToleranceFraction != nil {
		cfg.ToleranceFraction = *f.ToleranceFraction
	}
	if f.Board != nil {
		spec := *f.Board
		cfg.DefaultBoard = &spec
	}
	params, err := f.QRAruco.Apply(cfg.QRAruco)
	if err != nil {
		return fmt.Errorf("qr_aruco: %w", err)
	}
	cfg.QRAruco = params
	return nil
}

// FromEnv builds a Config from environment variables looked up with getenv.
// The config file named by CHARUCO_MCP_CONFIG is applied first; the
// tolerance variable then takes precedence over the file.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()
	cfg.Debug = getenv(EnvLogLevel) == "debug"

	if path := getenv(EnvConfigFile); path != "" {
		f, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := f.ApplyTo(cfg); err != nil {
			return nil, err
		}
	}

	if v := getenv(EnvToleranceFraction); v != "" {
		frac, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvToleranceFraction, v, err)
		}
		if err := validateFraction(frac); err != nil {
			return nil, err
		}
		cfg.ToleranceFraction = frac
	}

	return cfg, nil
}

func validateFraction(v float64) error {
	if v < 0 || v >= 1 || math.IsNaN(v) {
		return fmt.Errorf("tolerance_fraction must be in [0, 1), got %g", v)
	}
	return nil
}
