// Package config loads snapping tuning parameters from JSON.
//
// Every field is optional. Fields omitted from the file fall back to the
// defaults returned by the Get* methods, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/floorsnap/pkg/extract"
	"github.com/chazu/floorsnap/pkg/geom"
	"github.com/chazu/floorsnap/pkg/snap"
)

// DefaultWorldPerPixel is the view scale assumed when none is configured:
// one centimetre per pixel with metre world units.
const DefaultWorldPerPixel = 0.01

// Config represents the root configuration for snapping.
type Config struct {
	// Tolerance
	PixelThreshold *float64 `json:"pixel_threshold,omitempty"`
	WorldPerPixel  *float64 `json:"world_per_pixel,omitempty"`

	// Matcher
	AngleEpsilon    *float64 `json:"angle_epsilon,omitempty"`
	ParallelEpsilon *float64 `json:"parallel_epsilon,omitempty"`
	ExtendDistance  *float64 `json:"extend_distance,omitempty"`
	LoopHalfWidth   *float64 `json:"loop_half_width,omitempty"`
	ArcSamples      *int     `json:"arc_samples,omitempty"`

	// Extraction and selection
	IncludeRoomCurves   *bool `json:"include_room_curves,omitempty"`
	ExcludeBeamRotation *bool `json:"exclude_beam_rotation,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		PixelThreshold:      ptrFloat64(snap.DefaultPixelThreshold),
		WorldPerPixel:       ptrFloat64(DefaultWorldPerPixel),
		AngleEpsilon:        ptrFloat64(geom.AngleEpsilon),
		ParallelEpsilon:     ptrFloat64(geom.ParallelEpsilon),
		ExtendDistance:      ptrFloat64(snap.DefaultExtendDistance),
		LoopHalfWidth:       ptrFloat64(snap.DefaultLoopHalfWidth),
		ArcSamples:          ptrInt(geom.DefaultArcSamples),
		IncludeRoomCurves:   ptrBool(false),
		ExcludeBeamRotation: ptrBool(true),
	}
}

// LoadConfig loads a Config from a JSON file.
// The file must have a .json extension and be under the max file size.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"pixel_threshold", c.PixelThreshold},
		{"world_per_pixel", c.WorldPerPixel},
		{"extend_distance", c.ExtendDistance},
		{"loop_half_width", c.LoopHalfWidth},
	}
	for _, p := range positive {
		if p.v != nil && *p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", p.name, *p.v)
		}
	}

	for _, e := range []struct {
		name string
		v    *float64
	}{
		{"angle_epsilon", c.AngleEpsilon},
		{"parallel_epsilon", c.ParallelEpsilon},
	} {
		if e.v != nil && (*e.v < 0 || *e.v >= 1) {
			return fmt.Errorf("%s must be in [0, 1), got %f", e.name, *e.v)
		}
	}

	if c.ArcSamples != nil && *c.ArcSamples < 1 {
		return fmt.Errorf("arc_samples must be at least 1, got %d", *c.ArcSamples)
	}
	return nil
}

// GetPixelThreshold returns the pixel_threshold value or the default.
func (c *Config) GetPixelThreshold() float64 {
	if c.PixelThreshold == nil {
		return snap.DefaultPixelThreshold
	}
	return *c.PixelThreshold
}

// GetWorldPerPixel returns the world_per_pixel value or the default.
func (c *Config) GetWorldPerPixel() float64 {
	if c.WorldPerPixel == nil {
		return DefaultWorldPerPixel
	}
	return *c.WorldPerPixel
}

// GetAngleEpsilon returns the angle_epsilon value or the default.
func (c *Config) GetAngleEpsilon() float64 {
	if c.AngleEpsilon == nil {
		return geom.AngleEpsilon
	}
	return *c.AngleEpsilon
}

// GetParallelEpsilon returns the parallel_epsilon value or the default.
func (c *Config) GetParallelEpsilon() float64 {
	if c.ParallelEpsilon == nil {
		return geom.ParallelEpsilon
	}
	return *c.ParallelEpsilon
}

// GetExtendDistance returns the extend_distance value or the default.
func (c *Config) GetExtendDistance() float64 {
	if c.ExtendDistance == nil {
		return snap.DefaultExtendDistance
	}
	return *c.ExtendDistance
}

// GetLoopHalfWidth returns the loop_half_width value or the default.
func (c *Config) GetLoopHalfWidth() float64 {
	if c.LoopHalfWidth == nil {
		return snap.DefaultLoopHalfWidth
	}
	return *c.LoopHalfWidth
}

// GetArcSamples returns the arc_samples value or the default.
func (c *Config) GetArcSamples() int {
	if c.ArcSamples == nil {
		return geom.DefaultArcSamples
	}
	return *c.ArcSamples
}

// GetIncludeRoomCurves returns the include_room_curves value or the default.
func (c *Config) GetIncludeRoomCurves() bool {
	if c.IncludeRoomCurves == nil {
		return false
	}
	return *c.IncludeRoomCurves
}

// GetExcludeBeamRotation returns the exclude_beam_rotation value or the
// default. When set, rotation results are dropped for dragged beams.
func (c *Config) GetExcludeBeamRotation() bool {
	if c.ExcludeBeamRotation == nil {
		return true
	}
	return *c.ExcludeBeamRotation
}

// Tolerance returns the snap tolerance for the configured view scale.
func (c *Config) Tolerance() snap.Tolerance {
	return snap.Tolerance{PixelThreshold: c.GetPixelThreshold(), WorldPerPixel: c.GetWorldPerPixel()}
}

// Matcher returns a matcher with the configured settings.
func (c *Config) Matcher() *snap.Matcher {
	return &snap.Matcher{
		AngleEpsilon:    c.GetAngleEpsilon(),
		ParallelEpsilon: c.GetParallelEpsilon(),
		ExtendDistance:  c.GetExtendDistance(),
		LoopHalfWidth:   c.GetLoopHalfWidth(),
		ArcSamples:      c.GetArcSamples(),
	}
}

// ExtractOptions returns the extraction options.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{IncludeRoomCurves: c.GetIncludeRoomCurves()}
}
