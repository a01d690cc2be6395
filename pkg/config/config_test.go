package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/floorsnap/pkg/snap"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PixelThreshold == nil || *cfg.PixelThreshold != snap.DefaultPixelThreshold {
		t.Errorf("Expected PixelThreshold %d, got %v", snap.DefaultPixelThreshold, cfg.PixelThreshold)
	}
	if cfg.ExcludeBeamRotation == nil || *cfg.ExcludeBeamRotation != true {
		t.Errorf("Expected ExcludeBeamRotation true, got %v", cfg.ExcludeBeamRotation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	if got := cfg.Tolerance().Intensity(); math.Abs(got-7*DefaultWorldPerPixel) > 1e-12 {
		t.Errorf("Tolerance().Intensity() = %f, want %f", got, 7*DefaultWorldPerPixel)
	}
}

func TestEmptyConfigUsesDefaults(t *testing.T) {
	cfg := &Config{}
	def := DefaultConfig()

	if cfg.GetPixelThreshold() != def.GetPixelThreshold() {
		t.Errorf("GetPixelThreshold() = %f, want %f", cfg.GetPixelThreshold(), def.GetPixelThreshold())
	}
	if cfg.GetWorldPerPixel() != DefaultWorldPerPixel {
		t.Errorf("GetWorldPerPixel() = %f, want %f", cfg.GetWorldPerPixel(), DefaultWorldPerPixel)
	}
	if cfg.GetArcSamples() != def.GetArcSamples() {
		t.Errorf("GetArcSamples() = %d, want %d", cfg.GetArcSamples(), def.GetArcSamples())
	}
	if cfg.GetIncludeRoomCurves() {
		t.Error("GetIncludeRoomCurves() = true, want false")
	}
	if !cfg.GetExcludeBeamRotation() {
		t.Error("GetExcludeBeamRotation() = false, want true")
	}

	m := cfg.Matcher()
	d := snap.NewMatcher()
	if *m != *d {
		t.Errorf("Matcher() = %+v, want %+v", *m, *d)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{
  "pixel_threshold": 10,
  "world_per_pixel": 0.5,
  "loop_half_width": 0.25,
  "include_room_curves": true,
  "exclude_beam_rotation": false
}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.Tolerance().Intensity(); got != 5 {
		t.Errorf("Intensity = %f, want 5", got)
	}
	if !cfg.ExtractOptions().IncludeRoomCurves {
		t.Error("Expected IncludeRoomCurves true")
	}
	if cfg.GetExcludeBeamRotation() {
		t.Error("Expected ExcludeBeamRotation false")
	}
	if m := cfg.Matcher(); m.LoopHalfWidth != 0.25 || m.ExtendDistance != snap.DefaultExtendDistance {
		t.Errorf("Matcher() = %+v", *m)
	}
}

func TestLoadConfigDefaultsFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config", "floorsnap.defaults.json"))
	if err != nil {
		t.Fatalf("Failed to load defaults file: %v", err)
	}
	def := DefaultConfig()
	if *cfg.Matcher() != *def.Matcher() {
		t.Errorf("defaults file matcher = %+v, want %+v", *cfg.Matcher(), *def.Matcher())
	}
	if cfg.Tolerance() != def.Tolerance() {
		t.Errorf("defaults file tolerance = %+v, want %+v", cfg.Tolerance(), def.Tolerance())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"wrong extension", "tuning.yaml", `{}`, ".json extension"},
		{"bad json", "tuning.json", `{"pixel_threshold": }`, "parse"},
		{"negative threshold", "tuning.json", `{"pixel_threshold": -1}`, "pixel_threshold"},
		{"zero scale", "tuning.json", `{"world_per_pixel": 0}`, "world_per_pixel"},
		{"huge epsilon", "tuning.json", `{"angle_epsilon": 2}`, "angle_epsilon"},
		{"no arc samples", "tuning.json", `{"arc_samples": 0}`, "arc_samples"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
