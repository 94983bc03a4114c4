package posegrid

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gekko3d/posegrid/rt/core"
	"golang.org/x/image/colornames"
)

const maxConfigSize = 1 * 1024 * 1024

type WindowConfig struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
}

type GridConfig struct {
	HalfExtent float32 `json:"half_extent"`
	Spacing    float32 `json:"spacing"`
	Color      string  `json:"color"` // SVG color name
}

type TrackingConfig struct {
	RateHz float64 `json:"rate_hz"`
	Radius float64 `json:"radius"`
	Period string  `json:"period"` // duration string like "20s"
}

// Config is the host configuration. Fields omitted from a JSON file keep their
// DefaultConfig values.
type Config struct {
	Window     WindowConfig   `json:"window"`
	Debug      bool           `json:"debug"`
	LogPrefix  string         `json:"log_prefix"`
	HUD        bool           `json:"hud"`
	ClearColor string         `json:"clear_color"` // SVG color name
	Grid       GridConfig     `json:"grid"`
	Tracking   TrackingConfig `json:"tracking"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "posegrid",
		},
		LogPrefix:  "posegrid",
		ClearColor: "white",
		Grid: GridConfig{
			HalfExtent: core.DefaultGridHalfExtent,
			Spacing:    core.DefaultGridSpacing,
			Color:      "darkgray",
		},
		Tracking: TrackingConfig{
			RateHz: 100,
			Radius: 2,
			Period: "20s",
		},
	}
}

// LoadConfig reads a JSON config file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cleanPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cleanPath, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Grid.HalfExtent <= 0 || c.Grid.Spacing <= 0 {
		return fmt.Errorf("grid half_extent and spacing must be positive")
	}
	if c.Grid.Spacing > c.Grid.HalfExtent {
		return fmt.Errorf("grid spacing %.3f exceeds half_extent %.3f", c.Grid.Spacing, c.Grid.HalfExtent)
	}
	if _, err := namedColor(c.ClearColor); err != nil {
		return fmt.Errorf("clear_color: %w", err)
	}
	if _, err := namedColor(c.Grid.Color); err != nil {
		return fmt.Errorf("grid.color: %w", err)
	}
	if c.Tracking.RateHz <= 0 {
		return fmt.Errorf("tracking.rate_hz must be positive")
	}
	if _, err := c.TrackingPeriod(); err != nil {
		return err
	}
	return nil
}

func (c *Config) TrackingPeriod() (time.Duration, error) {
	d, err := time.ParseDuration(c.Tracking.Period)
	if err != nil {
		return 0, fmt.Errorf("tracking.period: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tracking.period must be positive, got %s", d)
	}
	return d, nil
}

// ClearRGBA resolves ClearColor, falling back to white for unknown names.
func (c *Config) ClearRGBA() [4]float32 {
	rgba, err := namedColor(c.ClearColor)
	if err != nil {
		return rgbaFloats(colornames.White)
	}
	return rgba
}

// GridRGBA resolves Grid.Color, falling back to dark gray for unknown names.
func (c *Config) GridRGBA() [4]float32 {
	rgba, err := namedColor(c.Grid.Color)
	if err != nil {
		return rgbaFloats(colornames.Darkgray)
	}
	return rgba
}

func namedColor(name string) ([4]float32, error) {
	col, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return [4]float32{}, fmt.Errorf("unknown color name %q", name)
	}
	return rgbaFloats(col), nil
}

func rgbaFloats(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
