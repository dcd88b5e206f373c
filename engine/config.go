package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/math"
)

const (
	minCanvasSize uint32 = 1
	// Browsers refuse canvases beyond this edge length.
	maxCanvasSize uint32 = 16384
)

type ApplicationConfig struct {
	// The application name used in windowing and logs.
	Name string `toml:"name"`
	// Id of the canvas element to attach to, if applicable.
	CanvasID string `toml:"canvas_id"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Canvas starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Canvas starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// One of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// Dispatch mousemove even when no button is held.
	SupportMouseMove bool `toml:"support_mouse_move"`
	// Keep frame-time and FPS statistics.
	EnableMetrics bool `toml:"enable_metrics"`
}

func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:          "Canvas Application",
		CanvasID:      "canvas",
		StartPosX:     100,
		StartPosY:     100,
		StartWidth:    800,
		StartHeight:   600,
		LogLevel:      core.InfoLevel.String(),
		EnableMetrics: true,
	}
}

// ParseConfig decodes TOML on top of DefaultConfig, so missing keys keep
// their defaults.
func ParseConfig(data []byte) (*ApplicationConfig, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadConfig reads and decodes the TOML file at path.
func LoadConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Level returns the parsed log level.
func (c *ApplicationConfig) Level() core.LogLevel {
	return core.ParseLogLevel(c.LogLevel)
}

func (c *ApplicationConfig) normalize() {
	c.StartWidth = math.Clamp(c.StartWidth, minCanvasSize, maxCanvasSize)
	c.StartHeight = math.Clamp(c.StartHeight, minCanvasSize, maxCanvasSize)
	if c.CanvasID == "" {
		c.CanvasID = "canvas"
	}
}
