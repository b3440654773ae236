package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Versifine/glide/internal/movement"
	"github.com/Versifine/glide/internal/world"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

type Config struct {
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Movement   movement.Config  `yaml:"movement" toml:"movement"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Course     CourseConfig     `yaml:"course" toml:"course"`
	HUD        HUDConfig        `yaml:"hud" toml:"hud"`
	Audio      AudioConfig      `yaml:"audio" toml:"audio"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

type SimulationConfig struct {
	TickRate    int        `yaml:"tick_rate" toml:"tick_rate"`
	Spawn       [3]float64 `yaml:"spawn" toml:"spawn"`
	InputBuffer int        `yaml:"input_buffer" toml:"input_buffer"`
}

type CourseConfig struct {
	Boxes []world.Box `yaml:"boxes" toml:"boxes"`
}

type HUDConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled" toml:"enabled"`
	SampleRate int     `yaml:"sample_rate" toml:"sample_rate"`
	Volume     float64 `yaml:"volume" toml:"volume"`
}

// Default returns a playable configuration: a straight ground strip with one
// wall on each side further down the track.
func Default() *Config {
	return &Config{
		Logging:  LoggingConfig{Level: "info", Format: "console"},
		Movement: movement.DefaultConfig(),
		Simulation: SimulationConfig{
			TickRate:    50,
			Spawn:       [3]float64{0.5, 1, 2.5},
			InputBuffer: 64,
		},
		Course: CourseConfig{Boxes: []world.Box{
			{Min: [3]int{-3, 0, 0}, Max: [3]int{3, 0, 400}, Layer: "ground"},
			{Min: [3]int{-4, 1, 40}, Max: [3]int{-4, 5, 90}, Layer: "wall"},
			{Min: [3]int{4, 1, 120}, Max: [3]int{4, 5, 170}, Layer: "wall"},
		}},
		HUD:   HUDConfig{Enabled: true},
		Audio: AudioConfig{Enabled: false, SampleRate: 44100, Volume: 0.3},
	}
}

// Load reads path on top of Default. The format follows the file extension.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Movement.Validate(); err != nil {
		return fmt.Errorf("movement: %w", err)
	}
	if c.Simulation.TickRate <= 0 || c.Simulation.TickRate > 1000 {
		return fmt.Errorf("simulation: tick_rate must be in (0, 1000], got %d", c.Simulation.TickRate)
	}
	if c.Simulation.InputBuffer < 0 {
		return fmt.Errorf("simulation: input_buffer must be >= 0, got %d", c.Simulation.InputBuffer)
	}
	if _, err := c.Course.Build(); err != nil {
		return fmt.Errorf("course: %w", err)
	}
	if c.Audio.Enabled {
		if c.Audio.SampleRate < 8000 {
			return fmt.Errorf("audio: sample_rate must be >= 8000, got %d", c.Audio.SampleRate)
		}
		if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
			return fmt.Errorf("audio: volume must be in [0, 1], got %v", c.Audio.Volume)
		}
	}
	return nil
}

// TickSeconds is the fixed step length in seconds.
func (s SimulationConfig) TickSeconds() float64 {
	return 1 / float64(s.TickRate)
}

func (s SimulationConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

func (c CourseConfig) Build() (*world.Course, error) {
	if len(c.Boxes) == 0 {
		return nil, errors.New("course has no boxes")
	}
	return world.FromBoxes(c.Boxes)
}
