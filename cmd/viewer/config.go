package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"postfx/effects"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Effects EffectsConfig `yaml:"effects"`
	Scene   SceneConfig   `yaml:"scene"`
	Capture CaptureConfig `yaml:"capture"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
	Title  string `yaml:"title"`
}

type EffectsConfig struct {
	// one of none, sepia, greyscale, color_correct, bloom
	Active    string      `yaml:"active"`
	Sepia     ToneConfig  `yaml:"sepia"`
	Greyscale ToneConfig  `yaml:"greyscale"`
	Lut       string      `yaml:"lut"`
	Bloom     BloomConfig `yaml:"bloom"`
}

type ToneConfig struct {
	Intensity float32 `yaml:"intensity"`
}

type BloomConfig struct {
	Downscale float32 `yaml:"downscale"`
	Threshold float32 `yaml:"threshold"`
	Passes    uint    `yaml:"passes"`
}

type SceneConfig struct {
	// 0 unlit, 1 ambient, 2 specular, 3 full, 4 full with bloom
	Lighting int  `yaml:"lighting"`
	Textured bool `yaml:"textured"`
}

type CaptureConfig struct {
	Dir string `yaml:"dir"`
	// lz4 compress the float dumps
	Compress bool `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			Title:  "postfx",
		},
		Effects: EffectsConfig{
			Active:    "none",
			Sepia:     ToneConfig{Intensity: effects.DefaultIntensity},
			Greyscale: ToneConfig{Intensity: effects.DefaultIntensity},
			Bloom: BloomConfig{
				Downscale: effects.DefaultDownscale,
				Threshold: effects.DefaultThreshold,
				Passes:    effects.DefaultPasses,
			},
		},
		Scene: SceneConfig{
			Lighting: lightingFull,
			Textured: true,
		},
		Capture: CaptureConfig{
			Dir:      "captures",
			Compress: true,
		},
	}
}

// LoadConfig reads path on top of the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if _, err := effects.ParseKind(cfg.Effects.Active); err != nil {
		return err
	}
	if cfg.Scene.Lighting < lightingNone || cfg.Scene.Lighting > lightingBloom {
		return fmt.Errorf("lighting mode %d", cfg.Scene.Lighting)
	}
	return nil
}

// Save writes the config as yaml, used to persist the UI state.
func (cfg *Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
