package main

import (
	"os"
	"path/filepath"
	"testing"

	"postfx/effects"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != 1280 || cfg.Effects.Bloom.Passes != effects.DefaultPasses {
		t.Errorf("missing file should give the defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	data := `
window:
  width: 800
  height: 600
effects:
  active: bloom
  bloom:
    threshold: 0.5
    passes: 3
scene:
  lighting: 4
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Effects.Active != "bloom" || cfg.Effects.Bloom.Threshold != 0.5 || cfg.Effects.Bloom.Passes != 3 {
		t.Errorf("effects = %+v", cfg.Effects)
	}
	// keys not in the file keep their defaults
	if cfg.Effects.Bloom.Downscale != effects.DefaultDownscale || !cfg.Window.VSync {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Scene.Lighting != lightingBloom {
		t.Errorf("lighting = %d", cfg.Scene.Lighting)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":   "window: [",
		"effect":   "effects:\n  active: vignette\n",
		"lighting": "scene:\n  lighting: 9\n",
		"size":     "window:\n  width: 0\n",
	}
	for name, data := range cases {
		path := filepath.Join(t.TempDir(), name+".yaml")
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Effects.Active = "sepia"
	cfg.Effects.Sepia.Intensity = 0.3
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Effects.Active != "sepia" || loaded.Effects.Sepia.Intensity != 0.3 {
		t.Errorf("loaded = %+v", loaded.Effects)
	}
}
