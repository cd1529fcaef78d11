package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postfx/effects"
	"postfx/effects/glfx"
	"postfx/libgl"
	"postfx/libio"
)

// captureEffect writes every target of e as a tonemapped png and a float dump into cfg.Dir.
func captureEffect(cfg CaptureConfig, e *effects.Effect) error {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return fmt.Errorf("capture dir: %w", err)
	}
	compression := libio.FloatImageCompressionNone
	if cfg.Compress {
		compression = libio.FloatImageCompressionFixedPoint16Lz4
	}

	prefix := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), captureName(e.Kind()))
	for i, target := range effects.Targets(e) {
		if target == nil {
			continue
		}
		fbo := glfx.Framebuffer(target)
		if fbo == nil {
			log.Printf("capture: target %d of %v is empty, skipping", i, e.Kind())
			continue
		}
		dump, err := libgl.ReadColorAttachment(fbo, 0)
		if err != nil {
			return fmt.Errorf("capture target %d: %w", i, err)
		}
		img := libio.NewFloatImage(dump.Data, 4, dump.Width, dump.Height)
		base := filepath.Join(cfg.Dir, fmt.Sprintf("%s_%d", prefix, i))

		if err := writeFile(base+".png", func(f *os.File) error {
			return libio.EncodePNG(f, img, 1, 1)
		}); err != nil {
			return err
		}
		if err := writeFile(base+".f32", func(f *os.File) error {
			return libio.EncodeFloatImage(f, img, compression)
		}); err != nil {
			return err
		}
		log.Printf("captured %s (%dx%d)", base, dump.Width, dump.Height)
	}
	return nil
}

func captureName(kind effects.Kind) string {
	return strings.ReplaceAll(strings.ToLower(kind.String()), " ", "_")
}

func writeFile(path string, write func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}
	return nil
}
