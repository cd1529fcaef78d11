package main

import (
	"flag"
	"fmt"

	"postfx/libio"
)

type previewArgs struct {
	commonArgs
	gamma float64
	scale float64
}

func createPreviewCommand() *command {
	args := previewArgs{
		commonArgs: commonArgs{
			ext: ".png",
		},
		gamma: 1.0,
		scale: 1.0,
	}

	flags := flag.NewFlagSet("preview", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	flags.Float64Var(&args.gamma, "gamma", args.gamma, "gamma correction value")
	flags.Float64Var(&args.scale, "scale", args.scale, "brightness scale factor")

	return &command{
		Name: "preview",
		Help: "render lookup tables to png strips",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 || args.gamma <= 0 {
				printCommandUsage(self, " file-glob...")
			}
			setCommonArgs(&args.commonArgs)

			processFiles("Rendered", gatherInputFiles(self.Flags.Args()), func(p string) error {
				return previewFile(args, p)
			})
		},
		Flags: flags,
	}
}

func previewFile(args previewArgs, p string) error {
	cube, err := libio.OpenCube(p)
	if err != nil {
		return err
	}

	outFile, err := createFile(outputPath(p))
	if err != nil {
		return err
	}
	defer close(outFile)

	if err := libio.EncodePNG(outFile, cubeStrip(cube), float32(args.gamma), float32(args.scale)); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}

// cubeStrip lays the blue slices of cube side by side. Within a slice red grows to
// the right and green grows upwards.
func cubeStrip(cube *libio.Cube) *libio.FloatImage {
	n := cube.Size
	width, height := n*n, n
	img := libio.NewFloatImage(make([]float32, width*height*3), 3, width, height)
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				c := cube.At(r, g, b)
				i := img.Index(b*n+r, g)
				img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c[0], c[1], c[2]
			}
		}
	}
	return img
}
