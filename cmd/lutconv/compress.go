package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"postfx/libio"
)

type compressArgs struct {
	commonArgs
}

func createCompressCommand() *command {
	args := compressArgs{
		commonArgs: commonArgs{
			ext: ".cube.lz4",
		},
	}

	flags := flag.NewFlagSet("compress", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)

	return &command{
		Name: "compress",
		Help: "lz4 compress lookup tables for faster loading",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 {
				printCommandUsage(self, " file-glob...")
			}
			setCommonArgs(&args.commonArgs)

			processFiles("Compressed", gatherInputFiles(self.Flags.Args()), compressFile)
		},
		Flags: flags,
	}
}

func compressFile(p string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	// reject anything the viewer could not load
	if _, err := libio.DecodeCube(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	outFile, err := createFile(outputPath(p))
	if err != nil {
		return err
	}
	defer close(outFile)

	return libio.CompressCube(outFile, bytes.NewReader(data))
}
