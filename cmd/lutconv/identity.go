package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"postfx/libio"
)

type identityArgs struct {
	commonArgs
	size  int
	title string
}

func createIdentityCommand() *command {
	args := identityArgs{
		commonArgs: commonArgs{
			ext: ".cube",
		},
		size: libio.DefaultCubeSize,
	}

	flags := flag.NewFlagSet("identity", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	flags.IntVar(&args.size, "size", args.size, fmt.Sprintf("the table resolution from %d to %d", libio.MinCubeSize, libio.MaxCubeSize))
	flags.IntVar(&args.size, "s", args.size, "shorthand for size")
	flags.StringVar(&args.title, "title", args.title, "the table title, defaults to \"identity <size>\"")

	return &command{
		Name: "identity",
		Help: "write an identity lookup table",
		Run: func(self *command) {
			if self.Flags.NArg() > 0 || args.size < libio.MinCubeSize || args.size > libio.MaxCubeSize {
				printCommandUsage(self, "")
			}
			setCommonArgs(&args.commonArgs)

			harderr(writeIdentity(args))
		},
		Flags: flags,
	}
}

func writeIdentity(args identityArgs) error {
	cube := libio.IdentityCube(args.size)
	if args.title != "" {
		cube.Title = args.title
	}

	name := filepath.Join(cargs.out, fmt.Sprintf("identity_%d%s%s", args.size, cargs.suffix, cargs.ext))
	outFile, err := createFile(name)
	if err != nil {
		return err
	}
	defer close(outFile)

	if err := libio.EncodeCube(outFile, cube); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !cargs.quiet {
		fmt.Printf("Wrote %q\n", filepath.ToSlash(name))
	}
	return nil
}
