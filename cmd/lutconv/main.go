package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

type commonArgs struct {
	out     string
	quiet   bool
	supress bool
	ext     string
	suffix  string
}

var cargs *commonArgs

type command struct {
	Run   func(self *command)
	Name  string
	Help  string
	Flags *flag.FlagSet
}

var commands = []*command{}

func printGeneralUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [arguments]\n\n", exe)
	fmt.Fprintf(os.Stderr, "The commands are:\n\n")
	longest := slices.MaxFunc(commands, func(a, b *command) int {
		return len(a.Name) - len(b.Name)
	})
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "    %*s%s\n", -len(longest.Name)-4, c.Name, c.Help)
	}
	fmt.Fprintln(os.Stderr, "")
	os.Exit(1)
}

func printCommandUsage(cmd *command, suffix string) {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s %s [arguments]%s\n\n", exe, cmd.Name, suffix)
	fmt.Fprintf(os.Stderr, "The arguments are:\n\n")
	cmd.Flags.SetOutput(os.Stderr)
	cmd.Flags.PrintDefaults()
	os.Exit(1)
}

func main() {
	commands = append(commands, createIdentityCommand())
	commands = append(commands, createCompressCommand())
	commands = append(commands, createPreviewCommand())

	slices.SortFunc(commands, func(a, b *command) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(os.Args) < 2 {
		printGeneralUsage()
	}

	var cmd *command
	for _, c := range commands {
		if strings.EqualFold(c.Name, os.Args[1]) {
			cmd = c
			break
		}
	}
	if cmd == nil {
		printGeneralUsage()
	}

	err := cmd.Flags.Parse(os.Args[2:])
	harderr(err)

	cmd.Run(cmd)
}

func registerCommonFlags(flags *flag.FlagSet, args *commonArgs) {
	flags.StringVar(&args.out, "out", args.out, "the output directory")
	flags.StringVar(&args.out, "o", args.out, "shorthand for out")
	flags.BoolVar(&args.quiet, "quiet", args.quiet, "disables informational logging")
	flags.BoolVar(&args.quiet, "q", args.quiet, "shorthand for quiet")
	flags.BoolVar(&args.supress, "supress", args.supress, "disables soft error logging")
	flags.StringVar(&args.ext, "ext", args.ext, "the result file extension")
	flags.StringVar(&args.suffix, "suffix", args.suffix, "the result file suffix")
}

func setCommonArgs(args *commonArgs) {
	cargs = args
	if args.out == "" {
		var err error
		args.out, err = os.Getwd()
		harderr(err)
	}

	_, err := os.Stat(args.out)
	if err != nil {
		harderr(fmt.Errorf("cannot stat output directory: %w", err))
	}
}

func gatherInputFiles(globs []string) []string {
	matched := []string{}

	for _, g := range globs {
		m, err := filepath.Glob(g)
		softerr(err)
		matched = append(matched, m...)
	}

	return matched
}

// processFiles runs process for every input and reports progress unless quiet.
func processFiles(verb string, inputFiles []string, process func(p string) error) {
	success := 0
	start := time.Now()
	for i, p := range inputFiles {
		if !cargs.quiet {
			fmt.Printf("Processing file %d/%d %q ...\n", i+1, len(inputFiles), filepath.ToSlash(filepath.Clean(p)))
		}
		err := process(p)
		softerr(err)
		if err == nil {
			success++
		}
	}
	if !cargs.quiet {
		took := float32(time.Since(start).Milliseconds()) / 1000
		fmt.Printf("%s %d/%d files in %.3f seconds\n", verb, success, len(inputFiles), took)
	}
}

// outputPath replaces the extension of p (including a trailing .lz4) with the configured suffix and ext.
func outputPath(p string) string {
	base := strings.TrimSuffix(filepath.Base(p), ".lz4")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cargs.out, base+cargs.suffix+cargs.ext)
}

func createFile(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
}

func close(closer io.Closer) {
	closer.Close()
}

func softerr(err error) bool {
	if err != nil && !cargs.supress {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true
	}
	return false
}

func harderr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
