// Command graypix compresses and decompresses raw 8-bit grayscale images.
//
// Usage:
//
//	graypix -c -i in.raw -o out.gpx -w 256 [-m] [-a | -static]
//	graypix -d -i out.gpx -o back.raw [-m] [-a | -static]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixelcodecs/graypix"
	"github.com/pixelcodecs/graypix/internal/rawimage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "graypix: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("graypix", flag.ContinueOnError)
	compress := fs.Bool("c", false, "compress the input")
	decompress := fs.Bool("d", false, "decompress the input")
	model := fs.Bool("m", false, "enable neighbour-difference preprocessing")
	adaptiveBlocks := fs.Bool("a", false, "enable adaptive block scanning")
	static := fs.Bool("static", false, "use the static two-pass Huffman coder")
	input := fs.String("i", "", "input file path")
	output := fs.String("o", "", "output file path")
	width := fs.Int("w", 0, "image width in pixels (required with -c)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: graypix -c|-d -i PATH -o PATH -w N [-m] [-a | -static]

  -c            compress
  -d            decompress
  -m            enable preprocessing model
  -a            adaptive block scanning (adaptive-blocks mode)
  -static       static two-pass Huffman mode
  -i PATH       input file (must exist and be a regular file)
  -o PATH       output file (parent directory must exist)
  -w N          image width, integer >= 1 (required with -c)

Without -a and without -static, adaptive (non-block) mode is used.
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *compress == *decompress {
		return graypix.NewInvalidArgument("exactly one of -c or -d is required")
	}
	if *adaptiveBlocks && *static {
		return graypix.NewInvalidArgument("-a and -static are mutually exclusive")
	}
	if *input == "" || *output == "" {
		return graypix.NewInvalidArgument("-i and -o are required")
	}
	if err := validatePaths(*input, *output); err != nil {
		return err
	}

	mode := graypix.Adaptive
	switch {
	case *adaptiveBlocks:
		mode = graypix.AdaptiveBlocks
	case *static:
		mode = graypix.Static
	}
	opts := graypix.Options{Mode: mode, Model: *model}

	if *compress {
		return runCompress(*input, *output, *width, opts)
	}
	return runDecompress(*input, *output, opts)
}

// validatePaths enforces spec.md 6's CLI-layer file checks: -i must name
// an existing regular file, and -o's parent directory must exist.
func validatePaths(input, output string) error {
	info, err := os.Stat(input)
	if err != nil {
		return graypix.NewInvalidArgument(fmt.Sprintf("-i %s: %v", input, err))
	}
	if !info.Mode().IsRegular() {
		return graypix.NewInvalidArgument(fmt.Sprintf("-i %s: not a regular file", input))
	}
	parent := filepath.Dir(output)
	if parentInfo, err := os.Stat(parent); err != nil || !parentInfo.IsDir() {
		return graypix.NewInvalidArgument(fmt.Sprintf("-o %s: parent directory %s does not exist", output, parent))
	}
	return nil
}

func runCompress(input, output string, width int, opts graypix.Options) error {
	if width < 1 {
		return graypix.NewInvalidArgument("-w must be >= 1 when compressing")
	}
	img, err := rawimage.Read(input, width)
	if err != nil {
		return graypix.NewIoError(fmt.Sprintf("reading %s", input), err)
	}
	stream, err := graypix.Encode(img.Pixels, img.Width, img.Height, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, stream, 0o644); err != nil {
		return graypix.NewIoError(fmt.Sprintf("writing %s", output), err)
	}
	return nil
}

func runDecompress(input, output string, opts graypix.Options) error {
	stream, err := os.ReadFile(input)
	if err != nil {
		return graypix.NewIoError(fmt.Sprintf("reading %s", input), err)
	}
	pixels, _, _, err := graypix.Decode(stream, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, pixels, 0o644); err != nil {
		return graypix.NewIoError(fmt.Sprintf("writing %s", output), err)
	}
	return nil
}
