// Command psddump inspects Adobe Photoshop (PSD) files from the command
// line.
//
// Usage:
//
//	psddump info <input.psd>              Display document metadata
//	psddump preview [options] <input.psd> Write a PNG of the flattened composite
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/deepteams/psd"
	"github.com/deepteams/psd/internal/layer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "psddump: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "psddump: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  psddump info <input.psd>              Display document metadata
  psddump preview [options] <input.psd> Write a PNG of the flattened composite

Use "-" as input to read from stdin.

Run "psddump <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path. If path is "-",
// stdin is returned (caller should not close).
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: psddump info <input.psd>")
	}
	inputPath := args[0]

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	doc, err := psd.Decode(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	fmt.Printf("File:       %s\n", name)
	fmt.Printf("Dimensions: %d x %d\n", doc.Width(), doc.Height())
	fmt.Printf("Depth:      %d bits/channel\n", doc.Depth())
	fmt.Printf("Color mode: %s\n", doc.ColorMode())
	fmt.Printf("Compression: %v\n", doc.Compression())
	fmt.Printf("Layers:     %d\n", doc.Layers().Len())
	fmt.Printf("Groups:     %d\n", len(doc.GroupIDsInOrder()))

	if res := doc.Resources(); res.Slices != nil {
		switch {
		case res.Slices.V6 != nil:
			fmt.Printf("Slices:     %q (%d slices, v6)\n", res.Slices.V6.Name, len(res.Slices.V6.Blocks))
		default:
			fmt.Printf("Slices:     present (descriptor-based, version %d)\n", res.Slices.Version)
		}
	}

	for i := 0; i < doc.Layers().Len(); i++ {
		l := doc.Layers().At(i)
		vis := "hidden"
		if l.Visible {
			vis = "visible"
		}
		fmt.Printf("  layer %2d: %-20q %4dx%-4d blend=%-12v opacity=%-3d %s\n",
			i, l.Name, l.Width(), l.Height(), l.BlendMode, l.Opacity, vis)
	}

	if inputPath != "-" {
		if fi, err := os.Stat(inputPath); err == nil {
			fmt.Printf("File size:  %d bytes\n", fi.Size())
		}
	}

	return nil
}

// --- preview ---

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)
	maxWidth := fs.Int("w", 0, "downscale to this max width (0=no downscale)")
	layersOnly := fs.Bool("layers", false, "composite visible layers instead of the baked-in preview")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("preview: missing input file\nUsage: psddump preview [options] <input.psd>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	doc, err := psd.Decode(in)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	var rgba []byte
	if *layersOnly {
		rgba, err = doc.FlattenLayers(func(_ int, l *layer.Layer) bool { return l.Visible })
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	} else {
		rgba = doc.RGBA()
	}

	img := &image.NRGBA{
		Pix:    rgba,
		Stride: doc.Width() * 4,
		Rect:   image.Rect(0, 0, doc.Width(), doc.Height()),
	}

	var out image.Image = img
	if *maxWidth > 0 && doc.Width() > *maxWidth {
		scale := float64(*maxWidth) / float64(doc.Width())
		h := int(float64(doc.Height()) * scale)
		if h < 1 {
			h = 1
		}
		dst := image.NewNRGBA(image.Rect(0, 0, *maxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		out = dst
	}

	outputPath := *output
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.png"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".png"
		}
	}

	if outputPath == "-" {
		return png.Encode(os.Stdout, out)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		os.Remove(outputPath)
		return fmt.Errorf("preview: encoding PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %s → %s\n", inputPath, outputPath)
	return nil
}
