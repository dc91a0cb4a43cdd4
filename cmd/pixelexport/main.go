// Command pixelexport renders PixelForge projects to PNG, or converts an
// image into a single-layer project.
//
//	pixelexport -in art.json -out art.png -scale 8
//	pixelexport -outdir png/ -scale 4 a.json b.json c.json
//	pixelexport -in photo.jpg -out photo.json -width 64 -height 64
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pimage "pixelforge/internal/image"
	"pixelforge/internal/logger"
	"pixelforge/internal/project"
	"pixelforge/internal/version"
	"pixelforge/pkg/colorutil"
)

type options struct {
	scale  int
	bg     *colorutil.Color // nil keeps each project's own background
	width  int
	height int
}

func main() {
	in := flag.String("in", "", "Project file (.json) or image to convert")
	out := flag.String("out", "", "Output PNG, or project file when -in is an image")
	outDir := flag.String("outdir", "", "Directory for batch export of the project arguments")
	scale := flag.Int("scale", 1, "Screen pixels per cell when writing PNG")
	bg := flag.String("bg", "", "Override background colour (#RRGGBB, name, or transparent)")
	width := flag.Int("width", project.DefaultWidth, "Canvas width when converting an image")
	height := flag.Int("height", project.DefaultHeight, "Canvas height when converting an image")
	verbose := flag.Bool("v", false, "Debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pixelexport %s (%s, %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	batch := flag.NArg() > 0
	if (!batch && (*in == "" || *out == "")) || (batch && *outDir == "") {
		fmt.Println("Usage: pixelexport -in <project.json|image> -out <file> [-scale 1] [-bg color] [-width 128 -height 128]")
		fmt.Println("       pixelexport -outdir <dir> [-scale 1] [-bg color] project.json...")
		os.Exit(1)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(level, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	opts := options{scale: *scale, width: *width, height: *height}
	if *bg != "" {
		c, err := colorutil.Parse(*bg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pixelexport: %v\n", err)
			os.Exit(1)
		}
		opts.bg = &c
	}

	switch {
	case batch:
		err = exportAll(log, flag.Args(), *outDir, opts)
	case pimage.IsSupportedFormat(*in):
		err = convertImage(log, *in, *out, opts)
	default:
		err = renderProject(log, *in, *out, opts, true)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pixelexport: %v\n", err)
		os.Exit(1)
	}
}

// exportAll renders every project into dir concurrently, one PNG per
// project named after the input file.
func exportAll(log *zap.Logger, inputs []string, dir string, opts options) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, in := range inputs {
		in := in
		out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".png")
		g.Go(func() error {
			if err := renderProject(log, in, out, opts, false); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func renderProject(log *zap.Logger, in, out string, opts options, summary bool) error {
	if opts.scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", opts.scale)
	}
	p, err := project.Load(in)
	if err != nil {
		return err
	}
	if opts.bg != nil {
		p.Background = *opts.bg
	}

	if summary {
		fmt.Printf("Project %q: %dx%d, %d layers\n", p.Name, p.Width, p.Height, len(p.Layers))
		fmt.Printf("%-24s %8s %7s %7s %8s\n", "Layer", "Pixels", "Visible", "Locked", "Opacity")
		for _, l := range p.Layers {
			fmt.Printf("%-24s %8d %7v %7v %7d%%\n", l.Name, l.Pixels.Len(), l.Visible, l.Locked, l.Opacity)
		}
	}

	if err := p.WritePNG(out, opts.scale); err != nil {
		return err
	}
	log.Info("exported", zap.String("in", in), zap.String("out", out), zap.Int("scale", opts.scale))
	return nil
}

func convertImage(log *zap.Logger, in, out string, opts options) error {
	if opts.width < 1 || opts.height < 1 || opts.width > project.MaxSize || opts.height > project.MaxSize {
		return fmt.Errorf("invalid canvas size %dx%d", opts.width, opts.height)
	}
	m, err := pimage.Load(in, opts.width, opts.height)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	p := project.New(name)
	p.Width, p.Height = opts.width, opts.height
	p.Layers[0].Pixels = m
	if opts.bg != nil {
		p.Background = *opts.bg
	}

	if err := p.Save(out); err != nil {
		return err
	}
	fmt.Printf("Converted %s to %dx%d project with %d pixels\n", in, opts.width, opts.height, m.Len())
	log.Info("converted", zap.String("in", in), zap.String("out", out))
	return nil
}
