// etch - offline software rasterizer
// Draws a grid of randomly rotated copies of a mesh with flat shading and
// writes the frame as a plain-text PPM (P3) image.
//
// Usage:
//
//	etch [options] [model.obj|model.glb]
//
// With no model, or one that cannot be loaded, a UV sphere is drawn
// instead. Output goes to stdout unless -o names a file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/etch/pkg/config"
	"github.com/taigrr/etch/pkg/render"
	"github.com/taigrr/etch/pkg/scene"
	"golang.org/x/term"
)

// defaultConfig is read from the working directory when -config is not set.
const defaultConfig = "etch.yaml"

var (
	configPath = flag.String("config", "", "YAML config file (default ./"+defaultConfig+" if present)")
	modelPath  = flag.String("model", "", "Model to draw (.obj, .glb, .gltf)")
	outPath    = flag.String("o", "", "Output file, - for stdout (default -)")
	format     = flag.String("format", "", "Output format: ppm, png, webp, tga (default from -o extension)")
	width      = flag.Int("width", 0, "Image width in pixels (default 800)")
	height     = flag.Int("height", 0, "Image height in pixels (default 600)")
	fov        = flag.Float64("fov", 0, "Vertical field of view in degrees (default 45)")
	seed       = flag.Uint64("seed", 0, "Random seed for instance rotations (default random)")
	scale      = flag.Int("scale", 0, "Integer upscale for raster formats (default 1)")
	wireframe  = flag.Bool("wireframe", false, "Draw triangle outlines only")
	noCull     = flag.Bool("no-cull", false, "Draw back faces too")
	progress   = flag.Bool("progress", false, "Show a progress bar on stderr")
	preview    = flag.Bool("preview", false, "Show the scene in the terminal instead of writing an image")
	verbose    = flag.Bool("v", false, "Verbose logging")
)

func main() {
	var bg config.RGB
	flag.Var(&bg, "bg", "Background color R,G,B (default 0,0,0)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "etch - offline software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: etch [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPreview controls:\n")
		fmt.Fprintf(os.Stderr, "  A/D, Left/Right - Spin\n")
		fmt.Fprintf(os.Stderr, "  Space           - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R               - Reset spin\n")
		fmt.Fprintf(os.Stderr, "  X               - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  Esc, Q          - Quit\n")
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	flags := config.Flags{
		Model:     *modelPath,
		Output:    *outPath,
		Format:    *format,
		Width:     *width,
		Height:    *height,
		FOV:       *fov,
		Seed:      *seed,
		Scale:     *scale,
		Wireframe: *wireframe,
		NoCull:    *noCull,
	}
	if flags.Model == "" {
		flags.Model = flag.Arg(0)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "bg" {
			flags.Background = &bg
		}
	})

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags config.Flags) error {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configPath, log)
	if err != nil {
		return err
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	rng, usedSeed := scene.NewRand(cfg.Seed)
	log.Debug("scene",
		"seed", usedSeed,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"fov", cfg.FOV,
		"grid_radius", *cfg.Grid.Radius,
	)

	mesh := scene.PrepareMesh(cfg, log)
	instances := scene.Instances(cfg, rng)

	if *preview {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runPreview(ctx, cfg, mesh, instances)
	}

	outFormat, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	toStdout := cfg.Output == "-"
	if toStdout && outFormat.Binary() && term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("refusing to write %s to a terminal (use -o)", outFormat)
	}

	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	fb.Clear(cfg.Background.Color())
	renderer := scene.NewRenderer(cfg, fb)

	var onInstance func()
	if *progress {
		bar := progressbar.Default(int64(len(instances)), "rendering")
		defer bar.Close()
		onInstance = func() { bar.Add(1) }
	}

	start := time.Now()
	renderer.Render(mesh, instances, 0, onInstance)
	stats := renderer.Rasterizer.Stats
	log.Info("rendered",
		"model", mesh.Name,
		"instances", len(instances),
		"skipped", renderer.Skipped,
		"triangles", stats.Tested,
		"drawn", stats.Drawn,
		"culled", stats.Culled,
		"rejected", stats.Rejected,
		"elapsed", time.Since(start).Round(time.Microsecond),
	)

	if toStdout {
		if err := writeImage(os.Stdout, fb, outFormat, cfg.Scale); err != nil {
			return err
		}
		if outFormat == render.FormatPPM {
			// Terminate the last line for shells and pipes
			_, err := fmt.Fprintln(os.Stdout)
			return err
		}
		return nil
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeImage(f, fb, outFormat, cfg.Scale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Info("wrote image", "path", cfg.Output, "format", outFormat)
	return nil
}

// loadConfig reads the named config file. With no name it tries
// defaultConfig and falls back to an empty config if that is absent or
// broken.
func loadConfig(path string, log *slog.Logger) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	cfg, err := config.Load(defaultConfig)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("ignoring config", "path", defaultConfig, "error", err)
		}
		return config.Config{}, nil
	}
	log.Debug("loaded config", "path", defaultConfig)
	return cfg, nil
}

func writeImage(w io.Writer, fb *render.Framebuffer, format render.Format, scale int) error {
	if err := fb.Encode(w, format, scale); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
