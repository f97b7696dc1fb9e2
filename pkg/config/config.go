// Package config holds the scene and output settings for an etch render.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/taigrr/etch/pkg/math3d"
	"github.com/taigrr/etch/pkg/render"
	"gopkg.in/yaml.v3"
)

// Config holds all scene and output settings.
// Zero values are filled from Default by Resolve.
type Config struct {
	// Input
	Model  string       `yaml:"model"`
	Sphere SphereConfig `yaml:"sphere"`

	// Output
	Output     string `yaml:"output"`
	Format     string `yaml:"format"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Scale      int    `yaml:"scale"`
	Background RGB    `yaml:"background"`
	Wireframe  bool   `yaml:"wireframe"`
	Cull       *bool  `yaml:"cull"` // back-face culling, on unless set false

	// Projection
	FOV  float32 `yaml:"fov"` // Vertical, degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	// Scene
	Light        math3d.Vec3 `yaml:"light"`
	ViewDir      math3d.Vec3 `yaml:"view_dir"`
	RotationAxis math3d.Vec3 `yaml:"rotation_axis"`
	TargetSize   float32     `yaml:"target_size"`
	Grid         GridConfig  `yaml:"grid"`
	Seed         uint64      `yaml:"seed"` // 0 picks a random seed
}

// SphereConfig describes the fallback UV sphere.
type SphereConfig struct {
	Lat    int     `yaml:"lat"`
	Lon    int     `yaml:"lon"`
	Radius float32 `yaml:"radius"`
}

// GridConfig lays out the instances on a square grid facing the camera.
type GridConfig struct {
	Radius  *int    `yaml:"radius"` // pointer to distinguish unset vs a single instance
	Spacing float32 `yaml:"spacing"`
	Depth   float32 `yaml:"depth"`
}

// Default returns the stock scene: a 3x3 grid of
// randomly rotated models, 800x600, 45° field of view.
func Default() Config {
	radius := 1
	cull := true
	return Config{
		Model: "models/deer.obj",
		Sphere: SphereConfig{
			Lat:    20,
			Lon:    20,
			Radius: 1.5,
		},
		Output:       "-",
		Width:        800,
		Height:       600,
		Scale:        1,
		Background:   RGB{0, 0, 0},
		Cull:         &cull,
		FOV:          45,
		Near:         0.1,
		Far:          100,
		Light:        math3d.V3(0.1, 0.1, -1),
		ViewDir:      math3d.V3(0, 0, 1),
		RotationAxis: math3d.V3(1, 1, 1),
		TargetSize:   10,
		Grid: GridConfig{
			Radius:  &radius,
			Spacing: 8,
			Depth:   -30,
		},
	}
}

// Load reads a YAML config file.
// Fields not set in the file keep their zero values; unknown keys are an
// error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values and nil pointers leave the file's setting alone.
type Flags struct {
	Model      string
	Output     string
	Format     string
	Width      int
	Height     int
	FOV        float64
	Seed       uint64
	Scale      int
	Wireframe  bool
	NoCull     bool
	Background *RGB
}

// Resolve applies flag overrides, then fills any empty fields with
// defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.FOV > 0 {
		c.FOV = float32(flags.FOV)
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Wireframe {
		c.Wireframe = true
	}
	if flags.NoCull {
		cull := false
		c.Cull = &cull
	}
	if flags.Background != nil {
		c.Background = *flags.Background
	}

	// Defaults
	def := Default()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.Sphere.Lat <= 0 {
		c.Sphere.Lat = def.Sphere.Lat
	}
	if c.Sphere.Lon <= 0 {
		c.Sphere.Lon = def.Sphere.Lon
	}
	if c.Sphere.Radius <= 0 {
		c.Sphere.Radius = def.Sphere.Radius
	}
	if c.Cull == nil {
		c.Cull = def.Cull
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Format == "" {
		c.Format = string(render.FormatFromPath(c.Output))
	}
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.Scale <= 0 {
		c.Scale = def.Scale
	}
	if c.FOV == 0 {
		c.FOV = def.FOV
	}
	if c.Near == 0 {
		c.Near = def.Near
	}
	if c.Far == 0 {
		c.Far = def.Far
	}
	if c.Light == math3d.Zero3() {
		c.Light = def.Light
	}
	if c.ViewDir == math3d.Zero3() {
		c.ViewDir = def.ViewDir
	}
	if c.RotationAxis == math3d.Zero3() {
		c.RotationAxis = def.RotationAxis
	}
	if c.TargetSize <= 0 {
		c.TargetSize = def.TargetSize
	}
	if c.Grid.Radius == nil {
		c.Grid.Radius = def.Grid.Radius
	}
	if c.Grid.Spacing == 0 {
		c.Grid.Spacing = def.Grid.Spacing
	}
	if c.Grid.Depth == 0 {
		c.Grid.Depth = def.Grid.Depth
	}
}

// Validate reports settings that cannot produce an image.
// Call it after Resolve.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180) degrees, got %v", c.FOV))
	}
	if c.Near <= 0 || c.Far <= c.Near {
		errs = append(errs, fmt.Errorf("clip planes must satisfy 0 < near < far, got near=%v far=%v", c.Near, c.Far))
	}
	if c.Scale < 1 {
		errs = append(errs, fmt.Errorf("scale must be at least 1, got %d", c.Scale))
	} else if c.Width > render.MaxImageSide/c.Scale || c.Height > render.MaxImageSide/c.Scale {
		errs = append(errs, fmt.Errorf("scaled image exceeds %d pixels per side: %dx%d at scale %d",
			render.MaxImageSide, c.Width, c.Height, c.Scale))
	}
	if _, err := render.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Grid.Radius == nil || *c.Grid.Radius < 0 {
		errs = append(errs, errors.New("grid radius must be zero or positive"))
	}
	if c.RotationAxis.LenSq() == 0 {
		errs = append(errs, errors.New("rotation axis must be non-zero"))
	}
	if c.Light.LenSq() == 0 {
		errs = append(errs, errors.New("light direction must be non-zero"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Culling reports whether back faces are dropped.
func (c *Config) Culling() bool {
	return c.Cull == nil || *c.Cull
}

// FOVRadians returns the vertical field of view in radians.
func (c *Config) FOVRadians() float32 {
	return c.FOV * math32.Pi / 180
}

// RGB is an 8-bit color written as "R,G,B" in flags and YAML.
type RGB [3]uint8

// ParseRGB parses "R,G,B" with each channel in 0-255.
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("color %q: want R,G,B", s)
	}

	var c RGB
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("color %q: %w", s, err)
		}
		c[i] = uint8(n)
	}
	return c, nil
}

// String implements flag.Value.
func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c[0], c[1], c[2])
}

// Set implements flag.Value.
func (c *RGB) Set(s string) error {
	parsed, err := ParseRGB(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML accepts "R,G,B" strings as well as [R, G, B] sequences.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return c.Set(value.Value)
	}

	var seq [3]uint8
	if err := value.Decode(&seq); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	*c = seq
	return nil
}

// Color returns the color as an opaque render color.
func (c RGB) Color() render.Color {
	return render.RGB(c[0], c[1], c[2])
}
