package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/etch/pkg/config"
	"github.com/taigrr/etch/pkg/models"
	"github.com/taigrr/etch/pkg/render"
	"github.com/taigrr/etch/pkg/scene"
)

const (
	previewFPS   = 30
	spinStrength = 0.08 // radians per frame added by one key press
)

// previewState is shared between the event goroutine and the frame loop.
type previewState struct {
	mu       sync.Mutex
	spin     *scene.Spin
	fb       *render.Framebuffer
	renderer *scene.Renderer
	cols     int
	rows     int
	dirty    bool // redraw even if the spin is resting
}

func (s *previewState) resize(cols, rows int) {
	s.cols, s.rows = cols, rows
	s.fb = render.NewFramebuffer(render.TerminalSize(cols, rows))
	s.renderer.Resize(s.fb)
	s.dirty = true
}

// frame advances the spin and redraws into term. It reports false when the
// spin is resting and nothing else changed, leaving the screen as it is.
func (s *previewState) frame(term uv.Screen, mesh *models.Mesh, instances []scene.Instance, background render.Color) bool {
	s.spin.Update()
	if !s.dirty && s.spin.Resting() {
		return false
	}
	s.dirty = false

	s.fb.Clear(background)
	s.renderer.Rasterizer.ResetStats()
	s.renderer.Render(mesh, instances, s.spin.Angle, nil)
	s.fb.Draw(term, uv.Rect(0, 0, s.cols, s.rows))
	return true
}

// runPreview draws the scene into the terminal with half-block cells until
// ctx is done or the user quits. Keys spin the whole grid about Y.
func runPreview(ctx context.Context, cfg config.Config, mesh *models.Mesh, instances []scene.Instance) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	state := &previewState{spin: scene.NewSpin(previewFPS)}
	state.renderer = scene.NewRenderer(cfg, render.NewFramebuffer(1, 1))
	state.resize(cols, rows)
	background := cfg.Background.Color()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Event handler
	go func() {
		for ev := range term.Events() {
			state.mu.Lock()
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				state.resize(ev.Width, ev.Height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					cancel()
				case ev.MatchString("a", "left"):
					state.spin.Impulse(-spinStrength)
				case ev.MatchString("d", "right"):
					state.spin.Impulse(spinStrength)
				case ev.MatchString("space"):
					state.spin.Impulse((rand.Float64() - 0.5) * 1.5)
				case ev.MatchString("r"):
					state.spin.Reset()
					state.dirty = true
				case ev.MatchString("x"):
					r := state.renderer.Rasterizer
					r.Wireframe = !r.Wireframe
					state.dirty = true
				}
			}
			state.mu.Unlock()
		}
	}()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	ticker := time.NewTicker(time.Second / previewFPS)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		case <-ticker.C:
		}

		state.mu.Lock()
		var err error
		if state.frame(term, mesh, instances, background) {
			err = term.Display()
		}
		state.mu.Unlock()

		if err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}
	}
}
