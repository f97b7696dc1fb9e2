package scene

import "github.com/charmbracelet/harmonica"

// Spin is the preview's rotation about Y. Its velocity decays back to zero
// on a critically damped spring.
type Spin struct {
	Angle    float32
	Velocity float64

	fps    int
	spring harmonica.Spring
	accel  float64 // spring's own velocity while easing Velocity to 0
}

// NewSpin creates a resting spin updated fps times per second.
func NewSpin(fps int) *Spin {
	return &Spin{
		fps: fps,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances one frame: the angle moves by the current velocity, then
// the velocity eases toward zero.
func (s *Spin) Update() {
	s.Angle += float32(s.Velocity)
	s.Velocity, s.accel = s.spring.Update(s.Velocity, s.accel, 0)
}

// Impulse adds v radians per frame to the velocity.
func (s *Spin) Impulse(v float64) {
	s.Velocity += v
}

// Reset stops the spin and returns to angle zero.
func (s *Spin) Reset() {
	*s = *NewSpin(s.fps)
}

// Resting reports whether the spin has effectively stopped.
func (s *Spin) Resting() bool {
	return s.Velocity < 1e-4 && s.Velocity > -1e-4
}
