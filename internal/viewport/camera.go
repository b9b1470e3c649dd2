// Package viewport maps between screen and world coordinates for the viewer
// and builds the triangle drawn for each boid.
package viewport

import (
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

const (
	PanSpeed       = 1000.0 // world units per second
	ZoomStep       = 0.1    // zoom change per wheel notch
	MinZoom        = 0.1
	MaxZoom        = 10.0
	DefaultZoom    = 0.5
	defaultDtGuess = 1.0 / 60
)

// Rect is an axis aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p geometry.Vector2D) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Camera shows Target at the center of the viewport, scaled by Zoom.
type Camera struct {
	Target    geometry.Vector2D
	Zoom      float64
	ViewportW float64
	ViewportH float64
}

// New creates a camera centered on the world.
func New(viewportW, viewportH, worldW, worldH float64) *Camera {
	return &Camera{
		Target:    geometry.Vector2D{X: worldW / 2, Y: worldH / 2},
		Zoom:      DefaultZoom,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

func (c *Camera) offset() geometry.Vector2D {
	return geometry.Vector2D{X: c.ViewportW / 2, Y: c.ViewportH / 2}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p geometry.Vector2D) geometry.Vector2D {
	return p.Sub(c.Target).Mul(c.Zoom).Add(c.offset())
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(s geometry.Vector2D) geometry.Vector2D {
	return s.Sub(c.offset()).Div(c.Zoom).Add(c.Target)
}

// Pan moves the target along dir (each axis in [-1, 1]) for dt seconds.
// A non-positive dt falls back to one frame at 60 TPS.
func (c *Camera) Pan(dir geometry.Vector2D, dt float64) {
	if !(dt > 0) {
		dt = defaultDtGuess
	}
	c.Target = c.Target.Add(dir.Mul(PanSpeed * dt))
}

// ZoomBy applies wheel notches, keeping the zoom within [MinZoom, MaxZoom].
func (c *Camera) ZoomBy(notches float64) {
	z := c.Zoom + notches*ZoomStep
	switch {
	case z < MinZoom:
		z = MinZoom
	case z > MaxZoom:
		z = MaxZoom
	}
	c.Zoom = z
}

// Resize follows the window size.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW, c.ViewportH = viewportW, viewportH
}

// PointerSample converts a cursor position to the world pointer fed to the
// flock. It returns nil when the cursor is over one of the excluded screen
// areas or falls outside the world rectangle.
func (c *Camera) PointerSample(cursor geometry.Vector2D, worldW, worldH float64, exclude ...Rect) *geometry.Vector2D {
	for _, r := range exclude {
		if r.Contains(cursor) {
			return nil
		}
	}
	p := c.ScreenToWorld(cursor)
	if p.X < 0 || p.X > worldW || p.Y < 0 || p.Y > worldH {
		return nil
	}
	return &p
}
