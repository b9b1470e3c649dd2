package viewport

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

func TestCamera_RoundTrip(t *testing.T) {
	c := New(800, 600, 2000, 2000)
	c.Zoom = 0.75
	c.Target = geometry.Vector2D{X: 300, Y: 1200}

	points := []geometry.Vector2D{{X: 0, Y: 0}, {X: 1999, Y: 3}, {X: -50, Y: 2500}, c.Target}
	for _, p := range points {
		back := c.ScreenToWorld(c.WorldToScreen(p))
		if !back.Eq(p) {
			t.Errorf("ScreenToWorld(WorldToScreen(%v)) = %v", p, back)
		}
	}
	if got := c.WorldToScreen(c.Target); !got.Eq(geometry.Vector2D{X: 400, Y: 300}) {
		t.Errorf("target is drawn at %v; want the viewport center", got)
	}
}

func TestCamera_Pan(t *testing.T) {
	c := New(800, 600, 2000, 2000)
	c.Pan(geometry.Vector2D{X: 1, Y: -1}, 0.5)
	want := geometry.Vector2D{X: 1000 + PanSpeed/2, Y: 1000 - PanSpeed/2}
	if !c.Target.Eq(want) {
		t.Errorf("Target = %v; want %v", c.Target, want)
	}

	c.Pan(geometry.Vector2D{X: -1, Y: 0}, 0)
	want.X -= PanSpeed / 60
	if !c.Target.Eq(want) {
		t.Errorf("Target after zero dt pan = %v; want %v", c.Target, want)
	}
}

func TestCamera_ZoomBy(t *testing.T) {
	tests := []struct {
		name    string
		notches float64
		want    float64
	}{
		{"in", 2, DefaultZoom + 2*ZoomStep},
		{"out", -1, DefaultZoom - ZoomStep},
		{"floor", -100, MinZoom},
		{"ceiling", 1000, MaxZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(800, 600, 2000, 2000)
			c.ZoomBy(tt.notches)
			if math.Abs(c.Zoom-tt.want) > 1e-12 {
				t.Errorf("Zoom = %v; want %v", c.Zoom, tt.want)
			}
		})
	}
}

func TestCamera_PointerSample(t *testing.T) {
	c := New(800, 600, 2000, 2000)
	c.Zoom = 1
	panel := Rect{X: 10, Y: 10, W: 280, H: 500}

	tests := []struct {
		name   string
		cursor geometry.Vector2D
		want   *geometry.Vector2D
	}{
		{"center", geometry.Vector2D{X: 400, Y: 300}, &geometry.Vector2D{X: 1000, Y: 1000}},
		{"over the panel", geometry.Vector2D{X: 50, Y: 50}, nil},
		{"inside the world", geometry.Vector2D{X: 700, Y: 550}, &geometry.Vector2D{X: 1300, Y: 1250}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.PointerSample(tt.cursor, 2000, 2000, panel)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("PointerSample = %v; want %v", got, tt.want)
			}
			if got != nil && !got.Eq(*tt.want) {
				t.Errorf("PointerSample = %v; want %v", *got, *tt.want)
			}
		})
	}

	// outside the world rectangle
	c.Target = geometry.Vector2D{X: 0, Y: 0}
	if got := c.PointerSample(geometry.Vector2D{X: 350, Y: 100}, 2000, 2000, panel); got != nil {
		t.Errorf("PointerSample outside the world = %v; want nil", *got)
	}
}

func TestMarker(t *testing.T) {
	b := flock.Boid{Pos: geometry.Vector2D{X: 10, Y: 20}, Vel: geometry.Vector2D{X: 3, Y: 0}}
	tri := Marker(b, MarkerSize)

	if !tri[0].Eq(geometry.Vector2D{X: 15, Y: 20}) {
		t.Errorf("tip = %v; want (15, 20)", tri[0])
	}
	for i, v := range tri {
		if d := v.DistanceTo(b.Pos); math.Abs(d-MarkerSize) > 1e-9 {
			t.Errorf("corner %d at distance %v; want %v", i, d, MarkerSize)
		}
	}
	// the triangle is centered on the boid
	sum := tri[0].Add(tri[1]).Add(tri[2]).Div(3)
	if !sum.Eq(b.Pos) {
		t.Errorf("centroid = %v; want %v", sum, b.Pos)
	}

	rest := Marker(flock.Boid{Pos: b.Pos}, MarkerSize)
	if !rest[0].Eq(geometry.Vector2D{X: 10, Y: 15}) {
		t.Errorf("resting tip = %v; want (10, 15)", rest[0])
	}
}
