package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a simple UI widget
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	dragging bool
}

// NewSlider creates a slider with its value clamped into [min, max]
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     w,
		H:     12,
	}
	s.SetValue(value)
	return s
}

// SetValue clamps v into the slider range
func (s *Slider) SetValue(v float64) {
	switch {
	case v < s.Min:
		v = s.Min
	case v > s.Max:
		v = s.Max
	}
	s.Value = v
}

func (s *Slider) contains(mx, my int) bool {
	return float64(mx) >= s.X && float64(mx) <= s.X+s.W &&
		float64(my) >= s.Y && float64(my) <= s.Y+s.H
}

// Update checks for mouse interaction. A drag that starts on the slider
// keeps tracking the cursor until the button is released.
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && s.contains(mx, my) {
		s.dragging = true
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.dragging = false
	}
	if s.dragging && s.W > 0 {
		p := (float64(mx) - s.X) / s.W
		s.SetValue(s.Min + p*(s.Max-s.Min))
	}
}

// Dragging reports whether the slider currently owns the mouse
func (s *Slider) Dragging() bool { return s.dragging }

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	// Draw Background (Dark Gray)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Draw Value Bar (Light Gray/White)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	ebitenutil.DebugPrintAt(screen, s.Label, int(s.X), int(s.Y)-labelHeight)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.2f", s.Value), int(s.X+s.W)-48, int(s.Y)-labelHeight)
}

func (s *Slider) height() float64 { return labelHeight + s.H + 12 }

func (s *Slider) moveTo(x, y float64) { s.X, s.Y = x, y+labelHeight }
