package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack in a column.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// height is the vertical space the widget takes, its own label included
	height() float64
	// moveTo places the top-left corner of the widget row
	moveTo(x, y float64)
}

const (
	margin       = 10
	titleHeight  = 30
	headerHeight = 25
	labelHeight  = 15
	scrollStep   = 20
)

type row struct {
	widget  Widget
	visible bool
}

type section struct {
	title string
	y     float64
	rows  []*row
}

// UIPanel lays widgets out in titled sections and scrolls them with the
// mouse wheel. Widgets scrolled out of view neither draw nor take input.
type UIPanel struct {
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA
	HeaderColor color.RGBA

	sections []*section
	open     *section
}

// NewUIPanel creates an empty panel
func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
		HeaderColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a titled group; widgets added next belong to it.
func (p *UIPanel) AddSection(title string) {
	p.open = &section{title: title}
	p.sections = append(p.sections, p.open)
}

// EndSection closes the current group. Widgets added afterwards go into an
// untitled one.
func (p *UIPanel) EndSection() {
	p.open = nil
}

func (p *UIPanel) add(w Widget) {
	if p.open == nil {
		p.AddSection("")
	}
	p.open.rows = append(p.open.rows, &row{widget: w})
}

// AddSlider appends a slider spanning the panel width
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+margin, p.Y, p.Width-2*margin, label, min, max, value)
	p.add(s)
	return s
}

// AddCheckbox appends a labelled checkbox
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+margin, p.Y, label, value)
	p.add(c)
	return c
}

// AddButton appends a button spanning the panel width
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+margin, p.Y, p.Width-2*margin, 20, label, onClick)
	p.add(b)
	return b
}

// Contains reports whether the screen point (x, y) is over the panel
func (p *UIPanel) Contains(x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

// Busy reports whether a slider is being dragged
func (p *UIPanel) Busy() bool {
	for _, s := range p.sections {
		for _, r := range s.rows {
			if sl, ok := r.widget.(*Slider); ok && sl.Dragging() {
				return true
			}
		}
	}
	return false
}

func (p *UIPanel) contentHeight() float64 {
	h := 0.0
	for _, s := range p.sections {
		if s.title != "" {
			h += headerHeight
		}
		for _, r := range s.rows {
			h += r.widget.height()
		}
	}
	return h
}

func (p *UIPanel) scroll(delta float64) {
	limit := max(0, p.contentHeight()-(p.Height-titleHeight)+margin)
	p.ScrollOffset = min(max(p.ScrollOffset+delta, 0), limit)
}

// layout positions every widget for the current scroll offset and panel
// geometry, and flags the rows that fit inside the panel.
func (p *UIPanel) layout() {
	top, bottom := p.Y+titleHeight, p.Y+p.Height
	y := top - p.ScrollOffset
	for _, s := range p.sections {
		s.y = y
		if s.title != "" {
			y += headerHeight
		}
		for _, r := range s.rows {
			h := r.widget.height()
			r.widget.moveTo(p.X+margin, y)
			r.visible = y >= top && y+h <= bottom
			y += h
		}
	}
}

// Update scrolls the panel and forwards input to the visible widgets
func (p *UIPanel) Update() {
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(float64(mx), float64(my)) {
		p.scroll(-dy * scrollStep)
	}
	// the panel may have been resized since the last frame
	p.scroll(0)
	p.layout()

	for _, s := range p.sections {
		for _, r := range s.rows {
			// a drag keeps its slider alive until the button is released
			if sl, ok := r.widget.(*Slider); r.visible || ok && sl.Dragging() {
				r.widget.Update()
			}
		}
	}
}

// Draw renders the panel background, section headers and visible widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	p.layout()

	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, "Configuration", int(p.X+margin), int(p.Y+5))

	for _, s := range p.sections {
		if s.title != "" && s.y >= p.Y+titleHeight && s.y+headerHeight <= p.Y+p.Height {
			vector.FillRect(screen, float32(p.X+5), float32(s.y), float32(p.Width-10), 20, p.HeaderColor, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+margin), int(s.y+3))
		}
		for _, r := range s.rows {
			if r.visible {
				r.widget.Draw(screen)
			}
		}
	}
}
