package flock

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

// UpdateMode decides what a boid sees of the boids updated before it in the
// same frame.
type UpdateMode int

const (
	// InPlace updates boids in index order, writing each one back before the
	// next neighbor query: lower indices are seen at their new position.
	InPlace UpdateMode = iota
	// Synchronous reads every neighbor from the state at frame start.
	Synchronous
)

func (m UpdateMode) String() string {
	switch m {
	case InPlace:
		return "in_place"
	case Synchronous:
		return "synchronous"
	}
	return fmt.Sprintf("UpdateMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m UpdateMode) MarshalText() ([]byte, error) {
	if m != InPlace && m != Synchronous {
		return nil, fmt.Errorf("invalid update mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *UpdateMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_place", "":
		*m = InPlace
	case "synchronous":
		*m = Synchronous
	default:
		return fmt.Errorf("unknown update mode %q", text)
	}
	return nil
}

// StepOptions selects the update ordering and the neighbor index.
// The zero value is the reference behavior: in place, brute force.
type StepOptions struct {
	Mode  UpdateMode
	Index NeighborIndex
}

// UpdateBoid computes the next state of view[i] from the given neighbors.
// view is either the live array or a frozen snapshot; it is never written.
func UpdateBoid(view []Boid, i int, neighbors []int, width, height float64, p Parameters, dt float64, pointer *geometry.Vector2D) Boid {
	f := ComputeForces(view, i, neighbors, width, height, p, pointer)
	next := Integrate(view[i], f, p, dt)
	next.Pos = ApplyBoundary(next.Pos, p.Boundary, width, height)
	return next
}

// Stepper advances a World one frame at a time and keeps its scratch buffers
// between frames. It is not safe for concurrent use.
type Stepper struct {
	mode      UpdateMode
	index     NeighborIndex
	neighbors []int
	snapshot  []Boid
}

// NewStepper returns a Stepper for opts. A nil index means brute force.
func NewStepper(opts StepOptions) *Stepper {
	index := opts.Index
	if index == nil {
		index = BruteForce{}
	}
	return &Stepper{mode: opts.Mode, index: index}
}

// Mode returns the update ordering in use.
func (s *Stepper) Mode() UpdateMode { return s.mode }

// Step performs exactly one update of every boid. pointer may be nil.
// Parameters are sanitized first; a negative or NaN dt counts as 0.
func (s *Stepper) Step(w *World, p Parameters, dt float64, pointer *geometry.Vector2D) {
	p = p.Sanitized()
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	if pointer != nil && !pointer.IsFinite() {
		pointer = nil
	}
	r := p.PerceptionRadius

	if s.mode == Synchronous {
		s.snapshot = append(s.snapshot[:0], w.Boids...)
		s.index.Rebuild(s.snapshot, r)
		for i := range s.snapshot {
			s.neighbors = s.index.Neighbors(s.snapshot, i, r, s.neighbors)
			w.Boids[i] = UpdateBoid(s.snapshot, i, s.neighbors, w.Width, w.Height, p, dt, pointer)
		}
		return
	}

	s.index.Rebuild(w.Boids, r)
	for i := range w.Boids {
		s.neighbors = s.index.Neighbors(w.Boids, i, r, s.neighbors)
		from := w.Boids[i].Pos
		w.Boids[i] = UpdateBoid(w.Boids, i, s.neighbors, w.Width, w.Height, p, dt, pointer)
		s.index.Moved(i, from, w.Boids[i].Pos)
	}
}

// Step is a one-shot helper for callers that do not keep a Stepper.
func Step(w *World, p Parameters, dt float64, pointer *geometry.Vector2D, opts StepOptions) {
	NewStepper(opts).Step(w, p, dt, pointer)
}
