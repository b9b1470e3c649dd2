package flock

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

const frameDt = 1.0 / 60

func TestStep_SpeedAndBounds(t *testing.T) {
	pointer := geometry.Vector2D{X: 250, Y: 250}
	for _, mode := range []BoundaryMode{Clamp, Wrap, SteerAway} {
		for _, update := range []UpdateMode{InPlace, Synchronous} {
			for name, newIndex := range allIndexes() {
				t.Run(mode.String()+"/"+update.String()+"/"+name, func(t *testing.T) {
					w := NewWorld(150, 500, 500, NewSeededRand(3))
					p := DefaultParameters()
					p.Boundary = mode
					s := NewStepper(StepOptions{Mode: update, Index: newIndex()})
					for frame := 0; frame < 100; frame++ {
						s.Step(w, p, frameDt, &pointer)
						for i, b := range w.Boids {
							if speed := b.Vel.Len(); speed > p.MaxSpeed+1e-9 {
								t.Fatalf("frame %d boid %d: speed %v > %v", frame, i, speed, p.MaxSpeed)
							}
							if !b.Pos.IsFinite() {
								t.Fatalf("frame %d boid %d: position %v", frame, i, b.Pos)
							}
							if mode == SteerAway {
								continue
							}
							if b.Pos.X < 0 || b.Pos.X > w.Width || b.Pos.Y < 0 || b.Pos.Y > w.Height {
								t.Fatalf("frame %d boid %d: %v outside the world", frame, i, b.Pos)
							}
						}
					}
				})
			}
		}
	}
}

func TestStep_SteerAwayOvershootsEdge(t *testing.T) {
	for _, update := range []UpdateMode{InPlace, Synchronous} {
		for name, newIndex := range allIndexes() {
			t.Run(update.String()+"/"+name, func(t *testing.T) {
				w := &World{
					Boids:  []Boid{{Pos: geometry.Vector2D{X: 999, Y: 500}, Vel: geometry.Vector2D{X: 2.5, Y: 0}}},
					Width:  1000,
					Height: 1000,
				}
				p := DefaultParameters()
				p.Boundary = SteerAway
				p.BoundaryWeight = 0
				s := NewStepper(StepOptions{Mode: update, Index: newIndex()})

				s.Step(w, p, frameDt, nil)
				if got := w.Boids[0].Pos.X; got != 1001.5 {
					t.Fatalf("after one frame x = %v; want 1001.5 beyond the edge", got)
				}
				s.Step(w, p, frameDt, nil)
				if got := w.Boids[0].Pos.X; got != 1004 {
					t.Errorf("after two frames x = %v; want 1004", got)
				}
			})
		}
	}
}

func TestStep_ClampSlidesAlongWall(t *testing.T) {
	for _, update := range []UpdateMode{InPlace, Synchronous} {
		t.Run(update.String(), func(t *testing.T) {
			vel := geometry.Vector2D{X: 2, Y: 1}
			w := &World{
				Boids:  []Boid{{Pos: geometry.Vector2D{X: 1000, Y: 500}, Vel: vel}},
				Width:  1000,
				Height: 1000,
			}
			p := Parameters{PerceptionRadius: 50, MaxSpeed: 2.5, Boundary: Clamp}
			s := NewStepper(StepOptions{Mode: update})

			for frame := 1; frame <= 3; frame++ {
				s.Step(w, p, frameDt, nil)
				b := w.Boids[0]
				if b.Pos.X != w.Width {
					t.Fatalf("frame %d: x = %v; want pinned at %v", frame, b.Pos.X, w.Width)
				}
				if want := 500 + float64(frame); b.Pos.Y != want {
					t.Errorf("frame %d: y = %v; want %v", frame, b.Pos.Y, want)
				}
				if b.Vel != vel {
					t.Errorf("frame %d: velocity = %v; want %v unchanged", frame, b.Vel, vel)
				}
			}
		})
	}
}

func TestStep_SingleBoidFeelsNoFlocking(t *testing.T) {
	w := &World{
		Boids:  []Boid{{Pos: geometry.Vector2D{X: 100, Y: 100}, Vel: geometry.Vector2D{X: 1, Y: 0.5}}},
		Width:  1000,
		Height: 1000,
	}
	p := DefaultParameters()
	for frame := 0; frame < 10; frame++ {
		Step(w, p, frameDt, nil, StepOptions{})
	}
	// the velocity never changes, only the position
	if got := w.Boids[0].Vel; !got.Eq(geometry.Vector2D{X: 1, Y: 0.5}) {
		t.Errorf("lonely boid velocity = %v; want (1, 0.5)", got)
	}
	if got := w.Boids[0].Pos; !got.Eq(geometry.Vector2D{X: 110, Y: 105}) {
		t.Errorf("lonely boid position = %v; want (110, 105)", got)
	}
}

func TestStep_AlignmentConverges(t *testing.T) {
	w := &World{
		Boids: []Boid{
			{Pos: geometry.Vector2D{X: 500, Y: 500}, Vel: geometry.Vector2D{X: 1, Y: 0.1}},
			{Pos: geometry.Vector2D{X: 510, Y: 500}, Vel: geometry.Vector2D{X: -1, Y: 0.1}},
		},
		Width:  1000,
		Height: 1000,
	}
	p := Parameters{
		PerceptionRadius: 1e6,
		MaxSpeed:         2.5,
		AlignmentWeight:  6,
		Boundary:         SteerAway,
	}
	s := NewStepper(StepOptions{})
	for frame := 0; frame < 200; frame++ {
		s.Step(w, p, frameDt, nil)
	}
	a, b := w.Boids[0].Vel, w.Boids[1].Vel
	cos := a.Dot(b) / (a.Len() * b.Len())
	if cos < 0.99 {
		t.Errorf("cosine between headings = %v after 200 frames; want > 0.99", cos)
	}
}

func TestStep_SeparationDiverges(t *testing.T) {
	w := &World{
		Boids: []Boid{
			{Pos: geometry.Vector2D{X: 100, Y: 100}},
			{Pos: geometry.Vector2D{X: 100.001, Y: 100}},
		},
		Width:  1000,
		Height: 1000,
	}
	p := Parameters{
		PerceptionRadius: 50,
		MaxSpeed:         2.5,
		SeparationWeight: 100,
		Boundary:         Clamp,
	}
	s := NewStepper(StepOptions{})
	prev := w.Boids[0].Pos.DistanceTo(w.Boids[1].Pos)
	for frame := 0; frame < 30; frame++ {
		s.Step(w, p, frameDt, nil)
		d := w.Boids[0].Pos.DistanceTo(w.Boids[1].Pos)
		if d <= prev {
			t.Fatalf("frame %d: distance %v did not grow from %v", frame, d, prev)
		}
		prev = d
	}
	if prev < p.PerceptionRadius {
		t.Errorf("boids still within %v of each other after 30 frames: %v", p.PerceptionRadius, prev)
	}
}

func TestStep_DeterministicForSeed(t *testing.T) {
	run := func() *World {
		w := NewWorld(80, 400, 300, NewSeededRand(42))
		s := NewStepper(StepOptions{Index: NewGrid()})
		for frame := 0; frame < 50; frame++ {
			s.Step(w, DefaultParameters(), frameDt, nil)
		}
		return w
	}
	a, b := run(), run()
	for i := range a.Boids {
		if a.Boids[i] != b.Boids[i] {
			t.Fatalf("boid %d differs between runs: %+v vs %+v", i, a.Boids[i], b.Boids[i])
		}
	}
}

func TestStep_InPlaceVersusSynchronous(t *testing.T) {
	newWorld := func() *World {
		return &World{
			Boids: []Boid{
				{Pos: geometry.Vector2D{X: 100, Y: 100}, Vel: geometry.Vector2D{X: 1, Y: 0}},
				{Pos: geometry.Vector2D{X: 110, Y: 100}, Vel: geometry.Vector2D{X: -1, Y: 0}},
			},
			Width:  1000,
			Height: 1000,
		}
	}
	p := DefaultParameters()
	inPlace, sync := newWorld(), newWorld()
	Step(inPlace, p, frameDt, nil, StepOptions{Mode: InPlace})
	Step(sync, p, frameDt, nil, StepOptions{Mode: Synchronous})

	// boid 0 sees the same frame-start state either way
	if inPlace.Boids[0] != sync.Boids[0] {
		t.Errorf("boid 0: in place %+v, synchronous %+v; want equal", inPlace.Boids[0], sync.Boids[0])
	}
	// boid 1 sees the already moved boid 0 only in place
	if inPlace.Boids[1] == sync.Boids[1] {
		t.Errorf("boid 1 is identical in both modes: %+v", inPlace.Boids[1])
	}
}

func TestStep_IndexesAreBitIdentical(t *testing.T) {
	for _, update := range []UpdateMode{InPlace, Synchronous} {
		ref := NewWorld(200, 600, 600, NewSeededRand(9))
		refStepper := NewStepper(StepOptions{Mode: update})
		worlds := map[string]*World{}
		steppers := map[string]*Stepper{}
		for name, newIndex := range allIndexes() {
			worlds[name] = ref.Clone()
			steppers[name] = NewStepper(StepOptions{Mode: update, Index: newIndex()})
		}
		pointer := geometry.Vector2D{X: 300, Y: 300}
		for frame := 0; frame < 40; frame++ {
			refStepper.Step(ref, DefaultParameters(), frameDt, &pointer)
			for name, w := range worlds {
				steppers[name].Step(w, DefaultParameters(), frameDt, &pointer)
				for i := range w.Boids {
					if w.Boids[i] != ref.Boids[i] {
						t.Fatalf("%s/%s frame %d boid %d: %+v; want %+v", update, name, frame, i, w.Boids[i], ref.Boids[i])
					}
				}
			}
		}
	}
}

func TestStep_DegenerateInput(t *testing.T) {
	w := NewWorld(20, 100, 100, NewSeededRand(1))
	before := w.Clone()
	nan := geometry.Vector2D{X: math.NaN(), Y: 0}

	p := DefaultParameters()
	p.PerceptionRadius = -1
	p.MaxSpeed = math.NaN()
	Step(w, p, math.NaN(), &nan, StepOptions{})

	// MaxSpeed sanitizes to 0: every boid stops in place
	for i, b := range w.Boids {
		if b.Vel != geometry.Zero {
			t.Errorf("boid %d velocity = %v; want zero", i, b.Vel)
		}
		if !b.Pos.Eq(before.Boids[i].Pos) {
			t.Errorf("boid %d moved from %v to %v", i, before.Boids[i].Pos, b.Pos)
		}
	}
}

func TestUpdateMode_Text(t *testing.T) {
	for _, m := range []UpdateMode{InPlace, Synchronous} {
		b, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", m, err)
		}
		var back UpdateMode
		if err := back.UnmarshalText(b); err != nil || back != m {
			t.Errorf("UnmarshalText(%s) = %v, %v; want %v", b, back, err, m)
		}
	}
	var m UpdateMode
	if err := m.UnmarshalText([]byte("parallel")); err == nil {
		t.Error("UnmarshalText(parallel) should fail")
	}
}

func BenchmarkStepper_Step(b *testing.B) {
	for name, newIndex := range allIndexes() {
		b.Run(name, func(b *testing.B) {
			w := NewWorld(600, 2000, 2000, NewSeededRand(1))
			s := NewStepper(StepOptions{Index: newIndex()})
			p := DefaultParameters()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Step(w, p, frameDt, nil)
			}
		})
	}
}
