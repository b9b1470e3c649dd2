// Package flock implements the per-frame boids update: neighbor perception,
// force aggregation, velocity integration and the boundary policy.
//
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. https://en.wikipedia.org/wiki/Boids
package flock

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

// Boid is a single flocking agent.
type Boid struct {
	Pos geometry.Vector2D `json:"pos"`
	Vel geometry.Vector2D `json:"vel"`
}

// Heading is the unit direction of travel, zero for a boid at rest.
func (b Boid) Heading() geometry.Vector2D {
	return b.Vel.Normalize()
}

// World is the authoritative collection of boids. The order of Boids matters:
// in-place updates visit them by index.
type World struct {
	Boids  []Boid
	Width  float64
	Height float64
}

// NewWorld spawns count boids uniformly inside the world with a small random
// velocity in [-1, 1) per axis. The same rng state always gives the same world.
func NewWorld(count int, width, height float64, rng *rand.Rand) *World {
	if count < 0 {
		count = 0
	}
	w := &World{
		Boids:  make([]Boid, count),
		Width:  width,
		Height: height,
	}
	for i := range w.Boids {
		w.Boids[i] = Boid{
			Pos: geometry.Vector2D{X: rng.Float64() * width, Y: rng.Float64() * height},
			Vel: geometry.Vector2D{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1},
		}
	}
	return w
}

// NewSeededRand returns the deterministic generator used for spawning.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (w *World) Clone() *World {
	c := *w
	c.Boids = make([]Boid, len(w.Boids))
	copy(c.Boids, w.Boids)
	return &c
}
