package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

// Epsilon keeps every inverse distance 1/(d+Epsilon) finite.
const Epsilon = 0.001

// Aggregate holds the running sums over one boid's neighbors.
// It lives for the duration of a single boid update.
type Aggregate struct {
	Separation  geometry.Vector2D
	VelocitySum geometry.Vector2D
	PositionSum geometry.Vector2D
	Count       int
}

// Add accumulates other into the sums seen from me.
// The separation offset is scaled by 1/(d+Epsilon).
func (a *Aggregate) Add(me, other Boid) {
	diff := me.Pos.Sub(other.Pos)
	d := diff.Len()
	a.Separation = a.Separation.Add(diff.Mul(1 / (d + Epsilon)))
	a.VelocitySum = a.VelocitySum.Add(other.Vel)
	a.PositionSum = a.PositionSum.Add(other.Pos)
	a.Count++
}

// Gather sums the neighbors of view[i], in the order given.
func Gather(view []Boid, i int, neighbors []int) Aggregate {
	var a Aggregate
	me := view[i]
	for _, j := range neighbors {
		a.Add(me, view[j])
	}
	return a
}

// Forces is the unweighted output of every rule for one boid.
type Forces struct {
	Separation geometry.Vector2D
	Alignment  geometry.Vector2D
	Cohesion   geometry.Vector2D
	Pointer    geometry.Vector2D
	Boundary   geometry.Vector2D
}

// Weighted combines the forces with the weights of p.
func (f Forces) Weighted(p Parameters) geometry.Vector2D {
	return f.Separation.Mul(p.SeparationWeight).
		Add(f.Alignment.Mul(p.AlignmentWeight)).
		Add(f.Cohesion.Mul(p.CohesionWeight)).
		Add(f.Pointer.Mul(p.PointerWeight)).
		Add(f.Boundary.Mul(p.BoundaryWeight))
}

// flockingForces turns the sums into separation, alignment and cohesion.
// Alignment and cohesion are zero without neighbors.
func (a Aggregate) flockingForces(me Boid) Forces {
	f := Forces{Separation: a.Separation}
	if a.Count > 0 {
		n := float64(a.Count)
		f.Alignment = a.VelocitySum.Div(n)
		f.Cohesion = a.PositionSum.Div(n).Sub(me.Pos)
	}
	return f
}

// PointerForce treats the pointer as a phantom neighbor: inside the
// perception radius it pushes away with strength 1/(d+Epsilon).
func PointerForce(pos, pointer geometry.Vector2D, radius float64) geometry.Vector2D {
	off := pos.Sub(pointer)
	d := off.Len()
	if d <= 0 || d >= radius {
		return geometry.Zero
	}
	return off.Normalize().Mul(1 / (d + Epsilon))
}

// edgeOffset is the inward-pointing offset from the nearest edge of one
// axis, or 0 outside the tolerance band. The low edge wins in worlds
// narrower than two bands.
func edgeOffset(x, extent, tolerance float64) float64 {
	switch {
	case x <= tolerance:
		return math.Abs(x)
	case x >= extent-tolerance:
		return -math.Abs(x - extent)
	}
	return 0
}

// BoundaryForce pushes a boid back inside the world when it is within
// tolerance of an edge. Axes are independent, so corners push diagonally.
// The push grows as the boid nears the wall.
func BoundaryForce(pos geometry.Vector2D, width, height, tolerance float64) geometry.Vector2D {
	raw := geometry.Vector2D{
		X: edgeOffset(pos.X, width, tolerance),
		Y: edgeOffset(pos.Y, height, tolerance),
	}
	return raw.Normalize().Mul(1 / (raw.Len() + Epsilon))
}

// ComputeForces evaluates every rule for view[i]. pointer may be nil.
// The boundary force is only produced in SteerAway mode.
func ComputeForces(view []Boid, i int, neighbors []int, width, height float64, p Parameters, pointer *geometry.Vector2D) Forces {
	me := view[i]
	f := Gather(view, i, neighbors).flockingForces(me)
	if pointer != nil {
		f.Pointer = PointerForce(me.Pos, *pointer, p.PerceptionRadius)
	}
	if p.Boundary == SteerAway {
		f.Boundary = BoundaryForce(me.Pos, width, height, p.BoundaryTolerance)
	}
	return f
}
