package flock

import (
	"fmt"
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

// NeighborIndex answers "who is within radius of boid i".
//
// Every implementation returns exactly the set BruteForce returns, as
// ascending indices, so the aggregate sums do not depend on the index used.
type NeighborIndex interface {
	// Rebuild is called once at the start of a frame with the boids the
	// frame reads from.
	Rebuild(boids []Boid, radius float64)
	// Moved is called after boid i has been written in place.
	Moved(i int, from, to geometry.Vector2D)
	// Neighbors appends the neighbors of boid i to dst[:0] and returns it.
	Neighbors(boids []Boid, i int, radius float64, dst []int) []int
}

// NeighborStrategy names a NeighborIndex implementation in configuration.
type NeighborStrategy string

const (
	StrategyBruteForce NeighborStrategy = "brute"
	StrategyGrid       NeighborStrategy = "grid"
	StrategyKDTree     NeighborStrategy = "kdtree"
)

// NewNeighborIndex builds the index named by s. The empty name is brute force.
func NewNeighborIndex(s NeighborStrategy) (NeighborIndex, error) {
	switch s {
	case "", StrategyBruteForce:
		return BruteForce{}, nil
	case StrategyGrid:
		return NewGrid(), nil
	case StrategyKDTree:
		return NewKDTree(), nil
	default:
		return nil, fmt.Errorf("unknown neighbor strategy %q", s)
	}
}

// isNeighbor is the single predicate all indexes share: 0 < d < radius.
// The strict lower bound drops exactly coincident boids.
func isNeighbor(a, b geometry.Vector2D, radius float64) bool {
	d := a.DistanceTo(b)
	return d > 0 && d < radius
}

// BruteForce scans every other boid: O(n) per query, O(n²) per frame.
type BruteForce struct{}

// Rebuild is a no-op: there is nothing to index.
func (BruteForce) Rebuild([]Boid, float64) {}

// Moved is a no-op: queries always read the live positions.
func (BruteForce) Moved(int, geometry.Vector2D, geometry.Vector2D) {}

func (BruteForce) Neighbors(boids []Boid, i int, radius float64, dst []int) []int {
	dst = dst[:0]
	if radius <= 0 {
		return dst
	}
	me := boids[i].Pos
	for j := range boids {
		if j == i {
			continue
		}
		if isNeighbor(me, boids[j].Pos, radius) {
			dst = append(dst, j)
		}
	}
	return dst
}

// minCellSize avoids tiny grids (or a division by zero) when the radius is small.
const minCellSize = 10.0

type gridKey struct {
	x, y int
}

// Grid is a uniform spatial hash with cells at least one perception radius
// wide, so a 3x3 block of cells covers every candidate neighbor.
type Grid struct {
	cellSize float64
	cells    map[gridKey][]int
}

// NewGrid returns an empty grid; call Rebuild before querying.
func NewGrid() *Grid {
	return &Grid{
		cellSize: minCellSize,
		cells:    make(map[gridKey][]int),
	}
}

func (g *Grid) key(p geometry.Vector2D) gridKey {
	if !p.IsFinite() {
		return gridKey{}
	}
	return gridKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// Rebuild re-buckets every boid. Slices are truncated, not freed, so a
// steady-state frame allocates almost nothing.
func (g *Grid) Rebuild(boids []Boid, radius float64) {
	g.cellSize = math.Max(radius, minCellSize)
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for i, b := range boids {
		k := g.key(b.Pos)
		g.cells[k] = append(g.cells[k], i)
	}
}

// Moved moves boid i to the cell of its new position.
func (g *Grid) Moved(i int, from, to geometry.Vector2D) {
	kf, kt := g.key(from), g.key(to)
	if kf == kt {
		return
	}
	cell := g.cells[kf]
	if at := slices.Index(cell, i); at >= 0 {
		cell[at] = cell[len(cell)-1]
		g.cells[kf] = cell[:len(cell)-1]
	}
	g.cells[kt] = append(g.cells[kt], i)
}

func (g *Grid) Neighbors(boids []Boid, i int, radius float64, dst []int) []int {
	dst = dst[:0]
	if radius <= 0 {
		return dst
	}
	me := boids[i].Pos
	center := g.key(me)
	// a radius larger than the cells (changed without Rebuild) widens the scan
	span := 1
	if radius > g.cellSize {
		span = int(math.Ceil(radius / g.cellSize))
	}
	for x := center.x - span; x <= center.x+span; x++ {
		for y := center.y - span; y <= center.y+span; y++ {
			for _, j := range g.cells[gridKey{x: x, y: y}] {
				if j != i && isNeighbor(me, boids[j].Pos, radius) {
					dst = append(dst, j)
				}
			}
		}
	}
	slices.Sort(dst)
	return dst
}
