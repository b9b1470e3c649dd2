package flock

import (
	"slices"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdPoint is a boid position tagged with its index in the world.
type kdPoint struct {
	pos geometry.Vector2D
	idx int
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	if d == 0 {
		return p.pos.X - q.pos.X
	}
	return p.pos.Y - q.pos.Y
}

func (p kdPoint) Dims() int { return 2 }

// Distance is squared Euclidean, as kdtree.Point uses.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	return p.pos.DistanceSquaredTo(c.(kdPoint).pos)
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p kdPoints) Pivot(d kdtree.Dim) int                { return kdPlane{kdPoints: p, Dim: d}.Pivot() }

// kdPlane sorts points along one dimension for median selection.
type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	return p.kdPoints[i].Compare(p.kdPoints[j], p.Dim) < 0
}
func (p kdPlane) Swap(i, j int) { p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i] }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPlane{kdPoints: p.kdPoints[start:end], Dim: p.Dim}
}
func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

// KDTree answers radius queries from a gonum k-d tree.
//
// The tree is static: Moved only marks it stale and the next query rebuilds
// it from the boids it is given. In InPlace mode that means one rebuild per
// boid, so prefer it with Synchronous updates.
type KDTree struct {
	tree   *kdtree.Tree
	points kdPoints
	stale  bool
}

// NewKDTree returns an empty index; call Rebuild before querying.
func NewKDTree() *KDTree {
	return &KDTree{stale: true}
}

func (k *KDTree) Rebuild(boids []Boid, _ float64) {
	k.points = k.points[:0]
	for i, b := range boids {
		k.points = append(k.points, kdPoint{pos: b.Pos, idx: i})
	}
	k.tree = kdtree.New(k.points, false)
	k.stale = false
}

func (k *KDTree) Moved(int, geometry.Vector2D, geometry.Vector2D) {
	k.stale = true
}

func (k *KDTree) Neighbors(boids []Boid, i int, radius float64, dst []int) []int {
	dst = dst[:0]
	if radius <= 0 || len(boids) == 0 {
		return dst
	}
	if k.stale || k.tree == nil || len(k.points) != len(boids) {
		k.Rebuild(boids, radius)
	}
	me := boids[i].Pos
	// the keeper works on squared distances; widen it slightly and let
	// isNeighbor make the exact decision
	reach := radius * (1 + 1e-9)
	keeper := kdtree.NewDistKeeper(reach * reach)
	k.tree.NearestSet(keeper, kdPoint{pos: me, idx: i})
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		p := c.Comparable.(kdPoint)
		if p.idx != i && isNeighbor(me, boids[p.idx].Pos, radius) {
			dst = append(dst, p.idx)
		}
	}
	slices.Sort(dst)
	return dst
}
