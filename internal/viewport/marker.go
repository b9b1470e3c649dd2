package viewport

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
)

// MarkerSize is the distance from a boid to each corner of its triangle.
const MarkerSize = 5.0

// Marker returns the triangle drawn for b in world coordinates: the tip
// points along the heading and the two other corners sit 120 degrees away.
// A boid at rest points up.
func Marker(b flock.Boid, size float64) [3]geometry.Vector2D {
	dir := b.Heading()
	if dir == geometry.Zero {
		dir = geometry.Vector2D{X: 0, Y: -1}
	}
	dir = dir.Mul(size)
	third := 2 * math.Pi / 3
	return [3]geometry.Vector2D{
		b.Pos.Add(dir),
		b.Pos.Add(dir.Rotate(third)),
		b.Pos.Add(dir.Rotate(2 * third)),
	}
}
