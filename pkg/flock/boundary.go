package flock

import "github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"

// ApplyBoundary corrects a position after integration.
// SteerAway never corrects: containment comes from BoundaryForce alone.
func ApplyBoundary(pos geometry.Vector2D, mode BoundaryMode, width, height float64) geometry.Vector2D {
	switch mode {
	case Wrap:
		return geometry.Vector2D{X: wrap(pos.X, width), Y: wrap(pos.Y, height)}
	case Clamp:
		return geometry.Vector2D{X: clamp(pos.X, 0, width), Y: clamp(pos.Y, 0, height)}
	default:
		return pos
	}
}

// wrap shifts x by one extent when it leaves [0, extent]. Overshoots larger
// than one extent are saturated so the result always lies inside.
func wrap(x, extent float64) float64 {
	if x > extent {
		x -= extent
	} else if x < 0 {
		x += extent
	}
	return clamp(x, 0, extent)
}

func clamp(x, lo, hi float64) float64 {
	if x > hi {
		return hi
	}
	if x < lo {
		return lo
	}
	return x
}
