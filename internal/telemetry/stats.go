// Package telemetry summarizes the flock once per frame and writes the
// summaries out as CSV.
package telemetry

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats is one row of the telemetry output.
type FrameStats struct {
	Frame        uint64  `csv:"frame"`
	Boids        int     `csv:"boids"`
	MeanSpeed    float64 `csv:"mean_speed"`
	SpeedStdDev  float64 `csv:"speed_stddev"`
	Polarization float64 `csv:"polarization"` // |mean heading|, 1 when all boids fly the same way
	CentroidX    float64 `csv:"centroid_x"`
	CentroidY    float64 `csv:"centroid_y"`
	Spread       float64 `csv:"spread"` // RMS distance to the centroid
}

// Compute summarizes boids. An empty flock gives zero stats.
func Compute(frame uint64, boids []flock.Boid) FrameStats {
	s := FrameStats{Frame: frame, Boids: len(boids)}
	n := len(boids)
	if n == 0 {
		return s
	}

	speeds := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	hx := make([]float64, n)
	hy := make([]float64, n)
	for i, b := range boids {
		speeds[i] = b.Vel.Len()
		xs[i], ys[i] = b.Pos.X, b.Pos.Y
		h := b.Heading()
		hx[i], hy[i] = h.X, h.Y
	}

	if n > 1 {
		s.MeanSpeed, s.SpeedStdDev = stat.MeanStdDev(speeds, nil)
	} else {
		s.MeanSpeed = speeds[0]
	}
	s.Polarization = math.Hypot(stat.Mean(hx, nil), stat.Mean(hy, nil))
	s.CentroidX = stat.Mean(xs, nil)
	s.CentroidY = stat.Mean(ys, nil)

	// reuse xs and ys as offsets from the centroid
	floats.AddConst(-s.CentroidX, xs)
	floats.AddConst(-s.CentroidY, ys)
	s.Spread = math.Sqrt((floats.Dot(xs, xs) + floats.Dot(ys, ys)) / float64(n))
	return s
}
