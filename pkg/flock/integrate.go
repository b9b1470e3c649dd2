package flock

// Integrate applies the weighted forces scaled by dt, caps the speed at
// maxSpeed and advances the position with the capped velocity.
func Integrate(b Boid, f Forces, p Parameters, dt float64) Boid {
	vel := b.Vel.Add(f.Weighted(p).Mul(dt))
	if !vel.IsFinite() {
		// non-finite forces leave the velocity untouched
		vel = b.Vel
	}
	vel = vel.ClampMagnitude(p.MaxSpeed)
	return Boid{
		Pos: b.Pos.Add(vel),
		Vel: vel,
	}
}
