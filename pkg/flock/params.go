package flock

import (
	"fmt"
	"math"
	"strings"
)

// BoundaryMode selects what happens to a boid reaching the edge of the world.
type BoundaryMode int

const (
	// Clamp saturates positions into the world rectangle, velocity untouched.
	Clamp BoundaryMode = iota
	// Wrap gives the world a toroidal topology.
	Wrap
	// SteerAway applies a repulsive force near the edges and never corrects
	// positions, so a fast boid may overshoot.
	SteerAway
)

var boundaryModeNames = map[BoundaryMode]string{
	Clamp:     "clamp",
	Wrap:      "wrap",
	SteerAway: "steer_away",
}

func (m BoundaryMode) String() string {
	if s, ok := boundaryModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("BoundaryMode(%d)", int(m))
}

// Next cycles Clamp -> Wrap -> SteerAway -> Clamp, used by the viewer button.
func (m BoundaryMode) Next() BoundaryMode {
	return (m + 1) % 3
}

// ParseBoundaryMode accepts the names produced by String (case-insensitive,
// "-" and "_" are interchangeable).
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for m, name := range boundaryModeNames {
		if name == norm {
			return m, nil
		}
	}
	return Clamp, fmt.Errorf("unknown boundary mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m BoundaryMode) MarshalText() ([]byte, error) {
	if _, ok := boundaryModeNames[m]; !ok {
		return nil, fmt.Errorf("invalid boundary mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BoundaryMode) UnmarshalText(text []byte) error {
	parsed, err := ParseBoundaryMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Parameters is the tunable set read by the force model every frame.
// It is a plain value: the configuration collaborator owns the canonical copy
// and hands a copy to every Step call.
type Parameters struct {
	PerceptionRadius  float64      `json:"perceptionRadius" yaml:"perceptionRadius"`
	MaxSpeed          float64      `json:"maxSpeed" yaml:"maxSpeed"`
	SeparationWeight  float64      `json:"separationWeight" yaml:"separationWeight"`
	AlignmentWeight   float64      `json:"alignmentWeight" yaml:"alignmentWeight"`
	CohesionWeight    float64      `json:"cohesionWeight" yaml:"cohesionWeight"`
	PointerWeight     float64      `json:"pointerWeight" yaml:"pointerWeight"`
	BoundaryWeight    float64      `json:"boundaryWeight" yaml:"boundaryWeight"`
	BoundaryTolerance float64      `json:"boundaryTolerance" yaml:"boundaryTolerance"`
	Boundary          BoundaryMode `json:"boundary" yaml:"boundary"`
}

// DefaultParameters returns the values the interactive program starts with.
func DefaultParameters() Parameters {
	return Parameters{
		PerceptionRadius:  50,
		MaxSpeed:          2.5,
		SeparationWeight:  100,
		AlignmentWeight:   50,
		CohesionWeight:    40,
		PointerWeight:     5000,
		BoundaryWeight:    5000,
		BoundaryTolerance: 100,
		Boundary:          Clamp,
	}
}

// nonNegative maps NaN and negative values to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// The setters clamp negative or NaN input to 0.
func (p *Parameters) SetPerceptionRadius(v float64)  { p.PerceptionRadius = nonNegative(v) }
func (p *Parameters) SetMaxSpeed(v float64)          { p.MaxSpeed = nonNegative(v) }
func (p *Parameters) SetSeparationWeight(v float64)  { p.SeparationWeight = nonNegative(v) }
func (p *Parameters) SetAlignmentWeight(v float64)   { p.AlignmentWeight = nonNegative(v) }
func (p *Parameters) SetCohesionWeight(v float64)    { p.CohesionWeight = nonNegative(v) }
func (p *Parameters) SetPointerWeight(v float64)     { p.PointerWeight = nonNegative(v) }
func (p *Parameters) SetBoundaryWeight(v float64)    { p.BoundaryWeight = nonNegative(v) }
func (p *Parameters) SetBoundaryTolerance(v float64) { p.BoundaryTolerance = nonNegative(v) }

// SetBoundary ignores unknown modes and keeps the current one.
func (p *Parameters) SetBoundary(m BoundaryMode) {
	if _, ok := boundaryModeNames[m]; ok {
		p.Boundary = m
	}
}

// Sanitized returns a copy with every field forced into its valid range.
func (p Parameters) Sanitized() Parameters {
	out := p
	out.SetPerceptionRadius(p.PerceptionRadius)
	out.SetMaxSpeed(p.MaxSpeed)
	out.SetSeparationWeight(p.SeparationWeight)
	out.SetAlignmentWeight(p.AlignmentWeight)
	out.SetCohesionWeight(p.CohesionWeight)
	out.SetPointerWeight(p.PointerWeight)
	out.SetBoundaryWeight(p.BoundaryWeight)
	out.SetBoundaryTolerance(p.BoundaryTolerance)
	if _, ok := boundaryModeNames[p.Boundary]; !ok {
		out.Boundary = Clamp
	}
	return out
}

// Range is the span a tuning control offers for one parameter.
type Range struct {
	Min, Max float64
}

// Including widens r just enough to hold v. Non-finite values are ignored.
func (r Range) Including(v float64) Range {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return r
	}
	return Range{Min: min(r.Min, v), Max: max(r.Max, v)}
}

// Tuning ranges offered by the interactive panel.
var (
	SeparationRange = Range{0, 1000}
	AlignmentRange  = Range{0, 500}
	CohesionRange   = Range{0, 500}
	RadiusRange     = Range{0, 200}
	MaxSpeedRange   = Range{0.5, 10}
	PointerRange    = Range{0, 10000}
	BoundaryRange   = Range{0, 10000}
	ToleranceRange  = Range{0, 500}
)
