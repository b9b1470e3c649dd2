package flock

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParameters_SettersClamp(t *testing.T) {
	var p Parameters
	p.SetPerceptionRadius(-5)
	p.SetMaxSpeed(math.NaN())
	p.SetSeparationWeight(-1)
	p.SetAlignmentWeight(3)
	p.SetBoundaryTolerance(-0.1)

	if p.PerceptionRadius != 0 {
		t.Errorf("SetPerceptionRadius(-5) = %v; want 0", p.PerceptionRadius)
	}
	if p.MaxSpeed != 0 {
		t.Errorf("SetMaxSpeed(NaN) = %v; want 0", p.MaxSpeed)
	}
	if p.SeparationWeight != 0 {
		t.Errorf("SetSeparationWeight(-1) = %v; want 0", p.SeparationWeight)
	}
	if p.AlignmentWeight != 3 {
		t.Errorf("SetAlignmentWeight(3) = %v; want 3", p.AlignmentWeight)
	}
	if p.BoundaryTolerance != 0 {
		t.Errorf("SetBoundaryTolerance(-0.1) = %v; want 0", p.BoundaryTolerance)
	}

	p.SetBoundary(Wrap)
	p.SetBoundary(BoundaryMode(42))
	if p.Boundary != Wrap {
		t.Errorf("SetBoundary(42) changed mode to %v; want wrap", p.Boundary)
	}
}

func TestParameters_Sanitized(t *testing.T) {
	p := Parameters{
		PerceptionRadius: -10,
		MaxSpeed:         2,
		CohesionWeight:   math.NaN(),
		PointerWeight:    -3,
		Boundary:         BoundaryMode(-1),
	}
	got := p.Sanitized()
	want := Parameters{MaxSpeed: 2, Boundary: Clamp}
	if got != want {
		t.Errorf("Sanitized() = %+v; want %+v", got, want)
	}
	if p.PerceptionRadius != -10 {
		t.Error("Sanitized() modified its receiver")
	}
}

func TestBoundaryMode_Text(t *testing.T) {
	tests := []struct {
		in   string
		want BoundaryMode
	}{
		{"wrap", Wrap},
		{"clamp", Clamp},
		{"steer_away", SteerAway},
		{"Steer-Away", SteerAway},
		{" WRAP ", Wrap},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBoundaryMode(tt.in)
			if err != nil {
				t.Fatalf("ParseBoundaryMode(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseBoundaryMode(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseBoundaryMode("bounce"); err == nil {
		t.Error("ParseBoundaryMode(bounce) should fail")
	}
}

func TestBoundaryMode_Next(t *testing.T) {
	m := Clamp
	seen := []BoundaryMode{m}
	for i := 0; i < 3; i++ {
		m = m.Next()
		seen = append(seen, m)
	}
	want := []BoundaryMode{Clamp, Wrap, SteerAway, Clamp}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("Next() sequence = %v; want %v", seen, want)
		}
	}
}

func TestParameters_JSON(t *testing.T) {
	p := DefaultParameters()
	p.Boundary = SteerAway
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("json.Marshal error: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	if raw["boundary"] != "steer_away" {
		t.Errorf("boundary encoded as %v; want \"steer_away\"", raw["boundary"])
	}

	var back Parameters
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("json.Unmarshal into Parameters error: %v", err)
	}
	if back != p {
		t.Errorf("decoded %+v; want %+v", back, p)
	}

	if err := json.Unmarshal([]byte(`{"boundary":"bounce"}`), &back); err == nil {
		t.Error("decoding an unknown boundary mode should fail")
	}
}

func TestRange_Including(t *testing.T) {
	tests := []struct {
		name  string
		r     Range
		value float64
		want  Range
	}{
		{"inside", RadiusRange, 50, RadiusRange},
		{"above", RadiusRange, 300, Range{0, 300}},
		{"below", MaxSpeedRange, 0.2, Range{0.2, 10}},
		{"tolerance above", ToleranceRange, 1000, Range{0, 1000}},
		{"nan", CohesionRange, math.NaN(), CohesionRange},
		{"inf", PointerRange, math.Inf(1), PointerRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Including(tt.value); got != tt.want {
				t.Errorf("%v.Including(%v) = %v; want %v", tt.r, tt.value, got, tt.want)
			}
		})
	}
}

func TestRange_DefaultsFit(t *testing.T) {
	p := DefaultParameters()
	checks := []struct {
		name string
		r    Range
		v    float64
	}{
		{"separation", SeparationRange, p.SeparationWeight},
		{"alignment", AlignmentRange, p.AlignmentWeight},
		{"cohesion", CohesionRange, p.CohesionWeight},
		{"radius", RadiusRange, p.PerceptionRadius},
		{"max speed", MaxSpeedRange, p.MaxSpeed},
		{"pointer", PointerRange, p.PointerWeight},
		{"boundary", BoundaryRange, p.BoundaryWeight},
		{"tolerance", ToleranceRange, p.BoundaryTolerance},
	}
	for _, c := range checks {
		if c.v < c.r.Min || c.v > c.r.Max {
			t.Errorf("default %s %v outside %v", c.name, c.v, c.r)
		}
	}
}
