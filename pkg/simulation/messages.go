package simulation

import (
	"encoding/json"
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The world actor understands three messages, all protobuf well-known types:
//
//	*structpb.Struct        one frame: {dt, params, pointer?}
//	*wrapperspb.UInt64Value reset the population with the given seed
//	*emptypb.Empty          ask for a snapshot, answered with a *structpb.Struct

// Frame is one update request. The parameters travel with every frame so the
// actor never keeps a stale copy of the panel values.
type Frame struct {
	Dt      float64            `json:"dt"`
	Params  flock.Parameters   `json:"params"`
	Pointer *geometry.Vector2D `json:"pointer,omitempty"`
}

// Snapshot is a deep copy of the world handed out of the actor.
type Snapshot struct {
	Frame  uint64       `json:"frame"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Boids  []flock.Boid `json:"boids"`
}

// snapshotWire packs each boid as [x, y, vx, vy] to keep the struct small.
type snapshotWire struct {
	Frame  uint64       `json:"frame"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Boids  [][4]float64 `json:"boids"`
}

// NewFrameMessage builds the message for one frame. pointer may be nil.
func NewFrameMessage(dt float64, p flock.Parameters, pointer *geometry.Vector2D) (*structpb.Struct, error) {
	return toStruct(Frame{Dt: dt, Params: p, Pointer: pointer})
}

// ParseFrame decodes a frame message. Missing parameters keep their defaults.
func ParseFrame(msg *structpb.Struct) (Frame, error) {
	f := Frame{Params: flock.DefaultParameters()}
	if err := fromStruct(msg, &f); err != nil {
		return Frame{}, fmt.Errorf("invalid frame message: %w", err)
	}
	return f, nil
}

// NewResetMessage asks the world to respawn its boids from seed.
func NewResetMessage(seed uint64) *wrapperspb.UInt64Value {
	return wrapperspb.UInt64(seed)
}

// NewSnapshotRequest is answered with a snapshot struct.
func NewSnapshotRequest() *emptypb.Empty {
	return &emptypb.Empty{}
}

// EncodeSnapshot turns a snapshot into its wire form.
func EncodeSnapshot(s *Snapshot) (*structpb.Struct, error) {
	wire := snapshotWire{
		Frame:  s.Frame,
		Width:  s.Width,
		Height: s.Height,
		Boids:  make([][4]float64, len(s.Boids)),
	}
	for i, b := range s.Boids {
		wire.Boids[i] = [4]float64{b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y}
	}
	return toStruct(wire)
}

// DecodeSnapshot is the inverse of EncodeSnapshot.
func DecodeSnapshot(msg *structpb.Struct) (*Snapshot, error) {
	var wire snapshotWire
	if err := fromStruct(msg, &wire); err != nil {
		return nil, fmt.Errorf("invalid snapshot message: %w", err)
	}
	s := &Snapshot{
		Frame:  wire.Frame,
		Width:  wire.Width,
		Height: wire.Height,
		Boids:  make([]flock.Boid, len(wire.Boids)),
	}
	for i, b := range wire.Boids {
		s.Boids[i] = flock.Boid{
			Pos: geometry.Vector2D{X: b[0], Y: b[1]},
			Vel: geometry.Vector2D{X: b[2], Y: b[3]},
		}
	}
	return s, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(b, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func fromStruct(msg *structpb.Struct, v any) error {
	if msg == nil {
		return fmt.Errorf("nil message")
	}
	b, err := protojson.Marshal(msg)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
