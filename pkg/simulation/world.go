package simulation

import (
	"time"

	"github.com/lao-tseu-is-alive/go-boids-simulation/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the authoritative flock. Its mailbox serializes frames,
// resets and snapshot requests, so the world needs no lock.
type WorldActor struct {
	cfg     *Config
	world   *flock.World
	stepper *flock.Stepper
	frame   uint64
	// Communication with UI
	snapshotCh chan<- *Snapshot
	recorder   telemetry.Recorder
	// --- Benchmark Stats ---
	framesSinceLog int
	stepTime       time.Duration
	lastLogTime    time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. snapshotCh and recorder may be nil.
func NewWorldActor(cfg *Config, snapshotCh chan<- *Snapshot, recorder telemetry.Recorder) (*WorldActor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	index, err := flock.NewNeighborIndex(cfg.Neighbors)
	if err != nil {
		return nil, err
	}
	w := &WorldActor{
		cfg:         cfg,
		stepper:     flock.NewStepper(flock.StepOptions{Mode: cfg.UpdateMode, Index: index}),
		snapshotCh:  snapshotCh,
		recorder:    recorder,
		lastLogTime: time.Now(),
	}
	w.spawn(cfg.World.Seed)
	return w, nil
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World %vx%v is spawning %d boids (%s, %s neighbors)",
		w.cfg.World.Width, w.cfg.World.Height, w.cfg.World.Boids, w.stepper.Mode(), w.cfg.Neighbors)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")
		w.pushSnapshot()

	case *structpb.Struct:
		frame, err := ParseFrame(msg)
		if err != nil {
			ctx.Logger().Warnf("dropping frame: %v", err)
			return
		}
		w.step(ctx, frame)

	case *wrapperspb.UInt64Value:
		ctx.Logger().Infof("World reset with seed %d", msg.GetValue())
		w.spawn(msg.GetValue())
		w.pushSnapshot()

	case *emptypb.Empty:
		reply, err := EncodeSnapshot(w.buildSnapshot())
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(reply)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d frames", w.frame)
	if w.recorder != nil {
		return w.recorder.Close()
	}
	return nil
}

func (w *WorldActor) spawn(seed uint64) {
	w.world = flock.NewWorld(w.cfg.World.Boids, w.cfg.World.Width, w.cfg.World.Height, flock.NewSeededRand(seed))
	w.frame = 0
}

func (w *WorldActor) step(ctx *actor.ReceiveContext, f Frame) {
	start := time.Now()
	w.stepper.Step(w.world, f.Params, f.Dt, f.Pointer)
	w.frame++
	w.stepTime += time.Since(start)
	w.framesSinceLog++

	if w.recorder != nil {
		if err := w.recorder.Record(telemetry.Compute(w.frame, w.world.Boids)); err != nil {
			ctx.Logger().Errorf("telemetry: %v", err)
		}
	}
	w.logBenchmarks(ctx)
	w.pushSnapshot()
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		avg := time.Duration(0)
		if w.framesSinceLog > 0 {
			avg = w.stepTime / time.Duration(w.framesSinceLog)
		}
		ctx.Logger().Infof("📊 FRAME RATE: %d/sec (avg step %s) | Boids: %d | Frame: %d",
			w.framesSinceLog, avg, len(w.world.Boids), w.frame)
		w.framesSinceLog = 0
		w.stepTime = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.buildSnapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) buildSnapshot() *Snapshot {
	c := w.world.Clone()
	return &Snapshot{
		Frame:  w.frame,
		Width:  c.Width,
		Height: c.Height,
		Boids:  c.Boids,
	}
}
