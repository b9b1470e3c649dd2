package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-simulation/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	configFile := flag.String("config", "", "JSON or YAML configuration file")
	frames := flag.Int("frames", -1, "number of frames (overrides the config)")
	output := flag.String("output", "", "telemetry CSV path (overrides the config)")
	flag.Parse()

	logger := log.New(log.InfoLevel, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			logger.Fatalf("loading %s: %v", *configFile, err)
		}
	}
	if *frames >= 0 {
		cfg.Run.Frames = *frames
	}
	if *output != "" {
		cfg.Run.Output = *output
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

// systemName names the headless actor system.
var systemName = "BoidsHeadless"

// createRecorder opens the telemetry sink for path.
var createRecorder = func(path string) (telemetry.Recorder, error) {
	return telemetry.CreateCSV(path)
}

func run(ctx context.Context, cfg *simulation.Config, logger log.Logger) (err error) {
	var recorder telemetry.Recorder
	if cfg.Run.Output != "" {
		if recorder, err = createRecorder(cfg.Run.Output); err != nil {
			return err
		}
	}
	// until the world actor is spawned its PostStop cannot close the recorder
	spawned := false
	defer func() {
		if recorder != nil && !spawned {
			if cerr := recorder.Close(); cerr != nil {
				logger.Errorf("closing telemetry: %v", cerr)
			}
		}
	}()

	if recorder != nil {
		effective := strings.TrimSuffix(cfg.Run.Output, filepath.Ext(cfg.Run.Output)) + ".config.yaml"
		if err := cfg.WriteYAML(effective); err != nil {
			return err
		}
	}

	worldActor, err := simulation.NewWorldActor(cfg, nil, recorder)
	if err != nil {
		return err
	}

	system, err := actor.NewActorSystem(systemName, actor.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("starting actor system: %w", err)
	}
	defer func() {
		// stopping the system closes the recorder through the world's PostStop
		if err := system.Stop(ctx); err != nil {
			logger.Errorf("stopping actor system: %v", err)
		}
	}()

	pid, err := system.Spawn(ctx, "world", worldActor)
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}
	spawned = true

	msg, err := simulation.NewFrameMessage(cfg.Run.Dt, cfg.Params, nil)
	if err != nil {
		return err
	}
	start := time.Now()
	for i := 0; i < cfg.Run.Frames; i++ {
		if err := actor.Tell(ctx, pid, msg); err != nil {
			return err
		}
	}

	// the mailbox is ordered: the snapshot answer comes after the last frame
	reply, err := actor.Ask(ctx, pid, simulation.NewSnapshotRequest(), time.Minute)
	if err != nil {
		return err
	}
	wire, ok := reply.(*structpb.Struct)
	if !ok {
		return fmt.Errorf("unexpected snapshot reply %T", reply)
	}
	snap, err := simulation.DecodeSnapshot(wire)
	if err != nil {
		return err
	}
	stats := telemetry.Compute(snap.Frame, snap.Boids)
	logger.Infof("%d frames of %d boids in %s | mean speed %.3f | polarization %.3f | spread %.1f",
		snap.Frame, stats.Boids, time.Since(start).Round(time.Millisecond),
		stats.MeanSpeed, stats.Polarization, stats.Spread)
	return nil
}
