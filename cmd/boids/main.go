package main

import (
	"context"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
)

const (
	screenWidth  = 1280
	screenHeight = 800
)

func main() {
	configFile := flag.String("config", "", "JSON or YAML configuration file")
	numBoids := flag.Int("boids", -1, "number of boids (overrides the config)")
	seed := flag.Uint64("seed", 0, "spawn seed (overrides the config when non zero)")
	neighbors := flag.String("neighbors", "", "neighbor index: brute, grid or kdtree")
	flag.Parse()

	logger := log.New(log.InfoLevel, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			logger.Fatalf("loading %s: %v", *configFile, err)
		}
	}
	if *numBoids >= 0 {
		cfg.World.Boids = *numBoids
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *neighbors != "" {
		cfg.Neighbors = flock.NeighborStrategy(*neighbors)
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("BoidsWorld", actor.WithLogger(logger))
	if err != nil {
		logger.Fatalf("creating actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		logger.Fatalf("starting actor system: %v", err)
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			logger.Errorf("stopping actor system: %v", err)
		}
	}()

	game, err := NewGame(ctx, cfg, system, screenWidth, screenHeight)
	if err != nil {
		logger.Errorf("creating game: %v", err)
		return
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Boids")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		logger.Error(err)
	}
}
