package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

// WorldConfig sizes and seeds the population.
type WorldConfig struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Boids  int     `json:"boids" yaml:"boids"`
	Seed   uint64  `json:"seed" yaml:"seed"`
}

// RunConfig drives the headless runner.
type RunConfig struct {
	Frames int     `json:"frames" yaml:"frames"`
	Dt     float64 `json:"dt" yaml:"dt"`
	Output string  `json:"output,omitempty" yaml:"output,omitempty"`
}

type Config struct {
	World      WorldConfig            `json:"world" yaml:"world"`
	Params     flock.Parameters       `json:"params" yaml:"params"`
	UpdateMode flock.UpdateMode       `json:"updateMode" yaml:"updateMode"`
	Neighbors  flock.NeighborStrategy `json:"neighbors" yaml:"neighbors"`
	Run        RunConfig              `json:"run" yaml:"run"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:  2000,
			Height: 2000,
			Boids:  600,
			Seed:   1,
		},
		Params:     flock.DefaultParameters(),
		UpdateMode: flock.InPlace,
		Neighbors:  flock.StrategyGrid,
		Run: RunConfig{
			Frames: 1000,
			Dt:     1.0 / 60,
		},
	}
}

// Validate checks the invariants the schema cannot see on a Config built in code.
func (c *Config) Validate() error {
	var errs []error
	if !(c.World.Width > 0) || !(c.World.Height > 0) {
		errs = append(errs, fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height))
	}
	if c.World.Boids < 0 {
		errs = append(errs, fmt.Errorf("boids must not be negative, got %d", c.World.Boids))
	}
	if c.Run.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative, got %d", c.Run.Frames))
	}
	if !(c.Run.Dt > 0) {
		errs = append(errs, fmt.Errorf("dt must be positive, got %v", c.Run.Dt))
	}
	if _, err := flock.NewNeighborIndex(c.Neighbors); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("config.schema.json", configSchema)
	})
	return compiledSchema, schemaErr
}

// LoadConfig reads a JSON or YAML file, validates it against the embedded
// schema and overlays it onto DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return ParseJSON(b)
	}
}

// ParseYAML converts a YAML document to JSON and hands it to ParseJSON.
func ParseYAML(b []byte) (*Config, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config yaml: %w", err)
	}
	if v == nil {
		v = map[string]any{}
	}
	jb, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config yaml: %w", err)
	}
	return ParseJSON(jb)
}

// ParseJSON validates b against the schema and overlays it onto DefaultConfig.
func ParseJSON(b []byte) (*Config, error) {
	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// WriteYAML saves the effective configuration next to a run's output.
func (c *Config) WriteYAML(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
