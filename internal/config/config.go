package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"blockworld/internal/physics"
	"blockworld/internal/world"

	"gopkg.in/yaml.v3"
)

// Config holds the simulation configuration.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Rings   RingsConfig   `yaml:"rings"`
	Reach   ReachConfig   `yaml:"reach"`
	Sim     SimConfig     `yaml:"sim"`
}

// RingsConfig sizes the chunk pool, in chunks.
type RingsConfig struct {
	Active  int `yaml:"active"`
	Border  int `yaml:"border"`
	Pool    int `yaml:"pool"`
	Workers int `yaml:"workers"` // 0 = one per CPU
}

// ReachConfig tunes break/place raycasts, in blocks.
type ReachConfig struct {
	Step  float32 `yaml:"step"`
	Break float32 `yaml:"break"`
	Place float32 `yaml:"place"`
}

// SimConfig drives the headless walk in cmd/worldsim.
type SimConfig struct {
	Steps    int        `yaml:"steps"`
	Speed    float32    `yaml:"speed"` // blocks per step along +X
	Spawn    [3]float32 `yaml:"spawn"`
	MapPath  string     `yaml:"map_path,omitempty"`
	MapScale int        `yaml:"map_scale"`
}

// Default returns the canonical configuration.
func Default() Config {
	p := world.DefaultTerrainParams()
	rc := world.DefaultRingConfig()
	r := physics.DefaultReach()
	return Config{
		Terrain: TerrainConfig{
			Generator:   GeneratorNoise,
			FlatHeight:  10,
			Seed:        p.Seed,
			Noise:       string(p.Noise),
			Scale:       p.Scale,
			Octaves:     p.Octaves,
			Lacunarity:  p.Lacunarity,
			Persistence: p.Persistence,
			Offset:      p.Offset,
			BaseHeight:  p.BaseHeight,
			Amplitude:   p.Amplitude,
			WaterLevel:  p.WaterLevel,
			DirtDepth:   p.DirtDepth,
			OreRarity:   p.OreRarity,
		},
		Rings: RingsConfig{Active: rc.ActiveRadius, Border: rc.BorderRadius, Pool: rc.PoolRadius},
		Reach: ReachConfig{Step: r.Step, Break: r.Break, Place: r.Place},
		Sim: SimConfig{
			Steps:    64,
			Speed:    1.5,
			Spawn:    [3]float32{8, 64, 8},
			MapScale: 2,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize fills zero values that have an obvious default.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.Terrain.Generator = strings.ToLower(strings.TrimSpace(c.Terrain.Generator))
	if c.Terrain.Generator == "" {
		c.Terrain.Generator = GeneratorNoise
	}
	c.Terrain.Noise = strings.ToLower(strings.TrimSpace(c.Terrain.Noise))
	if c.Terrain.Noise == "" {
		c.Terrain.Noise = string(world.NoisePerlin)
	}
	if c.Sim.MapScale <= 0 {
		c.Sim.MapScale = 1
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if err := c.Terrain.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.RingConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Reach.Step <= 0 || !finite(c.Reach.Step) {
		errs = append(errs, fmt.Errorf("reach.step must be positive and finite, got %g", c.Reach.Step))
	}
	if c.Reach.Break < 0 || c.Reach.Place < 0 || !finite(c.Reach.Break) || !finite(c.Reach.Place) {
		errs = append(errs, errors.New("reach distances must be finite and not negative"))
	}
	if c.Sim.Steps < 0 {
		errs = append(errs, fmt.Errorf("sim.steps must not be negative, got %d", c.Sim.Steps))
	}
	return errors.Join(errs...)
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// RingConfig converts the rings section.
func (c Config) RingConfig() world.RingConfig {
	return world.RingConfig{
		ActiveRadius: c.Rings.Active,
		BorderRadius: c.Rings.Border,
		PoolRadius:   c.Rings.Pool,
		Workers:      c.Rings.Workers,
	}
}

// PhysicsReach converts the reach section.
func (c Config) PhysicsReach() physics.Reach {
	return physics.Reach{Step: c.Reach.Step, Break: c.Reach.Break, Place: c.Reach.Place}
}

// Merge applies file-loaded values into cfg, but only for settings that
// were not explicitly set on the command line. explicitFlags holds the
// names of the flags that were provided.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	seed, steps, mapPath, gen := cfg.Terrain.Seed, cfg.Sim.Steps, cfg.Sim.MapPath, cfg.Terrain.Generator
	*cfg = *fromFile
	if explicitFlags["seed"] {
		cfg.Terrain.Seed = seed
	}
	if explicitFlags["steps"] {
		cfg.Sim.Steps = steps
	}
	if explicitFlags["map"] {
		cfg.Sim.MapPath = mapPath
	}
	if explicitFlags["generator"] {
		cfg.Terrain.Generator = gen
	}
}
