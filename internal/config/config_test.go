package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blockworld/internal/world"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worldsim.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValid(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.RingConfig().PoolSize() != 49 {
		t.Errorf("default pool = %d, want 49", cfg.RingConfig().PoolSize())
	}
	if cfg.Terrain.Params() != world.DefaultTerrainParams() {
		t.Errorf("default terrain params drifted: %+v", cfg.Terrain.Params())
	}
	if r := cfg.PhysicsReach(); r.Break != 3.6 || r.Place != 4.0 || r.Step != 0.2 {
		t.Errorf("default reach = %+v", r)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
terrain:
  generator: FLAT
  flat_height: 20
  seed: 99
rings:
  active: 0
  border: 1
  pool: 2
sim:
  steps: 5
  spawn: [1, 2, 3]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terrain.Generator != GeneratorFlat || cfg.Terrain.FlatHeight != 20 || cfg.Terrain.Seed != 99 {
		t.Errorf("terrain = %+v", cfg.Terrain)
	}
	if cfg.Terrain.WaterLevel != 14 {
		t.Errorf("unset water level = %d, want default 14", cfg.Terrain.WaterLevel)
	}
	if got := cfg.RingConfig().PoolSize(); got != 25 {
		t.Errorf("pool size = %d, want 25", got)
	}
	if cfg.Sim.Steps != 5 || cfg.Sim.Spawn != [3]float32{1, 2, 3} {
		t.Errorf("sim = %+v", cfg.Sim)
	}
	gen, err := cfg.Terrain.NewGenerator()
	if err != nil {
		t.Fatal(err)
	}
	if gen.HeightAt(0, 0) != 20 {
		t.Errorf("flat generator height = %d, want 20", gen.HeightAt(0, 0))
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"rings", "rings: {active: 3, border: 1, pool: 2}\n"},
		{"noise", "terrain: {noise: value}\n"},
		{"generator", "terrain: {generator: caves}\n"},
		{"step", "reach: {step: 0}\n"},
		{"infinite break", "reach: {break: .inf}\n"},
		{"nan place", "reach: {place: .nan}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Errorf("Load accepted %q", tt.body)
			}
		})
	}
	if _, err := Load(writeFile(t, "rings: [")); err == nil {
		t.Errorf("Load accepted malformed YAML")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestMergeKeepsExplicitFlags(t *testing.T) {
	cfg := Default()
	cfg.Terrain.Seed = 7
	cfg.Sim.Steps = 3

	file := Default()
	file.Terrain.Seed = 1000
	file.Sim.Steps = 200
	file.Terrain.WaterLevel = 20

	Merge(&cfg, &file, map[string]bool{"seed": true})
	if cfg.Terrain.Seed != 7 {
		t.Errorf("explicit seed overwritten: %d", cfg.Terrain.Seed)
	}
	if cfg.Sim.Steps != 200 {
		t.Errorf("steps = %d, want file value 200", cfg.Sim.Steps)
	}
	if cfg.Terrain.WaterLevel != 20 {
		t.Errorf("water level = %d, want file value 20", cfg.Terrain.WaterLevel)
	}
}
