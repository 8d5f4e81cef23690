// Command worldsim walks a focus point across a streamed voxel world,
// breaking and placing blocks along the way, and optionally writes a
// top-down map of the final chunk pool.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"blockworld/internal/config"
	"blockworld/internal/physics"
	"blockworld/internal/profiling"
	"blockworld/internal/world"
	"blockworld/internal/worldmap"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

const (
	eyeHeight     = 1.6
	interactEvery = 8
)

func main() {
	cfg := config.Default()
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Int64Var(&cfg.Terrain.Seed, "seed", cfg.Terrain.Seed, "terrain seed")
	flag.IntVar(&cfg.Sim.Steps, "steps", cfg.Sim.Steps, "number of simulation steps")
	flag.StringVar(&cfg.Sim.MapPath, "map", cfg.Sim.MapPath, "write a PNG map of the final pool to this path")
	flag.StringVar(&cfg.Terrain.Generator, "generator", cfg.Terrain.Generator, "terrain generator: noise or flat")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(&cfg, &fromFile, explicit)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	gen, err := cfg.Terrain.NewGenerator()
	if err != nil {
		log.Error("terrain generator", "error", err)
		os.Exit(1)
	}
	w, err := world.New(gen, cfg.RingConfig(), log)
	if err != nil {
		log.Error("create world", "error", err)
		os.Exit(1)
	}
	closer.Bind(w.Close)

	closer.Checked(func() error { return run(w, cfg, log) }, true)
	closer.Close()
}

func run(w *world.World, cfg config.Config, log *slog.Logger) error {
	pos := mgl32.Vec3(cfg.Sim.Spawn)
	if err := w.RecomputeRings(pos); err != nil {
		return fmt.Errorf("initial reconcile: %w", err)
	}
	body := physics.DefaultBody()
	reach := cfg.PhysicsReach()
	pos = settle(w, pos, body)
	log.Info("spawned", "pos", pos, "pool", cfg.RingConfig().PoolSize())

	var broken, placed, crossings int
	for step := range cfg.Sim.Steps {
		profiling.ResetFrame()
		pos[0] += cfg.Sim.Speed
		pos = settle(w, pos, body)

		ran, err := w.Update(pos)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if ran {
			crossings++
			rep := w.Streamer().LastReport()
			log.Info("crossed chunk boundary",
				"step", step,
				"focus", rep.Focus,
				"generated", rep.Generated,
				"evicted", rep.Evicted,
				"duration", rep.Duration)
		}

		if step%interactEvery == interactEvery-1 {
			eye := pos.Add(mgl32.Vec3{0, eyeHeight, 0})
			br, err := physics.BreakBlock(w, eye, mgl32.Vec3{1, -1, 0}, reach)
			if err != nil {
				return fmt.Errorf("break at step %d: %w", step, err)
			}
			if br.Applied {
				broken++
				log.Debug("broke block", "block", br.Block, "cell", br.Cell)
			}
			pl, err := physics.PlaceBlock(w, eye, mgl32.Vec3{1, -0.5, 0.5}, world.BlockWood, reach)
			if err != nil {
				return fmt.Errorf("place at step %d: %w", step, err)
			}
			if pl.Applied {
				placed++
				log.Debug("placed block", "cell", pl.Cell, "against", pl.Block)
			}
		}
		log.Debug("tick", "step", step, "pos", pos, "profile", profiling.TopN(3))
	}

	filled := w.FillSphere(pos.Add(mgl32.Vec3{0, 12, 0}), 3, world.BlockLeaves)
	counts := w.Store().Counts()
	log.Info("simulation finished",
		"pos", pos,
		"crossings", crossings,
		"broken", broken,
		"placed", placed,
		"sphere", filled,
		"active", counts.Active,
		"border", counts.Border,
		"primed", counts.Primed)

	if cfg.Sim.MapPath == "" {
		return nil
	}
	img, err := worldmap.Render(w, cfg.Sim.MapScale)
	if err != nil {
		return err
	}
	if err := worldmap.WritePNG(cfg.Sim.MapPath, img); err != nil {
		return err
	}
	log.Info("wrote map", "path", cfg.Sim.MapPath, "size", img.Bounds().Size())
	return nil
}

// settle drops pos onto the ground below it, or leaves it unchanged over
// an empty column.
func settle(w *world.World, pos mgl32.Vec3, body physics.Body) mgl32.Vec3 {
	probe := mgl32.Vec3{pos.X(), world.ChunkHeight - 1, pos.Z()}
	if y, ok := physics.FindGroundLevel(w, probe, body); ok {
		pos[1] = y
	}
	return pos
}
