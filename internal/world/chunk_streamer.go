package world

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"blockworld/internal/profiling"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// ReconcileReport summarises one reconciliation.
type ReconcileReport struct {
	Focus     ChunkCoord
	Kept      int
	Evicted   int
	Generated int
	Duration  time.Duration
}

// ChunkStreamer keeps the pool partitioned into rings around a focus.
// Newly needed chunks are generated on a worker pool into slots that are
// not yet published, so queries never observe a half-built chunk.
type ChunkStreamer struct {
	store *ChunkStore
	gen   TerrainGenerator
	rings RingConfig
	pool  pond.Pool
	log   *slog.Logger

	mu       sync.Mutex // serialises reconciliation
	focus    ChunkCoord
	hasFocus bool
	last     ReconcileReport
}

// NewChunkStreamer creates a streamer over store. The store must hold
// exactly rings.PoolSize() slots.
func NewChunkStreamer(store *ChunkStore, gen TerrainGenerator, rings RingConfig, log *slog.Logger) (*ChunkStreamer, error) {
	if err := rings.Validate(); err != nil {
		return nil, err
	}
	if store.Size() != rings.PoolSize() {
		return nil, fmt.Errorf("%w: store has %d slots, rings need %d", ErrInvalidConfig, store.Size(), rings.PoolSize())
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ChunkStreamer{
		store: store,
		gen:   gen,
		rings: rings,
		pool:  pond.NewPool(rings.workers()),
		log:   log,
	}, nil
}

// Close stops the generation workers.
func (cs *ChunkStreamer) Close() {
	cs.pool.StopAndWait()
}

// Focus returns the chunk the pool was last reconciled around.
func (cs *ChunkStreamer) Focus() (ChunkCoord, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.focus, cs.hasFocus
}

// LastReport returns the report of the most recent reconciliation.
func (cs *ChunkStreamer) LastReport() ReconcileReport {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.last
}

// FocusChunkCoord returns the coord of the chunk containing pos.
func FocusChunkCoord(pos mgl32.Vec3) ChunkCoord {
	x := int(math.Floor(float64(pos.X())))
	z := int(math.Floor(float64(pos.Z())))
	return ChunkCoordOf(x, z)
}

// Update reconciles only when pos has crossed into a different chunk.
// It reports whether a reconciliation ran.
func (cs *ChunkStreamer) Update(pos mgl32.Vec3) (bool, error) {
	coord := FocusChunkCoord(pos)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.hasFocus && coord == cs.focus {
		return false, nil
	}
	return true, cs.reconcile(coord)
}

// RecomputeRings reconciles the pool around pos unconditionally.
func (cs *ChunkStreamer) RecomputeRings(pos mgl32.Vec3) error {
	coord := FocusChunkCoord(pos)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.reconcile(coord)
}

type genJob struct {
	slot  int
	coord ChunkCoord
	ring  Ring
}

func (cs *ChunkStreamer) reconcile(focus ChunkCoord) error {
	defer profiling.Track("world.Reconcile")()
	start := time.Now()

	desired := cs.desired(focus)

	jobs, kept, evicted, err := cs.plan(desired)
	if err != nil {
		cs.log.Error("chunk pool reconcile failed", "focus", focus, "error", err)
		return err
	}

	if err := cs.generate(jobs); err != nil {
		cs.log.Error("chunk generation failed", "focus", focus, "error", err)
		return err
	}

	cs.store.mu.Lock()
	for _, j := range jobs {
		cs.store.publishLocked(j.slot, j.ring)
	}
	cs.store.pinLocked(focus)
	err = cs.store.checkLocked(desired)
	cs.store.mu.Unlock()
	if err != nil {
		cs.log.Error("chunk pool invariant check failed", "focus", focus, "error", err)
		return err
	}

	cs.focus = focus
	cs.hasFocus = true
	cs.last = ReconcileReport{
		Focus:     focus,
		Kept:      kept,
		Evicted:   evicted,
		Generated: len(jobs),
		Duration:  time.Since(start),
	}
	cs.log.Debug("chunk pool reconciled",
		"focus", focus,
		"kept", kept,
		"evicted", evicted,
		"generated", len(jobs),
		"duration", cs.last.Duration)
	return nil
}

// desired lists every coord within the pool radius of focus and its ring.
func (cs *ChunkStreamer) desired(focus ChunkCoord) map[ChunkCoord]Ring {
	r := cs.rings.PoolRadius
	out := make(map[ChunkCoord]Ring, cs.rings.PoolSize())
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			out[focus.Offset(dx, dz)] = cs.rings.Classify(max(abs(dx), abs(dz)))
		}
	}
	return out
}

// plan keeps slots whose coord is still desired, evicts the rest and
// assigns each missing coord to a freed slot. The pool is not modified when
// there are not enough free slots.
func (cs *ChunkStreamer) plan(desired map[ChunkCoord]Ring) (jobs []genJob, kept, evicted int, err error) {
	cs.store.mu.Lock()
	defer cs.store.mu.Unlock()

	slots := cs.store.slots
	var keep, free []int
	present := make(map[ChunkCoord]bool, len(slots))
	for i, s := range slots {
		if s.ring != RingUnloaded {
			if _, ok := desired[s.chunk.Coord]; ok && !present[s.chunk.Coord] {
				keep = append(keep, i)
				present[s.chunk.Coord] = true
				continue
			}
		}
		free = append(free, i)
	}

	missing := make([]ChunkCoord, 0, len(desired))
	for coord := range desired {
		if !present[coord] {
			missing = append(missing, coord)
		}
	}
	if len(missing) > len(free) {
		return nil, 0, 0, fmt.Errorf("%w: need %d slots, %d free", ErrPoolExhausted, len(missing), len(free))
	}

	// Map iteration order is random; sort so slot assignment is repeatable.
	slices.SortFunc(missing, func(a, b ChunkCoord) int {
		if c := cmp.Compare(desired[a], desired[b]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Z, b.Z)
	})

	for _, i := range keep {
		slots[i].ring = desired[slots[i].chunk.Coord]
	}
	for _, i := range free {
		if slots[i].ring != RingUnloaded {
			cs.store.evictLocked(i)
			evicted++
		}
	}

	jobs = make([]genJob, len(missing))
	for n, coord := range missing {
		jobs[n] = genJob{slot: free[n], coord: coord, ring: desired[coord]}
	}
	return jobs, len(keep), evicted, nil
}

// generate fills the job slots. The slots are unpublished, so no lock is
// held while workers write into them.
func (cs *ChunkStreamer) generate(jobs []genJob) error {
	if len(jobs) == 0 {
		return nil
	}
	group := cs.pool.NewGroup()
	for _, j := range jobs {
		chunk := cs.store.slots[j.slot].chunk
		group.SubmitErr(func() error {
			if err := cs.gen.Generate(chunk, j.coord.X, j.coord.Z); err != nil {
				return fmt.Errorf("chunk %v: %w", j.coord, err)
			}
			return nil
		})
	}
	return group.Wait()
}
