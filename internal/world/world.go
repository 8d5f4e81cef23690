package world

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// World owns the chunk pool and is the only block query/mutation surface
// handed to physics, entities and the renderer.
type World struct {
	store    *ChunkStore
	streamer *ChunkStreamer
	gen      TerrainGenerator
}

// New builds a world with an unloaded pool. Call RecomputeRings with the
// initial focus before the first query.
func New(gen TerrainGenerator, rings RingConfig, log *slog.Logger) (*World, error) {
	if err := rings.Validate(); err != nil {
		return nil, err
	}
	store := NewChunkStore(rings.PoolSize())
	streamer, err := NewChunkStreamer(store, gen, rings, log)
	if err != nil {
		return nil, err
	}
	return &World{store: store, streamer: streamer, gen: gen}, nil
}

// Close releases the generation workers.
func (w *World) Close() {
	w.streamer.Close()
}

// Store exposes the chunk pool.
func (w *World) Store() *ChunkStore { return w.store }

// Streamer exposes the streaming manager.
func (w *World) Streamer() *ChunkStreamer { return w.streamer }

// Generator returns the terrain generator backing the world.
func (w *World) Generator() TerrainGenerator { return w.gen }

// RecomputeRings reconciles the pool around focus.
func (w *World) RecomputeRings(focus mgl32.Vec3) error {
	return w.streamer.RecomputeRings(focus)
}

// Update reconciles when focus has moved into another chunk.
func (w *World) Update(focus mgl32.Vec3) (bool, error) {
	return w.streamer.Update(focus)
}

// Loaded snapshots the published chunks.
func (w *World) Loaded() []LoadedChunk {
	return w.store.Loaded()
}

// CellOf returns the world cell containing pos.
func CellOf(pos mgl32.Vec3) BlockPos {
	return BlockPos{
		X: int(math.Floor(float64(pos.X()))),
		Y: int(math.Floor(float64(pos.Y()))),
		Z: int(math.Floor(float64(pos.Z()))),
	}
}

// CellCenter returns the centre point of a cell.
func CellCenter(p BlockPos) mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X) + 0.5, float32(p.Y) + 0.5, float32(p.Z) + 0.5}
}

// split converts a world cell into its chunk coord and local coordinates.
func split(p BlockPos) (ChunkCoord, int, int, int) {
	coord := ChunkCoordOf(p.X, p.Z)
	return coord, p.X - coord.X, p.Y, p.Z - coord.Z
}

// GetBlock returns the block at world position pos, or BlockInvalid when
// no loaded chunk covers it.
func (w *World) GetBlock(pos mgl32.Vec3) BlockID {
	return w.BlockAt(CellOf(pos))
}

// BlockAt is GetBlock for an integer cell.
func (w *World) BlockAt(p BlockPos) BlockID {
	w.store.mu.RLock()
	defer w.store.mu.RUnlock()
	return w.blockAtLocked(p)
}

func (w *World) blockAtLocked(p BlockPos) BlockID {
	coord, lx, ly, lz := split(p)
	if ly < 0 || ly >= ChunkHeight {
		return BlockInvalid
	}
	c, ok := w.store.lookupLocked(coord)
	if !ok {
		return BlockInvalid
	}
	return c.at(lx, ly, lz)
}

// SetBlock writes id at world position pos. It reports whether a loaded
// chunk covered the position.
func (w *World) SetBlock(pos mgl32.Vec3, id BlockID) bool {
	return w.SetBlockAt(CellOf(pos), id)
}

// SetBlockAt is SetBlock for an integer cell.
func (w *World) SetBlockAt(p BlockPos, id BlockID) bool {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return w.setBlockLocked(p, id)
}

func (w *World) setBlockLocked(p BlockPos, id BlockID) bool {
	coord, lx, ly, lz := split(p)
	if ly < 0 || ly >= ChunkHeight {
		return false
	}
	c, ok := w.store.lookupLocked(coord)
	if !ok {
		return false
	}
	c.set(lx, ly, lz, id)
	return true
}

// IsAir reports whether pos is loaded and empty.
func (w *World) IsAir(pos mgl32.Vec3) bool {
	return w.GetBlock(pos) == BlockAir
}

// FillSphere sets every loaded cell whose centre lies within radius of
// center to id and returns how many cells were written.
func (w *World) FillSphere(center mgl32.Vec3, radius float32, id BlockID) int {
	if radius < 0 || math.IsInf(float64(radius), 0) || math.IsNaN(float64(radius)) {
		return 0
	}
	lo := CellOf(center.Sub(mgl32.Vec3{radius, radius, radius}))
	hi := CellOf(center.Add(mgl32.Vec3{radius, radius, radius}))
	r2 := radius * radius

	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	// Only loaded cells can be written; clip the box to them.
	minC, maxC, ok := w.store.boundsLocked()
	if !ok {
		return 0
	}
	lo.X, hi.X = max(lo.X, minC.X), min(hi.X, maxC.X+ChunkWidth-1)
	lo.Z, hi.Z = max(lo.Z, minC.Z), min(hi.Z, maxC.Z+ChunkDepth-1)
	lo.Y, hi.Y = max(lo.Y, 0), min(hi.Y, ChunkHeight-1)

	written := 0
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				p := BlockPos{x, y, z}
				d := CellCenter(p).Sub(center)
				if d.Dot(d) > r2 {
					continue
				}
				if w.setBlockLocked(p, id) {
					written++
				}
			}
		}
	}
	return written
}

// SurfaceAt returns the top-most non-air cell of world column (x, z).
func (w *World) SurfaceAt(x, z int) (BlockPos, BlockID, bool) {
	coord := ChunkCoordOf(x, z)
	w.store.mu.RLock()
	defer w.store.mu.RUnlock()
	c, ok := w.store.lookupLocked(coord)
	if !ok {
		return BlockPos{}, BlockInvalid, false
	}
	y, id, found := c.SurfaceAt(x-coord.X, z-coord.Z)
	if !found {
		return BlockPos{}, BlockAir, false
	}
	return BlockPos{X: x, Y: y, Z: z}, id, true
}
