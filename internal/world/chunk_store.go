package world

import (
	"fmt"
	"sync"
)

type slot struct {
	chunk *Chunk
	ring  Ring
}

// ChunkStore is the fixed pool of chunks. Slots are allocated once and
// re-purposed by the streamer; a slot's chunk is only reachable through
// Lookup while its ring is not RingUnloaded.
type ChunkStore struct {
	mu       sync.RWMutex
	slots    []slot
	index    map[ChunkCoord]int // loaded coord -> slot
	modCount uint64             // bumps on every publish/evict
}

// LoadedChunk pairs a published chunk with its ring.
type LoadedChunk struct {
	Chunk *Chunk
	Ring  Ring
}

// NewChunkStore allocates size chunks from a single backing array.
func NewChunkStore(size int) *ChunkStore {
	backing := make([]BlockID, size*ChunkVolume)
	cs := &ChunkStore{
		slots: make([]slot, size),
		index: make(map[ChunkCoord]int, size),
	}
	for i := range cs.slots {
		cs.slots[i].chunk = newChunkBacked(backing[i*ChunkVolume:])
	}
	return cs
}

// Size returns the number of slots.
func (cs *ChunkStore) Size() int {
	return len(cs.slots)
}

// Lookup returns the loaded chunk at coord.
func (cs *ChunkStore) Lookup(coord ChunkCoord) (*Chunk, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lookupLocked(coord)
}

func (cs *ChunkStore) lookupLocked(coord ChunkCoord) (*Chunk, bool) {
	i, ok := cs.index[coord]
	if !ok {
		return nil, false
	}
	return cs.slots[i].chunk, true
}

// RingOf returns the ring of coord, RingUnloaded when it is not in the pool.
func (cs *ChunkStore) RingOf(coord ChunkCoord) Ring {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	i, ok := cs.index[coord]
	if !ok {
		return RingUnloaded
	}
	return cs.slots[i].ring
}

// FocusChunk returns the chunk in slot 0, which holds the focus chunk once
// the pool has been reconciled.
func (cs *ChunkStore) FocusChunk() (*Chunk, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if len(cs.slots) == 0 || cs.slots[0].ring == RingUnloaded {
		return nil, false
	}
	return cs.slots[0].chunk, true
}

// Counts tallies slots per ring.
func (cs *ChunkStore) Counts() RingCounts {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	var c RingCounts
	for _, s := range cs.slots {
		c.add(s.ring)
	}
	return c
}

// Loaded snapshots the published chunks in slot order.
func (cs *ChunkStore) Loaded() []LoadedChunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]LoadedChunk, 0, len(cs.index))
	for _, s := range cs.slots {
		if s.ring != RingUnloaded {
			out = append(out, LoadedChunk{Chunk: s.chunk, Ring: s.ring})
		}
	}
	return out
}

// ModCount increases whenever the set of loaded chunks changes.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// boundsLocked returns the smallest and largest loaded chunk coords.
func (cs *ChunkStore) boundsLocked() (lo, hi ChunkCoord, ok bool) {
	for coord := range cs.index {
		if !ok {
			lo, hi, ok = coord, coord, true
			continue
		}
		lo.X, lo.Z = min(lo.X, coord.X), min(lo.Z, coord.Z)
		hi.X, hi.Z = max(hi.X, coord.X), max(hi.Z, coord.Z)
	}
	return lo, hi, ok
}

// evictLocked frees slot i for reuse. Block data is left in place; it is
// unreachable once the coord leaves the index.
func (cs *ChunkStore) evictLocked(i int) {
	s := &cs.slots[i]
	if s.ring == RingUnloaded {
		return
	}
	if j, ok := cs.index[s.chunk.Coord]; ok && j == i {
		delete(cs.index, s.chunk.Coord)
	}
	s.ring = RingUnloaded
	cs.modCount++
}

// publishLocked makes slot i visible at its chunk's coord.
func (cs *ChunkStore) publishLocked(i int, r Ring) {
	cs.slots[i].ring = r
	cs.index[cs.slots[i].chunk.Coord] = i
	cs.modCount++
}

// pinLocked swaps the slot holding coord into slot 0.
func (cs *ChunkStore) pinLocked(coord ChunkCoord) {
	i, ok := cs.index[coord]
	if !ok || i == 0 {
		return
	}
	cs.slots[0], cs.slots[i] = cs.slots[i], cs.slots[0]
	cs.index[coord] = 0
	if cs.slots[i].ring != RingUnloaded {
		cs.index[cs.slots[i].chunk.Coord] = i
	}
}

// checkLocked verifies that every slot is labelled with the ring its coord
// deserves and that desired coords each own exactly one slot.
func (cs *ChunkStore) checkLocked(desired map[ChunkCoord]Ring) error {
	var counts RingCounts
	seen := make(map[ChunkCoord]int, len(cs.slots))
	for i, s := range cs.slots {
		counts.add(s.ring)
		if s.ring == RingUnloaded {
			continue
		}
		if prev, dup := seen[s.chunk.Coord]; dup {
			return fmt.Errorf("%w: coord %v in slots %d and %d", ErrPoolInvariant, s.chunk.Coord, prev, i)
		}
		seen[s.chunk.Coord] = i
		want, ok := desired[s.chunk.Coord]
		if !ok || want != s.ring {
			return fmt.Errorf("%w: slot %d holds %v as %v", ErrPoolInvariant, i, s.chunk.Coord, s.ring)
		}
		if cs.index[s.chunk.Coord] != i {
			return fmt.Errorf("%w: index for %v does not point at slot %d", ErrPoolInvariant, s.chunk.Coord, i)
		}
	}
	if counts.Loaded() != len(cs.slots) || len(cs.index) != len(cs.slots) {
		return fmt.Errorf("%w: %d active + %d border + %d primed != pool size %d",
			ErrPoolInvariant, counts.Active, counts.Border, counts.Primed, len(cs.slots))
	}
	for coord := range desired {
		if _, ok := seen[coord]; !ok {
			return fmt.Errorf("%w: desired coord %v not loaded", ErrPoolInvariant, coord)
		}
	}
	return nil
}
