package world

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"iter"
)

const (
	// Chunk dimensions
	ChunkWidth  = 16 // X
	ChunkDepth  = 16 // Z
	ChunkHeight = 256

	ChunkColumns = ChunkWidth * ChunkDepth
	ChunkVolume  = ChunkColumns * ChunkHeight
)

// Neighbour offsets in the flat block array. They are only valid for cells
// that are not on the corresponding chunk face.
const (
	OffsetX = 1
	OffsetZ = ChunkWidth
	OffsetY = ChunkColumns
)

// ChunkCoord is the world-space block offset of a chunk's (0,0) column.
// Both components are multiples of the chunk's horizontal size.
type ChunkCoord struct {
	X, Z int
}

// ChunkCoordOf returns the coord of the chunk containing world cell (x, z).
func ChunkCoordOf(x, z int) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(x, ChunkWidth) * ChunkWidth,
		Z: floorDiv(z, ChunkDepth) * ChunkDepth,
	}
}

// Aligned reports whether c lies on the chunk grid.
func (c ChunkCoord) Aligned() bool {
	return mod(c.X, ChunkWidth) == 0 && mod(c.Z, ChunkDepth) == 0
}

// Distance is the Chebyshev distance to o, in chunks.
func (c ChunkCoord) Distance(o ChunkCoord) int {
	dx := abs(c.X-o.X) / ChunkWidth
	dz := abs(c.Z-o.Z) / ChunkDepth
	return max(dx, dz)
}

// Offset returns the coord dx, dz chunks away.
func (c ChunkCoord) Offset(dx, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx*ChunkWidth, Z: c.Z + dz*ChunkDepth}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// BlockPos is an integer world cell.
type BlockPos struct {
	X, Y, Z int
}

// Chunk is one 16x256x16 column of the world.
type Chunk struct {
	Coord  ChunkCoord
	blocks []BlockID
}

// NewChunk allocates a standalone chunk at coord.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{Coord: coord, blocks: make([]BlockID, ChunkVolume)}
}

// newChunkBacked wraps storage carved out of a pool allocation.
func newChunkBacked(storage []BlockID) *Chunk {
	return &Chunk{blocks: storage[:ChunkVolume:ChunkVolume]}
}

// ChunkIndex converts local (x, y, z) into the flat Y-major index.
func ChunkIndex(x, y, z int) int {
	return x + ChunkWidth*z + ChunkColumns*y
}

// InBounds reports whether local (x, y, z) addresses a cell of a chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkWidth &&
		y >= 0 && y < ChunkHeight &&
		z >= 0 && z < ChunkDepth
}

// Block returns the block at local coordinates.
func (c *Chunk) Block(x, y, z int) (BlockID, error) {
	if !InBounds(x, y, z) {
		return BlockInvalid, fmt.Errorf("block (%d,%d,%d): %w", x, y, z, ErrOutOfBounds)
	}
	return c.blocks[ChunkIndex(x, y, z)], nil
}

// SetBlock overwrites a single cell.
func (c *Chunk) SetBlock(x, y, z int, id BlockID) error {
	if !InBounds(x, y, z) {
		return fmt.Errorf("set block (%d,%d,%d): %w", x, y, z, ErrOutOfBounds)
	}
	c.blocks[ChunkIndex(x, y, z)] = id
	return nil
}

// at and set skip bounds checks; callers have already clamped.
func (c *Chunk) at(x, y, z int) BlockID {
	return c.blocks[ChunkIndex(x, y, z)]
}

func (c *Chunk) set(x, y, z int, id BlockID) {
	c.blocks[ChunkIndex(x, y, z)] = id
}

// Reset zero-fills the chunk (all air).
func (c *Chunk) Reset() {
	clear(c.blocks)
}

// SurfaceAt returns the local height and id of the top-most non-air
// cell in column (x, z), or ok=false for an empty column.
func (c *Chunk) SurfaceAt(x, z int) (y int, id BlockID, ok bool) {
	if x < 0 || x >= ChunkWidth || z < 0 || z >= ChunkDepth {
		return 0, BlockInvalid, false
	}
	for y = ChunkHeight - 1; y >= 0; y-- {
		if b := c.at(x, y, z); b != BlockAir {
			return y, b, true
		}
	}
	return 0, BlockAir, false
}

// ActiveBlocks yields the world position and id of every non-air cell,
// walking the array in storage order.
func (c *Chunk) ActiveBlocks() iter.Seq2[BlockPos, BlockID] {
	return func(yield func(BlockPos, BlockID) bool) {
		for i, b := range c.blocks {
			if b == BlockAir {
				continue
			}
			y := i / ChunkColumns
			rem := i % ChunkColumns
			pos := BlockPos{
				X: c.Coord.X + rem%ChunkWidth,
				Y: y,
				Z: c.Coord.Z + rem/ChunkWidth,
			}
			if !yield(pos, b) {
				return
			}
		}
	}
}

// Digest hashes the block array. Two chunks with equal digests hold the
// same terrain.
func (c *Chunk) Digest() [32]byte {
	h := sha256.New()
	var tmp [2]byte
	for _, b := range c.blocks {
		binary.LittleEndian.PutUint16(tmp[:], uint16(b))
		h.Write(tmp[:])
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
