package world

import "fmt"

// BlockID identifies a voxel's material. Zero is air.
type BlockID uint16

const (
	BlockAir BlockID = iota

	// Solids
	BlockStone
	BlockDirt
	BlockGrass
	BlockSand
	BlockWood
	BlockOres
	BlockLeaves

	// Fluids
	BlockWater
	BlockLava
	BlockMilk
	BlockOil

	// Machines
	BlockFurnace

	// Other
	BlockCrop
	BlockFlora

	numBlocks
)

// BlockInvalid is returned by lookups that found no loaded chunk.
// It never names a real block.
const BlockInvalid BlockID = 0xFFFF

// Category groups blocks by how the rest of the game treats them.
type Category uint8

const (
	CategoryEmpty Category = iota
	CategorySolid
	CategoryFluid
	CategoryMachine
	CategoryOther
	CategoryInvalid
)

type blockInfo struct {
	name     string
	category Category
}

// blockTable maps every BlockID to its category so that category
// membership never depends on the numeric order of the ids.
var blockTable = [numBlocks]blockInfo{
	BlockAir:     {"air", CategoryEmpty},
	BlockStone:   {"stone", CategorySolid},
	BlockDirt:    {"dirt", CategorySolid},
	BlockGrass:   {"grass", CategorySolid},
	BlockSand:    {"sand", CategorySolid},
	BlockWood:    {"wood", CategorySolid},
	BlockOres:    {"ores", CategorySolid},
	BlockLeaves:  {"leaves", CategorySolid},
	BlockWater:   {"water", CategoryFluid},
	BlockLava:    {"lava", CategoryFluid},
	BlockMilk:    {"milk", CategoryFluid},
	BlockOil:     {"oil", CategoryFluid},
	BlockFurnace: {"furnace", CategoryMachine},
	BlockCrop:    {"crop", CategoryOther},
	BlockFlora:   {"flora", CategoryOther},
}

// Category returns the block's category. Unknown ids and BlockInvalid
// report CategoryInvalid.
func (b BlockID) Category() Category {
	if b >= numBlocks {
		return CategoryInvalid
	}
	return blockTable[b].category
}

// Valid reports whether b is a known block id.
func (b BlockID) Valid() bool {
	return b < numBlocks
}

// IsAir reports whether b is empty space.
func (b BlockID) IsAir() bool { return b == BlockAir }

// IsSolid reports whether b is a solid block.
func (b BlockID) IsSolid() bool { return b.Category() == CategorySolid }

// IsFluid reports whether b is a fluid.
func (b BlockID) IsFluid() bool { return b.Category() == CategoryFluid }

// IsOpaque reports whether b hides the faces of its neighbours.
// Solids and machines are opaque; fluids and foliage are not.
func (b BlockID) IsOpaque() bool {
	switch b.Category() {
	case CategorySolid, CategoryMachine:
		return b != BlockLeaves
	default:
		return false
	}
}

func (b BlockID) String() string {
	if b == BlockInvalid {
		return "invalid"
	}
	if b >= numBlocks {
		return fmt.Sprintf("block(%d)", uint16(b))
	}
	return blockTable[b].name
}

// ParseBlock resolves a block name as produced by String.
func ParseBlock(name string) (BlockID, error) {
	for id, info := range blockTable {
		if info.name == name {
			return BlockID(id), nil
		}
	}
	return BlockInvalid, fmt.Errorf("unknown block %q", name)
}

func (c Category) String() string {
	switch c {
	case CategoryEmpty:
		return "empty"
	case CategorySolid:
		return "solid"
	case CategoryFluid:
		return "fluid"
	case CategoryMachine:
		return "machine"
	case CategoryOther:
		return "other"
	default:
		return "invalid"
	}
}
