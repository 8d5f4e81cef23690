package physics

import (
	"errors"
	"fmt"
	"math"

	"blockworld/internal/profiling"
	"blockworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrZeroDirection is returned for rays whose direction cannot be normalised.
	ErrZeroDirection = errors.New("physics: ray direction has zero length")
	// ErrInvalidStep is returned for non-positive march steps.
	ErrInvalidStep = errors.New("physics: ray step must be positive")
	// ErrInvalidDistance is returned for negative, NaN or infinite ray lengths.
	ErrInvalidDistance = errors.New("physics: ray distance must be finite and non-negative")
)

// BlockReader is the read side of the world.
type BlockReader interface {
	GetBlock(pos mgl32.Vec3) world.BlockID
}

// BlockAccess can also mutate blocks.
type BlockAccess interface {
	BlockReader
	SetBlock(pos mgl32.Vec3, id world.BlockID) bool
}

// Reach configures interaction raycasts.
type Reach struct {
	Step  float32 // march increment, smaller than a block
	Break float32 // max distance for breaking
	Place float32 // max distance for placing
}

// DefaultReach matches the classic break/place distances.
func DefaultReach() Reach {
	return Reach{Step: 0.2, Break: 3.6, Place: 4.0}
}

// RaycastResult describes the first block a ray met.
type RaycastResult struct {
	Hit      bool
	Block    world.BlockID
	Position mgl32.Vec3     // sample point inside the hit cell
	Cell     world.BlockPos // hit cell
	Previous mgl32.Vec3     // sample point one step before Position
	Distance float32
}

// Raycast marches from origin along dir in fixed steps and stops at the
// first loaded, non-air block. Cells outside the loaded world are passed
// through. Samples are taken at step, 2*step, ... while below maxDist.
func Raycast(w BlockReader, origin, dir mgl32.Vec3, maxDist, step float32) (RaycastResult, error) {
	defer profiling.Track("physics.Raycast")()

	if step <= 0 || math.IsNaN(float64(step)) {
		return RaycastResult{}, fmt.Errorf("raycast step %g: %w", step, ErrInvalidStep)
	}
	if maxDist < 0 || math.IsNaN(float64(maxDist)) || math.IsInf(float64(maxDist), 0) {
		return RaycastResult{}, fmt.Errorf("raycast distance %g: %w", maxDist, ErrInvalidDistance)
	}
	length := dir.Len()
	if length == 0 || math.IsNaN(float64(length)) || math.IsInf(float64(length), 0) {
		return RaycastResult{}, ErrZeroDirection
	}
	dir = dir.Mul(1 / length)

	for i := 1; float32(i)*step < maxDist; i++ {
		dist := float32(i) * step
		pos := origin.Add(dir.Mul(dist))
		b := w.GetBlock(pos)
		if b == world.BlockAir || b == world.BlockInvalid {
			continue
		}
		return RaycastResult{
			Hit:      true,
			Block:    b,
			Position: pos,
			Cell:     world.CellOf(pos),
			Previous: origin.Add(dir.Mul(dist - step)),
			Distance: dist,
		}, nil
	}
	return RaycastResult{}, nil
}

// Interaction is the outcome of a break or place raycast.
type Interaction struct {
	Hit      bool
	Block    world.BlockID  // block the ray hit
	Position mgl32.Vec3     // break: hit point with Y rounded up; place: written point
	Cell     world.BlockPos // cell broken or written
	Applied  bool           // whether the world was changed
}

// BreakBlock clears the first block along the ray. Position.Y is rounded
// up so effects spawn on top of the broken cell.
func BreakBlock(w BlockAccess, origin, dir mgl32.Vec3, reach Reach) (Interaction, error) {
	res, err := Raycast(w, origin, dir, reach.Break, reach.Step)
	if err != nil || !res.Hit {
		return Interaction{}, err
	}
	applied := w.SetBlock(res.Position, world.BlockAir)
	pos := res.Position
	pos[1] = float32(math.Ceil(float64(pos.Y())))
	return Interaction{
		Hit:      true,
		Block:    res.Block,
		Position: pos,
		Cell:     res.Cell,
		Applied:  applied,
	}, nil
}

// PlaceBlock writes id into the cell sampled one step before the first
// hit, next to the surface the ray touched. The hit cell itself is never
// overwritten.
func PlaceBlock(w BlockAccess, origin, dir mgl32.Vec3, id world.BlockID, reach Reach) (Interaction, error) {
	target, res, err := placeTarget(w, origin, dir, reach)
	if err != nil || !res.Hit {
		return Interaction{}, err
	}
	out := Interaction{
		Hit:      true,
		Block:    res.Block,
		Position: res.Previous,
		Cell:     target,
	}
	if target == res.Cell {
		return out, nil
	}
	out.Applied = w.SetBlock(res.Previous, id)
	return out, nil
}

// PlacePosition reports the cell PlaceBlock would write, without
// changing the world.
func PlacePosition(w BlockReader, origin, dir mgl32.Vec3, reach Reach) (world.BlockPos, bool, error) {
	target, res, err := placeTarget(w, origin, dir, reach)
	if err != nil || !res.Hit || target == res.Cell {
		return world.BlockPos{}, false, err
	}
	return target, true, nil
}

func placeTarget(w BlockReader, origin, dir mgl32.Vec3, reach Reach) (world.BlockPos, RaycastResult, error) {
	res, err := Raycast(w, origin, dir, reach.Place, reach.Step)
	if err != nil || !res.Hit {
		return world.BlockPos{}, res, err
	}
	return world.CellOf(res.Previous), res, nil
}
