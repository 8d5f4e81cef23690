package physics

import (
	"math"

	"blockworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Body is an axis-aligned box standing on its feet at a position.
type Body struct {
	HalfWidth float32
	Height    float32
}

// DefaultBody is a player-sized box.
func DefaultBody() Body {
	return Body{HalfWidth: 0.3, Height: 1.8}
}

const groundEpsilon = 0.01

// blocksMovement reports whether b stops a body. Unloaded cells do not.
func blocksMovement(b world.BlockID) bool {
	switch b.Category() {
	case world.CategorySolid, world.CategoryMachine:
		return true
	}
	return false
}

func span(lo, hi float32) (int, int) {
	return int(math.Floor(float64(lo))), int(math.Ceil(float64(hi))) - 1
}

// Collides reports whether body, with its feet centred at pos, overlaps
// any blocking cell.
func Collides(w BlockReader, pos mgl32.Vec3, body Body) bool {
	return overlaps(w,
		mgl32.Vec3{pos.X() - body.HalfWidth, pos.Y(), pos.Z() - body.HalfWidth},
		mgl32.Vec3{pos.X() + body.HalfWidth, pos.Y() + body.Height, pos.Z() + body.HalfWidth})
}

// Grounded reports whether body rests on a blocking cell.
func Grounded(w BlockReader, pos mgl32.Vec3, body Body) bool {
	return overlaps(w,
		mgl32.Vec3{pos.X() - body.HalfWidth, pos.Y() - groundEpsilon, pos.Z() - body.HalfWidth},
		mgl32.Vec3{pos.X() + body.HalfWidth, pos.Y(), pos.Z() + body.HalfWidth})
}

func overlaps(w BlockReader, lo, hi mgl32.Vec3) bool {
	x0, x1 := span(lo.X(), hi.X())
	y0, y1 := span(lo.Y(), hi.Y())
	z0, z1 := span(lo.Z(), hi.Z())
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				if blocksMovement(w.GetBlock(world.CellCenter(world.BlockPos{X: x, Y: y, Z: z}))) {
					return true
				}
			}
		}
	}
	return false
}

// FindGroundLevel returns the top face of the highest blocking cell under
// the body's footprint, at or below pos. ok is false over a bottomless or
// unloaded column.
func FindGroundLevel(w BlockReader, pos mgl32.Vec3, body Body) (float32, bool) {
	x0, x1 := span(pos.X()-body.HalfWidth, pos.X()+body.HalfWidth)
	z0, z1 := span(pos.Z()-body.HalfWidth, pos.Z()+body.HalfWidth)
	top := min(int(math.Floor(float64(pos.Y()))), world.ChunkHeight-1)

	best, found := 0, false
	for x := x0; x <= x1; x++ {
		for z := z0; z <= z1; z++ {
			for y := top; y >= 0 && (!found || y >= best); y-- {
				if blocksMovement(w.GetBlock(world.CellCenter(world.BlockPos{X: x, Y: y, Z: z}))) {
					if !found || y+1 > best {
						best = y + 1
					}
					found = true
					break
				}
			}
		}
	}
	return float32(best), found
}
