// Package worldmap draws a top-down snapshot of the loaded chunk pool.
package worldmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"blockworld/internal/world"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Source is anything that can list its loaded chunks. Callers must not
// reconcile the pool while a map is being rendered.
type Source interface {
	Loaded() []world.LoadedChunk
}

var palette = map[world.BlockID]color.RGBA{
	world.BlockStone:   {125, 125, 125, 255},
	world.BlockDirt:    {134, 96, 67, 255},
	world.BlockGrass:   {95, 159, 53, 255},
	world.BlockSand:    {219, 211, 160, 255},
	world.BlockWood:    {102, 81, 51, 255},
	world.BlockOres:    {160, 120, 90, 255},
	world.BlockLeaves:  {60, 120, 40, 255},
	world.BlockWater:   {47, 90, 200, 255},
	world.BlockLava:    {207, 92, 20, 255},
	world.BlockMilk:    {245, 245, 240, 255},
	world.BlockOil:     {30, 25, 20, 255},
	world.BlockFurnace: {90, 90, 90, 255},
	world.BlockCrop:    {180, 170, 60, 255},
	world.BlockFlora:   {200, 60, 120, 255},
}

var background = color.RGBA{0, 0, 0, 255}

// ringShade darkens the outer rings so the active area stands out.
var ringShade = map[world.Ring]float64{
	world.RingActive: 1.0,
	world.RingBorder: 0.8,
	world.RingPrimed: 0.6,
}

var ringLabel = map[world.Ring]string{
	world.RingActive: "A",
	world.RingBorder: "B",
	world.RingPrimed: "P",
}

// Render draws one pixel per column, upscaled by scale. Each column is
// coloured by its surface block, brightened with height and shaded by
// ring. Chunks are labelled with their ring's initial when scale > 1.
func Render(src Source, scale int) (*image.RGBA, error) {
	if scale < 1 {
		return nil, fmt.Errorf("worldmap: scale must be at least 1, got %d", scale)
	}
	loaded := src.Loaded()
	if len(loaded) == 0 {
		return nil, fmt.Errorf("worldmap: no loaded chunks")
	}

	minX, minZ := loaded[0].Chunk.Coord.X, loaded[0].Chunk.Coord.Z
	maxX, maxZ := minX, minZ
	for _, lc := range loaded {
		minX, maxX = min(minX, lc.Chunk.Coord.X), max(maxX, lc.Chunk.Coord.X)
		minZ, maxZ = min(minZ, lc.Chunk.Coord.Z), max(maxZ, lc.Chunk.Coord.Z)
	}
	w := maxX - minX + world.ChunkWidth
	h := maxZ - minZ + world.ChunkDepth

	base := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(base, base.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	for _, lc := range loaded {
		ox, oz := lc.Chunk.Coord.X-minX, lc.Chunk.Coord.Z-minZ
		for z := range world.ChunkDepth {
			for x := range world.ChunkWidth {
				y, id, ok := lc.Chunk.SurfaceAt(x, z)
				if !ok {
					continue
				}
				base.SetRGBA(ox+x, oz+z, columnColor(id, y, lc.Ring))
			}
		}
	}
	if scale == 1 {
		return base, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	for _, lc := range loaded {
		px := (lc.Chunk.Coord.X-minX)*scale + 2
		pz := (lc.Chunk.Coord.Z-minZ)*scale + 1 + ascent
		d.Dot = fixed.P(px, pz)
		d.DrawString(ringLabel[lc.Ring])
	}
	return out, nil
}

func columnColor(id world.BlockID, y int, r world.Ring) color.RGBA {
	c, ok := palette[id]
	if !ok {
		c = color.RGBA{255, 0, 255, 255}
	}
	// 0.7 at the bottom of the world up to 1.3 at the top.
	k := ringShade[r] * (0.7 + 0.6*float64(y)/float64(world.ChunkHeight-1))
	return color.RGBA{shade(c.R, k), shade(c.G, k), shade(c.B, k), 255}
}

func shade(v uint8, k float64) uint8 {
	return uint8(min(255, float64(v)*k))
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
