// Package sky maps the observed footprint of a depth-1 map onto a fixed
// 10x10 degree equirectangular tile grid.
package sky

import (
	"fmt"
	"math"
	"sort"

	"github.com/simonsobs/mapcat/internal/domain"
)

const (
	// TileSize is the edge length of a tile in degrees.
	TileSize = 10.0
	// GridWidth is the number of tiles in right ascension (0 to 360 degrees).
	GridWidth = 36
	// GridHeight is the number of tiles in declination (-90 to +90 degrees).
	GridHeight = 18

	// snapTolerance absorbs radian round-trip error on values that sit on a grid line.
	snapTolerance = 1e-9
)

// BoundingBox holds two (dec, ra) corners in radians:
// [0] = (dec_min, ra_max) and [1] = (dec_max, ra_min).
type BoundingBox [2][2]float64

// DegreeBox builds a BoundingBox from corner values given in degrees.
func DegreeBox(decMin, raMax, decMax, raMin float64) BoundingBox {
	return BoundingBox{
		{deg2rad(decMin), deg2rad(raMax)},
		{deg2rad(decMax), deg2rad(raMin)},
	}
}

// Degrees returns the corners as dec_min, ra_max, dec_max, ra_min in degrees.
func (b BoundingBox) Degrees() (decMin, raMax, decMax, raMin float64) {
	return rad2deg(b[0][0]), rad2deg(b[0][1]), rad2deg(b[1][0]), rad2deg(b[1][1])
}

// Validate rejects boxes that cannot yield a meaningful tile set.
func (b BoundingBox) Validate() error {
	for _, corner := range b {
		for _, v := range corner {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite bounding box value", domain.ErrDataIntegrity)
			}
		}
	}
	decMin, _, decMax, _ := b.Degrees()
	if decMin > decMax {
		return fmt.Errorf("%w: dec_min %.6f > dec_max %.6f", domain.ErrDataIntegrity, decMin, decMax)
	}
	if decMin < -90-snapTolerance || decMax > 90+snapTolerance {
		return fmt.Errorf("%w: declination [%.6f, %.6f] outside [-90, 90]", domain.ErrDataIntegrity, decMin, decMax)
	}
	return nil
}

// Tile is a cell of the global sky grid. X=0 covers RA 0-10 degrees,
// Y=0 covers Dec -90 to -80 degrees.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InGrid reports whether the tile lies on the 36x18 grid.
func (t Tile) InGrid() bool {
	return t.X >= 0 && t.X < GridWidth && t.Y >= 0 && t.Y < GridHeight
}

// Bounds returns the tile's extent as a BoundingBox.
func (t Tile) Bounds() BoundingBox {
	ra := float64(t.X) * TileSize
	dec := float64(t.Y-GridHeight/2) * TileSize
	return DegreeBox(dec, ra+TileSize, dec+TileSize, ra)
}

// Sampler answers whether any observed (non-zero) cell lies inside a box.
type Sampler interface {
	Box() BoundingBox
	AnyNonZero(box BoundingBox) bool
}

// ResolveTiles returns every tile overlapping the box in which the raster
// has at least one non-zero cell. Boxes crossing RA=0 are not unwrapped, so
// tiles west of the seam come back with negative X.
func ResolveTiles(box BoundingBox, raster Sampler) ([]Tile, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}

	decMin, raMax, decMax, raMin := box.Degrees()
	decMin = snapDown(decMin)
	decMax = snapUp(decMax)
	raMin = snapDown(raMin)
	raMax = snapUp(raMax)

	var tiles []Tile
	for ra := raMin; ra < raMax; ra += TileSize {
		for dec := decMin; dec < decMax; dec += TileSize {
			sub := DegreeBox(dec, ra+TileSize, dec+TileSize, ra)
			if !raster.AnyNonZero(sub) {
				continue
			}
			tiles = append(tiles, Tile{
				X: int(math.Round(ra / TileSize)),
				Y: int(math.Round(dec/TileSize)) + GridHeight/2,
			})
		}
	}

	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].X != tiles[j].X {
			return tiles[i].X < tiles[j].X
		}
		return tiles[i].Y < tiles[j].Y
	})
	return tiles, nil
}

// Resolve is ResolveTiles over the raster's own bounding box.
func Resolve(raster Sampler) ([]Tile, error) {
	return ResolveTiles(raster.Box(), raster)
}

// WrapRA moves a tile set that lies wholly within one 360 degree turn onto
// X in [0, GridWidth), so a map expressed at RA -40..-10 lands on the same
// tiles as one at RA 320..350. Sets that straddle RA 0 are returned
// unchanged with ok false.
func WrapRA(tiles []Tile) (wrapped []Tile, ok bool) {
	if len(tiles) == 0 {
		return tiles, true
	}

	turn := floorDiv(tiles[0].X, GridWidth)
	for _, t := range tiles[1:] {
		if floorDiv(t.X, GridWidth) != turn {
			return tiles, false
		}
	}

	wrapped = make([]Tile, len(tiles))
	for i, t := range tiles {
		wrapped[i] = Tile{X: t.X - turn*GridWidth, Y: t.Y}
	}
	return wrapped, true
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func snapDown(v float64) float64 {
	q := v / TileSize
	if r := math.Round(q); math.Abs(q-r) < snapTolerance {
		return r * TileSize
	}
	return math.Floor(q) * TileSize
}

func snapUp(v float64) float64 {
	q := v / TileSize
	if r := math.Round(q); math.Abs(q-r) < snapTolerance {
		return r * TileSize
	}
	return math.Ceil(q) * TileSize
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
