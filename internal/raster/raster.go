// Package raster holds per-pixel time maps on a plate-carree (CAR) sky
// projection and answers coverage questions against them.
package raster

import (
	"fmt"
	"math"

	"github.com/simonsobs/mapcat/internal/sky"
)

// Geometry is a CAR world coordinate system. Index 0 is the RA axis (x),
// index 1 the Dec axis (y). CRPix is 1-based as in FITS headers; CRVal and
// CDelt are in degrees.
type Geometry struct {
	CRPix [2]float64
	CRVal [2]float64
	CDelt [2]float64
}

// BoxGeometry returns a geometry with square pixels of res degrees whose
// pixel edges line up with the given box, plus the matching shape. RA runs
// right to left, as on the sky.
func BoxGeometry(decMin, raMax, decMax, raMin, res float64) (Geometry, int, int) {
	g := Geometry{
		CRPix: [2]float64{0.5 + raMax/res, 0.5 - decMin/res},
		CDelt: [2]float64{-res, res},
	}
	ny := int(math.Round((decMax - decMin) / res))
	nx := int(math.Round((raMax - raMin) / res))
	return g, ny, nx
}

// PixToSky converts 0-based pixel coordinates to (dec, ra) in degrees.
func (g Geometry) PixToSky(x, y float64) (dec, ra float64) {
	ra = g.CRVal[0] + (x+1-g.CRPix[0])*g.CDelt[0]
	dec = g.CRVal[1] + (y+1-g.CRPix[1])*g.CDelt[1]
	return dec, ra
}

// SkyToPix converts (dec, ra) in degrees to 0-based fractional pixel coordinates.
func (g Geometry) SkyToPix(dec, ra float64) (x, y float64) {
	x = g.CRPix[0] - 1 + (ra-g.CRVal[0])/g.CDelt[0]
	y = g.CRPix[1] - 1 + (dec-g.CRVal[1])/g.CDelt[1]
	return x, y
}

func (g Geometry) validate() error {
	if g.CDelt[0] == 0 || g.CDelt[1] == 0 {
		return fmt.Errorf("zero pixel size (CDELT1=%g, CDELT2=%g)", g.CDelt[0], g.CDelt[1])
	}
	for _, v := range []float64{g.CRPix[0], g.CRPix[1], g.CRVal[0], g.CRVal[1], g.CDelt[0], g.CDelt[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite WCS value")
		}
	}
	return nil
}

// Map is a 2D raster stored row-major: Data[y*NX+x].
type Map struct {
	Geometry Geometry
	NY, NX   int
	Data     []float64
}

// New allocates a zero-filled map.
func New(g Geometry, ny, nx int) *Map {
	return &Map{Geometry: g, NY: ny, NX: nx, Data: make([]float64, ny*nx)}
}

func (m *Map) At(y, x int) float64 { return m.Data[y*m.NX+x] }

func (m *Map) Set(y, x int, v float64) { m.Data[y*m.NX+x] = v }

// Fill sets every cell to v.
func (m *Map) Fill(v float64) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// FillBox sets every cell whose centre lies inside the box to v.
func (m *Map) FillBox(box sky.BoundingBox, v float64) {
	y0, y1, x0, x1, ok := m.pixelRange(box)
	if !ok {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(y, x, v)
		}
	}
}

// Box returns the outer pixel edges of the map as a BoundingBox. With the
// usual negative RA step this is [[dec_min, ra_max], [dec_max, ra_min]].
func (m *Map) Box() sky.BoundingBox {
	dec0, ra0 := m.Geometry.PixToSky(-0.5, -0.5)
	dec1, ra1 := m.Geometry.PixToSky(float64(m.NX)-0.5, float64(m.NY)-0.5)
	return sky.DegreeBox(dec0, ra0, dec1, ra1)
}

// AnyNonZero reports whether any cell of the sub-map cut out by box is
// non-zero. The cut is clipped to the map and never wraps in RA.
func (m *Map) AnyNonZero(box sky.BoundingBox) bool {
	y0, y1, x0, x1, ok := m.pixelRange(box)
	if !ok {
		return false
	}
	for y := y0; y < y1; y++ {
		row := m.Data[y*m.NX : (y+1)*m.NX]
		for x := x0; x < x1; x++ {
			if row[x] != 0 {
				return true
			}
		}
	}
	return false
}

// edgeTolerance, in pixels, keeps box edges that land on a pixel edge from
// flipping sides after the degree/radian round trip.
const edgeTolerance = 1e-6

// pixelRange maps a sky box onto half-open pixel index ranges, rounding the
// fractional corner coordinates to the nearest pixel edge.
func (m *Map) pixelRange(box sky.BoundingBox) (y0, y1, x0, x1 int, ok bool) {
	decA, raA, decB, raB := box.Degrees()
	xa, ya := m.Geometry.SkyToPix(decA, raA)
	xb, yb := m.Geometry.SkyToPix(decB, raB)

	x0, x1 = edgeRange(xa, xb, m.NX)
	y0, y1 = edgeRange(ya, yb, m.NY)
	return y0, y1, x0, x1, x0 < x1 && y0 < y1
}

func edgeRange(a, b float64, n int) (int, int) {
	lo := clamp(math.Min(a, b), -1, float64(n)+1)
	hi := clamp(math.Max(a, b), -1, float64(n)+1)
	i0 := int(math.Floor(lo + 0.5 + edgeTolerance))
	i1 := int(math.Floor(hi + 0.5 + edgeTolerance))
	if i0 < 0 {
		i0 = 0
	}
	if i1 > n {
		i1 = n
	}
	return i0, i1
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
