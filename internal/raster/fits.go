package raster

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"

	"github.com/simonsobs/mapcat/internal/domain"
)

// Loader reads a time raster given its catalog path.
type Loader interface {
	Load(path string) (*Map, error)
}

// FITSLoader resolves catalog paths against Root and reads them as FITS images.
type FITSLoader struct {
	Root string
}

// Resolve joins a catalog path onto the root. Absolute paths are kept as-is.
func (l FITSLoader) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Root, path)
}

func (l FITSLoader) Load(path string) (*Map, error) {
	return ReadFITS(l.Resolve(path))
}

// ReadFITS loads the primary image HDU of a FITS file. Every failure is
// reported as domain.ErrRasterLoad.
func ReadFITS(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRasterLoad, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	m, err := DecodeFITS(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// DecodeFITS reads a 2D CAR image from r.
func DecodeFITS(r io.Reader) (*Map, error) {
	ff, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRasterLoad, err)
	}
	defer ff.Close() //nolint:errcheck // read-only

	if len(ff.HDUs()) == 0 {
		return nil, fmt.Errorf("%w: no HDUs", domain.ErrRasterLoad)
	}
	img, ok := ff.HDU(0).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: primary HDU is not an image", domain.ErrRasterLoad)
	}

	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) < 2 {
		return nil, fmt.Errorf("%w: expected 2 axes, got %d", domain.ErrRasterLoad, len(axes))
	}
	for _, extra := range axes[2:] {
		if extra != 1 {
			return nil, fmt.Errorf("%w: unsupported image shape %v", domain.ErrRasterLoad, axes)
		}
	}
	nx, ny := axes[0], axes[1]

	geom, err := geometryFromHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRasterLoad, err)
	}

	data, err := readPixels(img, hdr.Bitpix(), nx*ny)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRasterLoad, err)
	}

	scale, zero := 1.0, 0.0
	if v, ok := cardFloat(hdr, "BSCALE"); ok {
		scale = v
	}
	if v, ok := cardFloat(hdr, "BZERO"); ok {
		zero = v
	}
	if scale != 1 || zero != 0 {
		for i, v := range data {
			data[i] = v*scale + zero
		}
	}

	return &Map{Geometry: geom, NY: ny, NX: nx, Data: data}, nil
}

// WriteFITS stores m as a single-HDU BITPIX=-64 FITS file.
func WriteFITS(path string, m *Map) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeFITS(f, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func EncodeFITS(w io.Writer, m *Map) error {
	if len(m.Data) != m.NX*m.NY {
		return fmt.Errorf("raster data has %d cells, shape is %dx%d", len(m.Data), m.NY, m.NX)
	}

	ff, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("failed to create fits stream: %w", err)
	}
	defer ff.Close() //nolint:errcheck // nothing buffered past Write

	img := fitsio.NewImage(-64, []int{m.NX, m.NY})
	defer img.Close() //nolint:errcheck // in-memory HDU

	g := m.Geometry
	err = img.Header().Append(
		fitsio.Card{Name: "CTYPE1", Value: "RA---CAR"},
		fitsio.Card{Name: "CTYPE2", Value: "DEC--CAR"},
		fitsio.Card{Name: "CRPIX1", Value: g.CRPix[0]},
		fitsio.Card{Name: "CRPIX2", Value: g.CRPix[1]},
		fitsio.Card{Name: "CRVAL1", Value: g.CRVal[0]},
		fitsio.Card{Name: "CRVAL2", Value: g.CRVal[1]},
		fitsio.Card{Name: "CDELT1", Value: g.CDelt[0]},
		fitsio.Card{Name: "CDELT2", Value: g.CDelt[1]},
		fitsio.Card{Name: "CUNIT1", Value: "deg"},
		fitsio.Card{Name: "CUNIT2", Value: "deg"},
	)
	if err != nil {
		return fmt.Errorf("failed to write WCS cards: %w", err)
	}

	data := make([]float64, len(m.Data))
	copy(data, m.Data)
	if err := img.Write(&data); err != nil {
		return fmt.Errorf("failed to write pixels: %w", err)
	}
	return ff.Write(img)
}

func geometryFromHeader(hdr *fitsio.Header) (Geometry, error) {
	var g Geometry
	fields := []struct {
		name string
		dst  *float64
	}{
		{"CRPIX1", &g.CRPix[0]},
		{"CRPIX2", &g.CRPix[1]},
		{"CRVAL1", &g.CRVal[0]},
		{"CRVAL2", &g.CRVal[1]},
		{"CDELT1", &g.CDelt[0]},
		{"CDELT2", &g.CDelt[1]},
	}
	for _, f := range fields {
		v, ok := cardFloat(hdr, f.name)
		if !ok {
			return g, fmt.Errorf("missing or non-numeric %s card", f.name)
		}
		*f.dst = v
	}
	return g, g.validate()
}

func cardFloat(hdr *fitsio.Header, name string) (float64, bool) {
	card := hdr.Get(name)
	if card == nil {
		return 0, false
	}
	switch v := card.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	default:
		return 0, false
	}
}

type pixel interface {
	~uint8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func readPixels(img fitsio.Image, bitpix, n int) ([]float64, error) {
	switch bitpix {
	case 8:
		return readAs[uint8](img, n)
	case 16:
		return readAs[int16](img, n)
	case 32:
		return readAs[int32](img, n)
	case 64:
		return readAs[int64](img, n)
	case -32:
		return readAs[float32](img, n)
	case -64:
		return readAs[float64](img, n)
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

func readAs[T pixel](img fitsio.Image, n int) ([]float64, error) {
	buf := make([]T, n)
	if err := img.Read(&buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, nil
}
