package terrain

import (
	"context"
	"fmt"
	"math"

	"biome-terrain/internal/noise"
	"biome-terrain/pkg/biome"

	"github.com/go-gl/mathgl/mgl64"
)

// Heightmap is a row-major grid of quantized elevation samples. It is not
// modified after generation.
type Heightmap struct {
	Width, Height int
	Extent        Extent
	MaxElevation  float64

	samples []uint16
}

// Index returns the row-major offset of (x, y).
func (h *Heightmap) Index(x, y int) int { return y*h.Width + x }

// At returns the quantized sample at (x, y).
func (h *Heightmap) At(x, y int) uint16 { return h.samples[h.Index(x, y)] }

// Elevation returns the dequantized elevation at (x, y).
func (h *Heightmap) Elevation(x, y int) float64 {
	return Dequantize(h.At(x, y), h.MaxElevation)
}

// Data returns a copy of the samples in row-major order.
func (h *Heightmap) Data() []uint16 {
	return append([]uint16(nil), h.samples...)
}

// SampleUV returns the elevation at normalized coordinates, clamped to
// [0,1] and snapped down to the nearest cell.
func (h *Heightmap) SampleUV(u, v float64) float64 {
	u = clamp(u, 0, 1)
	v = clamp(v, 0, 1)
	x := int(math.Floor(u * float64(h.Width-1)))
	y := int(math.Floor(v * float64(h.Height-1)))
	return h.Elevation(x, y)
}

// heightSampler evaluates elevation at world points for one parameter set.
type heightSampler struct {
	cat    *biome.Catalog
	params *HeightmapParams
	src    noise.Source
	idx    *biome.Index
}

func newHeightSampler(cat *biome.Catalog, params *HeightmapParams) (*heightSampler, error) {
	src, err := params.Noise.source()
	if err != nil {
		return nil, err
	}
	s := &heightSampler{cat: cat, params: params, src: src}
	if params.UseIndex && cat.Len() > 0 {
		s.idx = biome.NewIndex(cat, params.Extent.Min, params.Extent.Max, params.IndexCell)
	}
	return s, nil
}

// base is the influence-weighted mean of the zone rules at p.
func (s *heightSampler) base(p mgl64.Vec2) float64 {
	rules := &s.params.Rules
	return s.cat.Blend(p, s.idx.Candidates(p), func(z biome.Zone) float64 {
		return rules.zoneElevation(z, p, s.src)
	}, s.params.DefaultElevation)
}

// elevation is the clamped, unquantized elevation at p.
func (s *heightSampler) elevation(p mgl64.Vec2) float64 {
	if s.cat.Len() == 0 {
		return clamp(s.params.DefaultElevation, 0, s.params.MaxElevation)
	}
	n := s.params.Noise
	offset := s.src.Noise2D(p.X()*n.Scale, p.Y()*n.Scale) * n.Amplitude
	return clamp(s.base(p)+offset, 0, s.params.MaxElevation)
}

// GenerateHeightmap synthesizes a quantized elevation grid. Identical inputs
// always produce an identical grid. An empty catalog yields a uniform grid at
// DefaultElevation.
func GenerateHeightmap(ctx context.Context, cat *biome.Catalog, params HeightmapParams) (*Heightmap, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("heightmap: %w", err)
	}
	s, err := newHeightSampler(cat, &params)
	if err != nil {
		return nil, fmt.Errorf("heightmap: %w", err)
	}

	hm := &Heightmap{
		Width:        params.Width,
		Height:       params.Height,
		Extent:       params.Extent,
		MaxElevation: params.MaxElevation,
		samples:      make([]uint16, params.Width*params.Height),
	}

	err = forEachRow(ctx, params.Height, params.Workers, params.Progress, func(y int) {
		row := hm.samples[y*hm.Width : (y+1)*hm.Width]
		for x := range row {
			p := params.Extent.CellToWorld(x, y, params.Width, params.Height)
			row[x] = Quantize(s.elevation(p), params.MaxElevation)
		}
	})
	if err != nil {
		return nil, err
	}
	return hm, nil
}

// ElevationAt returns the unquantized elevation GenerateHeightmap would
// compute at world point p.
func ElevationAt(cat *biome.Catalog, p mgl64.Vec2, params HeightmapParams) (float64, error) {
	if cat == nil {
		return 0, ErrNilCatalog
	}
	if err := params.validateSampling(); err != nil {
		return 0, err
	}
	s, err := newHeightSampler(cat, &params)
	if err != nil {
		return 0, err
	}
	return s.elevation(p), nil
}

// DominantElevation returns the rule elevation of the dominant zone at p
// alone, without blending or the global noise offset. Away from every zone
// it is DefaultElevation.
func DominantElevation(cat *biome.Catalog, p mgl64.Vec2, params HeightmapParams) (float64, error) {
	if cat == nil {
		return 0, ErrNilCatalog
	}
	if err := params.validateSampling(); err != nil {
		return 0, err
	}
	z, ok := cat.DominantZone(p)
	if !ok {
		return params.DefaultElevation, nil
	}
	src, err := params.Noise.source()
	if err != nil {
		return 0, err
	}
	return params.Rules.zoneElevation(z, p, src), nil
}
