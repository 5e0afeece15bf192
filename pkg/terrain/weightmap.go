package terrain

import (
	"context"
	"fmt"

	"biome-terrain/pkg/biome"
)

// Weightmap is a row-major grid of 8-bit coverage weights for one biome type.
// Weights of different types are independent and not normalized.
type Weightmap struct {
	Type          biome.Type
	Width, Height int

	weights []uint8
}

// At returns the weight at (x, y).
func (w *Weightmap) At(x, y int) uint8 { return w.weights[y*w.Width+x] }

// Data returns a copy of the weights in row-major order.
func (w *Weightmap) Data() []uint8 {
	return append([]uint8(nil), w.weights...)
}

// resolve fills dimensions from the heightmap and checks the request.
func (p *WeightmapParams) resolve(hm *Heightmap) (Extent, error) {
	if hm != nil {
		if p.Width == 0 && p.Height == 0 {
			p.Width, p.Height = hm.Width, hm.Height
		}
		if p.Width != hm.Width || p.Height != hm.Height {
			return Extent{}, fmt.Errorf("%w: heightmap %dx%d, weightmap %dx%d",
				ErrDimensionMismatch, hm.Width, hm.Height, p.Width, p.Height)
		}
	}
	if p.Width <= 0 || p.Height <= 0 {
		return Extent{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	if p.AltitudeBias && hm == nil {
		return Extent{}, ErrHeightmapRequired
	}
	if p.KernelHalfWidth < 0 || !(p.Smoothness >= 0 && p.Smoothness <= 1) {
		return Extent{}, fmt.Errorf("%w: K=%d smoothness=%v", ErrInvalidSmoothing, p.KernelHalfWidth, p.Smoothness)
	}

	var ext Extent
	switch {
	case p.Extent != nil:
		ext = *p.Extent
	case hm != nil:
		ext = hm.Extent
	default:
		return Extent{}, ErrInvalidExtent
	}
	if err := ext.validate(); err != nil {
		return Extent{}, err
	}
	if p.UseIndex {
		if err := checkIndexCell(ext, p.IndexCell); err != nil {
			return Extent{}, err
		}
	}
	for _, t := range p.Types {
		if !t.Valid() {
			return Extent{}, fmt.Errorf("%w: %d", biome.ErrUnknownType, uint8(t))
		}
	}
	return ext, nil
}

// altitudeFactor scales a raw weight by the cell's elevation.
func (p *WeightmapParams) altitudeFactor(t biome.Type, elevation float64) float64 {
	switch t {
	case biome.Alpine:
		if elevation > p.AlpineThreshold && p.AlpineRamp > 0 {
			return 1 + (elevation-p.AlpineThreshold)/p.AlpineRamp
		}
	case biome.River:
		if elevation < p.RiverThreshold {
			return p.RiverBoost
		}
	}
	return 1
}

// GenerateWeightmaps builds one coverage grid per requested type. Raw weights
// for the whole grid are finished before the smoothing pass reads any
// neighbor. hm may be nil unless AltitudeBias is set.
func GenerateWeightmaps(ctx context.Context, cat *biome.Catalog, hm *Heightmap, params WeightmapParams) (map[biome.Type]*Weightmap, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	ext, err := params.resolve(hm)
	if err != nil {
		return nil, fmt.Errorf("weightmap: %w", err)
	}
	types := params.Types
	if len(types) == 0 {
		types = biome.Types()
	}

	w, h := params.Width, params.Height
	raw := make([][]uint8, len(types))
	for i := range raw {
		raw[i] = make([]uint8, w*h)
	}

	var idx *biome.Index
	if params.UseIndex && cat.Len() > 0 {
		idx = biome.NewIndex(cat, ext.Min, ext.Max, params.IndexCell)
	}

	// Progress covers the raw pass only.
	err = forEachRow(ctx, h, params.Workers, params.Progress, func(y int) {
		for x := 0; x < w; x++ {
			p := ext.CellToWorld(x, y, w, h)
			ids := idx.Candidates(p)
			elevation := 0.0
			if params.AltitudeBias {
				elevation = hm.Elevation(x, y)
			}
			for i, t := range types {
				weight := cat.MaxInfluence(p, t, ids)
				if params.AltitudeBias {
					weight *= params.altitudeFactor(t, elevation)
				}
				raw[i][y*w+x] = quantizeWeight(clamp(weight, 0, 1))
			}
		}
	})
	if err != nil {
		return nil, err
	}

	out := make(map[biome.Type]*Weightmap, len(types))
	// Barrier: forEachRow has returned, so every raw weight is final.
	for i, t := range types {
		smoothed, err := smoothBox(ctx, raw[i], w, h, params.KernelHalfWidth, params.Smoothness, params.Workers)
		if err != nil {
			return nil, err
		}
		out[t] = &Weightmap{Type: t, Width: w, Height: h, weights: smoothed}
	}
	return out, nil
}
