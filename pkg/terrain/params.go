package terrain

import (
	"errors"
	"fmt"
	"math"

	"biome-terrain/internal/noise"
	"biome-terrain/pkg/biome"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNilCatalog         = errors.New("catalog is nil")
	ErrInvalidDimensions  = errors.New("grid width and height must be positive")
	ErrInvalidElevation   = errors.New("max elevation must be positive and finite")
	ErrInvalidExtent      = errors.New("world extent must be finite with max >= min")
	ErrInvalidSmoothing   = errors.New("smoothing needs half-width >= 0 and smoothness in [0,1]")
	ErrHeightmapRequired  = errors.New("altitude bias needs a heightmap")
	ErrDimensionMismatch  = errors.New("heightmap and weightmap dimensions differ")
	ErrInvalidNoiseParams = errors.New("noise scale and amplitude must be finite")
	ErrInvalidIndexCell   = errors.New("index cell must be finite, non-negative and yield a bounded bucket grid")
)

// Extent is the world-space rectangle a grid covers. Grid corners map
// exactly onto Min and Max.
type Extent struct {
	Min, Max mgl64.Vec2
}

// CellToWorld maps grid cell (x, y) of a w×h grid into the extent by linear
// scaling. A single-cell axis maps to Min.
func (e Extent) CellToWorld(x, y, w, h int) mgl64.Vec2 {
	return mgl64.Vec2{
		axis(x, w, e.Min.X(), e.Max.X()),
		axis(y, h, e.Min.Y(), e.Max.Y()),
	}
}

func axis(i, n int, lo, hi float64) float64 {
	if n <= 1 {
		return lo
	}
	return lo + float64(i)/float64(n-1)*(hi-lo)
}

func (e Extent) validate() error {
	for _, v := range []float64{e.Min.X(), e.Min.Y(), e.Max.X(), e.Max.Y()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidExtent
		}
	}
	if e.Max.X() < e.Min.X() || e.Max.Y() < e.Min.Y() {
		return ErrInvalidExtent
	}
	return nil
}

// NoiseParams selects the coherent noise added on top of the blended base.
type NoiseParams struct {
	Kind      noise.Kind
	Seed      int64
	Octaves   int
	Scale     float64
	Amplitude float64
}

func (n NoiseParams) source() (noise.Source, error) {
	return noise.Build(n.Kind, n.Seed, n.Octaves)
}

// Rules holds the per-rule elevation constants.
type Rules struct {
	AlpineBase  float64
	AlpineBoost float64
	AlpineInner float64 // fraction of the radius over which the boost ramps

	ForestBase  float64
	ForestRange float64
	ForestScale float64

	TransitionBase  float64
	TransitionRange float64
	TransitionScale float64

	RiverBase    float64
	RiverDepth   float64
	RiverFalloff float64
	// RiverPath is the valley line. Empty means the zone center.
	RiverPath []mgl64.Vec2
}

// DefaultRules returns the constants tuned for the race course layout.
func DefaultRules() Rules {
	return Rules{
		AlpineBase:      800,
		AlpineBoost:     600,
		AlpineInner:     0.3,
		ForestBase:      200,
		ForestRange:     300,
		ForestScale:     0.0005,
		TransitionBase:  400,
		TransitionRange: 200,
		TransitionScale: 0.001,
		RiverBase:       100,
		RiverDepth:      200,
		RiverFalloff:    0.1,
		RiverPath:       []mgl64.Vec2{{4000, 1000}, {4500, 750}, {5000, 0}},
	}
}

// ProgressFunc receives the number of finished rows. Calls are serialized.
type ProgressFunc func(done, total int)

// HeightmapParams configures GenerateHeightmap.
type HeightmapParams struct {
	Width, Height int
	Extent        Extent

	MaxElevation float64
	// DefaultElevation is the base where no zone reaches, and the uniform
	// value of a heightmap generated from an empty catalog.
	DefaultElevation float64

	Noise NoiseParams
	Rules Rules

	// UseIndex prunes zones per cell with a bucket grid of IndexCell world
	// units (0 picks a size). Output is identical either way.
	UseIndex  bool
	IndexCell float64

	Workers  int
	Progress ProgressFunc
}

// DefaultHeightmapParams mirrors the 5km × 2.5km race course.
func DefaultHeightmapParams() HeightmapParams {
	return HeightmapParams{
		Width:            1009,
		Height:           1009,
		Extent:           Extent{Max: mgl64.Vec2{5000, 2500}},
		MaxElevation:     2000,
		DefaultElevation: 200,
		Noise: NoiseParams{
			Kind:      noise.KindPerlin,
			Seed:      1337,
			Octaves:   1,
			Scale:     0.001,
			Amplitude: 100,
		},
		Rules:    DefaultRules(),
		UseIndex: true,
	}
}

func (p HeightmapParams) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	return p.validateSampling()
}

// validateSampling checks everything a single-point evaluation depends on.
func (p HeightmapParams) validateSampling() error {
	if !(p.MaxElevation > 0) || math.IsInf(p.MaxElevation, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidElevation, p.MaxElevation)
	}
	if err := p.Extent.validate(); err != nil {
		return err
	}
	for _, v := range []float64{p.Noise.Scale, p.Noise.Amplitude, p.DefaultElevation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidNoiseParams
		}
	}
	if p.UseIndex {
		return checkIndexCell(p.Extent, p.IndexCell)
	}
	return nil
}

// checkIndexCell rejects cell sizes that would bucket ext into more than
// biome.MaxBuckets cells. Zero picks a size automatically.
func checkIndexCell(ext Extent, cell float64) error {
	if math.IsNaN(cell) || math.IsInf(cell, 0) || cell < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidIndexCell, cell)
	}
	if cell == 0 {
		return nil
	}
	span := ext.Max.Sub(ext.Min)
	cols := math.Ceil(span.X()/cell) + 1
	rows := math.Ceil(span.Y()/cell) + 1
	if cols*rows > biome.MaxBuckets {
		return fmt.Errorf("%w: %v gives %.0f buckets, max %d", ErrInvalidIndexCell, cell, cols*rows, biome.MaxBuckets)
	}
	return nil
}

// WeightmapParams configures GenerateWeightmaps.
type WeightmapParams struct {
	// Width, Height and Extent default to the heightmap's when zero.
	Width, Height int
	Extent        *Extent

	// Types selects which grids to build. Empty means every type.
	Types []biome.Type

	AltitudeBias    bool
	AlpineThreshold float64
	AlpineRamp      float64
	RiverThreshold  float64
	RiverBoost      float64

	// KernelHalfWidth is K in the (2K+1)×(2K+1) box filter. Smoothness 0
	// keeps raw weights, 1 replaces interior cells with the box mean.
	KernelHalfWidth int
	Smoothness      float64

	UseIndex  bool
	IndexCell float64

	Workers  int
	Progress ProgressFunc
}

// DefaultWeightmapParams returns the blend settings used for the race course.
func DefaultWeightmapParams() WeightmapParams {
	return WeightmapParams{
		AltitudeBias:    true,
		AlpineThreshold: 800,
		AlpineRamp:      600,
		RiverThreshold:  400,
		RiverBoost:      1.5,
		KernelHalfWidth: 3,
		Smoothness:      0.8,
		UseIndex:        true,
	}
}
