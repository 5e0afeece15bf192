// Package noise provides seeded 2D coherent noise sources.
package noise

import (
	"errors"
	"fmt"
	"strings"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source is a continuous 2D coherent noise function returning values roughly
// in [-1, 1]. Implementations are read-only after construction and safe for
// concurrent use.
type Source interface {
	Noise2D(x, y float64) float64
}

// Kind names a noise backend.
type Kind string

const (
	KindPerlin  Kind = "perlin"
	KindSimplex Kind = "simplex"
	KindValue   Kind = "value"

	// KindImproved is the permutation-table lattice noise of block terrain
	// generators.
	KindImproved Kind = "improved"
)

var ErrUnknownKind = errors.New("unknown noise kind")

// Kinds lists the supported backends.
func Kinds() []Kind { return []Kind{KindPerlin, KindSimplex, KindValue, KindImproved} }

// ParseKind maps a name to a Kind. The empty string selects Perlin.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return KindPerlin, nil
	}
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New builds a deterministic source for the kind and seed.
func New(kind Kind, seed int64) (Source, error) {
	switch kind {
	case KindPerlin, "":
		// alpha 2, beta 2, one octave: a single smooth Perlin layer.
		return perlinSource{p: perlin.NewPerlin(2, 2, 1, seed)}, nil
	case KindSimplex:
		return simplexSource{n: opensimplex.New(seed)}, nil
	case KindValue:
		return Value{Seed: seed}, nil
	case KindImproved:
		return NewImproved(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

type perlinSource struct{ p *perlin.Perlin }

func (s perlinSource) Noise2D(x, y float64) float64 { return s.p.Noise2D(x, y) }

type simplexSource struct{ n opensimplex.Noise }

func (s simplexSource) Noise2D(x, y float64) float64 { return s.n.Eval2(x, y) }

// Fractal sums octaves of a base source with decreasing amplitude and
// increasing frequency, normalized by the total amplitude.
type Fractal struct {
	Base        Source
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// Noise2D implements Source.
func (f Fractal) Noise2D(x, y float64) float64 {
	if f.Octaves <= 1 {
		return f.Base.Noise2D(x, y)
	}
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range f.Octaves {
		// offset each octave so lattice zeros do not line up
		off := float64(i) * 17.31
		sum += f.Base.Noise2D(x*frequency+off, y*frequency-off) * amplitude
		norm += amplitude
		amplitude *= f.Persistence
		frequency *= f.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Build returns New(kind, seed) wrapped in a Fractal when octaves > 1.
func Build(kind Kind, seed int64, octaves int) (Source, error) {
	base, err := New(kind, seed)
	if err != nil {
		return nil, err
	}
	if octaves <= 1 {
		return base, nil
	}
	return Fractal{Base: base, Octaves: octaves, Persistence: 0.5, Lacunarity: 2}, nil
}
