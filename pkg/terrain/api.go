// Package terrain derives heightmaps and per-biome weightmaps from a zone
// catalog.
//
// Both synthesizers are pure functions of their inputs: they share no state
// between calls, read the catalog concurrently from a bounded set of row
// workers, and either return a complete grid or an error. Cancelling the
// context stops generation early and returns ctx.Err() with no grid.
package terrain

import (
	"biome-terrain/pkg/biome"

	"github.com/go-gl/mathgl/mgl64"
)

// QueryBiomeAt returns the dominant biome at p, or the catalog default where
// no zone reaches. Callers detect transitions by comparing two queries.
func QueryBiomeAt(cat *biome.Catalog, p mgl64.Vec2) biome.Type {
	return cat.BiomeAt(p)
}

// QueryBlendedAttribute returns the influence-weighted attribute value at p.
func QueryBlendedAttribute(cat *biome.Catalog, p mgl64.Vec2, attr biome.Attribute) float64 {
	return cat.BlendedAttribute(p, attr)
}
