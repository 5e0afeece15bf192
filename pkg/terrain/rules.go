package terrain

import (
	"math"

	"biome-terrain/internal/noise"
	"biome-terrain/pkg/biome"

	"github.com/go-gl/mathgl/mgl64"
)

// zoneElevation evaluates z's elevation rule at p.
func (r *Rules) zoneElevation(z biome.Zone, p mgl64.Vec2, src noise.Source) float64 {
	switch z.EffectiveRule() {
	case biome.RulePeak:
		d := p.Sub(z.Center).Len()
		inner := z.Radius * r.AlpineInner
		boost := 0.0
		if inner > 0 {
			boost = 1 - clamp(d/inner, 0, 1)
		} else if d == 0 {
			boost = 1
		}
		return r.AlpineBase + r.AlpineBoost*boost

	case biome.RuleValley:
		d := p.Sub(z.Center).Len()
		if len(r.RiverPath) > 0 {
			d = polylineDistance(p, r.RiverPath)
		}
		return r.RiverBase + math.Max(0, r.RiverDepth-d*r.RiverFalloff)

	case biome.RuleTransition:
		n := src.Noise2D(p.X()*r.TransitionScale, p.Y()*r.TransitionScale)
		return r.TransitionBase + n*r.TransitionRange

	default:
		n := src.Noise2D(p.X()*r.ForestScale, p.Y()*r.ForestScale)
		return r.ForestBase + n*r.ForestRange
	}
}

// polylineDistance is the planar distance from p to the nearest segment of
// path. A single-point path is a point.
func polylineDistance(p mgl64.Vec2, path []mgl64.Vec2) float64 {
	if len(path) == 1 {
		return p.Sub(path[0]).Len()
	}
	best := math.Inf(1)
	for i := 1; i < len(path); i++ {
		best = math.Min(best, segmentDistance(p, path[i-1], path[i]))
	}
	return best
}

func segmentDistance(p, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Sub(a.Add(ab.Mul(t))).Len()
}
