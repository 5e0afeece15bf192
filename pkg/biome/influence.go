package biome

import "github.com/go-gl/mathgl/mgl64"

// Smoothstep evaluates t²(3−2t) with t clamped to [0,1].
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// Influence returns the smooth radial falloff of z at p: 1 at the center,
// 0 at and beyond the radius. A NaN distance counts as out of range.
func Influence(p mgl64.Vec2, z Zone) float64 {
	d := p.Sub(z.Center).Len()
	if !(d < z.Radius) {
		return 0
	}
	return Smoothstep(1 - d/z.Radius)
}

// Sample is the per-query view of every zone's influence at a point.
type Sample struct {
	Weights  []float64
	Total    float64
	Dominant int // -1 when no zone reaches the point
}

// Sample evaluates every zone at p.
func (c *Catalog) Sample(p mgl64.Vec2) Sample {
	s := Sample{Weights: make([]float64, len(c.zones)), Dominant: -1}
	best := 0.0
	for i, z := range c.zones {
		w := Influence(p, z)
		s.Weights[i] = w
		s.Total += w
		if w > best {
			best = w
			s.Dominant = i
		}
	}
	return s
}

// dominant scans ids in order and returns the first zone with the highest
// positive influence, or -1.
func (c *Catalog) dominant(p mgl64.Vec2, ids []int) int {
	best, idx := 0.0, -1
	if ids == nil {
		for i, z := range c.zones {
			if w := Influence(p, z); w > best {
				best, idx = w, i
			}
		}
		return idx
	}
	for _, i := range ids {
		if w := Influence(p, c.zones[i]); w > best {
			best, idx = w, i
		}
	}
	return idx
}

// DominantZone returns the zone with the highest influence at p. Ties go to
// the earliest zone. ok is false when no zone has positive influence.
func (c *Catalog) DominantZone(p mgl64.Vec2) (Zone, bool) {
	i := c.dominant(p, nil)
	if i < 0 {
		return Zone{}, false
	}
	return c.zones[i].clone(), true
}

// BiomeAt returns the dominant zone's type, or the default type.
func (c *Catalog) BiomeAt(p mgl64.Vec2) Type {
	i := c.dominant(p, nil)
	if i < 0 {
		return c.defaultType
	}
	return c.zones[i].Type
}

// BlendedAttribute returns the influence-weighted mean of attr at p, or the
// attribute's global default where no zone reaches.
func (c *Catalog) BlendedAttribute(p mgl64.Vec2, attr Attribute) float64 {
	var sum, total float64
	for i, z := range c.zones {
		w := Influence(p, z)
		if w <= 0 {
			continue
		}
		sum += w * c.attribute(i, attr)
		total += w
	}
	if total <= 0 {
		return c.attrDefault[attr]
	}
	return clampToContributors(sum/total, c, p, attr)
}

// Blend computes Σ w·value(z) / Σ w over zones reaching p, or fallback.
// ids restricts the scan to candidate zones; nil means every zone.
func (c *Catalog) Blend(p mgl64.Vec2, ids []int, value func(Zone) float64, fallback float64) float64 {
	var sum, total float64
	visit := func(z Zone) {
		w := Influence(p, z)
		if w <= 0 {
			return
		}
		sum += w * value(z)
		total += w
	}
	if ids == nil {
		for _, z := range c.zones {
			visit(z)
		}
	} else {
		for _, i := range ids {
			visit(c.zones[i])
		}
	}
	if total <= 0 {
		return fallback
	}
	return sum / total
}

// MaxInfluence returns the strongest influence of any single zone of type t.
// ids restricts the scan as in Blend.
func (c *Catalog) MaxInfluence(p mgl64.Vec2, t Type, ids []int) float64 {
	best := 0.0
	check := func(z Zone) {
		if z.Type != t {
			return
		}
		if w := Influence(p, z); w > best {
			best = w
		}
	}
	if ids == nil {
		for _, z := range c.zones {
			check(z)
		}
		return best
	}
	for _, i := range ids {
		check(c.zones[i])
	}
	return best
}

// clampToContributors pins v to the attribute range of the zones reaching p,
// absorbing floating point drift in the weighted mean.
func clampToContributors(v float64, c *Catalog, p mgl64.Vec2, attr Attribute) float64 {
	lo, hi := 0.0, 0.0
	seen := false
	for i, z := range c.zones {
		if Influence(p, z) <= 0 {
			continue
		}
		a := c.attribute(i, attr)
		if !seen {
			lo, hi, seen = a, a, true
			continue
		}
		lo = min(lo, a)
		hi = max(hi, a)
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
