package terrain

import "biome-terrain/pkg/biome"

// Coverage summarizes one weightmap.
type Coverage struct {
	Type     biome.Type
	NonZero  int
	Fraction float64 // NonZero / cell count
	Max      uint8
	Mean     float64
}

// CoverageOf computes coverage statistics for wm.
func CoverageOf(wm *Weightmap) Coverage {
	c := Coverage{Type: wm.Type}
	if len(wm.weights) == 0 {
		return c
	}
	sum := 0
	for _, v := range wm.weights {
		if v > 0 {
			c.NonZero++
		}
		c.Max = max(c.Max, v)
		sum += int(v)
	}
	n := float64(len(wm.weights))
	c.Fraction = float64(c.NonZero) / n
	c.Mean = float64(sum) / n
	return c
}

// ElevationStats summarizes a heightmap in world units.
type ElevationStats struct {
	Min, Max, Mean float64
}

// StatsOf computes elevation statistics for hm.
func StatsOf(hm *Heightmap) ElevationStats {
	if len(hm.samples) == 0 {
		return ElevationStats{}
	}
	lo, hi := hm.samples[0], hm.samples[0]
	sum := 0.0
	for _, q := range hm.samples {
		lo = min(lo, q)
		hi = max(hi, q)
		sum += float64(q)
	}
	return ElevationStats{
		Min:  Dequantize(lo, hm.MaxElevation),
		Max:  Dequantize(hi, hm.MaxElevation),
		Mean: sum / float64(len(hm.samples)) / QuantizeMax * hm.MaxElevation,
	}
}
