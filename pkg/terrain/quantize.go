package terrain

import "math"

// QuantizeMax is the largest quantized elevation sample.
const QuantizeMax = 65535

// Quantize maps an elevation in [0, maxElevation] to a 16-bit sample,
// rounding to the nearest step and clamping out-of-range input.
func Quantize(elevation, maxElevation float64) uint16 {
	if !(maxElevation > 0) {
		return 0
	}
	q := math.Round(elevation / maxElevation * QuantizeMax)
	if !(q > 0) {
		return 0
	}
	if q >= QuantizeMax {
		return QuantizeMax
	}
	return uint16(q)
}

// Dequantize maps a 16-bit sample back to world elevation.
func Dequantize(q uint16, maxElevation float64) float64 {
	return float64(q) / QuantizeMax * maxElevation
}

// quantizeWeight maps a coverage weight to 0..255.
func quantizeWeight(w float64) uint8 {
	if !(w > 0) {
		return 0
	}
	if w >= 1 {
		return 255
	}
	return uint8(math.Round(w * 255))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
