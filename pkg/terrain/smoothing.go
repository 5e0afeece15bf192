package terrain

import (
	"context"
	"math"
)

// smoothBox applies a (2k+1)×(2k+1) box filter to every interior cell of src
// and blends it with the raw value by smoothness. Cells within k of an edge
// are copied unchanged. src is only read, so every neighbor read sees a final
// raw value; the result is a new buffer.
func smoothBox(ctx context.Context, src []uint8, w, h, k int, smoothness float64, workers int) ([]uint8, error) {
	dst := make([]uint8, len(src))
	copy(dst, src)
	if smoothness == 0 || k == 0 || w <= 2*k || h <= 2*k {
		return dst, nil
	}

	count := float64((2*k + 1) * (2*k + 1))
	err := forEachRow(ctx, h-2*k, workers, nil, func(row int) {
		y := row + k
		for x := k; x < w-k; x++ {
			sum := 0
			for dy := -k; dy <= k; dy++ {
				line := src[(y+dy)*w:]
				for dx := -k; dx <= k; dx++ {
					sum += int(line[x+dx])
				}
			}
			orig := float64(src[y*w+x])
			mean := float64(sum) / count
			dst[y*w+x] = uint8(clamp(math.Round(orig+(mean-orig)*smoothness), 0, 255))
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
