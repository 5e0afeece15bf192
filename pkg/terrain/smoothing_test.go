package terrain

import (
	"context"
	"math"
	"slices"
	"sync/atomic"
	"testing"
)

func checkerboard(w, h int) []uint8 {
	g := make([]uint8, w*h)
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				g[y*w+x] = 255
			}
		}
	}
	return g
}

func TestSmoothBoxNoop(t *testing.T) {
	src := checkerboard(9, 9)
	for _, tc := range []struct {
		k int
		s float64
	}{{3, 0}, {0, 1}, {5, 1}} {
		got, err := smoothBox(context.Background(), src, 9, 9, tc.k, tc.s, 2)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got, src) {
			t.Errorf("k=%d s=%v changed the grid", tc.k, tc.s)
		}
	}
}

func TestSmoothBoxFullMean(t *testing.T) {
	const w, h, k = 12, 10, 1
	src := make([]uint8, w*h)
	for i := range src {
		src[i] = uint8(i * 37 % 256)
	}
	got, err := smoothBox(context.Background(), src, w, h, k, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		for x := range w {
			want := src[y*w+x]
			if x >= k && x < w-k && y >= k && y < h-k {
				sum := 0
				for dy := -k; dy <= k; dy++ {
					for dx := -k; dx <= k; dx++ {
						sum += int(src[(y+dy)*w+x+dx])
					}
				}
				want = uint8(math.Round(float64(sum) / 9))
			}
			if got[y*w+x] != want {
				t.Fatalf("cell (%d,%d) = %d, want %d", x, y, got[y*w+x], want)
			}
		}
	}
}

// TestSmoothBoxReadsRawNeighbors would fail if a smoothed value leaked into
// a later cell's neighborhood.
func TestSmoothBoxReadsRawNeighbors(t *testing.T) {
	const w, h = 7, 7
	src := checkerboard(w, h)
	orig := slices.Clone(src)
	got, err := smoothBox(context.Background(), src, w, h, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(src, orig) {
		t.Fatal("source grid was modified")
	}
	// Interior cells of a checkerboard alternate between 5/9 and 4/9 of 255.
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			want := uint8(142) // round(5*255/9)
			if (x+y)%2 == 1 {
				want = 113 // round(4*255/9)
			}
			if got[y*w+x] != want {
				t.Fatalf("cell (%d,%d) = %d, want %d", x, y, got[y*w+x], want)
			}
		}
	}
}

func TestSmoothBoxPartial(t *testing.T) {
	const w, h = 5, 5
	src := make([]uint8, w*h)
	src[2*w+2] = 200
	got, err := smoothBox(context.Background(), src, w, h, 1, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Center: 200 + (200/9 - 200)*0.5.
	if want := uint8(math.Round(200 + (200.0/9-200)*0.5)); got[2*w+2] != want {
		t.Errorf("center = %d, want %d", got[2*w+2], want)
	}
	// Neighbor: 0 + (200/9)*0.5.
	if want := uint8(math.Round(200.0 / 9 * 0.5)); got[1*w+1] != want {
		t.Errorf("neighbor = %d, want %d", got[1*w+1], want)
	}
	if got[0] != 0 {
		t.Errorf("border cell changed to %d", got[0])
	}
}

func TestSmoothBoxBorderUnchanged(t *testing.T) {
	const w, h, k = 10, 8, 2
	src := checkerboard(w, h)
	got, err := smoothBox(context.Background(), src, w, h, k, 0.8, 4)
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		for x := range w {
			if x < k || x >= w-k || y < k || y >= h-k {
				if got[y*w+x] != src[y*w+x] {
					t.Fatalf("border cell (%d,%d) changed", x, y)
				}
			}
		}
	}
}

func TestForEachRowVisitsEveryRowOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		const rows = 37
		var hits [rows]atomic.Int32
		var last atomic.Int32
		err := forEachRow(context.Background(), rows, workers, func(done, total int) {
			if total != rows || done > total || int32(done) <= last.Load() {
				t.Errorf("progress %d/%d after %d", done, total, last.Load())
			}
			last.Store(int32(done))
		}, func(y int) {
			hits[y].Add(1)
		})
		if err != nil {
			t.Fatal(err)
		}
		for y := range hits {
			if n := hits[y].Load(); n != 1 {
				t.Fatalf("workers=%d: row %d visited %d times", workers, y, n)
			}
		}
		if last.Load() != rows {
			t.Errorf("workers=%d: final progress %d", workers, last.Load())
		}
	}
}

func TestForEachRowCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var seen atomic.Int32
	err := forEachRow(ctx, 1000, 2, nil, func(y int) {
		if seen.Add(1) == 10 {
			cancel()
		}
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if seen.Load() >= 1000 {
		t.Error("cancel did not stop the pool")
	}
}
