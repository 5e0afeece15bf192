package noise

import (
	"math"
	"math/rand"
)

// 2D gradient tables, indexed by the low four bits of the lattice hash.
var (
	gradX = [16]float64{1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 1, 0, -1, 0}
	gradY = [16]float64{0, 0, 0, 0, 1, 1, -1, -1, 1, 1, -1, -1, 0, 1, 0, -1}
)

// Improved is permutation-table gradient noise seeded through math/rand, the
// lattice noise classic voxel terrain generators layer into octaves.
type Improved struct {
	perm   [512]int
	xCoord float64
	yCoord float64
}

// NewImproved shuffles the permutation table and lattice offset for seed.
func NewImproved(seed int64) *Improved {
	rnd := rand.New(rand.NewSource(seed))
	n := &Improved{
		xCoord: rnd.Float64() * 256.0,
		yCoord: rnd.Float64() * 256.0,
	}
	for i := 0; i < 256; i++ {
		n.perm[i] = i
	}
	for i := 0; i < 256; i++ {
		j := rnd.Intn(256-i) + i
		n.perm[i], n.perm[j] = n.perm[j], n.perm[i]
		n.perm[i+256] = n.perm[i]
	}
	return n
}

func grad2(hash int, x, y float64) float64 {
	i := hash & 15
	return gradX[i]*x + gradY[i]*y
}

// Noise2D implements Source.
func (n *Improved) Noise2D(x, y float64) float64 {
	x += n.xCoord
	y += n.yCoord
	fx, fy := math.Floor(x), math.Floor(y)
	xi, yi := int(fx)&255, int(fy)&255
	x -= fx
	y -= fy
	u, v := fade(x), fade(y)

	a := n.perm[xi] + yi
	b := n.perm[xi+1] + yi

	x1 := lerp(grad2(n.perm[a], x, y), grad2(n.perm[b], x-1, y), u)
	x2 := lerp(grad2(n.perm[a+1], x, y-1), grad2(n.perm[b+1], x-1, y-1), u)
	return lerp(x1, x2, v)
}
