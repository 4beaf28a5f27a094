package nestgo

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// livePoints is the slot-indexed live-point set. Slots retired by the
// reduction schedule leave the active bitmap and are never reused, so
// slot numbering is stable for the whole run. The ascending bitmap
// iteration order makes worst-point ties resolve to the lowest slot.
type livePoints struct {
	dim    int
	thetas [][]float64
	logLs  []float64
	active *roaring.Bitmap
}

func newLivePoints(n, dim int) *livePoints {
	lp := &livePoints{
		dim:    dim,
		thetas: make([][]float64, n),
		logLs:  make([]float64, n),
		active: roaring.New(),
	}
	for i := range lp.thetas {
		lp.thetas[i] = make([]float64, dim)
	}
	lp.active.AddRange(0, uint64(n))
	return lp
}

func (lp *livePoints) count() int {
	return int(lp.active.GetCardinality())
}

// worst returns the active slot with the lowest log-likelihood.
func (lp *livePoints) worst() (int, float64) {
	slot, logL := -1, math.Inf(1)
	it := lp.active.Iterator()
	for it.HasNext() {
		s := int(it.Next())
		if lp.logLs[s] < logL {
			slot, logL = s, lp.logLs[s]
		}
	}
	return slot, logL
}

func (lp *livePoints) maxLogL() float64 {
	maxL := math.Inf(-1)
	it := lp.active.Iterator()
	for it.HasNext() {
		if l := lp.logLs[it.Next()]; l > maxL {
			maxL = l
		}
	}
	return maxL
}

func (lp *livePoints) replace(slot int, theta []float64, logL float64) {
	copy(lp.thetas[slot], theta)
	lp.logLs[slot] = logL
}

func (lp *livePoints) retire(slot int) {
	lp.active.Remove(uint32(slot))
}

// points gathers the active points in ascending slot order. The rows
// alias the live-point storage; callers must not retain them across a
// replace.
func (lp *livePoints) points() [][]float64 {
	out := make([][]float64, 0, lp.count())
	it := lp.active.Iterator()
	for it.HasNext() {
		out = append(out, lp.thetas[it.Next()])
	}
	return out
}

// slots returns the active slot indices in ascending order.
func (lp *livePoints) slots() []uint32 {
	return lp.active.ToArray()
}
