package photon

import (
	"container/heap"
	"math"
	"sort"

	"github.com/pathforge/raygo/pkg/core"
)

// PhotonMap is a balanced KD-tree over a fixed set of photons, built once
// in the photon-mapping preprocess pass and queried read-only afterward
// (safe to share across render worker goroutines).
type PhotonMap struct {
	photons []Photon
}

// NewPhotonMap builds a balanced KD-tree over the given photons by
// recursively sorting each range along the axis of largest extent and
// splitting it at its median, the same split the reference renderer's
// std::nth_element-based balance step makes. Sorting every range makes
// the build O(n log^2 n).
func NewPhotonMap(photons []Photon) *PhotonMap {
	pm := &PhotonMap{photons: photons}
	if len(pm.photons) > 0 {
		pm.balance(0, len(pm.photons)-1)
	}
	return pm
}

// Size returns the number of photons stored.
func (pm *PhotonMap) Size() int { return len(pm.photons) }

func axisOf(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (pm *PhotonMap) balance(lo, hi int) {
	if lo > hi {
		return
	}

	minP, maxP := pm.photons[lo].Position, pm.photons[lo].Position
	for i := lo + 1; i <= hi; i++ {
		p := pm.photons[i].Position
		minP = core.NewVec3(math.Min(minP.X, p.X), math.Min(minP.Y, p.Y), math.Min(minP.Z, p.Z))
		maxP = core.NewVec3(math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y), math.Max(maxP.Z, p.Z))
	}
	extent := maxP.Subtract(minP)

	axis := 0
	if extent.Y > axisOf(extent, axis) {
		axis = 1
	}
	if extent.Z > axisOf(extent, axis) {
		axis = 2
	}

	mid := (lo + hi) / 2
	sub := pm.photons[lo : hi+1]
	sort.Slice(sub, func(a, b int) bool {
		return axisOf(sub[a].Position, axis) < axisOf(sub[b].Position, axis)
	})
	pm.photons[mid].plane = axis

	pm.balance(lo, mid-1)
	pm.balance(mid+1, hi)
}

// RadiusSearch appends every photon within radius of q to out, using the
// classic best-first branch-and-bound: visit the near child first,
// visiting the far child only when the query sphere crosses the splitting
// plane.
func (pm *PhotonMap) RadiusSearch(q core.Vec3, radius float64, out []Photon) []Photon {
	if len(pm.photons) == 0 {
		return out
	}
	return pm.radiusSearchRange(0, len(pm.photons)-1, q, radius*radius, out)
}

func (pm *PhotonMap) radiusSearchRange(lo, hi int, q core.Vec3, r2 float64, out []Photon) []Photon {
	if lo > hi {
		return out
	}

	mid := (lo + hi) / 2
	curr := pm.photons[mid]

	if curr.Position.Subtract(q).LengthSquared() <= r2 {
		out = append(out, curr)
	}

	diff := axisOf(q, curr.plane) - axisOf(curr.Position, curr.plane)
	if diff < 0 {
		out = pm.radiusSearchRange(lo, mid-1, q, r2, out)
		if diff*diff < r2 {
			out = pm.radiusSearchRange(mid+1, hi, q, r2, out)
		}
	} else {
		out = pm.radiusSearchRange(mid+1, hi, q, r2, out)
		if diff*diff < r2 {
			out = pm.radiusSearchRange(lo, mid-1, q, r2, out)
		}
	}

	return out
}

// NearPhoton is a candidate in the k-nearest search's bounded max-heap,
// keyed on squared distance to the query point so the farthest candidate
// sits at the top and can be evicted when a closer one is found.
type NearPhoton struct {
	Photon  Photon
	DistSq  float64
}

// nearPhotonHeap implements container/heap as a max-heap over DistSq.
type nearPhotonHeap []NearPhoton

func (h nearPhotonHeap) Len() int            { return len(h) }
func (h nearPhotonHeap) Less(i, j int) bool  { return h[i].DistSq > h[j].DistSq } // max-heap
func (h nearPhotonHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nearPhotonHeap) Push(x interface{}) { *h = append(*h, x.(NearPhoton)) }
func (h *nearPhotonHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNearest finds up to k nearest photons to q within initialRadius,
// maintaining a shrinking search radius as the heap fills (as soon as k
// candidates are collected, the search radius becomes the distance to
// the current farthest of those k, and shrinks further each time a
// closer candidate displaces it). Returns the found photons (nearest-
// first not guaranteed, heap order) and the squared distance to the
// k-th nearest neighbor (the final search radius), usable directly as
// the photon density-estimate disc area.
func (pm *PhotonMap) KNearest(q core.Vec3, k int, initialRadius float64) ([]NearPhoton, float64) {
	if len(pm.photons) == 0 || k <= 0 {
		return nil, 0
	}

	h := &nearPhotonHeap{}
	maxRadiusSq := initialRadius * initialRadius
	if maxRadiusSq <= 0 {
		maxRadiusSq = math.Inf(1)
	}
	pm.knnRange(0, len(pm.photons)-1, q, k, h, &maxRadiusSq)

	result := make([]NearPhoton, len(*h))
	copy(result, *h)

	if len(result) == 0 {
		return nil, 0
	}

	finalRadiusSq := 0.0
	for _, np := range result {
		if np.DistSq > finalRadiusSq {
			finalRadiusSq = np.DistSq
		}
	}

	return result, finalRadiusSq
}

func (pm *PhotonMap) knnRange(lo, hi int, q core.Vec3, k int, h *nearPhotonHeap, maxRadiusSq *float64) {
	if lo > hi {
		return
	}

	mid := (lo + hi) / 2
	curr := pm.photons[mid]
	distSq := curr.Position.Subtract(q).LengthSquared()

	if h.Len() < k && distSq <= *maxRadiusSq {
		heap.Push(h, NearPhoton{Photon: curr, DistSq: distSq})
		if h.Len() == k {
			*maxRadiusSq = (*h)[0].DistSq
		}
	} else if distSq < *maxRadiusSq {
		heap.Pop(h)
		heap.Push(h, NearPhoton{Photon: curr, DistSq: distSq})
		*maxRadiusSq = (*h)[0].DistSq
	}

	diff := axisOf(q, curr.plane) - axisOf(curr.Position, curr.plane)
	if diff < 0 {
		pm.knnRange(lo, mid-1, q, k, h, maxRadiusSq)
		if diff*diff < *maxRadiusSq {
			pm.knnRange(mid+1, hi, q, k, h, maxRadiusSq)
		}
	} else {
		pm.knnRange(mid+1, hi, q, k, h, maxRadiusSq)
		if diff*diff < *maxRadiusSq {
			pm.knnRange(lo, mid-1, q, k, h, maxRadiusSq)
		}
	}
}
