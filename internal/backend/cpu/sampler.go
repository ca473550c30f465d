package cpu

import "math"

// The forward kernel and both gradient kernels locate source samples with the
// same coordinate math. It is factored here once so the three paths cannot
// drift apart.

// box2 holds one 2-D box in normalized coordinates.
type box2 struct {
	y1, x1, y2, x2 float32
}

// boxAt2 reads box b from a [numBoxes, 4] row-major buffer.
func boxAt2(boxes []float32, b int) box2 {
	o := b * 4
	return box2{boxes[o], boxes[o+1], boxes[o+2], boxes[o+3]}
}

// box3 holds one 3-D box in normalized coordinates.
type box3 struct {
	y1, x1, z1, y2, x2, z2 float32
}

// boxAt3 reads box b from a [numBoxes, 6] row-major buffer.
func boxAt3(boxes []float32, b int) box3 {
	o := b * 6
	return box3{boxes[o], boxes[o+1], boxes[o+2], boxes[o+3], boxes[o+4], boxes[o+5]}
}

// axisScale returns the source-coordinate step between adjacent crop cells
// along one axis. Single-cell crops have no step.
func axisScale(p1, p2 float32, ext, crop int) float32 {
	if crop > 1 {
		return (p2 - p1) * float32(ext-1) / float32(crop-1)
	}
	return 0
}

// mapCoord maps crop grid index i onto the source axis in pixel-center
// coordinates [0, ext-1]. A single-cell crop samples the box midpoint.
func mapCoord(i int, p1, p2, scale float32, ext, crop int) float32 {
	if crop > 1 {
		return p1*float32(ext-1) + float32(i)*scale
	}
	return 0.5 * (p1 + p2) * float32(ext-1)
}

// inBounds reports whether a mapped coordinate lies inside the source axis.
// Anything outside takes the extrapolation value in the forward pass and
// contributes nothing to either gradient.
func inBounds(c float32, ext int) bool {
	return c >= 0 && c <= float32(ext-1)
}

// span returns the two integer corner indices enclosing coordinate c and the
// fractional weight toward the upper corner. At integer coordinates both
// corners collapse onto the same index and the upper weight is zero.
func span(c float32) (lo, hi int, lerp float32) {
	lo = int(math.Floor(float64(c)))
	hi = int(math.Ceil(float64(c)))
	return lo, hi, c - float32(lo)
}

// endpointWeights returns the derivative of the mapped coordinate with
// respect to the axis's two box endpoints at crop grid index i.
func endpointWeights(i, ext, crop int) (w1, w2 float32) {
	if crop > 1 {
		ratio := float32(ext-1) / float32(crop-1)
		return float32(ext-1) - float32(i)*ratio, float32(i) * ratio
	}
	half := 0.5 * float32(ext-1)
	return half, half
}

// fill sets every element of dst to v. Used for out-of-bounds output cells.
func fill(dst []float32, v float32) {
	for i := range dst {
		dst[i] = v
	}
}

// boxCost estimates the work of one box given its output cell count and
// channel depth, in the units consumed by parallel.Config: a handful of
// blends and casts per channel plus the per-cell coordinate math.
func boxCost(cells, depth int) float64 {
	return float64(cells * (13*depth + 5))
}
