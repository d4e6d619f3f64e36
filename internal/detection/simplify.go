package detection

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// span is a pending Douglas–Peucker sub-chain, inclusive on both ends.
type span struct {
	first, last int
}

// Simplify reduces an open polyline with the Douglas–Peucker algorithm.
//
// The point farthest from the line through the chain's first and last points
// is found. If its distance exceeds epsilon the chain is split there and both
// halves are simplified; otherwise the chain collapses to its endpoints.
// Chains of 2 or fewer points are returned unchanged. When the endpoints
// coincide the distance is measured to that point instead of a line.
//
// Sub-chains are processed from an explicit work stack, so near-collinear
// input cannot exhaust the goroutine stack. The result keeps input order and
// is idempotent: simplifying it again with the same epsilon returns it as is.
func Simplify(points []Point, epsilon float64) []Point {
	n := len(points)
	if n <= 2 {
		return append([]Point(nil), points...)
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	stack := []span{{first: 0, last: n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.last-s.first < 2 {
			continue
		}

		idx, dist := farthestFromChord(points, s.first, s.last)
		if dist > epsilon {
			keep[idx] = true
			stack = append(stack, span{first: s.first, last: idx}, span{first: idx, last: s.last})
		}
	}

	out := make([]Point, 0, n)
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// SimplifyClosed simplifies a contour as the closed polygon it describes.
//
// The first point is appended to close the chain before running Simplify, so
// the first split lands on the point farthest from the start, and the closing
// duplicate is removed from the result. The result always has at least 2
// points when the contour does.
func SimplifyClosed(contour []Point, epsilon float64) []Point {
	if len(contour) <= 2 {
		return append([]Point(nil), contour...)
	}

	closed := make([]Point, 0, len(contour)+1)
	closed = append(closed, contour...)
	closed = append(closed, contour[0])

	out := Simplify(closed, epsilon)
	out = out[:len(out)-1]
	if len(out) < 2 {
		return []Point{contour[0], contour[len(contour)-1]}
	}
	return out
}

// CornerCount returns the vertex count of the closed Douglas–Peucker
// approximation of contour, with epsilon = tolerance × perimeter.
func CornerCount(contour []Point, tolerance float64) int {
	return len(SimplifyClosed(contour, tolerance*Perimeter(contour)))
}

// farthestFromChord returns the index strictly between first and last with
// the greatest perpendicular distance from the chord, and that distance.
// The earliest index wins ties.
func farthestFromChord(points []Point, first, last int) (int, float64) {
	a := vec(points[first])
	chord := r2.Sub(vec(points[last]), a)
	length := r2.Norm(chord)

	idx, maxDist := first, -1.0
	for i := first + 1; i < last; i++ {
		rel := r2.Sub(vec(points[i]), a)

		var d float64
		if length == 0 {
			d = r2.Norm(rel)
		} else {
			d = math.Abs(r2.Cross(chord, rel)) / length
		}

		if d > maxDist {
			idx, maxDist = i, d
		}
	}

	return idx, maxDist
}
