package detection

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Area returns the Shoelace area of the implicitly closed polygon.
//
// The cross terms x_i*y_{i+1} - x_{i+1}*y_i are summed in integer arithmetic
// over every consecutive pair, the last point pairing with the first. The
// result is halved and made non-negative, so trace direction does not matter.
func Area(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	sum := 0
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}

	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the sum of Euclidean distances between consecutive
// points, including the closing segment from the last point to the first.
func Perimeter(points []Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += r2.Norm(r2.Sub(vec(points[(i+1)%n]), vec(points[i])))
	}
	return sum
}

// Circularity returns 4π·area/perimeter². A perfect circle scores 1;
// elongated or jagged outlines score lower. A zero perimeter scores 0.
func Circularity(area, perimeter float64) float64 {
	if perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * area / (perimeter * perimeter)
}

// CentroidOf returns the arithmetic mean of the points. It is not area
// weighted, so densely sampled stretches of a contour pull it toward them.
func CentroidOf(points []Point) Centroid {
	if len(points) == 0 {
		return Centroid{}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}

	return Centroid{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
}

func vec(p Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}
