package detection

import "sort"

// ConvexHull computes the convex hull of points with a Graham scan.
//
// The anchor is the point with the smallest Y, ties broken by the smallest X.
// The remaining points are sorted by polar angle around the anchor (nearer
// points first on equal angles). The hull is then built by pushing each point
// after popping every hull point that would not make a strict left turn
// (cross product > 0). Collinear points are therefore dropped.
//
// The returned polygon is counter-clockwise under the standard cross product
// (clockwise on screen, where Y grows downward) and only contains input
// points. Inputs with fewer than 3 points are returned as a copy.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		return append([]Point(nil), points...)
	}

	anchorIdx := 0
	for i, p := range points {
		a := points[anchorIdx]
		if p.Y < a.Y || (p.Y == a.Y && p.X < a.X) {
			anchorIdx = i
		}
	}
	anchor := points[anchorIdx]

	rest := make([]Point, 0, len(points)-1)
	for i, p := range points {
		if i != anchorIdx {
			rest = append(rest, p)
		}
	}

	// Every other point lies at an angle in [0, π) from the anchor, so the
	// sign of the cross product orders them by angle exactly.
	sort.SliceStable(rest, func(i, j int) bool {
		c := cross(anchor, rest[i], rest[j])
		if c != 0 {
			return c > 0
		}
		return dist2(anchor, rest[i]) < dist2(anchor, rest[j])
	})

	hull := make([]Point, 0, len(points))
	hull = append(hull, anchor, rest[0])
	for _, p := range rest[1:] {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// Solidity returns contourArea divided by the hull's area. The second
// result is false when the hull has no area, in which case solidity is
// undefined and reported as 0.
func Solidity(contourArea float64, hull []Point) (float64, bool) {
	hullArea := Area(hull)
	if hullArea == 0 {
		return 0, false
	}
	return contourArea / hullArea, true
}

// cross returns the z component of (a-o) × (b-o).
func cross(o, a, b Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func dist2(a, b Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
