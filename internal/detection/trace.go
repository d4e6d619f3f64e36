package detection

// minTracePoints is the number of points a trace must exceed to be kept.
const minTracePoints = 2

// walkOrder is the neighbor priority of the greedy walk: NW, N, NE, W, E,
// SW, S, SE. Changing it changes which branch a forked stroke follows.
var walkOrder = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// gapRadii are the ring radii searched, in order, when the walk runs out of
// immediate neighbors.
var gapRadii = [...]int{2, 3}

// TraceContours extracts contours from a binary mask.
//
// The mask is first passed through BridgeGaps. The tracer then decides
// which pixels are walked:
//   - TracerEdge: boundary pixels of the bridged mask, greedy walk
//   - TracerGreedy: every foreground pixel of the bridged mask, greedy walk
//   - TracerMoore: Moore-neighbor outline following on the bridged mask
//
// An unknown tracer falls back to TracerEdge. Only traces with more than two
// points are returned. The result may be empty.
func TraceContours(mask BinaryMask, tracer Tracer) []Contour {
	bridged := BridgeGaps(mask)

	switch tracer {
	case TracerGreedy:
		return walkAll(bridged)
	case TracerMoore:
		return traceMoore(bridged)
	default:
		return walkAll(boundaryMask(bridged))
	}
}

// BridgeGaps applies the gap-bridging blur.
//
// For every interior pixel the foreground state (0 or 255) is summed over
// its 3x3 neighborhood, itself included. The pixel is foreground in the
// output when that sum exceeds 255, i.e. when at least 2 of the 9 cells are
// foreground. Background pixels touching a stroke on two sides are filled in,
// which reconnects lightly broken strokes. The 1-pixel border is always
// background.
func BridgeGaps(mask BinaryMask) BinaryMask {
	width, height := mask.Size()
	out := newMask(width, height)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			sum := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if mask[y+dy][x+dx] {
						sum += 255
					}
				}
			}
			out[y][x] = sum > 255
		}
	}

	return out
}

// boundaryMask keeps the foreground pixels that have at least one
// 4-connected background neighbor (or touch the image edge).
func boundaryMask(mask BinaryMask) BinaryMask {
	width, height := mask.Size()
	out := newMask(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] {
				continue
			}
			out[y][x] = !isSet(mask, x-1, y) || !isSet(mask, x+1, y) ||
				!isSet(mask, x, y-1) || !isSet(mask, x, y+1)
		}
	}

	return out
}

// walkAll scans the mask in row-major order, excluding the border, and starts
// a greedy walk at every unvisited traceable pixel.
func walkAll(traceable BinaryMask) []Contour {
	width, height := traceable.Size()
	visited := newMask(width, height)
	contours := make([]Contour, 0)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if !traceable[y][x] || visited[y][x] {
				continue
			}
			contour := walk(traceable, visited, Point{X: x, Y: y})
			if len(contour) > minTracePoints {
				contours = append(contours, contour)
			}
		}
	}

	return contours
}

// walk follows a single branch from start.
//
// Each step takes the first unvisited traceable neighbor in walkOrder. When
// there is none, the rings of radius 2 and then 3 around the current pixel
// are searched for any unvisited traceable pixel and the walk jumps to it.
// The walk ends when both searches fail. There is no backtracking: a fork is
// resolved by walkOrder and the other branch is left for a later trace.
func walk(traceable, visited BinaryMask, start Point) Contour {
	visited[start.Y][start.X] = true
	contour := Contour{start}
	cur := start

	for {
		next, ok := nextNeighbor(traceable, visited, cur)
		if !ok {
			next, ok = bridgeGap(traceable, visited, cur)
		}
		if !ok {
			break
		}
		visited[next.Y][next.X] = true
		contour = append(contour, next)
		cur = next
	}

	return contour
}

func nextNeighbor(traceable, visited BinaryMask, p Point) (Point, bool) {
	for _, d := range walkOrder {
		x, y := p.X+d.X, p.Y+d.Y
		if isSet(traceable, x, y) && !visited[y][x] {
			return Point{X: x, Y: y}, true
		}
	}
	return Point{}, false
}

// bridgeGap searches the square rings at gapRadii around p in row-major
// order and returns the first unvisited traceable pixel.
func bridgeGap(traceable, visited BinaryMask, p Point) (Point, bool) {
	for _, r := range gapRadii {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				x, y := p.X+dx, p.Y+dy
				if isSet(traceable, x, y) && !visited[y][x] {
					return Point{X: x, Y: y}, true
				}
			}
		}
	}
	return Point{}, false
}

// mooreOrder lists the 8 neighbors clockwise on screen (y grows downward),
// starting east.
var mooreOrder = [8]Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// traceMoore starts an outline trace at every unvisited foreground pixel
// whose west neighbor is background.
func traceMoore(mask BinaryMask) []Contour {
	width, height := mask.Size()
	visited := newMask(width, height)
	contours := make([]Contour, 0)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if !mask[y][x] || mask[y][x-1] || visited[y][x] {
				continue
			}
			contour := mooreOutline(mask, visited, Point{X: x, Y: y})
			if len(contour) > minTracePoints {
				contours = append(contours, contour)
			}
		}
	}

	return contours
}

// mooreOutline follows the outline through start using Moore-neighbor
// tracing. The trace ends when it is back at start and about to repeat its
// first move, which holds for outer outlines and hole outlines alike. Pixels
// already marked visited are never appended, so no outline covers itself
// twice. The step count is capped so malformed input cannot loop forever.
func mooreOutline(mask, visited BinaryMask, start Point) Contour {
	width, height := mask.Size()
	maxSteps := width*height*4 + 8

	visited[start.Y][start.X] = true
	contour := Contour{start}

	cur := start
	back := Point{X: start.X - 1, Y: start.Y}
	var first Point
	moved := false

	for step := 0; step < maxSteps; step++ {
		from := mooreIndex(back.X-cur.X, back.Y-cur.Y)
		prev := back
		found := false
		var next Point

		for k := 1; k <= 8; k++ {
			d := mooreOrder[(from+k)%8]
			n := Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if isSet(mask, n.X, n.Y) {
				next, found = n, true
				break
			}
			prev = n
		}
		if !found {
			// isolated pixel
			break
		}

		if !moved {
			first, moved = next, true
		} else if cur == start && next == first {
			break
		}

		back = prev
		cur = next
		if visited[cur.Y][cur.X] {
			continue
		}
		visited[cur.Y][cur.X] = true
		contour = append(contour, cur)
	}

	return contour
}

func mooreIndex(dx, dy int) int {
	for i, d := range mooreOrder {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return 0
}

func isSet(mask BinaryMask, x, y int) bool {
	if y < 0 || y >= len(mask) || x < 0 || x >= len(mask[y]) {
		return false
	}
	return mask[y][x]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
