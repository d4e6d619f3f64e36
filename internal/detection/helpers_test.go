package detection

// newCanvas creates a fully transparent buffer, which binarizes to
// background everywhere.
func newCanvas(width, height int) PixelBuffer {
	return PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// paint sets a pixel to opaque white if it lies inside the canvas.
func paint(buf PixelBuffer, x, y int) {
	if x < 0 || y < 0 || x >= buf.Width || y >= buf.Height {
		return
	}
	i := (y*buf.Width + x) * 4
	buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = 255, 255, 255, 255
}

// fillDisk paints every pixel whose center is within radius of (cx, cy).
func fillDisk(buf PixelBuffer, cx, cy, radius int) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				paint(buf, x, y)
			}
		}
	}
}

// strokeCircle paints a ring of the given thickness centered on radius.
func strokeCircle(buf PixelBuffer, cx, cy, radius int, thickness float64) {
	inner := float64(radius) - thickness/2
	outer := float64(radius) + thickness/2
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			d2 := dx*dx + dy*dy
			if d2 >= inner*inner && d2 <= outer*outer {
				paint(buf, x, y)
			}
		}
	}
}

// fillTriangle paints every pixel whose center lies inside or on the
// triangle abc.
func fillTriangle(buf PixelBuffer, a, b, c Point) {
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			p := Point{X: x, Y: y}
			d1, d2, d3 := cross(a, b, p), cross(b, c, p), cross(c, a, p)
			hasNeg := d1 < 0 || d2 < 0 || d3 < 0
			hasPos := d1 > 0 || d2 > 0 || d3 > 0
			if !(hasNeg && hasPos) {
				paint(buf, x, y)
			}
		}
	}
}

// maskFromRows builds a mask from strings where '#' marks foreground.
func maskFromRows(rows ...string) BinaryMask {
	m := newMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			m[y][x] = ch == '#'
		}
	}
	return m
}

// squareContour returns the outline of an axis-aligned square traced
// clockwise on screen, one point per pixel step.
func squareContour(x0, y0, side int) Contour {
	c := make(Contour, 0, side*4)
	for x := x0; x < x0+side; x++ {
		c = append(c, Point{X: x, Y: y0})
	}
	for y := y0; y < y0+side; y++ {
		c = append(c, Point{X: x0 + side, Y: y})
	}
	for x := x0 + side; x > x0; x-- {
		c = append(c, Point{X: x, Y: y0 + side})
	}
	for y := y0 + side; y > y0; y-- {
		c = append(c, Point{X: x0, Y: y})
	}
	return c
}
