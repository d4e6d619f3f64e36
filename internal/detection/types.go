package detection

import "fmt"

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is an ordered sequence of points in trace order.
//
// A contour is never explicitly closed: area and perimeter computations treat
// the last point as connected back to the first.
type Contour []Point

// PixelBuffer is an immutable RGBA snapshot of a drawing surface.
//
// Pix holds 4 bytes per pixel (R, G, B, A, non-premultiplied) in row-major
// order with no padding between rows. The pipeline never writes to Pix.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Validate reports whether the buffer's dimensions agree with its data.
// Callers should reject invalid buffers before running the pipeline.
func (b PixelBuffer) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("pixel data length %d does not match %dx%d RGBA (%d bytes)",
			len(b.Pix), b.Width, b.Height, want)
	}
	return nil
}

// BinaryMask is a per-pixel foreground flag indexed as mask[y][x].
type BinaryMask [][]bool

func newMask(width, height int) BinaryMask {
	m := make(BinaryMask, height)
	for y := range m {
		m[y] = make([]bool, width)
	}
	return m
}

// Size returns the mask width and height.
func (m BinaryMask) Size() (width, height int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m[0]), len(m)
}

// Shape is a classification label.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeTriangle Shape = "triangle"
	ShapeUnknown  Shape = "unknown"
)

// Centroid is the arithmetic mean of a contour's points.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeMetrics holds the geometric features of the main contour.
type ShapeMetrics struct {
	// Area is the Shoelace area of the implicitly closed contour.
	Area float64 `json:"area"`

	// Perimeter is the cyclic sum of distances between consecutive points.
	Perimeter float64 `json:"perimeter"`

	// Circularity is 4π·area/perimeter², 0 when the perimeter is 0.
	// Discretization can push it slightly above 1.
	Circularity float64 `json:"circularity"`

	// Solidity is contour area over convex hull area. It is only meaningful
	// when SolidityDefined is true; a zero-area hull leaves it at 0.
	Solidity        float64 `json:"solidity"`
	SolidityDefined bool    `json:"solidity_defined"`

	Centroid Centroid `json:"centroid"`

	// CornerCount is the vertex count of the simplified polygon.
	CornerCount int `json:"corner_count"`
}

// Debug carries the intermediate geometry of one classification so that an
// outer layer can draw it. The pipeline fills it in but never reads it.
type Debug struct {
	Contours    []Contour `json:"contours"`
	MainContour Contour   `json:"main_contour,omitempty"`
	Hull        []Point   `json:"hull,omitempty"`
	Polygon     []Point   `json:"polygon,omitempty"`
	Centroid    *Centroid `json:"centroid,omitempty"`
}

// Result is the outcome of classifying one sketch.
type Result struct {
	Shape      Shape        `json:"shape"`
	Confidence float64      `json:"confidence"`
	Metrics    ShapeMetrics `json:"metrics"`
	Message    string       `json:"message"`

	// Debug is only populated when Config.Debug is set.
	Debug *Debug `json:"-"`
}
