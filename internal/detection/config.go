package detection

// Tracer selects the contour tracing strategy.
type Tracer string

const (
	// TracerEdge runs the gap-tolerant greedy walk over boundary pixels only:
	// foreground pixels with at least one 4-neighbor in the background.
	TracerEdge Tracer = "edge"

	// TracerGreedy runs the same walk over every foreground pixel. Gap
	// bridging widens strokes to about three pixels, so the walk snakes
	// through the band and rarely yields a usable outline. TracerMoore is
	// the choice for stroked shapes.
	TracerGreedy Tracer = "greedy"

	// TracerMoore follows region outlines with Moore-neighbor tracing.
	// It does not bridge gaps beyond what the blur reconnects.
	TracerMoore Tracer = "moore"
)

// Valid reports whether t names a known tracer.
func (t Tracer) Valid() bool {
	switch t {
	case TracerEdge, TracerGreedy, TracerMoore:
		return true
	}
	return false
}

// Config holds every tunable of the pipeline.
type Config struct {
	// Threshold is the luminance above which a pixel is foreground.
	Threshold float64

	// MinContourArea drops contours whose area does not exceed it.
	MinContourArea float64

	// CircularityThreshold is the circularity above which the circle
	// hypothesis holds.
	CircularityThreshold float64

	// TriangleCorners is the corner count the triangle hypothesis requires.
	TriangleCorners int

	// TriangleSolidity is the solidity above which the triangle hypothesis
	// holds.
	TriangleSolidity float64

	// TriangleTolerance scales the perimeter into the Douglas–Peucker epsilon.
	TriangleTolerance float64

	// FallbackCornerLimit is the corner count at or below which an
	// unconfirmed shape is guessed to be a triangle.
	FallbackCornerLimit int

	Tracer Tracer

	// Debug asks the pipeline to attach intermediate geometry to the result.
	Debug bool
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		Threshold:            5,
		MinContourArea:       20,
		CircularityThreshold: 0.6,
		TriangleCorners:      3,
		TriangleSolidity:     0.85,
		TriangleTolerance:    0.25,
		FallbackCornerLimit:  4,
		Tracer:               TracerEdge,
	}
}
