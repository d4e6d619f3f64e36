package detection

import "fmt"

// fallbackConfidence is reported when neither hypothesis is confirmed and the
// label comes from the corner-count guess alone.
const fallbackConfidence = 0.5

// Decision is the outcome of fusing the shape signals.
type Decision struct {
	Shape      Shape
	Confidence float64
}

// Decide fuses circularity, solidity and corner count into a label.
//
// The circle hypothesis holds when circularity exceeds
// cfg.CircularityThreshold; its confidence is (circularity - threshold) /
// (1 - threshold), clamped to [0,1]. The triangle hypothesis holds when
// cornerCount equals cfg.TriangleCorners, solidity is defined and exceeds
// cfg.TriangleSolidity; its confidence is the clamped solidity.
//
// With one hypothesis, it wins with its own confidence. With both, the higher
// confidence wins (circle on a tie) and the reported confidence is the margin
// between the two. With neither, shapes with at most
// cfg.FallbackCornerLimit corners are guessed to be triangles and the rest
// circles, both at confidence 0.5. That guess labels low-corner blobs as
// triangles even when they are roundish; it is kept for compatibility with
// existing results.
func Decide(circularity, solidity float64, solidityDefined bool, cornerCount int, cfg Config) Decision {
	isCircle := circularity > cfg.CircularityThreshold
	var circleConf float64
	if span := 1 - cfg.CircularityThreshold; span > 0 {
		circleConf = clamp01((circularity - cfg.CircularityThreshold) / span)
	}

	isTriangle := cornerCount == cfg.TriangleCorners && solidityDefined && solidity > cfg.TriangleSolidity
	triangleConf := clamp01(solidity)

	switch {
	case isCircle && isTriangle:
		if triangleConf > circleConf {
			return Decision{Shape: ShapeTriangle, Confidence: clamp01(triangleConf - circleConf)}
		}
		return Decision{Shape: ShapeCircle, Confidence: clamp01(circleConf - triangleConf)}
	case isCircle:
		return Decision{Shape: ShapeCircle, Confidence: circleConf}
	case isTriangle:
		return Decision{Shape: ShapeTriangle, Confidence: triangleConf}
	case cornerCount <= cfg.FallbackCornerLimit:
		return Decision{Shape: ShapeTriangle, Confidence: fallbackConfidence}
	default:
		return Decision{Shape: ShapeCircle, Confidence: fallbackConfidence}
	}
}

// resultMessage summarizes a decision for display.
func resultMessage(d Decision) string {
	return fmt.Sprintf("Detected %s (%.0f%% confidence)", d.Shape, d.Confidence*100)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
