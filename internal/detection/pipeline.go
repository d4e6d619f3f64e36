package detection

// noShapeMessage is reported when no contour survives the area filter.
const noShapeMessage = "No shape detected: no contour larger than the minimum area"

// Classify runs the whole pipeline on one pixel buffer.
//
// Stages, each consuming the previous stage's output:
//
//  1. Binarize: global luminance threshold
//  2. TraceContours: gap bridging and contour tracing
//  3. SelectMainContour: area filter and largest contour
//  4. Measure: area, perimeter, circularity, centroid, hull, solidity and
//     corner count of the main contour
//  5. Decide: confidence-scored label
//
// Classify holds no state between calls and never mutates buf, so it may be
// called concurrently on independent buffers. It has no failure path:
// degenerate input yields ShapeUnknown with confidence 0 or a fallback label.
// The buffer must satisfy PixelBuffer.Validate.
func Classify(buf PixelBuffer, cfg Config) Result {
	logger := Logger()

	mask := Binarize(buf, cfg.Threshold)
	contours := TraceContours(mask, cfg.Tracer)
	logger.Debug("traced contours", "count", len(contours), "tracer", string(cfg.Tracer))

	var debug *Debug
	if cfg.Debug {
		debug = &Debug{Contours: contours}
	}

	mainContour, ok := SelectMainContour(contours, cfg.MinContourArea)
	if !ok {
		logger.Debug("no contour above minimum area", "min_area", cfg.MinContourArea)
		return Result{
			Shape:      ShapeUnknown,
			Confidence: 0,
			Message:    noShapeMessage,
			Debug:      debug,
		}
	}

	metrics, hull, polygon := measure(mainContour, cfg.TriangleTolerance)
	decision := Decide(metrics.Circularity, metrics.Solidity, metrics.SolidityDefined, metrics.CornerCount, cfg)
	logger.Debug("classified sketch",
		"shape", string(decision.Shape),
		"confidence", decision.Confidence,
		"circularity", metrics.Circularity,
		"solidity", metrics.Solidity,
		"corners", metrics.CornerCount,
	)

	if debug != nil {
		centroid := metrics.Centroid
		debug.MainContour = mainContour
		debug.Hull = hull
		debug.Polygon = polygon
		debug.Centroid = &centroid
	}

	return Result{
		Shape:      decision.Shape,
		Confidence: decision.Confidence,
		Metrics:    metrics,
		Message:    resultMessage(decision),
		Debug:      debug,
	}
}

// SelectMainContour returns the contour with the largest area among those
// whose area exceeds minArea. The first contour wins ties. The second result
// is false when no contour passes the filter.
func SelectMainContour(contours []Contour, minArea float64) (Contour, bool) {
	i := SelectMainIndex(contours, minArea)
	if i < 0 {
		return nil, false
	}
	return contours[i], true
}

// SelectMainIndex is SelectMainContour returning the index of the main
// contour, or -1 when no contour passes the filter.
func SelectMainIndex(contours []Contour, minArea float64) int {
	best := -1
	var bestArea float64

	for i, c := range contours {
		area := Area(c)
		if area <= minArea {
			continue
		}
		if best < 0 || area > bestArea {
			best, bestArea = i, area
		}
	}

	return best
}

// Measure computes the shape metrics of a single contour.
func Measure(contour Contour, triangleTolerance float64) ShapeMetrics {
	metrics, _, _ := measure(contour, triangleTolerance)
	return metrics
}

func measure(contour Contour, triangleTolerance float64) (ShapeMetrics, []Point, []Point) {
	area := Area(contour)
	perimeter := Perimeter(contour)
	hull := ConvexHull(contour)
	solidity, defined := Solidity(area, hull)
	polygon := SimplifyClosed(contour, triangleTolerance*perimeter)

	return ShapeMetrics{
		Area:            area,
		Perimeter:       perimeter,
		Circularity:     Circularity(area, perimeter),
		Solidity:        solidity,
		SolidityDefined: defined,
		Centroid:        CentroidOf(contour),
		CornerCount:     len(polygon),
	}, hull, polygon
}
