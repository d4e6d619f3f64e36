package detection

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_BlankCanvas(t *testing.T) {
	got := Classify(newCanvas(100, 100), DefaultConfig())

	assert.Equal(t, ShapeUnknown, got.Shape)
	assert.Zero(t, got.Confidence)
	assert.Equal(t, noShapeMessage, got.Message)
	assert.Nil(t, got.Debug)
}

func TestClassify_TinyBlobIsUnknown(t *testing.T) {
	buf := newCanvas(50, 50)
	fillDisk(buf, 25, 25, 1)

	got := Classify(buf, DefaultConfig())

	assert.Equal(t, ShapeUnknown, got.Shape)
	assert.Zero(t, got.Confidence)
}

func TestClassify_Circle(t *testing.T) {
	buf := newCanvas(100, 100)
	fillDisk(buf, 50, 50, 10)

	got := Classify(buf, DefaultConfig())

	assert.Equal(t, ShapeCircle, got.Shape)
	assert.Greater(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 1.0)
	assert.Greater(t, got.Metrics.Circularity, 0.6)
	assert.Contains(t, got.Message, "Detected circle")
}

func TestClassify_CircularityAcrossRadii(t *testing.T) {
	for _, r := range []int{10, 20, 40} {
		t.Run(fmt.Sprintf("r=%d", r), func(t *testing.T) {
			buf := newCanvas(100, 100)
			fillDisk(buf, 50, 50, r)

			got := Classify(buf, DefaultConfig())

			assert.Greater(t, got.Metrics.Circularity, 0.75)
			assert.Equal(t, ShapeCircle, got.Shape)
		})
	}
}

func TestClassify_Triangle(t *testing.T) {
	buf := newCanvas(100, 100)
	fillTriangle(buf, Point{X: 50, Y: 20}, Point{X: 80, Y: 80}, Point{X: 20, Y: 80})

	got := Classify(buf, DefaultConfig())

	assert.Equal(t, ShapeTriangle, got.Shape)
	assert.Greater(t, got.Confidence, 0.0)
	assert.Less(t, got.Metrics.Circularity, 0.7)
}

func TestClassify_EquilateralTriangleCorners(t *testing.T) {
	buf := newCanvas(120, 110)
	fillTriangle(buf, Point{X: 60, Y: 15}, Point{X: 100, Y: 84}, Point{X: 20, Y: 84})

	got := Classify(buf, DefaultConfig())

	assert.Equal(t, 3, got.Metrics.CornerCount)
	assert.True(t, got.Metrics.SolidityDefined)
	assert.Greater(t, got.Metrics.Solidity, 0.85)
	assert.Equal(t, ShapeTriangle, got.Shape)
}

func TestClassify_MooreStrokeRing(t *testing.T) {
	buf := newCanvas(80, 80)
	strokeCircle(buf, 40, 40, 25, 3)

	cfg := DefaultConfig()
	cfg.Tracer = TracerMoore

	got := Classify(buf, cfg)

	assert.Equal(t, ShapeCircle, got.Shape)
	assert.Equal(t, 2, got.Metrics.CornerCount)
}

// The greedy walk covers the bridged band of a stroke pixel by pixel rather
// than following its outline, so a thin ring lands in the corner-count
// fallback while Moore tracing of the same ring reads as a circle.
func TestClassify_GreedyStrokeRing(t *testing.T) {
	buf := newCanvas(80, 80)
	strokeCircle(buf, 40, 40, 25, 3)

	bridged := BridgeGaps(Binarize(buf, DefaultConfig().Threshold))
	foreground := 0
	for _, row := range bridged {
		for _, set := range row {
			if set {
				foreground++
			}
		}
	}

	contours := TraceContours(Binarize(buf, DefaultConfig().Threshold), TracerGreedy)
	walked := 0
	for _, c := range contours {
		walked += len(c)
	}
	assert.LessOrEqual(t, walked, foreground)
	assert.GreaterOrEqual(t, walked, foreground-5, "walk should visit nearly every bridged pixel")

	cfg := DefaultConfig()
	cfg.Tracer = TracerGreedy
	cfg.Debug = true
	greedy := Classify(buf, cfg)

	cfg.Tracer = TracerMoore
	moore := Classify(buf, cfg)

	require.NotNil(t, greedy.Debug)
	require.NotNil(t, moore.Debug)
	assert.Greater(t, len(greedy.Debug.MainContour), 2*len(moore.Debug.MainContour))

	assert.Less(t, greedy.Metrics.Circularity, cfg.CircularityThreshold)
	assert.LessOrEqual(t, greedy.Metrics.CornerCount, cfg.FallbackCornerLimit)
	assert.Equal(t, ShapeTriangle, greedy.Shape)
	assert.Equal(t, fallbackConfidence, greedy.Confidence)

	assert.Equal(t, ShapeCircle, moore.Shape)
	assert.Greater(t, moore.Metrics.Circularity, 0.85)
}

func TestClassify_DebugGeometry(t *testing.T) {
	buf := newCanvas(100, 100)
	fillDisk(buf, 50, 50, 15)

	cfg := DefaultConfig()
	cfg.Debug = true

	got := Classify(buf, cfg)

	require.NotNil(t, got.Debug)
	assert.NotEmpty(t, got.Debug.Contours)
	assert.NotEmpty(t, got.Debug.MainContour)
	assert.GreaterOrEqual(t, len(got.Debug.Hull), 3)
	assert.Len(t, got.Debug.Polygon, got.Metrics.CornerCount)
	require.NotNil(t, got.Debug.Centroid)
	assert.InDelta(t, 50, got.Debug.Centroid.X, 1.5)
	assert.InDelta(t, 50, got.Debug.Centroid.Y, 1.5)
}

func TestClassify_DebugOnBlankCanvas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true

	got := Classify(newCanvas(30, 30), cfg)

	require.NotNil(t, got.Debug)
	assert.Empty(t, got.Debug.Contours)
	assert.Nil(t, got.Debug.Centroid)
}

func TestClassify_Concurrent(t *testing.T) {
	buf := newCanvas(100, 100)
	fillDisk(buf, 50, 50, 20)
	want := Classify(buf, DefaultConfig())

	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Classify(buf, DefaultConfig())
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestSelectMainContour(t *testing.T) {
	small := squareContour(0, 0, 3)  // area 9
	mid := squareContour(10, 10, 6)  // area 36
	big := squareContour(30, 30, 10) // area 100
	bigTwin := squareContour(60, 60, 10)

	t.Run("largest wins", func(t *testing.T) {
		got, ok := SelectMainContour([]Contour{small, big, mid}, 20)
		require.True(t, ok)
		assert.Equal(t, big, got)
	})

	t.Run("first wins ties", func(t *testing.T) {
		got, ok := SelectMainContour([]Contour{bigTwin, big}, 20)
		require.True(t, ok)
		assert.Equal(t, bigTwin, got)
	})

	t.Run("area must exceed minimum", func(t *testing.T) {
		_, ok := SelectMainContour([]Contour{small, mid}, 36)
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := SelectMainContour(nil, 0)
		assert.False(t, ok)
	})
}

func TestSelectMainIndex(t *testing.T) {
	small := squareContour(0, 0, 3)
	big := squareContour(30, 30, 10)
	bigTwin := squareContour(60, 60, 10)

	tests := []struct {
		name     string
		contours []Contour
		minArea  float64
		want     int
	}{
		{"largest wins", []Contour{small, big, small}, 20, 1},
		{"first wins ties", []Contour{small, bigTwin, big}, 20, 1},
		{"none above minimum", []Contour{small, big}, 100, -1},
		{"empty", nil, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectMainIndex(tt.contours, tt.minArea)
			assert.Equal(t, tt.want, got)

			main, ok := SelectMainContour(tt.contours, tt.minArea)
			assert.Equal(t, got >= 0, ok)
			if ok {
				assert.Equal(t, tt.contours[got], main)
			}
		})
	}
}

func TestMeasure_Square(t *testing.T) {
	m := Measure(squareContour(0, 0, 40), 0.05)

	assert.Equal(t, 1600.0, m.Area)
	assert.InDelta(t, 160, m.Perimeter, 1e-9)
	assert.InDelta(t, 0.785398, m.Circularity, 1e-5)
	assert.True(t, m.SolidityDefined)
	assert.InDelta(t, 1, m.Solidity, 1e-9)
	assert.Equal(t, 4, m.CornerCount)
}
