package imaging

import (
	"image"
	"sort"

	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// invertedRatio is the foreground share above which a sketch is assumed to
// be dark strokes on a light background.
const invertedRatio = 0.5

// ColorFrequency is one quantized color and its share of the counted pixels.
type ColorFrequency struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"`
}

// SketchStats describes how a sketch binarizes.
type SketchStats struct {
	// ForegroundRatio is the share of pixels above the luminance threshold.
	ForegroundRatio float64 `json:"foreground_ratio"`

	// LikelyInverted is set when most pixels are foreground, which usually
	// means dark strokes on a white page. Such sketches classify correctly
	// only after Invert.
	LikelyInverted bool `json:"likely_inverted"`

	// StrokeColors are the most common foreground colors, most common first.
	StrokeColors []ColorFrequency `json:"stroke_colors"`
}

// AnalyzeSketch binarizes buf with threshold and reports the foreground
// share together with up to count dominant stroke colors.
//
// Colors are quantized by dropping the low 4 bits of each component, so
// strokes that differ only by anti-aliasing noise are grouped.
func AnalyzeSketch(buf detection.PixelBuffer, threshold float64, count int) *SketchStats {
	mask := detection.Binarize(buf, threshold)

	counts := make(map[[3]uint8]int)
	foreground := 0
	for y, row := range mask {
		for x, set := range row {
			if !set {
				continue
			}
			foreground++
			i := (y*buf.Width + x) * 4
			key := [3]uint8{buf.Pix[i] &^ 0x0F, buf.Pix[i+1] &^ 0x0F, buf.Pix[i+2] &^ 0x0F}
			counts[key]++
		}
	}

	total := buf.Width * buf.Height
	stats := &SketchStats{StrokeColors: []ColorFrequency{}}
	if total == 0 {
		return stats
	}
	stats.ForegroundRatio = float64(foreground) / float64(total)
	stats.LikelyInverted = stats.ForegroundRatio > invertedRatio

	colors := make([]ColorFrequency, 0, len(counts))
	for key, n := range counts {
		c := colorful.Color{R: float64(key[0]) / 255, G: float64(key[1]) / 255, B: float64(key[2]) / 255}
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(n) / float64(foreground) * 100,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	stats.StrokeColors = colors
	return stats
}

// Invert flips the color channels of img and keeps its alpha, turning dark
// strokes on a light page into light strokes on a dark one.
func Invert(img image.Image) image.Image {
	return effect.Invert(img)
}
