package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// Overlay colors for the selected geometry. Secondary contours get hues from
// contourColor instead.
var (
	mainColor     = mustHex("#33FF66")
	hullColor     = mustHex("#FFCC00")
	polygonColor  = mustHex("#FF3366")
	centroidColor = mustHex("#00CCFF")
)

// ErrNoDebug is returned when a result carries no intermediate geometry.
var ErrNoDebug = errors.New("result has no debug geometry; classify with debug enabled")

const (
	// baseDimming darkens the grayscale copy of the sketch so the drawn
	// geometry stands out.
	baseDimming = -0.6

	// goldenAngle spaces contour hues so neighbors in the list differ.
	goldenAngle = 137.508

	labelPadding = 3

	// MaxOverlayScale bounds the overlay magnification.
	MaxOverlayScale = 16
)

// OverlayResult is a rendered debug overlay encoded as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderOverlay draws the geometry recorded in res.Debug over a dimmed
// grayscale copy of src.
//
// Layers, bottom to top: every traced contour in its own hue, the convex
// hull, the main contour, the simplified polygon with its vertices marked,
// and a cross at the centroid. With scale > 1 the drawing is enlarged with
// nearest-neighbor sampling so single pixels stay visible. The label with
// the shape and confidence is drawn last at full resolution.
func RenderOverlay(src image.Image, res detection.Result, scale int) (*image.NRGBA, error) {
	if res.Debug == nil {
		return nil, ErrNoDebug
	}
	if scale < 1 {
		scale = 1
	}
	if scale > MaxOverlayScale {
		return nil, fmt.Errorf("overlay scale %d exceeds maximum %d", scale, MaxOverlayScale)
	}

	canvas := adjust.Brightness(effect.Grayscale(src), baseDimming)
	dbg := res.Debug

	for i, c := range dbg.Contours {
		drawPath(canvas, c, contourColor(i), false)
	}
	drawPath(canvas, dbg.Hull, hullColor, true)
	drawPath(canvas, dbg.MainContour, mainColor, true)
	drawPath(canvas, dbg.Polygon, polygonColor, true)
	for _, p := range dbg.Polygon {
		drawMarker(canvas, p.X, p.Y, 1, polygonColor)
	}
	if dbg.Centroid != nil {
		cx, cy := int(math.Round(dbg.Centroid.X)), int(math.Round(dbg.Centroid.Y))
		drawCross(canvas, cx, cy, 3, centroidColor)
	}

	var out *image.NRGBA
	if scale > 1 {
		b := canvas.Bounds()
		out = imaging.Resize(canvas, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	} else {
		out = imaging.Clone(canvas)
	}

	drawLabel(out, labelPadding, labelPadding, overlayLabel(res))
	return out, nil
}

// EncodeOverlay renders the overlay and encodes it as base64 PNG.
func EncodeOverlay(src image.Image, res detection.Result, scale int) (*OverlayResult, error) {
	img, err := RenderOverlay(src, res, scale)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveOverlay renders the overlay and writes it to path as PNG.
func SaveOverlay(path string, src image.Image, res detection.Result, scale int) error {
	img, err := RenderOverlay(src, res, scale)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

func overlayLabel(res detection.Result) string {
	if res.Shape == detection.ShapeUnknown {
		return "no shape"
	}
	return fmt.Sprintf("%s %.0f%%", res.Shape, res.Confidence*100)
}

// contourColor returns a saturated hue for the i-th contour.
func contourColor(i int) color.RGBA {
	hue := math.Mod(float64(i)*goldenAngle, 360)
	return toRGBA(colorful.Hsv(hue, 0.7, 0.85))
}

func mustHex(s string) color.RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("invalid palette color %q: %v", s, err))
	}
	return toRGBA(c)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawPath draws straight segments between consecutive points, plus the
// closing segment when closed is set.
func drawPath(img *image.RGBA, points []detection.Point, c color.RGBA, closed bool) {
	n := len(points)
	if n == 0 {
		return
	}
	if n == 1 {
		setIn(img, points[0].X, points[0].Y, c)
		return
	}

	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a, b := points[i], points[(i+1)%n]
		drawLine(img, a.X, a.Y, b.X, b.Y, c)
	}
}

// drawLine rasterizes a segment with Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		setIn(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawMarker(img *image.RGBA, x, y, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			setIn(img, x+dx, y+dy, c)
		}
	}
}

func drawCross(img *image.RGBA, x, y, arm int, c color.RGBA) {
	for d := -arm; d <= arm; d++ {
		setIn(img, x+d, y, c)
		setIn(img, x, y+d, c)
	}
}

// drawLabel writes text on a translucent box with its top-left corner at
// (x, y).
func drawLabel(img draw.Image, x, y int, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(x-1, y-1, x+width+1, y+height+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(color.RGBA{0, 0, 0, 180}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + metrics.Ascent},
	}
	d.DrawString(text)
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
