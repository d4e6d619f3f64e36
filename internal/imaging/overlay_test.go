package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

func classifyDebug(t *testing.T, img image.Image) detection.Result {
	t.Helper()
	cfg := detection.DefaultConfig()
	cfg.Debug = true
	res := detection.Classify(ToPixelBuffer(img), cfg)
	if res.Debug == nil {
		t.Fatal("Classify did not attach debug geometry")
	}
	return res
}

func diskSketch() *image.NRGBA {
	img := newSketch(100, 100, color.NRGBA{})
	fillDisk(img, 50, 50, 20, color.White)
	return img
}

func sameColor(a color.Color, b color.RGBA) bool {
	r, g, bl, al := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r == r2 && g == g2 && bl == b2 && al == a2
}

func TestRenderOverlay(t *testing.T) {
	src := diskSketch()
	res := classifyDebug(t, src)

	out, err := RenderOverlay(src, res, 1)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("size: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	for _, p := range res.Debug.Polygon {
		if !sameColor(out.At(p.X, p.Y), polygonColor) {
			t.Errorf("polygon vertex %v not drawn in polygon color, got %v", p, out.At(p.X, p.Y))
		}
	}

	c := res.Debug.Centroid
	if !sameColor(out.At(int(c.X+0.5), int(c.Y+0.5)), centroidColor) {
		t.Error("centroid cross not drawn")
	}
}

func TestRenderOverlay_Scaled(t *testing.T) {
	src := diskSketch()
	res := classifyDebug(t, src)

	out, err := RenderOverlay(src, res, 3)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("size: got %dx%d, want 300x300", b.Dx(), b.Dy())
	}

	p := res.Debug.Polygon[0]
	if !sameColor(out.At(p.X*3+1, p.Y*3+1), polygonColor) {
		t.Error("scaled vertex should keep the polygon color")
	}
}

func TestRenderOverlay_ScaleTooLarge(t *testing.T) {
	src := diskSketch()
	res := classifyDebug(t, src)

	if _, err := RenderOverlay(src, res, MaxOverlayScale+1); err == nil {
		t.Error("expected error for scale above MaxOverlayScale")
	}
	if _, err := RenderOverlay(src, res, 1<<24); err == nil {
		t.Error("expected error for huge scale")
	}
}

func TestRenderOverlay_BackgroundDimmed(t *testing.T) {
	src := newSketch(60, 60, color.White)
	res := detection.Result{Shape: detection.ShapeUnknown, Debug: &detection.Debug{}}

	out, err := RenderOverlay(src, res, 1)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	r, g, b, _ := out.At(50, 50).RGBA()
	if r>>8 > 200 || g>>8 > 200 || b>>8 > 200 {
		t.Errorf("background should be dimmed, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	if r != g || g != b {
		t.Error("background should be grayscale")
	}
}

func TestRenderOverlay_NoDebug(t *testing.T) {
	_, err := RenderOverlay(diskSketch(), detection.Result{}, 1)
	if !errors.Is(err, ErrNoDebug) {
		t.Errorf("got %v, want ErrNoDebug", err)
	}
}

func TestEncodeOverlay(t *testing.T) {
	src := diskSketch()
	res := classifyDebug(t, src)

	result, err := EncodeOverlay(src, res, 2)
	if err != nil {
		t.Fatalf("EncodeOverlay failed: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 || result.Width != 200 || result.Height != 200 {
		t.Errorf("size: got %dx%d (reported %dx%d), want 200x200", b.Dx(), b.Dy(), result.Width, result.Height)
	}
}

func TestSaveOverlay(t *testing.T) {
	src := diskSketch()
	res := classifyDebug(t, src)
	path := filepath.Join(t.TempDir(), "overlay.png")

	if err := SaveOverlay(path, src, res, 1); err != nil {
		t.Fatalf("SaveOverlay failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("overlay not written: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("overlay is not a PNG: %v", err)
	}
}

func TestOverlayLabel(t *testing.T) {
	tests := []struct {
		res  detection.Result
		want string
	}{
		{detection.Result{Shape: detection.ShapeCircle, Confidence: 0.734}, "circle 73%"},
		{detection.Result{Shape: detection.ShapeTriangle, Confidence: 1}, "triangle 100%"},
		{detection.Result{Shape: detection.ShapeUnknown}, "no shape"},
	}

	for _, tt := range tests {
		if got := overlayLabel(tt.res); got != tt.want {
			t.Errorf("overlayLabel() = %q, want %q", got, tt.want)
		}
	}
}

func TestContourColorsDiffer(t *testing.T) {
	seen := make(map[color.RGBA]bool)
	for i := 0; i < 8; i++ {
		seen[contourColor(i)] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct contour colors, got %d", len(seen))
	}
}

func TestDrawLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := color.RGBA{255, 0, 0, 255}

	drawLine(img, 1, 1, 8, 4, c)

	for _, p := range []image.Point{{1, 1}, {8, 4}} {
		if img.RGBAAt(p.X, p.Y) != c {
			t.Errorf("endpoint %v not drawn", p)
		}
	}

	// Lines running off the canvas are clipped, not panicking.
	drawLine(img, -5, -5, 20, 20, c)
	if img.RGBAAt(9, 9) != c {
		t.Error("clipped diagonal should cross (9,9)")
	}
}
