package detection

// alphaBoost multiplies the luminance of strongly opaque pixels so that
// faint but deliberate strokes clear the threshold.
const (
	alphaBoost       = 1.5
	alphaBoostCutoff = 200
)

// Binarize converts an RGBA buffer into a foreground mask using a single
// global threshold.
//
// Luminance uses ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B), is
// multiplied by 1.5 when alpha > 200 and clamped to 255. A pixel is
// foreground when its luminance exceeds threshold. Light strokes on a dark
// or transparent background are therefore foreground.
//
// The buffer must satisfy PixelBuffer.Validate.
func Binarize(buf PixelBuffer, threshold float64) BinaryMask {
	mask := newMask(buf.Width, buf.Height)

	for y := 0; y < buf.Height; y++ {
		row := buf.Pix[y*buf.Width*4 : (y+1)*buf.Width*4]
		for x := 0; x < buf.Width; x++ {
			p := row[x*4 : x*4+4]
			mask[y][x] = luminance(p[0], p[1], p[2], p[3]) > threshold
		}
	}

	return mask
}

func luminance(r, g, b, a uint8) float64 {
	l := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if a > alphaBoostCutoff {
		l *= alphaBoost
	}
	if l > 255 {
		l = 255
	}
	return l
}
