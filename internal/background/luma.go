package background

import "image/color"

// BT.601 luma weights, as used by OpenCV's RGB to YUV conversion.
const (
	yr = 0.299
	yg = 0.587
	yb = 0.114
)

// lumaBatch writes the luma of each pixel, scaled to [0, 1], into y.
// y must be at least as long as pixels.
func lumaBatch(pixels []color.NRGBA, y []float64) {
	for i, p := range pixels {
		y[i] = (yr*float64(p.R) + yg*float64(p.G) + yb*float64(p.B)) / 255
	}
}
