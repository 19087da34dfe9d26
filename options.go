package contactsheet

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/yyyoichi/contactsheet/internal/background"
	"golang.org/x/image/draw"
)

type Option func(*Builder) error

// BackgroundMethod selects how the default engine finds an image's
// background colour.
type BackgroundMethod = background.Method

const (
	// BackgroundBorder uses the most frequent edge colour when it covers at
	// least half of the border.
	BackgroundBorder = background.MethodBorder
	// BackgroundDominant clusters the edge pixels with dominantcolor.
	BackgroundDominant = background.MethodDominant
	// BackgroundKMeans clusters the edge pixels with k-means. The clustering
	// is seeded deterministically, so equal images give equal keys.
	BackgroundKMeans = background.MethodKMeans
	// BackgroundNone reports no background, which disables transparency.
	BackgroundNone = background.MethodNone
)

// ParseBackgroundMethod parses "border", "dominant", "kmeans" or "none".
func ParseBackgroundMethod(name string) (BackgroundMethod, error) {
	return background.ParseMethod(name)
}

// WithEngine replaces the default image engine. The remaining options other
// than WithLogger only configure the default engine and have no effect on e.
func WithEngine(e Engine) Option {
	return func(b *Builder) error {
		if e == nil {
			return fmt.Errorf("nil engine")
		}
		b.engine = e
		return nil
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) error {
		b.logger = l
		return nil
	}
}

// WithBackgroundMethod chooses how the background of the first image is
// detected. The default is BackgroundBorder.
func WithBackgroundMethod(m BackgroundMethod) Option {
	return func(b *Builder) error {
		b.method = m
		return nil
	}
}

// WithTransparencyFuzz makes colours within distance d of the background
// colour transparent as well. d is a CIE76 distance in go-colorful Lab units,
// where 0.01 is barely visible and 1 spans black to white.
// The default of 0 only keys out the exact colour.
func WithTransparencyFuzz(d float64) Option {
	return func(b *Builder) error {
		if d < 0 {
			return fmt.Errorf("negative transparency fuzz %v", d)
		}
		b.fuzz = d
		return nil
	}
}

// WithFill sets the colour of empty cells and letterbox margins.
// The default is fully transparent.
func WithFill(c color.Color) Option {
	return func(b *Builder) error {
		b.fill = c
		return nil
	}
}

// WithJPEGQuality sets the encoder quality used for .jpg and .jpeg output.
func WithJPEGQuality(q int) Option {
	return func(b *Builder) error {
		if q < 1 || q > 100 {
			return fmt.Errorf("jpeg quality %d out of range 1-100", q)
		}
		b.quality = q
		return nil
	}
}

// WithInterpolator sets the scaler used for tiles and the final resize.
// The default is draw.CatmullRom.
func WithInterpolator(s draw.Scaler) Option {
	return func(b *Builder) error {
		b.scaler = s
		return nil
	}
}
