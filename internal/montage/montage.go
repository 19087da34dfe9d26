package montage

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidGeometry   = errors.New("invalid tile geometry")
)

// MaxPixels caps the size of any canvas allocated here. At four bytes per
// pixel a single raster stays within 1 GiB.
const MaxPixels = 1 << 28

// checkCanvas reports whether a width x height raster may be allocated.
// All terms are positive, so comparing by division cannot overflow.
func checkCanvas(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidGeometry, width, height)
	}
	if width > MaxPixels/height {
		return fmt.Errorf("%w: canvas %dx%d exceeds %d pixels", ErrInvalidGeometry, width, height, MaxPixels)
	}
	return nil
}

// Load decodes the image stored at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Probe reads only the header of the image at path and returns its size.
func Probe(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Tile places images row by row on a columns x rows grid of square cells of
// tileSize pixels. Every image is scaled to fit its cell, keeping its aspect
// ratio, and centred. Unused cells and letterbox margins keep the fill colour.
// Images that do not fit on the grid are left out; the number placed is
// returned.
func Tile(images []image.Image, tileSize, columns, rows int, fill color.Color, scaler draw.Scaler) (*image.NRGBA, int, error) {
	if tileSize < 1 || columns < 1 || rows < 1 {
		return nil, 0, fmt.Errorf("%w: tile %d, grid %dx%d", ErrInvalidGeometry, tileSize, columns, rows)
	}
	if columns > MaxPixels/tileSize || rows > MaxPixels/tileSize {
		return nil, 0, fmt.Errorf("%w: tile %d, grid %dx%d exceeds %d pixels", ErrInvalidGeometry, tileSize, columns, rows, MaxPixels)
	}
	if err := checkCanvas(columns*tileSize, rows*tileSize); err != nil {
		return nil, 0, err
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, columns*tileSize, rows*tileSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	placed := min(len(images), columns*rows)
	for i, src := range images[:placed] {
		cell := image.Rect(0, 0, tileSize, tileSize).Add(image.Pt((i%columns)*tileSize, (i/columns)*tileSize))
		scaler.Scale(canvas, fit(src.Bounds(), cell), src, src.Bounds(), draw.Over, nil)
	}
	return canvas, placed, nil
}

// fit returns the largest rectangle with the aspect ratio of src centred in cell.
func fit(src, cell image.Rectangle) image.Rectangle {
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 {
		return image.Rectangle{Min: cell.Min, Max: cell.Min}
	}
	scale := math.Min(float64(cell.Dx())/float64(w), float64(cell.Dy())/float64(h))
	dw := max(1, int(math.Round(float64(w)*scale)))
	dh := max(1, int(math.Round(float64(h)*scale)))
	x := cell.Min.X + (cell.Dx()-dw)/2
	y := cell.Min.Y + (cell.Dy()-dh)/2
	return image.Rect(x, y, x+dw, y+dh)
}

// KeyOut returns a copy of img in which every pixel accepted by match is
// fully transparent.
func KeyOut(img image.Image, match func(color.NRGBA) bool) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if match(out.NRGBAAt(x, y)) {
				out.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return out
}

// Resize scales img to exactly width x height.
func Resize(img image.Image, width, height int, scaler draw.Scaler) (*image.NRGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: resize to %dx%d", ErrInvalidGeometry, width, height)
	}
	if err := checkCanvas(width, height); err != nil {
		return nil, err
	}
	dist := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dist, dist.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dist, nil
}

// Encode writes img to w in the given format. quality only applies to JPEG.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatGIF:
		return gif.Encode(w, img, &gif.Options{NumColors: 256})
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Write encodes img into path, choosing the format from the extension. The
// image is written to a temporary file in the same directory and renamed
// into place, so a failed write never leaves a partial file at path.
func Write(path string, img image.Image, quality int) (err error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".contactsheet-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = Encode(tmp, img, format, quality); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
