package contactsheet

import (
	"image"
	"image/color"

	"github.com/yyyoichi/contactsheet/internal/background"
	"github.com/yyyoichi/contactsheet/internal/montage"
	"golang.org/x/image/draw"
)

// Image is a decoded raster together with the background colour reported
// for it. A Background with zero alpha means the image has none.
type Image struct {
	Raster     image.Image
	Background color.NRGBA
}

func (i Image) Width() int  { return i.Raster.Bounds().Dx() }
func (i Image) Height() int { return i.Raster.Bounds().Dy() }

// Engine is the image library used to build a composite. A Builder calls
// Load once per source image and every other method at most once per build,
// in the order Tile, ApplyTransparency, Resize, Write.
type Engine interface {
	Load(path string) (Image, error)
	Tile(images []Image, tileSize, columns, rows int) (Image, error)
	ApplyTransparency(img Image, key color.NRGBA) (Image, error)
	Resize(img Image, width, height int) (Image, error)
	Write(img Image, path string) error
}

// Prober reports the pixel size of an image without decoding its pixels.
type Prober interface {
	Probe(path string) (width, height int, err error)
}

// montageEngine is the default Engine built on the standard codecs and
// golang.org/x/image.
type montageEngine struct {
	method  background.Method
	fuzz    float64
	fill    color.Color
	quality int
	scaler  draw.Scaler
}

func (e *montageEngine) Load(path string) (Image, error) {
	img, err := montage.Load(path)
	if err != nil {
		return Image{}, err
	}
	return Image{Raster: img, Background: background.Detect(img, e.method)}, nil
}

func (e *montageEngine) Probe(path string) (int, int, error) {
	return montage.Probe(path)
}

func (e *montageEngine) Tile(images []Image, tileSize, columns, rows int) (Image, error) {
	rasters := make([]image.Image, len(images))
	for i := range images {
		rasters[i] = images[i].Raster
	}
	canvas, _, err := montage.Tile(rasters, tileSize, columns, rows, e.fill, e.scaler)
	if err != nil {
		return Image{}, err
	}
	return Image{Raster: canvas}, nil
}

func (e *montageEngine) ApplyTransparency(img Image, key color.NRGBA) (Image, error) {
	out := montage.KeyOut(img.Raster, func(c color.NRGBA) bool {
		return background.Within(c, key, e.fuzz)
	})
	return Image{Raster: out, Background: img.Background}, nil
}

func (e *montageEngine) Resize(img Image, width, height int) (Image, error) {
	out, err := montage.Resize(img.Raster, width, height, e.scaler)
	if err != nil {
		return Image{}, err
	}
	return Image{Raster: out, Background: img.Background}, nil
}

func (e *montageEngine) Write(img Image, path string) error {
	return montage.Write(path, img.Raster, e.quality)
}
