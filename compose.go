package contactsheet

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/yyyoichi/contactsheet/internal/background"
	"github.com/yyyoichi/contactsheet/internal/layout"
	"github.com/yyyoichi/contactsheet/internal/montage"
	"golang.org/x/image/draw"
)

var (
	ErrNothingToCompose  = errors.New("nothing to compose")
	ErrCompositionFailed = errors.New("composition failed")
	ErrDegenerateGrid    = layout.ErrDegenerateGrid
	ErrUnsupportedFormat = montage.ErrUnsupportedFormat
	// ErrInvalidGeometry is reported by the default engine for a grid or
	// output size it refuses to allocate.
	ErrInvalidGeometry = montage.ErrInvalidGeometry
)

// BuildAndSave composes items into a single image laid out by l and writes it
// to outputPath. This is a convenience function that creates a Builder and
// calls its BuildAndSave method.
func BuildAndSave(ctx context.Context, items []ImageReference, l Layout, outputPath string, opts ...Option) error {
	b, err := New(opts...)
	if err != nil {
		return err
	}
	return b.BuildAndSave(ctx, items, l, outputPath)
}

// CompositeSpec is everything needed for one composition. It is built right
// before composing and used once.
type CompositeSpec struct {
	Sources  []Image
	TileSize int
	Columns  int
	Rows     int
	Width    int
	Height   int
	// Transparency is the first source's background colour, or nil when it
	// has zero alpha.
	Transparency *color.NRGBA
}

type Builder struct {
	engine  Engine
	logger  *slog.Logger
	method  background.Method
	fuzz    float64
	fill    color.Color
	quality int
	scaler  draw.Scaler
}

// New initializes a Builder. Without options it uses the default engine with
// border background detection, exact transparency keys, a transparent fill,
// JPEG quality 90 and Catmull-Rom scaling.
func New(opts ...Option) (*Builder, error) {
	b := new(Builder)
	if err := b.init(opts...); err != nil {
		return nil, err
	}
	return b, nil
}

// BuildAndSave composes items and writes the result to outputPath.
//
// Process:
//  1. Loads every item in list order; the first image supplies the background colour.
//  2. Tiles the images on a Columns x Rows grid of TileSize squares.
//  3. Keys out the background colour when it has non-zero alpha.
//  4. Resizes to Width x Height when the montage is wider than Width.
//  5. Writes the image; the engine picks the format from the extension.
//
// It returns ErrNothingToCompose without touching the engine when items is
// empty, and ErrCompositionFailed wrapping the cause when the engine fails.
func (b *Builder) BuildAndSave(ctx context.Context, items []ImageReference, l Layout, outputPath string) error {
	spec, err := b.NewCompositeSpec(ctx, items, l)
	if err != nil {
		return err
	}
	img, err := b.Compose(spec)
	if err != nil {
		return err
	}
	if err := b.engine.Write(img, outputPath); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrCompositionFailed, outputPath, err)
	}
	b.logger.Info("Contact sheet written", "path", outputPath, "width", img.Width(), "height", img.Height(), "images", len(items))
	return nil
}

// BuildSheet snapshots s and builds it into outputPath. Mutations of s made
// while the build runs do not affect the output.
func (b *Builder) BuildSheet(ctx context.Context, s *Sheet, outputPath string) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	return b.BuildAndSave(ctx, snap.Items, snap.Layout, outputPath)
}

// NewCompositeSpec validates l and loads every item through the engine.
func (b *Builder) NewCompositeSpec(ctx context.Context, items []ImageReference, l Layout) (CompositeSpec, error) {
	if len(items) == 0 {
		return CompositeSpec{}, ErrNothingToCompose
	}
	if err := validate(l); err != nil {
		return CompositeSpec{}, err
	}
	spec := CompositeSpec{
		Sources:  make([]Image, 0, len(items)),
		TileSize: l.TileSize,
		Columns:  l.Columns,
		Rows:     l.Rows,
		Width:    l.Width,
		Height:   l.Height,
	}
	for _, ref := range items {
		if err := ctx.Err(); err != nil {
			return CompositeSpec{}, err
		}
		img, err := b.engine.Load(ref.FullPath())
		if err != nil {
			return CompositeSpec{}, fmt.Errorf("%w: load %s: %w", ErrCompositionFailed, ref.FullPath(), err)
		}
		b.logger.Debug("Image loaded", "path", ref.FullPath(), "width", img.Width(), "height", img.Height())
		spec.Sources = append(spec.Sources, img)
	}
	if bg := spec.Sources[0].Background; bg.A > 0 {
		spec.Transparency = &bg
	}
	if n, cells := len(items), l.Columns*l.Rows; n > cells {
		b.logger.Warn("More images than grid cells, extra images are left out", "images", n, "cells", cells)
	}
	return spec, nil
}

// Compose tiles spec, applies its transparency key and scales the result
// down to the target width when needed.
func (b *Builder) Compose(spec CompositeSpec) (Image, error) {
	if len(spec.Sources) == 0 {
		return Image{}, ErrNothingToCompose
	}
	img, err := b.engine.Tile(spec.Sources, spec.TileSize, spec.Columns, spec.Rows)
	if err != nil {
		return Image{}, fmt.Errorf("%w: tile: %w", ErrCompositionFailed, err)
	}
	b.logger.Debug("Montage built", "width", img.Width(), "height", img.Height(), "tile", spec.TileSize)

	if spec.Transparency != nil {
		img, err = b.engine.ApplyTransparency(img, *spec.Transparency)
		if err != nil {
			return Image{}, fmt.Errorf("%w: transparency: %w", ErrCompositionFailed, err)
		}
		b.logger.Debug("Background keyed out", "color", fmt.Sprintf("#%02x%02x%02x%02x",
			spec.Transparency.R, spec.Transparency.G, spec.Transparency.B, spec.Transparency.A))
	}

	if img.Width() > spec.Width {
		img, err = b.engine.Resize(img, spec.Width, spec.Height)
		if err != nil {
			return Image{}, fmt.Errorf("%w: resize: %w", ErrCompositionFailed, err)
		}
		b.logger.Debug("Montage resized", "width", spec.Width, "height", spec.Height)
	}
	return img, nil
}

func validate(l Layout) error {
	if l.Columns < 1 || l.Rows < 1 || l.TileSize < 1 || l.Width < 1 || l.Height < 1 {
		return fmt.Errorf("%w: %dx%d grid, tile %d, output %dx%d",
			ErrDegenerateGrid, l.Columns, l.Rows, l.TileSize, l.Width, l.Height)
	}
	return nil
}

func (b *Builder) init(opts ...Option) error {
	b.quality = 90
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return err
		}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.fill == nil {
		b.fill = color.Transparent
	}
	if b.scaler == nil {
		b.scaler = draw.CatmullRom
	}
	if b.engine == nil {
		b.engine = &montageEngine{
			method:  b.method,
			fuzz:    b.fuzz,
			fill:    b.fill,
			quality: b.quality,
			scaler:  b.scaler,
		}
	}
	return nil
}
