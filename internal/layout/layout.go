package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultWidth is the output width used while the work list is empty.
	DefaultWidth = 1024
	// DefaultColumns is the column count used when none has been entered.
	DefaultColumns = 1
)

var (
	ErrDegenerateGrid = errors.New("grid must have at least one column and one row")
)

// Inputs holds the user editable layout fields. A nil field has not been set
// and is derived by Resolve.
type Inputs struct {
	Columns *int
	Rows    *int
	Width   *int

	ItemCount       int
	FirstImageWidth int
}

// Result is a fully resolved layout.
type Result struct {
	Columns  int
	Rows     int
	Width    int
	Height   int
	TileSize int
	// Compression is the percentage by which each tile shrinks relative to
	// the first image's native width.
	Compression float64
}

// Resolve fills in every unset field of in and derives the output height,
// the tile size and the compression.
func Resolve(in Inputs) (Result, error) {
	var r Result

	r.Columns = DefaultColumns
	if in.Columns != nil {
		r.Columns = *in.Columns
	}

	switch {
	case in.Rows != nil:
		r.Rows = *in.Rows
	case in.ItemCount > 0 && r.Columns > 0:
		r.Rows = (in.ItemCount + r.Columns - 1) / r.Columns
	default:
		r.Rows = r.Columns
	}

	if r.Columns < 1 || r.Rows < 1 {
		return Result{}, fmt.Errorf("%w: %dx%d", ErrDegenerateGrid, r.Columns, r.Rows)
	}

	switch {
	case in.Width != nil:
		r.Width = *in.Width
	case in.ItemCount > 0:
		r.Width = in.FirstImageWidth * r.Columns
	default:
		r.Width = DefaultWidth
	}

	r.Height = int(math.Round(float64(r.Width) * float64(r.Columns) / float64(r.Rows)))
	r.TileSize = int(math.Round(float64(r.Width) / float64(r.Columns)))
	r.Compression = Compression(in.ItemCount, in.FirstImageWidth, r.Columns, r.Width)
	return r, nil
}

// Compression returns the downscale percentage needed to fit columns tiles of
// firstWidth pixels into width pixels. It is zero when nothing needs to shrink.
func Compression(itemCount, firstWidth, columns, width int) float64 {
	if itemCount == 0 || firstWidth <= 0 || columns <= 0 {
		return 0
	}
	if firstWidth*columns <= width {
		return 0
	}
	tile := float64(width) / float64(columns)
	return 100 * (1 - tile/float64(firstWidth))
}

// ColumnsFor returns the square-ish column count used after the work list
// changes size. It never drops below one.
func ColumnsFor(itemCount int) int {
	return max(1, int(math.Round(math.Sqrt(float64(itemCount)))))
}

// ParseField parses a numeric text field. Blank input yields nil.
// Callers filter keystrokes with DigitsOnly, so any other input is a
// programming error and reported as such.
func ParseField(text string) (*int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("layout field %q: %w", text, err)
	}
	return &v, nil
}

// DigitsOnly reports whether text consists solely of ASCII digits.
// The empty string is accepted so that a field can be cleared.
func DigitsOnly(text string) bool {
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formats the resolution and compression the way the editor shows it.
func (r Result) String() string {
	return fmt.Sprintf("%d %s", r.Width, r.Label())
}

// Label is the height and compression caption shown next to the width field.
func (r Result) Label() string {
	return fmt.Sprintf("x %d (%.0f%% compression)", r.Height, r.Compression)
}
