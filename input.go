package contactsheet

import (
	"fmt"
	"strconv"

	"github.com/yyyoichi/contactsheet/internal/layout"
	"github.com/yyyoichi/contactsheet/internal/montage"
)

// AcceptInput reports whether text may be entered into a numeric layout
// field: blank, or ASCII digits that parse as an int.
func AcceptInput(text string) bool {
	if !layout.DigitsOnly(text) {
		return false
	}
	if text == "" {
		return true
	}
	_, err := strconv.Atoi(text)
	return err == nil
}

// AllowedExtension reports whether path ends in png, jpg, jpeg, bmp or gif,
// ignoring case.
func AllowedExtension(path string) bool {
	return montage.IsImageFile(path)
}

// FilterPaths returns the paths with an allowed extension, keeping their order.
func FilterPaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		if AllowedExtension(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterPattern returns the allowed extensions as a file dialog pattern.
func FilterPattern() string {
	return montage.FilterPattern()
}

func parseInput(text string) (*int, error) {
	if !AcceptInput(text) {
		return nil, fmt.Errorf("%q is not a whole number", text)
	}
	return layout.ParseField(text)
}
