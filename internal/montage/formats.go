package montage

import (
	"path/filepath"
	"strings"
)

// Format is an output or input raster format.
type Format string

const (
	FormatUnknown Format = "unknown"
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatBMP     Format = "bmp"
	FormatGIF     Format = "gif"
)

// Extensions lists the accepted file extensions in dialog order.
var Extensions = []string{"png", "jpg", "jpeg", "bmp", "gif"}

var formatExtensions = map[string]Format{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".bmp":  FormatBMP,
	".gif":  FormatGIF,
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) Format {
	if f, ok := formatExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatUnknown
}

// IsImageFile reports whether path carries one of the accepted extensions.
func IsImageFile(path string) bool {
	return FormatOf(path) != FormatUnknown
}

// FilterPattern returns the accepted extensions as a file dialog pattern,
// e.g. "*.png;*.jpg".
func FilterPattern() string {
	patterns := make([]string, len(Extensions))
	for i, ext := range Extensions {
		patterns[i] = "*." + ext
	}
	return strings.Join(patterns, ";")
}
