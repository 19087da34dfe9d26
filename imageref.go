package contactsheet

import (
	"os"
	"path/filepath"
	"strings"
)

// ImageReference identifies a source image by directory and file name.
// It is a comparable value; two references are equal when both fields match.
type ImageReference struct {
	Directory string
	FileName  string
}

// NewImageReference splits path at its last separator. A path without a
// separator is taken relative to the current working directory.
func NewImageReference(path string) ImageReference {
	i := strings.LastIndexByte(path, filepath.Separator)
	switch {
	case i > 0:
		return ImageReference{Directory: path[:i], FileName: path[i+1:]}
	case i == 0:
		return ImageReference{Directory: path[:1], FileName: path[1:]}
	}
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return ImageReference{Directory: dir, FileName: path}
}

func (r ImageReference) FullPath() string {
	return filepath.Join(r.Directory, r.FileName)
}

func (r ImageReference) String() string {
	return r.FileName
}
