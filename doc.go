// Package contactsheet arranges a list of images into a single grid image,
// a contact sheet, scaled to a target output width.
//
// A Sheet holds the ordered work list, the current selection and the grid
// fields the user may override. Unset fields are derived from the list: the
// column count follows the square root of the number of images, the row
// count is whatever the columns leave over and the output width keeps every
// tile at the first image's native width. A Builder then loads the images
// through an Engine, tiles them, keys out the first image's background colour
// and scales the montage down when it is wider than requested.
//
// The cmd/contactsheet program exposes the same operations on the command
// line.
package contactsheet
