package contactsheet

import (
	"fmt"
	"slices"
	"sync"

	"github.com/yyyoichi/contactsheet/internal/layout"
	"github.com/yyyoichi/contactsheet/internal/selection"
)

type (
	// Layout is a fully resolved grid and output size.
	Layout = layout.Result
	// Direction is the end of the list Reorder moves the selection toward.
	Direction = selection.Direction
)

const (
	TowardStart = selection.TowardStart
	TowardEnd   = selection.TowardEnd
)

// Sheet is an editable contact sheet: the ordered work list, its selection
// and the three layout fields. Fields left unset are derived on every call
// to Layout. A Sheet is safe for concurrent use.
type Sheet struct {
	mu      sync.Mutex
	list    *selection.Selection[ImageReference]
	columns *int
	rows    *int
	width   *int
	prober  Prober
}

type SheetOption func(*Sheet)

// WithProber sets how the sheet reads the first image's width. The default
// reads the image header from disk.
func WithProber(p Prober) SheetOption {
	return func(s *Sheet) {
		s.prober = p
	}
}

// Snapshot is a consistent copy of a sheet's list and resolved layout.
type Snapshot struct {
	Items  []ImageReference
	Layout Layout
}

func NewSheet(opts ...SheetOption) *Sheet {
	s := &Sheet{list: selection.New[ImageReference]()}
	for _, opt := range opts {
		opt(s)
	}
	if s.prober == nil {
		s.prober = &montageEngine{}
	}
	return s
}

// Add appends one reference per path, in order, and resets the column count
// to the square root of the new list length. Paths already on the list, or
// repeated in paths, are skipped. It returns the references actually added.
func (s *Sheet) Add(paths ...string) []ImageReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]ImageReference, 0, len(paths))
	for _, p := range paths {
		ref := NewImageReference(p)
		if s.list.Contains(ref) || slices.Contains(refs, ref) {
			continue
		}
		refs = append(refs, ref)
	}
	s.list.Append(refs...)
	s.resetColumns()
	return refs
}

// Remove deletes the selected items and resets the column count like Add.
// It returns the number of entries removed.
func (s *Sheet) Remove() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.list.Remove()
	s.resetColumns()
	return n
}

// Reorder moves every selected item one position toward dir.
func (s *Sheet) Reorder(dir Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Reorder(dir)
}

func (s *Sheet) Select(refs ...ImageReference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Select(refs...)
}

// SelectIndex selects items by their zero based position.
func (s *Sheet) SelectIndex(indexes ...int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range indexes {
		if i < 0 || i >= s.list.Len() {
			return fmt.Errorf("index %d out of range [0,%d)", i, s.list.Len())
		}
	}
	for _, i := range indexes {
		s.list.Select(s.list.At(i))
	}
	return nil
}

func (s *Sheet) Deselect(refs ...ImageReference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Deselect(refs...)
}

func (s *Sheet) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.SelectAll()
}

func (s *Sheet) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.ClearSelection()
}

func (s *Sheet) IsSelected(ref ImageReference) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.IsSelected(ref)
}

// Selected returns the selected items in list order.
func (s *Sheet) Selected() []ImageReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Selected()
}

func (s *Sheet) Items() []ImageReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Items()
}

func (s *Sheet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Len()
}

// SetColumns sets the column field from text. Blank text unsets it. Rows and
// width are unset as well so that they follow the new column count.
func (s *Sheet) SetColumns(text string) error {
	v, err := parseInput(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns = v
	s.rows, s.width = nil, nil
	return nil
}

// SetRows sets the row field from text. Blank text unsets it.
func (s *Sheet) SetRows(text string) error {
	v, err := parseInput(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = v
	return nil
}

// SetWidth sets the output width field from text. Blank text unsets it.
func (s *Sheet) SetWidth(text string) error {
	v, err := parseInput(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = v
	return nil
}

// Layout resolves the current fields against the work list.
func (s *Sheet) Layout() (Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout()
}

// Snapshot copies the list and resolves the layout under one lock.
func (s *Sheet) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.layout()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Items: s.list.Items(), Layout: l}, nil
}

func (s *Sheet) layout() (Layout, error) {
	in := layout.Inputs{
		Columns:   s.columns,
		Rows:      s.rows,
		Width:     s.width,
		ItemCount: s.list.Len(),
	}
	if in.ItemCount > 0 {
		first := s.list.At(0).FullPath()
		w, _, err := s.prober.Probe(first)
		if err != nil {
			return Layout{}, fmt.Errorf("read size of %s: %w", first, err)
		}
		in.FirstImageWidth = w
	}
	return layout.Resolve(in)
}

func (s *Sheet) resetColumns() {
	c := layout.ColumnsFor(s.list.Len())
	s.columns = &c
	s.rows, s.width = nil, nil
}
