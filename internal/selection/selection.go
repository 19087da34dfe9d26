package selection

import "slices"

// Direction selects the end of the list that Reorder moves items toward.
type Direction int

const (
	TowardStart Direction = iota
	TowardEnd
)

func (d Direction) String() string {
	switch d {
	case TowardEnd:
		return "toward-end"
	default:
		return "toward-start"
	}
}

// Selection is an ordered list of values plus a set of selected values.
// Membership is by value equality, so equal values are selected together and
// a value keeps its selection wherever it moves in the list.
//
// Every selected value is present in the list.
type Selection[T comparable] struct {
	items    []T
	selected map[T]struct{}
}

func New[T comparable]() *Selection[T] {
	return &Selection[T]{selected: make(map[T]struct{})}
}

func (s *Selection[T]) Len() int { return len(s.items) }

func (s *Selection[T]) At(i int) T { return s.items[i] }

// Items returns a copy of the list in order.
func (s *Selection[T]) Items() []T { return slices.Clone(s.items) }

// Append adds values to the end of the list in the given order.
func (s *Selection[T]) Append(values ...T) {
	s.items = append(s.items, values...)
}

// Select marks values as selected. Values not in the list are ignored.
func (s *Selection[T]) Select(values ...T) {
	for _, v := range values {
		if s.Contains(v) {
			s.selected[v] = struct{}{}
		}
	}
}

func (s *Selection[T]) Deselect(values ...T) {
	for _, v := range values {
		delete(s.selected, v)
	}
}

func (s *Selection[T]) SelectAll() {
	for _, v := range s.items {
		s.selected[v] = struct{}{}
	}
}

func (s *Selection[T]) ClearSelection() {
	clear(s.selected)
}

// Contains reports whether v is in the list.
func (s *Selection[T]) Contains(v T) bool {
	return slices.Contains(s.items, v)
}

func (s *Selection[T]) IsSelected(v T) bool {
	_, ok := s.selected[v]
	return ok
}

// Selected returns the selected values in list order.
func (s *Selection[T]) Selected() []T {
	var out []T
	for _, v := range s.items {
		if s.IsSelected(v) {
			out = append(out, v)
		}
	}
	return out
}

// Remove deletes every selected value from the list and returns how many
// entries were removed. The selection is empty afterwards.
func (s *Selection[T]) Remove() int {
	n := len(s.items)
	s.items = slices.DeleteFunc(s.items, s.IsSelected)
	s.ClearSelection()
	return n - len(s.items)
}

// Reorder moves every selected value one position toward the chosen end.
// A selected value only swaps with an unselected neighbour, so selected
// values never pass each other and none moves more than one slot per call.
func (s *Selection[T]) Reorder(dir Direction) {
	if len(s.items) == 0 || len(s.selected) == 0 {
		return
	}
	i, step := 0, 1
	if dir == TowardEnd {
		i, step = len(s.items)-1, -1
	}
	for ; i >= 0 && i < len(s.items); i += step {
		j := i - step
		if j < 0 || j >= len(s.items) {
			continue
		}
		if !s.IsSelected(s.items[i]) || s.IsSelected(s.items[j]) {
			continue
		}
		s.items[i], s.items[j] = s.items[j], s.items[i]
	}
}

// Clone returns an independent copy of s.
func (s *Selection[T]) Clone() *Selection[T] {
	c := New[T]()
	c.items = slices.Clone(s.items)
	for v := range s.selected {
		c.selected[v] = struct{}{}
	}
	return c
}
