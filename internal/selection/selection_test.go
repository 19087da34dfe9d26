package selection

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWith(items []string, selected ...string) *Selection[string] {
	s := New[string]()
	s.Append(items...)
	s.Select(selected...)
	return s
}

func TestReorder(t *testing.T) {
	test := []struct {
		name     string
		items    []string
		selected []string
		dir      Direction
		exp      []string
	}{
		{"scattered toward end", []string{"a", "b", "c", "d", "e"}, []string{"b", "d"}, TowardEnd,
			[]string{"a", "c", "b", "e", "d"}},
		{"scattered toward start", []string{"a", "b", "c", "d", "e"}, []string{"b", "d"}, TowardStart,
			[]string{"b", "a", "d", "c", "e"}},
		{"block toward start", []string{"a", "b", "c", "d"}, []string{"b", "c"}, TowardStart,
			[]string{"b", "c", "a", "d"}},
		{"block toward end", []string{"a", "b", "c", "d"}, []string{"b", "c"}, TowardEnd,
			[]string{"a", "d", "b", "c"}},
		{"at start boundary", []string{"a", "b", "c"}, []string{"a"}, TowardStart,
			[]string{"a", "b", "c"}},
		{"at end boundary", []string{"a", "b", "c"}, []string{"b", "c"}, TowardEnd,
			[]string{"a", "b", "c"}},
		{"boundary block and stray", []string{"a", "b", "c", "d"}, []string{"a", "b", "d"}, TowardStart,
			[]string{"a", "b", "d", "c"}},
		{"one step per call", []string{"a", "b", "c", "d"}, []string{"d"}, TowardStart,
			[]string{"a", "b", "d", "c"}},
		{"only the adjacent neighbour matters", []string{"x", "s1", "y", "s2"}, []string{"s1", "s2"}, TowardEnd,
			[]string{"x", "y", "s1", "s2"}},
		{"no selection", []string{"a", "b"}, nil, TowardEnd,
			[]string{"a", "b"}},
		{"empty list", nil, nil, TowardStart,
			nil},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			s := newWith(tt.items, tt.selected...)
			s.Reorder(tt.dir)
			if tt.exp == nil {
				assert.Zero(t, s.Len())
			} else {
				assert.Equal(t, tt.exp, s.Items())
			}
			for _, v := range tt.selected {
				assert.True(t, s.IsSelected(v), "%s lost its selection", v)
			}
		})
	}
}

func TestReorderRepeated(t *testing.T) {
	s := newWith([]string{"a", "b", "c", "d", "e"}, "e")
	for range 10 {
		s.Reorder(TowardStart)
	}
	assert.Equal(t, []string{"e", "a", "b", "c", "d"}, s.Items())
	for range 10 {
		s.Reorder(TowardEnd)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, s.Items())
}

func TestReorderProperties(t *testing.T) {
	rd := rand.New(rand.NewSource(1234567890))
	for round := range 500 {
		n := rd.Intn(12)
		items := make([]string, n)
		for i := range items {
			items[i] = fmt.Sprintf("img%02d", i)
		}
		var selected []string
		for _, v := range items {
			if rd.Intn(3) == 0 {
				selected = append(selected, v)
			}
		}
		dir := Direction(rd.Intn(2))

		s := newWith(items, selected...)
		before := s.Selected()
		s.Reorder(dir)
		after := s.Selected()

		require.ElementsMatch(t, items, s.Items(), "round %d: membership changed", round)
		require.Equal(t, before, after, "round %d: selected order changed", round)

		for _, v := range items {
			from := slices.Index(items, v)
			to := slices.Index(s.Items(), v)
			require.LessOrEqual(t, abs(from-to), 1, "round %d: %s moved more than one slot", round, v)
		}
	}
}

func TestReorderAtBoundaryIsIdempotent(t *testing.T) {
	s := newWith([]string{"a", "b", "c", "d"}, "a", "b")
	s.Reorder(TowardStart)
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Items())

	s = newWith([]string{"a", "b", "c", "d"}, "d")
	s.Reorder(TowardEnd)
	s.Reorder(TowardEnd)
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Items())
}

func TestSelectAndRemove(t *testing.T) {
	s := newWith([]string{"a", "b", "c"})
	s.Select("b", "zzz")
	assert.Equal(t, []string{"b"}, s.Selected())
	assert.False(t, s.IsSelected("zzz"))

	s.SelectAll()
	assert.Equal(t, []string{"a", "b", "c"}, s.Selected())
	s.Deselect("a")
	assert.Equal(t, []string{"b", "c"}, s.Selected())

	assert.Equal(t, 2, s.Remove())
	assert.Equal(t, []string{"a"}, s.Items())
	assert.Empty(t, s.Selected())

	s.ClearSelection()
	assert.Zero(t, s.Remove())
}

func TestContains(t *testing.T) {
	s := newWith([]string{"a", "b"})
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	s.Select("a")
	s.Remove()
	assert.False(t, s.Contains("a"))
}

func TestAppendThenRemoveRestores(t *testing.T) {
	s := newWith([]string{"a", "b", "c"})
	orig := s.Items()
	origSelected := s.Selected()

	added := []string{"x", "y"}
	s.Append(added...)
	assert.Equal(t, []string{"a", "b", "c", "x", "y"}, s.Items())
	s.Select(added...)
	s.Remove()

	assert.Equal(t, orig, s.Items())
	assert.Equal(t, origSelected, s.Selected())
}

func TestClone(t *testing.T) {
	s := newWith([]string{"a", "b"}, "b")
	c := s.Clone()
	s.Reorder(TowardStart)
	s.Append("c")

	assert.Equal(t, []string{"a", "b"}, c.Items())
	assert.Equal(t, []string{"b"}, c.Selected())
	assert.Equal(t, "toward-start", TowardStart.String())
	assert.Equal(t, "toward-end", TowardEnd.String())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
