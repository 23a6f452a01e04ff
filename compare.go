package wstring

import (
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/wippyai/wstring/widestr"
	"github.com/wippyai/wstring/width"
)

// Equal reports whether s and o hold the same units.
func (s *String) Equal(o *String) bool {
	return slices.Equal(s.Units(), o.Units())
}

// Compare orders strings lexicographically by unit, which is codepoint
// order for valid text. It returns -1, 0 or +1.
func (s *String) Compare(o *String) int {
	return slices.Compare(s.Units(), o.Units())
}

// Compare is String.Compare as a function, for slices.SortFunc.
func Compare(a, b *String) int {
	return a.Compare(b)
}

// Hash returns a 64-bit hash of the units. Equal strings hash equally
// within one process.
func (s *String) Hash() uint64 {
	return xxhash.Sum64(width.Bytes(s.Units()))
}

// EqualString reports whether s holds exactly the codepoints of text.
// It does not allocate.
func (s *String) EqualString(text string) bool {
	units := s.Units()
	i := 0
	for _, r := range text {
		if i >= len(units) || units[i] != width.Unit(r) {
			return false
		}
		i++
	}
	return i == len(units)
}

// EqualUnits compares the raw units of s with another wide string
// representation without decoding either side.
func (s *String) EqualUnits(o widestr.Slicer) bool {
	return slices.Equal(s.Units(), o.AsSlice())
}

var _ widestr.Slicer = (*String)(nil)
