package widestr

import (
	"slices"

	"github.com/wippyai/wstring/errors"
)

// U32CStr is a borrowed view of NUL-terminated 32-bit units.
type U32CStr struct {
	buf []uint32 // includes the terminator
}

// U32CStrFromSlice borrows buf up to and including its first NUL. It fails
// when buf has no NUL.
func U32CStrFromSlice(buf []uint32) (U32CStr, error) {
	i := slices.Index(buf, 0)
	if i < 0 {
		return U32CStr{}, errors.MissingNul(len(buf))
	}
	return U32CStr{buf: buf[: i+1 : i+1]}, nil
}

// U32CStrFromSliceTruncate is U32CStrFromSlice for buffers whose
// terminator position is already known to exist at index n.
func U32CStrFromSliceTruncate(buf []uint32, n int) (U32CStr, error) {
	if n < 0 || n >= len(buf) {
		return U32CStr{}, errors.MissingNul(len(buf))
	}
	if buf[n] != 0 {
		return U32CStr{}, errors.MissingNul(n + 1)
	}
	return U32CStrFromSlice(buf[:n+1])
}

// AsSlice returns the units without the terminator.
func (s U32CStr) AsSlice() []uint32 {
	if len(s.buf) == 0 {
		return nil
	}
	return s.buf[: len(s.buf)-1 : len(s.buf)-1]
}

// AsSliceWithNul returns the units including the terminator.
func (s U32CStr) AsSliceWithNul() []uint32 {
	if len(s.buf) == 0 {
		return []uint32{0}
	}
	return s.buf
}

// Len returns the number of units before the terminator.
func (s U32CStr) Len() int {
	return len(s.AsSlice())
}

// String decodes the units, replacing invalid ones with U+FFFD.
func (s U32CStr) String() string {
	return string(unitsAsRunes(s.AsSlice()))
}

// U32CString is an owned, NUL-terminated sequence of 32-bit units.
type U32CString struct {
	buf []uint32 // includes the terminator
}

// NewU32CString copies units and appends a terminator. It fails when units
// contains a NUL.
func NewU32CString(units []uint32) (U32CString, error) {
	if i := slices.Index(units, 0); i >= 0 {
		return U32CString{}, errors.InteriorNul(i)
	}
	buf := make([]uint32, len(units)+1)
	copy(buf, units)
	return U32CString{buf: buf}, nil
}

// U32CStringFromString converts s to units. It fails when s contains NUL.
func U32CStringFromString(s string) (U32CString, error) {
	return NewU32CString(runesAsUnits([]rune(s)))
}

// AsUCStr borrows the string.
func (s U32CString) AsUCStr() U32CStr {
	return U32CStr{buf: s.AsSliceWithNul()}
}

// AsSlice returns the units without the terminator.
func (s U32CString) AsSlice() []uint32 {
	return s.AsUCStr().AsSlice()
}

// AsSliceWithNul returns the units including the terminator.
func (s U32CString) AsSliceWithNul() []uint32 {
	if len(s.buf) == 0 {
		return []uint32{0}
	}
	return s.buf
}

// Len returns the number of units before the terminator.
func (s U32CString) Len() int {
	return len(s.AsSlice())
}

// String decodes the units, replacing invalid ones with U+FFFD.
func (s U32CString) String() string {
	return s.AsUCStr().String()
}
