// Package widestr provides Go-side wide-string representations that a
// foreign wide string can be compared against without decoding.
//
// There are two families. U32CStr and U32CString hold arbitrary 32-bit
// units terminated by NUL. UTF32Str and UTF32String hold validated Unicode
// scalar values. The Str forms borrow their input; the String forms own a
// private copy.
//
// Every representation exposes its raw units through Slicer, and Equal
// compares any two Slicers unit by unit.
package widestr

import (
	"slices"
	"unsafe"
)

// Slicer exposes a raw 32-bit unit view of a wide string. The returned slice
// must not be modified.
type Slicer interface {
	AsSlice() []uint32
}

// Equal reports whether a and b hold the same unit sequence.
func Equal(a, b Slicer) bool {
	return slices.Equal(a.AsSlice(), b.AsSlice())
}

func runesAsUnits(r []rune) []uint32 {
	if len(r) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(r))), len(r))
}

func unitsAsRunes(u []uint32) []rune {
	if len(u) == 0 {
		return nil
	}
	return unsafe.Slice((*rune)(unsafe.Pointer(unsafe.SliceData(u))), len(u))
}
