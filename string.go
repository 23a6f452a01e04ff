package wstring

import (
	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/width"
)

// noCopy makes go vet's copylocks check reject copies of String.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// String is a wide string living in foreign memory. Only *String values
// exist; the struct is never copied, because the foreign object may point
// into itself.
//
// A String produced by Let dies when Let returns, and one produced by
// Create dies on Close. Any method called on a dead String panics with an
// *errors.Error of kind KindNotInitialized.
type String struct {
	_    noCopy
	rt   Runtime
	ptr  Ptr
	dead bool
}

// Borrow returns a read-only handle to a string owned by foreign code. The
// caller guarantees the object stays alive and in place while the handle is
// used.
func Borrow(rt Runtime, ptr Ptr) *String {
	return &String{rt: rt, ptr: ptr}
}

// BorrowPinned returns a mutable handle to a string owned by foreign code,
// under the same guarantees as Borrow.
func BorrowPinned(rt Runtime, ptr Ptr) Pinned {
	return Pinned{s: Borrow(rt, ptr)}
}

func (s *String) live(phase errors.Phase) {
	if s == nil || s.rt == nil {
		panic(errors.NilPointer(phase, "wide string"))
	}
	if s.dead {
		panic(errors.NotInitialized(phase, "wide string"))
	}
}

// Ptr returns the address of the foreign string object.
func (s *String) Ptr() Ptr {
	return s.ptr
}

// Runtime returns the runtime that owns the string.
func (s *String) Runtime() Runtime {
	return s.rt
}

// Len returns the length in units, not bytes.
func (s *String) Len() int {
	s.live(errors.PhaseRead)
	return int(s.rt.Length(s.ptr))
}

// IsEmpty reports whether the string has no units.
func (s *String) IsEmpty() bool {
	return s.Len() == 0
}

// Data returns the address of the first unit. The units are not
// NUL-terminated in general and may contain NUL; only Len units are valid.
func (s *String) Data() Ptr {
	s.live(errors.PhaseRead)
	return s.rt.Data(s.ptr)
}

// Units returns the string's units without copying. The slice is
// invalidated by the next mutation and must not be modified.
func (s *String) Units() []width.Unit {
	s.live(errors.PhaseRead)
	return s.rt.View(s.rt.Data(s.ptr), s.rt.Length(s.ptr))
}

// Runes returns the same memory as Units reinterpreted as codepoints. No
// validation is done: units outside the Unicode range appear as is.
func (s *String) Runes() []rune {
	return width.Runes(s.Units())
}

// AsSlice returns the raw unit view, making *String a widestr.Slicer.
func (s *String) AsSlice() []uint32 {
	return s.Units()
}
