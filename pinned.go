package wstring

import (
	"math/bits"

	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/width"
)

// Pinned is a mutable reference to a String whose foreign object cannot
// move while the reference is usable. It is the only way to mutate a
// String.
type Pinned struct {
	s *String
}

// Ref returns the read-only handle.
func (p Pinned) Ref() *String {
	return p.s
}

func (p Pinned) target() *String {
	if p.s == nil {
		panic(errors.NilPointer(errors.PhaseMutate, "pinned wide string"))
	}
	p.s.live(errors.PhaseMutate)
	return p.s
}

// Clear removes all units. The foreign runtime decides whether capacity is
// kept; earlier views are invalidated either way.
func (p Pinned) Clear() {
	s := p.target()
	s.rt.Clear(s.ptr)
}

// Reserve ensures capacity for at least additional units beyond the
// current length. Unlike C++ reserve, the argument is relative. If length
// plus additional overflows uint, Reserve fails with KindOverflow and the
// string is untouched. The overflow error is permanent: retrying the same
// request fails again, so callers must shrink the request instead.
func (p Pinned) Reserve(additional uint) error {
	s := p.target()
	length := s.rt.Length(s.ptr)
	total, carry := bits.Add(length, additional, 0)
	if carry != 0 {
		return errors.CapacityOverflow(length, additional)
	}
	return s.rt.ReserveTotal(s.ptr, total)
}

// PushText appends the codepoints of text.
func (p Pinned) PushText(text string) error {
	return p.PushRunes([]rune(text))
}

// PushRunes appends codepoints without validation.
func (p Pinned) PushRunes(r []rune) error {
	return p.PushUnits(width.FromRunes(r))
}

// PushUnits appends raw units.
func (p Pinned) PushUnits(units []width.Unit) error {
	s := p.target()
	if len(units) == 0 {
		return nil
	}
	return s.rt.Push(s.ptr, units)
}
