package widestr

import (
	"slices"
	"unicode/utf8"

	"github.com/wippyai/wstring/errors"
)

// UTF32Str is a borrowed view of Unicode scalar values.
type UTF32Str struct {
	runes []rune
}

// UTF32StrFromRunes borrows r after checking every element is a valid
// scalar value (no surrogates, nothing above U+10FFFF).
func UTF32StrFromRunes(r []rune) (UTF32Str, error) {
	if err := validate(r); err != nil {
		return UTF32Str{}, err
	}
	return UTF32Str{runes: r[:len(r):len(r)]}, nil
}

// UTF32StrFromUnits borrows units as scalar values after validation.
func UTF32StrFromUnits(units []uint32) (UTF32Str, error) {
	return UTF32StrFromRunes(unitsAsRunes(units))
}

func validate(r []rune) error {
	for i, c := range r {
		if !utf8.ValidRune(c) {
			return errors.InvalidCodepoint(errors.PhaseValidate, i, uint32(c))
		}
	}
	return nil
}

// AsSlice returns the scalar values as units. The slice aliases s.
func (s UTF32Str) AsSlice() []uint32 { return runesAsUnits(s.runes) }

// Runes returns the scalar values. The slice must not be modified.
func (s UTF32Str) Runes() []rune { return s.runes }

// Len returns the number of scalar values.
func (s UTF32Str) Len() int { return len(s.runes) }

// String encodes the scalar values as UTF-8.
func (s UTF32Str) String() string { return string(s.runes) }

// UTF32String is an owned sequence of Unicode scalar values.
type UTF32String struct {
	runes []rune
}

// NewUTF32String converts s. Invalid UTF-8 bytes become U+FFFD, so the
// result is always valid.
func NewUTF32String(s string) UTF32String {
	return UTF32String{runes: []rune(s)}
}

// UTF32StringFromRunes copies r after validation.
func UTF32StringFromRunes(r []rune) (UTF32String, error) {
	if err := validate(r); err != nil {
		return UTF32String{}, err
	}
	return UTF32String{runes: slices.Clone(r)}, nil
}

// AsUStr borrows the string without copying.
func (s UTF32String) AsUStr() UTF32Str { return UTF32Str{runes: s.runes} }

// AsSlice returns the scalar values as units. The slice aliases s.
func (s UTF32String) AsSlice() []uint32 { return runesAsUnits(s.runes) }

// Runes returns the scalar values. The slice must not be modified.
func (s UTF32String) Runes() []rune { return s.runes }

// Len returns the number of scalar values.
func (s UTF32String) Len() int { return len(s.runes) }

// String encodes the scalar values as UTF-8.
func (s UTF32String) String() string { return string(s.runes) }
