package widestr

import (
	"errors"
	"testing"

	wserrors "github.com/wippyai/wstring/errors"
)

func TestU32CStr(t *testing.T) {
	buf := []uint32{'h', 'i', 0, 'x', 0}
	s, err := U32CStrFromSlice(buf)
	if err != nil {
		t.Fatalf("U32CStrFromSlice: %v", err)
	}
	if s.Len() != 2 || s.String() != "hi" {
		t.Fatalf("Len=%d String=%q", s.Len(), s.String())
	}
	if got := s.AsSliceWithNul(); len(got) != 3 || got[2] != 0 {
		t.Fatalf("AsSliceWithNul = %v", got)
	}

	// Borrowed: shares memory with buf.
	buf[0] = 'H'
	if s.String() != "Hi" {
		t.Fatalf("view does not alias input: %q", s.String())
	}

	_, err = U32CStrFromSlice([]uint32{'a', 'b'})
	if !errors.Is(err, &wserrors.Error{Phase: wserrors.PhaseValidate, Kind: wserrors.KindMissingNul}) {
		t.Fatalf("expected missing nul, got %v", err)
	}

	if _, err := U32CStrFromSliceTruncate(buf, 4); err != nil {
		t.Fatalf("truncate at terminator: %v", err)
	}
	if _, err := U32CStrFromSliceTruncate(buf, 1); err == nil {
		t.Fatal("expected error when index is not a terminator")
	}
	if _, err := U32CStrFromSliceTruncate(buf, 9); err == nil {
		t.Fatal("expected error for index past end")
	}

	var zero U32CStr
	if zero.Len() != 0 || len(zero.AsSliceWithNul()) != 1 {
		t.Fatal("zero U32CStr should be empty and terminated")
	}
}

func TestU32CString(t *testing.T) {
	src := []uint32{'a', 'b', 'c'}
	s, err := NewU32CString(src)
	if err != nil {
		t.Fatalf("NewU32CString: %v", err)
	}

	// Owned: does not alias input.
	src[0] = 'z'
	if s.String() != "abc" {
		t.Fatalf("String = %q", s.String())
	}
	if s.Len() != 3 || len(s.AsSliceWithNul()) != 4 {
		t.Fatalf("Len=%d", s.Len())
	}
	if !Equal(s, s.AsUCStr()) {
		t.Fatal("owned and borrowed forms differ")
	}

	_, err = NewU32CString([]uint32{'a', 0, 'b'})
	if !errors.Is(err, &wserrors.Error{Phase: wserrors.PhaseValidate, Kind: wserrors.KindInteriorNul}) {
		t.Fatalf("expected interior nul, got %v", err)
	}
	if _, err := U32CStringFromString("a\x00"); err == nil {
		t.Fatal("expected interior nul error from string")
	}

	// Unpaired surrogates and out-of-range units are accepted as units.
	raw, err := NewU32CString([]uint32{0xD800, 0x110000})
	if err != nil {
		t.Fatalf("arbitrary units rejected: %v", err)
	}
	if raw.AsSlice()[1] != 0x110000 {
		t.Fatal("unit not preserved")
	}
}

func TestUTF32(t *testing.T) {
	s := NewUTF32String("héllo😀")
	if s.Len() != 6 || s.String() != "héllo😀" {
		t.Fatalf("Len=%d String=%q", s.Len(), s.String())
	}
	if s.AsSlice()[5] != 0x1F600 {
		t.Fatalf("unexpected unit %x", s.AsSlice()[5])
	}

	r := []rune{'o', 'k'}
	owned, err := UTF32StringFromRunes(r)
	if err != nil {
		t.Fatal(err)
	}
	borrowed, err := UTF32StrFromRunes(r)
	if err != nil {
		t.Fatal(err)
	}
	r[0] = 'O'
	if owned.String() != "ok" || borrowed.String() != "Ok" {
		t.Fatalf("owned=%q borrowed=%q", owned.String(), borrowed.String())
	}

	for _, bad := range [][]rune{{0xD800}, {'a', 0x110000}, {-1}} {
		if _, err := UTF32StrFromRunes(bad); !errors.Is(err, &wserrors.Error{Phase: wserrors.PhaseValidate, Kind: wserrors.KindInvalidCodepoint}) {
			t.Errorf("%v: expected invalid codepoint, got %v", bad, err)
		}
		if _, err := UTF32StringFromRunes(bad); err == nil {
			t.Errorf("%v: owned form accepted invalid input", bad)
		}
	}

	u, err := UTF32StrFromUnits([]uint32{'x'})
	if err != nil || u.String() != "x" {
		t.Fatalf("UTF32StrFromUnits = %q, %v", u.String(), err)
	}
}

func TestEqual_AcrossRepresentations(t *testing.T) {
	ucs, _ := U32CStringFromString("hello")
	utf := NewUTF32String("hello")
	other := NewUTF32String("world")

	if !Equal(ucs, utf) || !Equal(utf, ucs) {
		t.Fatal("same text should compare equal across families")
	}
	if !Equal(ucs.AsUCStr(), utf.AsUStr()) {
		t.Fatal("borrowed forms should compare equal")
	}
	if Equal(utf, other) {
		t.Fatal("different text compared equal")
	}

	empty, _ := NewU32CString(nil)
	if !Equal(empty, NewUTF32String("")) {
		t.Fatal("empty strings should be equal")
	}
}
