package width

import "unsafe"

// Unit is one code unit of a foreign wide string as it crosses the boundary.
// It is bit-identical to CWchar; the unsigned form eases comparison with
// UTF-32 data.
type Unit = uint32

// UnitSize is the size of Unit in bytes.
const UnitSize = 4

var (
	_ [unsafe.Sizeof(Unit(0)) - unsafe.Sizeof(CWchar(0))]struct{}
	_ [unsafe.Sizeof(CWchar(0)) - unsafe.Sizeof(Unit(0))]struct{}
	_ [unsafe.Sizeof(rune(0)) - unsafe.Sizeof(Unit(0))]struct{}
	_ [unsafe.Sizeof(Unit(0)) - unsafe.Sizeof(rune(0))]struct{}
	_ [UnitSize - unsafe.Sizeof(Unit(0))]struct{}
)

// HostLittleEndian reports whether the host stores integers little-endian.
var HostLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// Runes reinterprets units as codepoints without copying or validating.
func Runes(units []Unit) []rune {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*rune)(unsafe.Pointer(unsafe.SliceData(units))), len(units))
}

// FromRunes reinterprets codepoints as units without copying.
func FromRunes(r []rune) []Unit {
	if len(r) == 0 {
		return nil
	}
	return unsafe.Slice((*Unit)(unsafe.Pointer(unsafe.SliceData(r))), len(r))
}

// ToC reinterprets units as platform wchar_t values without copying.
func ToC(units []Unit) []CWchar {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*CWchar)(unsafe.Pointer(unsafe.SliceData(units))), len(units))
}

// Bytes returns the host-endian byte view of units without copying.
func Bytes(units []Unit) []byte {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(units))), len(units)*UnitSize)
}
