package wstring

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/width"
)

func hostUTF32() utf32.Endianness {
	if width.HostLittleEndian {
		return utf32.LittleEndian
	}
	return utf32.BigEndian
}

// Text decodes the string to UTF-8. Units that are not Unicode scalar
// values (surrogates, values above U+10FFFF) become U+FFFD; use TextStrict
// to detect them.
func (s *String) Text() string {
	units := s.Units()
	if len(units) == 0 {
		return ""
	}
	out, err := utf32.UTF32(hostUTF32(), utf32.IgnoreBOM).NewDecoder().Bytes(width.Bytes(units))
	if err != nil {
		return lossyText(units)
	}
	return string(out)
}

func lossyText(units []width.Unit) string {
	buf := make([]byte, 0, len(units))
	for _, u := range units {
		buf = utf8.AppendRune(buf, rune(u))
	}
	return string(buf)
}

// TextStrict decodes the string to UTF-8 and fails on the first unit that
// is not a Unicode scalar value.
func (s *String) TextStrict() (string, error) {
	units := s.Units()
	buf := make([]byte, 0, len(units))
	for i, u := range units {
		r := rune(u)
		if !utf8.ValidRune(r) {
			return "", errors.InvalidCodepoint(errors.PhaseDecode, i, u)
		}
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf), nil
}

// String implements fmt.Stringer using Text.
func (s *String) String() string {
	return s.Text()
}

// GoString implements fmt.GoStringer.
func (s *String) GoString() string {
	return strconv.Quote(s.Text())
}
