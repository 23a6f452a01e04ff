package width

import "slices"

// Definition describes the wchar_t of one target.
type Definition struct {
	GOOS   string
	GOARCH string
	Bits   int
	Signed bool
}

// unsignedTargets lists the targets whose wchar_t is unsigned. Must stay in
// sync with the build constraint in unit_unsigned.go.
var unsignedTargets = map[string][]string{
	"linux":   {"arm64", "arm"},
	"android": {"arm64", "arm"},
	"freebsd": {"arm64", "arm"},
	"netbsd":  {"arm64", "arm"},
}

// Resolve returns the wchar_t definition for a target. Windows has a 16-bit
// unsigned wchar_t, which the boundary does not support.
func Resolve(goos, goarch string) Definition {
	if goos == "windows" {
		return Definition{GOOS: goos, GOARCH: goarch, Bits: 16}
	}
	return Definition{
		GOOS:   goos,
		GOARCH: goarch,
		Bits:   32,
		Signed: !slices.Contains(unsignedTargets[goos], goarch),
	}
}
