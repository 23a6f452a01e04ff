//go:build !((linux && (arm64 || arm)) || (android && (arm64 || arm)) || (freebsd && (arm64 || arm)) || (netbsd && (arm64 || arm)))

package width

// CWchar is the platform C wchar_t.
type CWchar = int32

// Signed reports whether CWchar is signed on this target.
const Signed = true
