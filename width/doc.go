// Package width resolves the wide-character unit shared with the foreign
// string runtime.
//
// The unit exchanged across the boundary is always a 32-bit value. Whether
// the platform C wchar_t is signed or unsigned is selected at build time by
// GOOS/GOARCH constraints (see unit_signed.go and unit_unsigned.go); there is
// no runtime branch. A mismatch between this selection and the foreign
// runtime is a build configuration error.
//
// The same table is available as data through Resolve, which tooling and
// tests use to check the compiled selection.
package width
