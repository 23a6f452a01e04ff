// Package native is a wstring.Runtime backed by the host C++ standard
// library. Strings are real std::wstring objects: stack cells are pinned
// Go memory the C++ constructor runs in place on, and heap strings come
// from operator new.
//
// The package needs cgo and a C++ compiler. Without them, or on Windows
// where wchar_t is 16 bits, New returns an error of kind KindUnsupported.
//
// Allocation failures inside libstdc++/libc++ (std::bad_alloc,
// std::length_error) are reported as errors rather than terminating the
// process. A Runtime is not safe for concurrent mutation.
//
// Every read and mutation checks that the address is a string this Runtime
// constructed and has not yet destroyed; anything else panics with
// KindLifecycle instead of reaching C++.
package native
