// Package wstring provides a Go handle to a wide string owned by a foreign
// runtime.
//
// The foreign string object may point into its own storage (a small-string
// buffer), so it must never be copied or moved by Go code. This package
// therefore never hands out a String by value. A String is reached through
// one of:
//
//   - *String, a read-only handle (Borrow, Pinned.Ref, Owned.Ref)
//   - Pinned, the only way to mutate, obtained from Let or Owned.Pin
//   - *Owned, a heap-allocated foreign string released by Close
//
// # Architecture Overview
//
//	wstring/        Handle, Pinned mutators, stack construction, comparisons
//	├── width/      Platform wchar_t resolution and unit reinterpretation
//	├── widestr/    Go-side wide string representations for comparison
//	├── memory/     Linear memory (byte slice or wazero) and allocator
//	├── guest/      Reference runtime laid out in linear memory
//	├── native/     C++ std::wstring runtime via cgo
//	├── config/     YAML configuration and backend selection
//	└── errors/     Structured error types
//
// # Quick Start
//
// Construct a string on the foreign runtime's stack for the duration of a
// function:
//
//	err := wstring.LetString(rt, "example", func(s wstring.Pinned) error {
//	    if err := s.PushText(" text"); err != nil {
//	        return err
//	    }
//	    fmt.Println(s.Ref().Len()) // 12
//	    return nil
//	})
//
// The foreign object is destroyed when the function returns, even on error
// or panic. Using the handle after that panics.
//
// Or allocate one on the foreign heap:
//
//	owned, err := wstring.CreateString(rt, "hello")
//	if err != nil {
//	    return err
//	}
//	defer owned.Close()
//
// # Thread Safety
//
// Handles carry no synchronization. Any number of goroutines may read the
// same *String while nobody mutates it; mutation through Pinned requires
// exclusive access, as does every call into a Runtime that allocates.
//
// # Text Conversion
//
// Units are compared and hashed as raw 32-bit values. Text decodes lossily:
// units that are not Unicode scalar values become U+FFFD. TextStrict reports
// them as errors instead.
package wstring
