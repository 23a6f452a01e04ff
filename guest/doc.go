// Package guest implements wstring.Runtime over a linear memory, laying
// strings out the way a WebAssembly guest's C++ standard library would.
//
// # Object Layout
//
// A string object is 32 bytes (eight 32-bit words), 4-byte aligned:
//
//	offset  0  data      address of the first unit
//	offset  4  length    units in use
//	offset  8  capacity  units available, terminator excluded
//	offset 12  inline    4 units + NUL terminator
//
// Strings of up to 4 units keep their units inline and data points into the
// object itself. Copying the 32 bytes elsewhere would leave data pointing
// at the old location, which is why objects are never moved. Longer
// strings live in a heap block of (capacity+1)*4 bytes. Units are stored
// little-endian and always followed by a NUL unit.
//
// # Memory Map
//
//	[0, 16)                  null guard
//	[16, 16+stack)           shadow stack, grows down
//	[16+stack, ...)          heap (memory.FreeList), grows the memory
//
// # Checking
//
// The runtime tracks every live object. Initializing a live object,
// destroying or reading a dead one, deleting a stack object and releasing
// stack cells out of order all panic with an *errors.Error of kind
// KindLifecycle.
//
// Runtime is NOT thread-safe.
package guest
