package wstring

import "github.com/wippyai/wstring/width"

// Ptr is an address in the foreign runtime's address space.
type Ptr uintptr

// StackCellWords is the size of a stack cell in foreign machine words. A
// runtime's string object must fit in it; the runtime checks this on its
// side.
const StackCellWords = 8

// Layout is the size and alignment of a foreign memory block in bytes.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// Boundary is the fixed set of foreign calls on a string object. All calls
// except Init require an initialized object; Init requires storage that is
// not. Passing anything else is a precondition violation.
type Boundary interface {
	// Init placement-constructs a string holding units into cell.
	Init(cell Ptr, units []width.Unit) error
	// Destroy runs the destructor in place. Exactly once per Init.
	Destroy(cell Ptr)
	// Data returns the address of the first unit.
	Data(s Ptr) Ptr
	// Length returns the number of units.
	Length(s Ptr) uint
	// Clear empties the string. Capacity afterwards is unspecified.
	Clear(s Ptr)
	// ReserveTotal ensures total capacity is at least capacity units.
	ReserveTotal(s Ptr, capacity uint) error
	// Push appends units.
	Push(s Ptr, units []width.Unit) error
	// New allocates and constructs a string on the foreign heap.
	New(units []width.Unit) (Ptr, error)
}

// Runtime is a foreign runtime that owns wide strings.
type Runtime interface {
	Boundary

	// Delete destroys and frees a string returned by New.
	Delete(s Ptr)

	// View returns n units starting at data without copying where the
	// runtime allows it. The view is invalidated by the next mutation.
	View(data Ptr, n uint) []width.Unit

	// CellLayout is the layout of a stack cell able to hold one string.
	CellLayout() Layout
	// StackAlloc reserves a cell on the foreign stack. Cells are released
	// in LIFO order.
	StackAlloc(l Layout) (Ptr, error)
	// StackFree releases the most recently reserved cell.
	StackFree(cell Ptr)
}

// Capacitor is implemented by runtimes that expose capacity.
type Capacitor interface {
	Capacity(s Ptr) uint
}
