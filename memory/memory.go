// Package memory provides the linear memory that foreign strings live in.
//
// A Linear memory is a flat, offset-addressed byte space that can only grow.
// Read returns a view into the memory rather than a copy; a view stays valid
// until the next Grow, which may move the backing buffer. Two
// implementations are provided: SliceMemory over a Go byte slice, and
// WazeroMemory over the linear memory of a wazero module instance.
package memory

// PageSize is the WebAssembly page size in bytes.
const PageSize = 65536

// MaxPages is the largest number of pages a 32-bit linear memory can hold.
const MaxPages = 65536

// Memory represents linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	WriteU32(offset uint32, value uint32) error
}

// MemorySizer provides the current size of linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Grower grows linear memory by whole pages.
type Grower interface {
	// Grow adds deltaPages pages and returns the previous size in pages.
	Grow(deltaPages uint32) (uint32, error)
}

// Linear is a growable linear memory.
type Linear interface {
	Memory
	MemorySizer
	Grower
}

// Allocator allocates memory in linear memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

func pagesFor(bytes uint64) uint32 {
	return uint32((bytes + PageSize - 1) / PageSize)
}
