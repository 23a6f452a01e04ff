package memory

import (
	"sort"

	"github.com/wippyai/wstring/errors"
)

type span struct {
	addr uint32
	size uint32
}

func (s span) end() uint64 { return uint64(s.addr) + uint64(s.size) }

// FreeList is a first-fit allocator over the region of a Linear memory that
// starts at base. Bookkeeping is kept on the Go side; the memory only holds
// payload bytes. When the region is exhausted the memory is grown by whole
// pages.
//
// FreeList is NOT thread-safe.
type FreeList struct {
	mem   Linear
	spans []span // sorted by addr, never adjacent
	base  uint32
	top   uint32
	inUse uint64
	count int
}

// NewFreeList creates an allocator for [base, mem.Size()) and beyond.
func NewFreeList(mem Linear, base uint32) *FreeList {
	return &FreeList{mem: mem, base: base, top: base}
}

func alignUp(v uint64, align uint32) uint64 {
	a := uint64(align)
	return (v + a - 1) &^ (a - 1)
}

// Alloc returns the address of size bytes aligned to align.
func (f *FreeList) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "zero-size allocation")
	}
	if align == 0 || align&(align-1) != 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "alignment must be a power of two")
	}

	for i, s := range f.spans {
		start := alignUp(uint64(s.addr), align)
		if start+uint64(size) > s.end() {
			continue
		}
		f.carve(i, uint32(start), size)
		f.inUse += uint64(size)
		f.count++
		return uint32(start), nil
	}

	start := alignUp(uint64(f.top), align)
	end := start + uint64(size)
	if end > uint64(f.mem.Size()) {
		need := pagesFor(end - uint64(f.mem.Size()))
		if _, err := f.mem.Grow(need); err != nil {
			e := errors.AllocationFailed(errors.PhaseAlloc, size, align)
			e.Cause = err
			return 0, e
		}
	}
	if start > uint64(f.top) {
		f.insert(span{addr: f.top, size: uint32(start - uint64(f.top))})
	}
	f.top = uint32(end)
	f.inUse += uint64(size)
	f.count++
	return uint32(start), nil
}

// carve removes [start, start+size) from spans[i], keeping the remainders.
func (f *FreeList) carve(i int, start, size uint32) {
	s := f.spans[i]
	var rest []span
	if start > s.addr {
		rest = append(rest, span{addr: s.addr, size: start - s.addr})
	}
	if tail := uint64(start) + uint64(size); tail < s.end() {
		rest = append(rest, span{addr: uint32(tail), size: uint32(s.end() - tail)})
	}
	f.spans = append(f.spans[:i], append(rest, f.spans[i+1:]...)...)
}

// Free returns a block. Freeing address 0 is a no-op.
func (f *FreeList) Free(ptr, size, align uint32) {
	if ptr == 0 || size == 0 {
		return
	}
	f.inUse -= uint64(size)
	f.count--
	f.insert(span{addr: ptr, size: size})

	last := f.spans[len(f.spans)-1]
	if last.end() == uint64(f.top) {
		f.top = last.addr
		f.spans = f.spans[:len(f.spans)-1]
	}
}

func (f *FreeList) insert(s span) {
	i := sort.Search(len(f.spans), func(i int) bool { return f.spans[i].addr > s.addr })

	if i > 0 && f.spans[i-1].end() == uint64(s.addr) {
		f.spans[i-1].size += s.size
		if i < len(f.spans) && f.spans[i-1].end() == uint64(f.spans[i].addr) {
			f.spans[i-1].size += f.spans[i].size
			f.spans = append(f.spans[:i], f.spans[i+1:]...)
		}
		return
	}
	if i < len(f.spans) && s.end() == uint64(f.spans[i].addr) {
		f.spans[i].addr = s.addr
		f.spans[i].size += s.size
		return
	}
	f.spans = append(f.spans, span{})
	copy(f.spans[i+1:], f.spans[i:])
	f.spans[i] = s
}

// InUse returns the number of live bytes.
func (f *FreeList) InUse() uint64 { return f.inUse }

// Allocations returns the number of live blocks.
func (f *FreeList) Allocations() int { return f.count }

// Top returns the end of the highest block handed out so far.
func (f *FreeList) Top() uint32 { return f.top }

var _ Allocator = (*FreeList)(nil)
