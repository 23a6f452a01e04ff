//go:build cgo && !windows

package native

/*
#cgo CXXFLAGS: -std=c++17
#cgo CFLAGS: -I${SRCDIR}
#cgo CXXFLAGS: -I${SRCDIR}

#include "bridge.h"
*/
import "C"

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/width"
)

// cell is the Go-side storage of one stack string.
type cell [wstring.StackCellWords]uintptr

type frame struct {
	cell   *cell
	pinner runtime.Pinner
}

// Runtime is a foreign string runtime over std::wstring.
type Runtime struct {
	log       *zap.Logger
	live      map[wstring.Ptr]struct{}
	heap      map[wstring.Ptr]struct{}
	frames    []*frame
	maxFrames int
}

// New checks the host C++ library against the cell layout and width.Unit
// and returns a runtime.
func New(opts ...Option) (*Runtime, error) {
	o := buildOptions(opts)

	if size := uintptr(C.wstr_sizeof()); size > unsafe.Sizeof(cell{}) {
		return nil, errors.Unsupported(errors.PhaseLoad,
			"std::wstring larger than a stack cell")
	}
	if wcharSize() != width.UnitSize {
		return nil, errors.Unsupported(errors.PhaseLoad, "wchar_t is not 32 bits")
	}
	if wcharSigned() != width.Signed {
		return nil, errors.Unsupported(errors.PhaseLoad,
			"wchar_t signedness differs from the build target")
	}

	o.log.Debug("native wide string runtime ready",
		zap.Uint("object_size", uint(C.wstr_sizeof())),
		zap.Uint("object_align", uint(C.wstr_alignof())))

	return &Runtime{
		log:       o.log,
		live:      make(map[wstring.Ptr]struct{}),
		heap:      make(map[wstring.Ptr]struct{}),
		maxFrames: o.maxFrames,
	}, nil
}

func wcharSize() uintptr { return uintptr(C.wstr_wchar_size()) }

func wcharSigned() bool { return C.wstr_wchar_signed() != 0 }

// Stats returns current bookkeeping counters.
func (r *Runtime) Stats() Stats {
	return Stats{Live: len(r.live), HeapLive: len(r.heap), Frames: len(r.frames)}
}

// cptr converts an address handed out by this runtime back to a pointer.
// Addresses are either C++ heap objects or cells kept alive and pinned by
// frames.
func cptr(p wstring.Ptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&p))
}

func wchars(units []width.Unit) *C.wchar_t {
	return (*C.wchar_t)(unsafe.Pointer(unsafe.SliceData(width.ToC(units))))
}

func statusError(phase errors.Phase, op string, status C.int, n uint) error {
	switch status {
	case C.WSTR_OK:
		return nil
	case C.WSTR_LENGTH_ERROR:
		return errors.New(phase, errors.KindAllocation).
			Op(op).
			Value(n).
			Detail("std::length_error for %d units", n).
			Build()
	default:
		return errors.New(phase, errors.KindAllocation).
			Op(op).
			Value(n).
			Detail("std::bad_alloc for %d units", n).
			Build()
	}
}

func (r *Runtime) checkLive(phase errors.Phase, op string, p wstring.Ptr) {
	if _, ok := r.live[p]; !ok {
		panic(errors.Lifecycle(phase, op, uint64(p), "not a live string"))
	}
}

// Init implements wstring.Boundary.
func (r *Runtime) Init(c wstring.Ptr, units []width.Unit) error {
	if _, ok := r.live[c]; ok {
		panic(errors.Lifecycle(errors.PhaseInit, "init", uint64(c), "already initialized"))
	}
	status := C.wstr_init(cptr(c), wchars(units), C.size_t(len(units)))
	if err := statusError(errors.PhaseInit, "init", status, uint(len(units))); err != nil {
		return err
	}
	r.live[c] = struct{}{}
	return nil
}

// Destroy implements wstring.Boundary.
func (r *Runtime) Destroy(c wstring.Ptr) {
	r.checkLive(errors.PhaseDestroy, "destroy", c)
	C.wstr_destroy(cptr(c))
	delete(r.live, c)
}

// Data implements wstring.Boundary.
func (r *Runtime) Data(s wstring.Ptr) wstring.Ptr {
	r.checkLive(errors.PhaseRead, "data", s)
	return wstring.Ptr(unsafe.Pointer(C.wstr_data(cptr(s))))
}

// Length implements wstring.Boundary.
func (r *Runtime) Length(s wstring.Ptr) uint {
	r.checkLive(errors.PhaseRead, "length", s)
	return uint(C.wstr_length(cptr(s)))
}

// Capacity implements wstring.Capacitor.
func (r *Runtime) Capacity(s wstring.Ptr) uint {
	r.checkLive(errors.PhaseRead, "capacity", s)
	return uint(C.wstr_capacity(cptr(s)))
}

// Clear implements wstring.Boundary. std::wstring keeps its capacity.
func (r *Runtime) Clear(s wstring.Ptr) {
	r.checkLive(errors.PhaseMutate, "clear", s)
	C.wstr_clear(cptr(s))
}

// ReserveTotal implements wstring.Boundary.
func (r *Runtime) ReserveTotal(s wstring.Ptr, capacity uint) error {
	r.checkLive(errors.PhaseMutate, "reserve", s)
	status := C.wstr_reserve_total(cptr(s), C.size_t(capacity))
	return statusError(errors.PhaseMutate, "reserve", status, capacity)
}

// Push implements wstring.Boundary.
func (r *Runtime) Push(s wstring.Ptr, units []width.Unit) error {
	r.checkLive(errors.PhaseMutate, "push", s)
	if len(units) == 0 {
		return nil
	}
	status := C.wstr_push(cptr(s), wchars(units), C.size_t(len(units)))
	return statusError(errors.PhaseMutate, "push", status, uint(len(units)))
}

// New implements wstring.Boundary.
func (r *Runtime) New(units []width.Unit) (wstring.Ptr, error) {
	var out unsafe.Pointer
	status := C.wstr_new(wchars(units), C.size_t(len(units)), &out)
	if err := statusError(errors.PhaseAlloc, "new", status, uint(len(units))); err != nil {
		return 0, err
	}
	p := wstring.Ptr(out)
	r.live[p] = struct{}{}
	r.heap[p] = struct{}{}
	return p, nil
}

// Delete implements wstring.Runtime.
func (r *Runtime) Delete(s wstring.Ptr) {
	if _, ok := r.heap[s]; !ok {
		panic(errors.Lifecycle(errors.PhaseDestroy, "delete", uint64(s), "not a heap string"))
	}
	C.wstr_delete(cptr(s))
	delete(r.heap, s)
	delete(r.live, s)
}

// View implements wstring.Runtime. The result aliases the C++ buffer.
func (r *Runtime) View(data wstring.Ptr, n uint) []width.Unit {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*width.Unit)(cptr(data)), n)
}

// CellLayout implements wstring.Runtime.
func (r *Runtime) CellLayout() wstring.Layout {
	return wstring.Layout{Size: unsafe.Sizeof(cell{}), Align: unsafe.Alignof(cell{})}
}

// StackAlloc implements wstring.Runtime. Cells are Go memory pinned until
// StackFree.
func (r *Runtime) StackAlloc(l wstring.Layout) (wstring.Ptr, error) {
	if l.Size > unsafe.Sizeof(cell{}) || l.Align > unsafe.Alignof(cell{}) {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "layout exceeds a stack cell")
	}
	if len(r.frames) >= r.maxFrames {
		return 0, errors.StackOverflow(uint32(l.Size), 0)
	}
	f := &frame{cell: new(cell)}
	f.pinner.Pin(f.cell)
	r.frames = append(r.frames, f)
	return wstring.Ptr(unsafe.Pointer(f.cell)), nil
}

// StackFree implements wstring.Runtime.
func (r *Runtime) StackFree(c wstring.Ptr) {
	if len(r.frames) == 0 || wstring.Ptr(unsafe.Pointer(r.frames[len(r.frames)-1].cell)) != c {
		panic(errors.Lifecycle(errors.PhaseDestroy, "stack free", uint64(c), "cells released out of order"))
	}
	if _, ok := r.live[c]; ok {
		panic(errors.Lifecycle(errors.PhaseDestroy, "stack free", uint64(c), "cell still holds a live string"))
	}
	f := r.frames[len(r.frames)-1]
	f.pinner.Unpin()
	r.frames[len(r.frames)-1] = nil
	r.frames = r.frames[:len(r.frames)-1]
}

var (
	_ wstring.Runtime   = (*Runtime)(nil)
	_ wstring.Capacitor = (*Runtime)(nil)
)
