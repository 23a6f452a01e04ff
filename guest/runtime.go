package guest

import (
	"encoding/binary"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/memory"
	"github.com/wippyai/wstring/width"
)

// DefaultStackSize is the size of the shadow stack in bytes.
const DefaultStackSize = 16 * 1024

type options struct {
	log       *zap.Logger
	stackSize uint32
}

// Option configures a Runtime.
type Option func(*options)

// WithStackSize sets the shadow stack size in bytes.
func WithStackSize(n uint32) Option {
	return func(o *options) { o.stackSize = n }
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

type frame struct {
	cell   uint32
	prevSP uint32
}

// Stats is a snapshot of runtime bookkeeping.
type Stats struct {
	Live       int    // initialized objects, stack and heap
	HeapLive   int    // objects created by New and not yet deleted
	Frames     int    // reserved stack cells
	Reallocs   uint64 // unit buffers moved to a larger block
	HeapBytes  uint64 // live heap bytes
	HeapBlocks int    // live heap blocks
}

// Runtime is a foreign string runtime in linear memory.
type Runtime struct {
	mem       memory.Linear
	alloc     *memory.FreeList
	log       *zap.Logger
	live      map[uint32]struct{}
	heap      map[uint32]struct{}
	frames    []frame
	reallocs  uint64
	stackBase uint32
	stackTop  uint32
	sp        uint32
}

// New creates a runtime on mem. The memory is grown if it cannot hold the
// null guard and stack.
func New(mem memory.Linear, opts ...Option) (*Runtime, error) {
	o := options{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.stackSize < ObjectSize {
		return nil, errors.InvalidInput(errors.PhaseLoad, "stack smaller than one string object")
	}

	stackTop := uint64(nullGuard) + uint64(o.stackSize)
	stackTop = (stackTop + 15) &^ 15
	if stackTop > 1<<32-memory.PageSize {
		return nil, errors.InvalidInput(errors.PhaseLoad, "stack does not fit in 32-bit memory")
	}
	if size := uint64(mem.Size()); stackTop > size {
		pages := uint32((stackTop - size + memory.PageSize - 1) / memory.PageSize)
		if _, err := mem.Grow(pages); err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindAllocation, err, "reserve shadow stack")
		}
	}

	return &Runtime{
		mem:       mem,
		alloc:     memory.NewFreeList(mem, uint32(stackTop)),
		log:       o.log,
		live:      make(map[uint32]struct{}),
		heap:      make(map[uint32]struct{}),
		stackBase: nullGuard,
		stackTop:  uint32(stackTop),
		sp:        uint32(stackTop),
	}, nil
}

// Memory returns the underlying linear memory.
func (r *Runtime) Memory() memory.Linear {
	return r.mem
}

// Stats returns current bookkeeping counters.
func (r *Runtime) Stats() Stats {
	return Stats{
		Live:       len(r.live),
		HeapLive:   len(r.heap),
		Frames:     len(r.frames),
		Reallocs:   r.reallocs,
		HeapBytes:  r.alloc.InUse(),
		HeapBlocks: r.alloc.Allocations(),
	}
}

func addr32(p wstring.Ptr) uint32 {
	if uint64(p) > 1<<32-1 {
		panic(errors.OutOfBounds(errors.PhaseRead, 0, 0))
	}
	return uint32(p)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func (r *Runtime) checkLive(phase errors.Phase, op string, obj uint32) {
	if _, ok := r.live[obj]; !ok {
		panic(errors.Lifecycle(phase, op, uint64(obj), "not a live string"))
	}
}

func (r *Runtime) header(obj uint32) header {
	b, err := r.mem.Read(obj, offInline)
	must(err)
	return decodeHeader(b)
}

func (r *Runtime) setHeader(obj uint32, h header) {
	must(r.mem.Write(obj, h.encode()))
}

func (r *Runtime) writeNul(addr uint32) {
	must(r.mem.WriteU32(addr, 0))
}

// Init implements wstring.Boundary.
func (r *Runtime) Init(cell wstring.Ptr, units []width.Unit) error {
	obj := addr32(cell)
	if _, ok := r.live[obj]; ok {
		panic(errors.Lifecycle(errors.PhaseInit, "init", uint64(obj), "already initialized"))
	}
	if len(units) > maxCapacity {
		return errors.New(errors.PhaseInit, errors.KindAllocation).
			Op("init").
			Detail("%d units exceed 32-bit memory", len(units)).
			Build()
	}

	n := uint32(len(units))
	h := header{data: obj + offInline, length: n, capacity: InlineCapacity}
	if n > InlineCapacity {
		data, err := r.allocUnits(n)
		if err != nil {
			return err
		}
		h.data = data
		h.capacity = n
	}

	err := r.mem.Write(h.data, encodeUnits(units))
	if err == nil {
		err = r.mem.Write(obj, h.encode())
	}
	if err != nil {
		if !h.inline(obj) {
			r.alloc.Free(h.data, blockSize(h.capacity), width.UnitSize)
		}
		return err
	}
	r.live[obj] = struct{}{}
	return nil
}

func (r *Runtime) allocUnits(capacity uint32) (uint32, error) {
	p, err := r.alloc.Alloc(blockSize(capacity), width.UnitSize)
	if err != nil {
		r.log.Warn("unit buffer allocation failed",
			zap.Uint32("capacity", capacity),
			zap.Error(err))
		return 0, err
	}
	return p, nil
}

// Destroy implements wstring.Boundary.
func (r *Runtime) Destroy(cell wstring.Ptr) {
	obj := addr32(cell)
	r.checkLive(errors.PhaseDestroy, "destroy", obj)
	h := r.header(obj)
	if !h.inline(obj) {
		r.alloc.Free(h.data, blockSize(h.capacity), width.UnitSize)
	}
	r.setHeader(obj, header{})
	delete(r.live, obj)
}

// Data implements wstring.Boundary.
func (r *Runtime) Data(s wstring.Ptr) wstring.Ptr {
	obj := addr32(s)
	r.checkLive(errors.PhaseRead, "data", obj)
	return wstring.Ptr(r.header(obj).data)
}

// Length implements wstring.Boundary.
func (r *Runtime) Length(s wstring.Ptr) uint {
	obj := addr32(s)
	r.checkLive(errors.PhaseRead, "length", obj)
	return uint(r.header(obj).length)
}

// Capacity implements wstring.Capacitor.
func (r *Runtime) Capacity(s wstring.Ptr) uint {
	obj := addr32(s)
	r.checkLive(errors.PhaseRead, "capacity", obj)
	return uint(r.header(obj).capacity)
}

// Clear implements wstring.Boundary. Capacity is kept.
func (r *Runtime) Clear(s wstring.Ptr) {
	obj := addr32(s)
	r.checkLive(errors.PhaseMutate, "clear", obj)
	h := r.header(obj)
	h.length = 0
	r.writeNul(h.data)
	r.setHeader(obj, h)
}

// ReserveTotal implements wstring.Boundary.
func (r *Runtime) ReserveTotal(s wstring.Ptr, capacity uint) error {
	obj := addr32(s)
	r.checkLive(errors.PhaseMutate, "reserve", obj)
	h := r.header(obj)
	if capacity <= uint(h.capacity) {
		return nil
	}
	if capacity > maxCapacity {
		return errors.New(errors.PhaseMutate, errors.KindAllocation).
			Op("reserve").
			Value(capacity).
			Detail("capacity %d exceeds 32-bit memory", capacity).
			Build()
	}
	return r.grow(obj, h, uint32(capacity))
}

// grow moves the units of obj to a block of newCap units.
func (r *Runtime) grow(obj uint32, h header, newCap uint32) error {
	data, err := r.allocUnits(newCap)
	if err != nil {
		return err
	}
	// Read after Alloc: growing the memory invalidates earlier views.
	old, err := r.mem.Read(h.data, (h.length+1)*width.UnitSize)
	must(err)
	must(r.mem.Write(data, old))
	if !h.inline(obj) {
		r.alloc.Free(h.data, blockSize(h.capacity), width.UnitSize)
	}
	r.log.Debug("unit buffer reallocated",
		zap.Uint32("object", obj),
		zap.Uint32("from", h.capacity),
		zap.Uint32("to", newCap))

	h.data = data
	h.capacity = newCap
	r.setHeader(obj, h)
	r.reallocs++
	return nil
}

// Push implements wstring.Boundary. Capacity at least doubles when the
// buffer has to grow.
func (r *Runtime) Push(s wstring.Ptr, units []width.Unit) error {
	obj := addr32(s)
	r.checkLive(errors.PhaseMutate, "push", obj)
	h := r.header(obj)

	need := uint64(h.length) + uint64(len(units))
	if need > maxCapacity {
		return errors.New(errors.PhaseMutate, errors.KindAllocation).
			Op("push").
			Detail("length %d exceeds 32-bit memory", need).
			Build()
	}
	if need > uint64(h.capacity) {
		newCap := max(need, 2*uint64(h.capacity))
		newCap = min(newCap, maxCapacity)
		if err := r.grow(obj, h, uint32(newCap)); err != nil {
			return err
		}
		h = r.header(obj)
	}

	if err := r.mem.Write(h.data+h.length*width.UnitSize, encodeUnits(units)); err != nil {
		return err
	}
	h.length = uint32(need)
	r.setHeader(obj, h)
	return nil
}

// New implements wstring.Boundary.
func (r *Runtime) New(units []width.Unit) (wstring.Ptr, error) {
	obj, err := r.alloc.Alloc(ObjectSize, ObjectAlign)
	if err != nil {
		return 0, err
	}
	if err := r.Init(wstring.Ptr(obj), units); err != nil {
		r.alloc.Free(obj, ObjectSize, ObjectAlign)
		return 0, err
	}
	r.heap[obj] = struct{}{}
	return wstring.Ptr(obj), nil
}

// Delete implements wstring.Runtime.
func (r *Runtime) Delete(s wstring.Ptr) {
	obj := addr32(s)
	if _, ok := r.heap[obj]; !ok {
		panic(errors.Lifecycle(errors.PhaseDestroy, "delete", uint64(obj), "not a heap string"))
	}
	r.Destroy(s)
	delete(r.heap, obj)
	r.alloc.Free(obj, ObjectSize, ObjectAlign)
}

// View implements wstring.Runtime. On little-endian hosts the result
// aliases linear memory; otherwise it is a decoded copy.
func (r *Runtime) View(data wstring.Ptr, n uint) []width.Unit {
	if n == 0 {
		return nil
	}
	if n > maxCapacity {
		panic(errors.OutOfBounds(errors.PhaseRead, addr32(data), uint32(n)))
	}
	b, err := r.mem.Read(addr32(data), uint32(n)*width.UnitSize)
	must(err)
	if width.HostLittleEndian && uintptr(unsafe.Pointer(&b[0]))%width.UnitSize == 0 {
		return unsafe.Slice((*width.Unit)(unsafe.Pointer(&b[0])), n)
	}
	units := make([]width.Unit, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint32(b[i*width.UnitSize:])
	}
	return units
}

// CellLayout implements wstring.Runtime.
func (r *Runtime) CellLayout() wstring.Layout {
	return wstring.Layout{Size: ObjectSize, Align: ObjectAlign}
}

// StackAlloc implements wstring.Runtime.
func (r *Runtime) StackAlloc(l wstring.Layout) (wstring.Ptr, error) {
	size, align := uint64(l.Size), uint64(l.Align)
	avail := uint64(r.sp - r.stackBase)
	if size > avail {
		return 0, errors.StackOverflow(uint32(min(size, 1<<32-1)), uint32(avail))
	}
	cell := (uint64(r.sp) - size) &^ (align - 1)
	if cell < uint64(r.stackBase) {
		return 0, errors.StackOverflow(uint32(size), uint32(avail))
	}
	r.frames = append(r.frames, frame{cell: uint32(cell), prevSP: r.sp})
	r.sp = uint32(cell)
	return wstring.Ptr(cell), nil
}

// StackFree implements wstring.Runtime.
func (r *Runtime) StackFree(cell wstring.Ptr) {
	obj := addr32(cell)
	if len(r.frames) == 0 || r.frames[len(r.frames)-1].cell != obj {
		panic(errors.Lifecycle(errors.PhaseDestroy, "stack free", uint64(obj), "cells released out of order"))
	}
	if _, ok := r.live[obj]; ok {
		panic(errors.Lifecycle(errors.PhaseDestroy, "stack free", uint64(obj), "cell still holds a live string"))
	}
	r.sp = r.frames[len(r.frames)-1].prevSP
	r.frames = r.frames[:len(r.frames)-1]
}

var (
	_ wstring.Runtime   = (*Runtime)(nil)
	_ wstring.Capacitor = (*Runtime)(nil)
)
