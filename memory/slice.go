package memory

import (
	"encoding/binary"

	"github.com/wippyai/wstring/errors"
)

// SliceMemory is a Linear memory backed by a Go byte slice.
type SliceMemory struct {
	data     []byte
	maxPages uint32
}

// NewSliceMemory creates a memory of initialPages pages that may grow up to
// maxPages (0 means MaxPages).
func NewSliceMemory(initialPages, maxPages uint32) (*SliceMemory, error) {
	if maxPages == 0 {
		maxPages = MaxPages
	}
	if initialPages > maxPages || maxPages > MaxPages {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "initial pages exceed maximum")
	}
	return &SliceMemory{
		data:     make([]byte, uint64(initialPages)*PageSize),
		maxPages: maxPages,
	}, nil
}

func (m *SliceMemory) bounds(offset, length uint32) bool {
	return uint64(offset)+uint64(length) <= uint64(len(m.data))
}

func (m *SliceMemory) Read(offset uint32, length uint32) ([]byte, error) {
	if !m.bounds(offset, length) {
		return nil, errors.OutOfBounds(errors.PhaseRead, offset, length)
	}
	return m.data[offset : offset+length : offset+length], nil
}

func (m *SliceMemory) Write(offset uint32, data []byte) error {
	if !m.bounds(offset, uint32(len(data))) {
		return errors.OutOfBounds(errors.PhaseMutate, offset, uint32(len(data)))
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *SliceMemory) ReadU32(offset uint32) (uint32, error) {
	if !m.bounds(offset, 4) {
		return 0, errors.OutOfBounds(errors.PhaseRead, offset, 4)
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *SliceMemory) WriteU32(offset uint32, value uint32) error {
	if !m.bounds(offset, 4) {
		return errors.OutOfBounds(errors.PhaseMutate, offset, 4)
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

func (m *SliceMemory) Size() uint32 {
	return uint32(len(m.data))
}

// Grow reallocates the backing slice; earlier views keep the old contents.
func (m *SliceMemory) Grow(deltaPages uint32) (uint32, error) {
	prev := uint32(len(m.data) / PageSize)
	if uint64(prev)+uint64(deltaPages) > uint64(m.maxPages) {
		return prev, errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Op("grow").
			Detail("cannot grow %d pages by %d (max %d)", prev, deltaPages, m.maxPages).
			Build()
	}
	if deltaPages == 0 {
		return prev, nil
	}
	data := make([]byte, uint64(prev+deltaPages)*PageSize)
	copy(data, m.data)
	m.data = data
	return prev, nil
}

var _ Linear = (*SliceMemory)(nil)
