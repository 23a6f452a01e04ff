package memory

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wstring/errors"
)

// WazeroMemory wraps wazero memory to implement Linear
type WazeroMemory struct {
	mem     api.Memory
	runtime wazero.Runtime
}

// WrapWazero adapts the memory of an existing wazero module instance. The
// caller keeps ownership of the instance; Close is a no-op.
func WrapWazero(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

// NewWazero starts a dedicated wazero runtime and instantiates a module that
// only defines and exports one memory of initialPages pages, growable up to
// maxPages (0 leaves the memory unbounded).
func NewWazero(ctx context.Context, initialPages, maxPages uint32) (*WazeroMemory, error) {
	if maxPages > MaxPages || (maxPages > 0 && initialPages > maxPages) {
		return nil, errors.InvalidInput(errors.PhaseLoad, "initial pages exceed maximum")
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if maxPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(maxPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := r.Instantiate(ctx, memoryModule(initialPages, maxPages))
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.Load("instantiate memory module", err)
	}
	mem := mod.Memory()
	if mem == nil {
		_ = r.Close(ctx)
		return nil, errors.Load("memory module defines no memory", nil)
	}
	m := WrapWazero(mem)
	m.runtime = r
	return m, nil
}

// Close releases the runtime created by NewWazero.
func (m *WazeroMemory) Close(ctx context.Context) error {
	if m.runtime == nil {
		return nil
	}
	err := m.runtime.Close(ctx)
	m.runtime = nil
	m.mem = nil
	return err
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseRead, offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMutate, offset, uint32(len(data)))
	}
	return nil
}

func (m *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseRead, offset, 4)
	}
	return val, nil
}

func (m *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseMutate, offset, 4)
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

func (m *WazeroMemory) Grow(deltaPages uint32) (uint32, error) {
	prev, ok := m.mem.Grow(deltaPages)
	if !ok {
		return prev, errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Op("grow").
			Detail("memory.grow by %d pages refused", deltaPages).
			Build()
	}
	return prev, nil
}

// memoryModule encodes a core wasm module with a single exported memory.
func memoryModule(initialPages, maxPages uint32) []byte {
	limits := []byte{0x00}
	if maxPages > 0 {
		limits[0] = 0x01
	}
	limits = appendULEB(limits, initialPages)
	if maxPages > 0 {
		limits = appendULEB(limits, maxPages)
	}

	memSection := append([]byte{0x01}, limits...)
	exportSection := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}

	out := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	out = appendSection(out, 0x05, memSection)
	out = appendSection(out, 0x07, exportSection)
	return out
}

func appendSection(dst []byte, id byte, payload []byte) []byte {
	dst = append(dst, id)
	dst = appendULEB(dst, uint32(len(payload)))
	return append(dst, payload...)
}

func appendULEB(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

var _ Linear = (*WazeroMemory)(nil)
