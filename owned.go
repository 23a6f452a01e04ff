package wstring

import (
	"go.uber.org/zap"

	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/width"
)

// Owned holds a string allocated on the foreign heap. Close releases it;
// the String is dead afterwards.
type Owned struct {
	s *String
}

// Create allocates a foreign string holding value.
func Create(rt Runtime, value []rune) (*Owned, error) {
	return CreateUnits(rt, width.FromRunes(value))
}

// CreateString is Create for a Go string.
func CreateString(rt Runtime, value string) (*Owned, error) {
	return CreateUnits(rt, width.FromRunes([]rune(value)))
}

// CreateUnits is Create for raw units.
func CreateUnits(rt Runtime, units []width.Unit) (*Owned, error) {
	if rt == nil {
		return nil, errors.NilPointer(errors.PhaseAlloc, "runtime")
	}
	ptr, err := rt.New(units)
	if err != nil {
		return nil, err
	}
	Logger().Debug("heap string created", zap.Uint64("ptr", uint64(ptr)), zap.Int("units", len(units)))
	return &Owned{s: &String{rt: rt, ptr: ptr}}, nil
}

// Ref returns the handle, or nil after Close.
func (o *Owned) Ref() *String {
	if o == nil || o.s == nil || o.s.dead {
		return nil
	}
	return o.s
}

// Pin returns a mutable reference. Heap objects never move, so the
// reference stays valid until Close.
func (o *Owned) Pin() Pinned {
	return Pinned{s: o.Ref()}
}

// Close destroys and frees the foreign string. Further calls do nothing.
func (o *Owned) Close() error {
	if o == nil || o.s == nil || o.s.dead {
		return nil
	}
	o.s.dead = true
	o.s.rt.Delete(o.s.ptr)
	Logger().Debug("heap string deleted", zap.Uint64("ptr", uint64(o.s.ptr)))
	return nil
}
