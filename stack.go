package wstring

import (
	"go.uber.org/zap"

	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/width"
)

type cellState uint8

const (
	cellUninitialized cellState = iota
	cellInitialized
	cellDestroyed
)

func (c cellState) String() string {
	switch c {
	case cellUninitialized:
		return "uninitialized"
	case cellInitialized:
		return "initialized"
	default:
		return "destroyed"
	}
}

// stackCell is storage reserved on the foreign stack for one string. It is
// used once: init at most once, drop exactly once.
type stackCell struct {
	rt    Runtime
	s     *String
	addr  Ptr
	state cellState
}

func reserveCell(rt Runtime) (*stackCell, error) {
	l := rt.CellLayout()
	if l.Size == 0 || l.Align == 0 || l.Align&(l.Align-1) != 0 {
		return nil, errors.New(errors.PhaseAlloc, errors.KindInvalidData).
			Op("stack cell").
			Detail("runtime reported invalid cell layout size=%d align=%d", l.Size, l.Align).
			Build()
	}
	addr, err := rt.StackAlloc(l)
	if err != nil {
		return nil, err
	}
	return &stackCell{rt: rt, addr: addr}, nil
}

func (c *stackCell) init(units []width.Unit) (Pinned, error) {
	if c.state != cellUninitialized {
		panic(errors.Lifecycle(errors.PhaseInit, "init", uint64(c.addr), "stack cell is "+c.state.String()))
	}
	if err := c.rt.Init(c.addr, units); err != nil {
		return Pinned{}, err
	}
	c.state = cellInitialized
	c.s = &String{rt: c.rt, ptr: c.addr}
	return Pinned{s: c.s}, nil
}

func (c *stackCell) drop() {
	switch c.state {
	case cellDestroyed:
		return
	case cellInitialized:
		c.s.dead = true
		c.state = cellDestroyed
		c.rt.Destroy(c.addr)
	default:
		c.state = cellDestroyed
	}
	c.rt.StackFree(c.addr)
}

// Let constructs a foreign string holding value in a cell on the foreign
// stack, passes it to fn, and destroys it when fn returns. Destruction
// happens exactly once whether fn returns normally, returns an error or
// panics. The Pinned reference must not be used after fn returns.
func Let(rt Runtime, value []rune, fn func(Pinned) error) error {
	return let(rt, width.FromRunes(value), fn)
}

// LetString is Let for a Go string.
func LetString(rt Runtime, value string, fn func(Pinned) error) error {
	return let(rt, width.FromRunes([]rune(value)), fn)
}

// LetUnits is Let for raw units.
func LetUnits(rt Runtime, units []width.Unit, fn func(Pinned) error) error {
	return let(rt, units, fn)
}

func let(rt Runtime, units []width.Unit, fn func(Pinned) error) error {
	if rt == nil {
		return errors.NilPointer(errors.PhaseInit, "runtime")
	}
	cell, err := reserveCell(rt)
	if err != nil {
		return err
	}
	defer cell.drop()

	s, err := cell.init(units)
	if err != nil {
		return err
	}
	if ce := Logger().Check(zap.DebugLevel, "stack string initialized"); ce != nil {
		ce.Write(zap.Uint64("cell", uint64(cell.addr)), zap.Int("units", len(units)))
	}
	return fn(s)
}
