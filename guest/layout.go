package guest

import (
	"encoding/binary"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/width"
)

const (
	wordSize = 4

	offData   = 0
	offLen    = 4
	offCap    = 8
	offInline = 12

	// ObjectSize is the size of one string object.
	ObjectSize = wstring.StackCellWords * wordSize
	// ObjectAlign is the alignment of one string object.
	ObjectAlign = wordSize

	// InlineCapacity is the number of units stored inside the object.
	InlineCapacity = (ObjectSize-offInline)/width.UnitSize - 1

	nullGuard = 16

	// maxCapacity keeps (capacity+1)*4 within 32 bits.
	maxCapacity = 1<<30 - 2
)

// Object must fit one stack cell.
var _ [ObjectSize - (offInline + (InlineCapacity+1)*width.UnitSize)]struct{}

type header struct {
	data     uint32
	length   uint32
	capacity uint32
}

func decodeHeader(b []byte) header {
	return header{
		data:     binary.LittleEndian.Uint32(b[offData:]),
		length:   binary.LittleEndian.Uint32(b[offLen:]),
		capacity: binary.LittleEndian.Uint32(b[offCap:]),
	}
}

func (h header) encode() []byte {
	b := make([]byte, offInline)
	binary.LittleEndian.PutUint32(b[offData:], h.data)
	binary.LittleEndian.PutUint32(b[offLen:], h.length)
	binary.LittleEndian.PutUint32(b[offCap:], h.capacity)
	return b
}

func (h header) inline(obj uint32) bool {
	return h.data == obj+offInline
}

func blockSize(capacity uint32) uint32 {
	return (capacity + 1) * width.UnitSize
}

// encodeUnits returns units as little-endian bytes followed by a NUL unit.
func encodeUnits(units []width.Unit) []byte {
	b := make([]byte, (len(units)+1)*width.UnitSize)
	if width.HostLittleEndian {
		copy(b, width.Bytes(units))
		return b
	}
	for i, u := range units {
		binary.LittleEndian.PutUint32(b[i*width.UnitSize:], u)
	}
	return b
}
