package coff

import "encoding/binary"

// StringTable is the shared overflow area for symbol names longer than
// the 8-byte inline field. It is a single append-only region whose
// first 4 bytes always hold the table's total length, that prefix
// included.
type StringTable struct {
	buf []byte
}

func NewStringTable() *StringTable {
	t := &StringTable{
		buf: make([]byte, 4),
	}
	binary.LittleEndian.PutUint32(t.buf, 4)
	return t
}

// Add appends s plus a zero terminator and returns the offset where the
// string body begins. Offsets count from the start of the table, so the
// first string lands at 4, right after the length prefix.
func (t *StringTable) Add(s string) uint32 {
	offset := uint32(len(t.buf))
	t.buf = append(t.buf, s...)
	t.buf = append(t.buf, 0)
	binary.LittleEndian.PutUint32(t.buf, uint32(len(t.buf)))
	return offset
}

func (t *StringTable) Size() uint32 {
	return uint32(len(t.buf))
}

// Bytes returns the table's current contents, length prefix included.
func (t *StringTable) Bytes() []byte {
	return t.buf
}
