package coff

import (
	"time"

	"coffgen/pkg/utils"
)

type RawHeader struct {
	Machine              uint16 /* Target machine code. */
	NumberOfSections     uint16 /* Entries in the section header table. */
	TimeDateStamp        uint32 /* Creation time, seconds since epoch. */
	PointerToSymbolTable uint32 /* File offset of the symbol table. */
	NumberOfSymbols      uint32 /* Entries in the symbol table. */
	SizeOfOptionalHeader uint16 /* Zero, no optional header is emitted. */
	Characteristics      uint16 /* Zero for a plain relocatable object. */
}

// FileHeader carries the fields of the 20-byte COFF file header that the
// generator maintains. The counts grow as sections and symbols register;
// the symbol-table pointer is only known during the final layout pass.
type FileHeader struct {
	Machine              MachineType
	NumberOfSections     uint16
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
}

func NewFileHeader(machine MachineType) *FileHeader {
	return &FileHeader{
		Machine: machine,
	}
}

// Serialize packs the header into its 20-byte record. The timestamp is
// captured here, not at construction, so re-emitting an unchanged
// generator yields records that differ only in this field.
func (h *FileHeader) Serialize() []byte {
	raw := RawHeader{
		Machine:              h.Machine,
		NumberOfSections:     h.NumberOfSections,
		TimeDateStamp:        uint32(time.Now().Unix()),
		PointerToSymbolTable: h.PointerToSymbolTable,
		NumberOfSymbols:      h.NumberOfSymbols,
	}
	return utils.Pack(raw)
}
