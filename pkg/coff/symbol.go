package coff

import (
	"encoding/binary"

	"coffgen/pkg/utils"
)

type RawSymbol struct {
	Name               [8]byte /* Inline name, or (0, string table offset). */
	Value              uint32  /* Meaning depends on Type and SectionNumber. */
	SectionNumber      uint16  /* 1-based section index, 0 for undefined. */
	Type               uint16
	StorageClass       uint8
	NumberOfAuxSymbols uint8 /* Always 0, no aux records are emitted. */
}

// Symbol is one entry of the symbol table. Symbols belong to the
// generator, not to the section their SectionNumber points at.
type Symbol struct {
	Name          string
	Value         uint32
	SectionNumber uint16
	Type          uint16
	StorageClass  uint8

	// NameOffset is the symbol name's offset in the shared string
	// table. Assigned by Generator.AddSymbol, meaningful only when
	// len(Name) > 8.
	NameOffset uint32
}

// Serialize packs the symbol into its 18-byte record. Names of up to
// 8 bytes are embedded zero padded; longer names are represented as a
// zero sentinel followed by the string table offset recorded at
// registration time.
func (s *Symbol) Serialize() []byte {
	raw := RawSymbol{
		Value:         s.Value,
		SectionNumber: s.SectionNumber,
		Type:          s.Type,
		StorageClass:  s.StorageClass,
	}
	if len(s.Name) <= 8 {
		copy(raw.Name[:], s.Name)
	} else {
		binary.LittleEndian.PutUint32(raw.Name[4:], s.NameOffset)
	}
	return utils.Pack(raw)
}
