package coff

import "coffgen/pkg/utils"

type RawSectionHeader struct {
	Name                 [8]byte /* Truncated, zero padded. */
	VirtualSize          uint32  /* Mirrors SizeOfRawData for objects. */
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32 /* Patched during layout. */
	PointerToRelocations uint32 /* Patched during layout, 0 if none. */
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

// Section is an append-only byte buffer with a name, characteristics
// flags and the relocations anchored inside it. Sections are created
// through Generator.AddSection and never removed.
type Section struct {
	Name            string
	VirtualAddress  uint32
	Characteristics uint32
	Data            []byte
	Relocations     []Relocation
}

func NewSection(name string, characteristics uint32) *Section {
	return &Section{
		Name:            name,
		Characteristics: characteristics,
	}
}

// Append adds b to the section data and returns the offset within this
// section where it was placed.
func (s *Section) Append(b []byte) uint32 {
	offset := uint32(len(s.Data))
	s.Data = append(s.Data, b...)
	return offset
}

// AddRelocation records a relocation at offset against the symbol with
// the given 0-based symbol table index. The offset is not checked
// against the current data bounds; Generator.Validate does that in
// strict mode.
func (s *Section) AddRelocation(offset uint32, symbol uint32, typ uint16) {
	s.Relocations = append(s.Relocations, Relocation{
		VirtualAddress:   offset,
		SymbolTableIndex: symbol,
		Type:             typ,
	})
}

// Header builds the section header record. Names longer than 8 bytes
// are silently truncated, a limitation of the format rather than an
// error. The data and relocation pointers stay zero here; the layout
// pass patches them once the offsets are known.
func (s *Section) Header() RawSectionHeader {
	hdr := RawSectionHeader{
		VirtualSize:         uint32(len(s.Data)),
		VirtualAddress:      s.VirtualAddress,
		SizeOfRawData:       uint32(len(s.Data)),
		NumberOfRelocations: uint16(len(s.Relocations)),
		Characteristics:     s.Characteristics,
	}
	copy(hdr.Name[:], s.Name)
	return hdr
}

// SerializeHeader packs the section header into its 40-byte record.
func (s *Section) SerializeHeader() []byte {
	return utils.Pack(s.Header())
}
