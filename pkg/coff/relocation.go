package coff

import "coffgen/pkg/utils"

// Relocation tells a consumer of the object where and how to patch a
// reference to a symbol. The generator records it verbatim and never
// rewrites section bytes itself.
type Relocation struct {
	VirtualAddress   uint32 /* Offset within the owning section's data. */
	SymbolTableIndex uint32 /* 0-based index into the symbol table. */
	Type             uint16 /* Machine-specific relocation type code. */
}

// Serialize packs the relocation into its 10-byte record.
func (r Relocation) Serialize() []byte {
	return utils.Pack(r)
}
