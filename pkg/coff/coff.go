package coff

import "coffgen/pkg/utils"

// Machine codes from the COFF file header. Only the two flat
// x86 variants are supported.
type MachineType = uint16

const (
	MachineAMD64 MachineType = 0x8664
	MachineI386  MachineType = 0x014C
)

type MachineTypeStringer struct {
	MachineType
}

func (m MachineTypeStringer) String() string {
	switch m.MachineType {
	case MachineAMD64:
		return "x86-64"
	case MachineI386:
		return "i386"
	}

	utils.Assert(m.MachineType == 0)
	return ""
}

// Section characteristics flags.
const (
	ScnCntCode            uint32 = 0x00000020
	ScnCntInitializedData uint32 = 0x00000040
	ScnMemExecute         uint32 = 0x20000000
	ScnMemRead            uint32 = 0x40000000
	ScnMemWrite           uint32 = 0x80000000
)

// Symbol storage classes.
const (
	ClassExternal uint8 = 2
	ClassStatic   uint8 = 3
	ClassLabel    uint8 = 6
)

// Symbol type codes. The format packs a base and a derived type into
// 16 bits; in practice only "function" (derived DT_FCN) matters here.
const (
	SymTypeNull     uint16 = 0x00
	SymTypeFunction uint16 = 0x20
)

// Relocation type codes for the supported machines.
const (
	RelAMD64Absolute uint16 = 0x0000
	RelAMD64Addr64   uint16 = 0x0001
	RelAMD64Addr32   uint16 = 0x0002
	RelAMD64Addr32NB uint16 = 0x0003
	RelAMD64Rel32    uint16 = 0x0004

	RelI386Dir32 uint16 = 0x0006
	RelI386Rel32 uint16 = 0x0014
)

// Fixed record sizes. Declared as constants rather than derived from the
// raw structs: in-memory struct sizes include alignment padding, the
// on-disk records do not.
const (
	FileHeaderSize    = 20
	SectionHeaderSize = 40
	SymbolSize        = 18
	RelocationSize    = 10
)
