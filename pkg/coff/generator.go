package coff

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Strict mode sentinels. Emit itself never validates; these only come
// out of Validate and EmitStrict.
var (
	ErrBounds   = errors.New("relocation offset outside section data")
	ErrBadIndex = errors.New("index outside table")
)

// Generator assembles a relocatable COFF object image in memory. The
// caller registers sections, appends bytes and relocations to them,
// registers symbols, then calls Emit once to lay everything out into a
// single buffer.
//
// A generator and its sections are meant for one goroutine. If sections
// are filled concurrently, AddSymbol and AddString still mutate
// generator-global state and must be serialized by the caller.
type Generator struct {
	Header   *FileHeader
	Sections []*Section
	Symbols  []*Symbol
	Strings  *StringTable
}

// NewGenerator returns a generator targeting x86-64 when is64bit is
// set, i386 otherwise.
func NewGenerator(is64bit bool) *Generator {
	machine := MachineI386
	if is64bit {
		machine = MachineAMD64
	}

	return &Generator{
		Header:  NewFileHeader(machine),
		Strings: NewStringTable(),
	}
}

// AddSection creates a section with the given name and characteristics,
// registers it and returns it. Sections lay out in registration order.
func (g *Generator) AddSection(name string, characteristics uint32) *Section {
	section := NewSection(name, characteristics)
	g.Sections = append(g.Sections, section)
	g.Header.NumberOfSections++
	return section
}

// AddSymbol registers a symbol with external storage class, the format's
// default for linker-visible names. Adjust the returned symbol's
// StorageClass before Emit for anything else. section is the 1-based
// index of the section the symbol refers to, 0 for an undefined
// external. Names longer than 8 bytes go to the shared string table
// here, at registration time.
func (g *Generator) AddSymbol(name string, value uint32, section uint16, typ uint16) *Symbol {
	sym := &Symbol{
		Name:          name,
		Value:         value,
		SectionNumber: section,
		Type:          typ,
		StorageClass:  ClassExternal,
	}
	if len(name) > 8 {
		sym.NameOffset = g.AddString(name)
	}

	g.Symbols = append(g.Symbols, sym)
	g.Header.NumberOfSymbols++
	return sym
}

// AddString appends s plus a zero terminator to the shared string table
// and returns the offset of the string body.
func (g *Generator) AddString(s string) uint32 {
	return g.Strings.Add(s)
}

// Emit lays the whole object out into one buffer.
//
// Section headers and the file header contain pointers to regions that
// are only placed later in the same buffer, so the pass writes forward
// and patches backward: it reserves fixed-size records first, then
// overwrites their pointer fields once the dependent region's start
// offset is the current buffer length. The order is fixed: file header
// placeholder, section headers, section data, relocation tables, symbol
// table, string table, and finally the real file header over the
// placeholder.
//
// Emit validates nothing and always succeeds; it may be called again
// after further mutation, and only the header timestamp differs between
// two emissions of an unchanged generator.
func (g *Generator) Emit() []byte {
	out := make([]byte, FileHeaderSize)

	shdrs := make([]int, len(g.Sections))
	for i, section := range g.Sections {
		shdrs[i] = len(out)
		out = append(out, section.SerializeHeader()...)
	}

	for i, section := range g.Sections {
		binary.LittleEndian.PutUint32(out[shdrs[i]+20:], uint32(len(out)))
		out = append(out, section.Data...)
	}

	for i, section := range g.Sections {
		if len(section.Relocations) == 0 {
			continue
		}
		binary.LittleEndian.PutUint32(out[shdrs[i]+24:], uint32(len(out)))
		for _, rel := range section.Relocations {
			out = append(out, rel.Serialize()...)
		}
	}

	g.Header.PointerToSymbolTable = uint32(len(out))
	for _, sym := range g.Symbols {
		out = append(out, sym.Serialize()...)
	}

	out = append(out, g.Strings.Bytes()...)

	copy(out[:FileHeaderSize], g.Header.Serialize())

	return out
}

// Validate checks the cross references Emit takes on faith: every
// relocation offset against its section's data bounds, every relocation
// symbol index against the symbol table, and every symbol's section
// number against the section list.
func (g *Generator) Validate() error {
	for _, section := range g.Sections {
		for i, rel := range section.Relocations {
			if rel.VirtualAddress >= uint32(len(section.Data)) {
				return errors.Wrapf(ErrBounds, "section %q relocation %d: offset %d, data size %d",
					section.Name, i, rel.VirtualAddress, len(section.Data))
			}
			if rel.SymbolTableIndex >= uint32(len(g.Symbols)) {
				return errors.Wrapf(ErrBadIndex, "section %q relocation %d: symbol %d of %d",
					section.Name, i, rel.SymbolTableIndex, len(g.Symbols))
			}
		}
	}

	for i, sym := range g.Symbols {
		if sym.SectionNumber > uint16(len(g.Sections)) {
			return errors.Wrapf(ErrBadIndex, "symbol %d %q: section %d of %d",
				i, sym.Name, sym.SectionNumber, len(g.Sections))
		}
	}

	return nil
}

// EmitStrict is Emit behind Validate, for callers that prefer a failed
// build over a structurally valid but unlinkable object.
func (g *Generator) EmitStrict() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g.Emit(), nil
}
