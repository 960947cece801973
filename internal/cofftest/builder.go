// Package cofftest assembles small COFF objects in memory for tests.
package cofftest

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	fileHeaderSize    = 20
	sectionHeaderSize = 40
	symbolSize        = 18
)

type Section struct {
	Name            string
	Data            []byte
	Characteristics uint32
	// Size overrides len(Data) in the header when non-zero.
	Size uint32
}

type Symbol struct {
	Name          string
	Value         uint32
	SectionNumber int16
	StorageClass  uint8
	// Aux zero-filled auxiliary records follow the symbol.
	Aux uint8
	// LongName forces the name into the string table.
	LongName bool
}

type Object struct {
	Machine  uint16
	Sections []Section
	Symbols  []Symbol
	// NoStringTable leaves the string table out entirely.
	NoStringTable bool
}

// Layout describes where Build put things.
type Layout struct {
	SymbolTable     uint32
	NumberOfSymbols uint32
	StringTable     uint32
	// SectionData holds the raw data offset of every section.
	SectionData []uint32
}

// Build returns the object image. Sections are laid out after the section
// table, followed by the symbol table and the string table.
func (o *Object) Build() ([]byte, Layout) {
	var layout Layout
	strtab := newStringTable()

	dataOff := uint32(fileHeaderSize + sectionHeaderSize*len(o.Sections))
	var data bytes.Buffer
	for _, s := range o.Sections {
		layout.SectionData = append(layout.SectionData, dataOff+uint32(data.Len()))
		data.Write(s.Data)
	}

	layout.SymbolTable = dataOff + uint32(data.Len())
	var symtab bytes.Buffer
	for _, s := range o.Symbols {
		var name [8]byte
		if s.LongName || len(s.Name) > 8 {
			binary.LittleEndian.PutUint32(name[4:], strtab.add(s.Name))
		} else {
			copy(name[:], s.Name)
		}
		symtab.Write(name[:])
		writeLE(&symtab, s.Value, s.SectionNumber, uint16(0), s.StorageClass, s.Aux)
		symtab.Write(make([]byte, symbolSize*int(s.Aux)))
		layout.NumberOfSymbols += 1 + uint32(s.Aux)
	}
	layout.StringTable = layout.SymbolTable + uint32(symtab.Len())
	if len(o.Symbols) == 0 {
		layout.SymbolTable = 0
	}

	var sections bytes.Buffer
	for i, s := range o.Sections {
		var name [8]byte
		if len(s.Name) > 8 {
			copy(name[:], fmt.Sprintf("/%d", strtab.add(s.Name)))
		} else {
			copy(name[:], s.Name)
		}
		size := s.Size
		if size == 0 {
			size = uint32(len(s.Data))
		}
		sections.Write(name[:])
		writeLE(&sections,
			uint32(0), uint32(0), // VirtualSize, VirtualAddress
			size, layout.SectionData[i],
			uint32(0), uint32(0), // relocations, line numbers
			uint16(0), uint16(0),
			s.Characteristics)
	}

	var out bytes.Buffer
	writeLE(&out,
		o.Machine,
		uint16(len(o.Sections)),
		uint32(0), // TimeDateStamp
		layout.SymbolTable,
		layout.NumberOfSymbols,
		uint16(0), // SizeOfOptionalHeader
		uint16(0), // Characteristics
	)
	out.Write(sections.Bytes())
	out.Write(data.Bytes())
	out.Write(symtab.Bytes())
	if !o.NoStringTable {
		out.Write(strtab.bytes())
	}
	return out.Bytes(), layout
}

// Bytes is Build without the layout.
func (o *Object) Bytes() []byte {
	b, _ := o.Build()
	return b
}

type stringTable struct {
	buf bytes.Buffer
}

func newStringTable() *stringTable {
	t := &stringTable{}
	t.buf.Write([]byte{0, 0, 0, 0})
	return t
}

func (t *stringTable) add(s string) uint32 {
	off := uint32(t.buf.Len())
	t.buf.WriteString(s)
	t.buf.WriteByte(0)
	return off
}

func (t *stringTable) bytes() []byte {
	b := t.buf.Bytes()
	binary.LittleEndian.PutUint32(b, uint32(len(b)))
	return b
}

func writeLE(buf *bytes.Buffer, values ...interface{}) {
	for _, v := range values {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
}
