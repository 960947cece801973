package coff

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Symbol is one raw IMAGE_SYMBOL record. Auxiliary records that follow a
// symbol occupy slots of their own in File.Symbols.
type Symbol struct {
	Name               [8]byte
	Value              uint32
	SectionNumber      int16
	Type               uint16
	StorageClass       uint8
	NumberOfAuxSymbols uint8
}

// IsLongName reports whether the name lives in the string table.
func (s *Symbol) IsLongName() bool {
	return s.Name[0] == 0 && s.Name[1] == 0 && s.Name[2] == 0 && s.Name[3] == 0
}

func (s *Symbol) nameOffset() uint32 {
	return binary.LittleEndian.Uint32(s.Name[4:])
}

// IsExported reports whether the symbol is defined in one of the sections.
func (s *Symbol) IsExported() bool {
	return s.SectionNumber > 0
}

func (s *Symbol) IsExternal() bool {
	return s.StorageClass == IMAGE_SYM_CLASS_EXTERNAL
}

// IsUndefinedExternal reports whether the linker has to find s elsewhere.
// A non-zero Value on an undefined external is a common symbol.
func (s *Symbol) IsUndefinedExternal() bool {
	return s.IsExternal() && s.Value == 0 && s.SectionNumber == IMAGE_SYM_UNDEFINED
}

func (s *Symbol) IsDefinedExternal() bool {
	return s.IsExternal() && (s.Value != 0 || s.SectionNumber != IMAGE_SYM_UNDEFINED)
}

// SymbolName returns the inline name of s, or looks it up in the string
// table for long names.
func (f *File) SymbolName(s *Symbol) (string, error) {
	if !s.IsLongName() {
		return cString(s.Name[:]), nil
	}
	name, err := f.StringTable.String(s.nameOffset())
	if err != nil {
		return "", errors.WithMessage(err, "symbol name")
	}
	return name, nil
}
