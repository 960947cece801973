package coff

import (
	"strconv"

	"github.com/pkg/errors"
)

// SectionHeader is IMAGE_SECTION_HEADER. Symbols refer to sections by
// 1-based index into File.Sections.
type SectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

// SectionName returns the section name. Names longer than 8 bytes are
// stored as "/" followed by a decimal string table offset.
func (f *File) SectionName(s *SectionHeader) (string, error) {
	name := cString(s.Name[:])
	if len(name) < 2 || name[0] != '/' {
		return name, nil
	}
	off, err := strconv.ParseUint(name[1:], 10, 32)
	if err != nil {
		// not a reference, e.g. "/" alone or "/foo"
		return name, nil
	}
	long, err := f.StringTable.String(uint32(off))
	if err != nil {
		return "", errors.WithMessagef(err, "section name %q", name)
	}
	return long, nil
}

// Section returns the first section called name, or nil.
func (f *File) Section(name string) *SectionHeader {
	for i := range f.Sections {
		s := &f.Sections[i]
		if n, err := f.SectionName(s); err == nil && n == name {
			return s
		}
	}
	return nil
}

// SectionData reads the raw contents of s.
func (f *File) SectionData(s *SectionHeader) ([]byte, error) {
	data, err := readAt(f.reader, int64(s.PointerToRawData), int64(s.SizeOfRawData))
	if err != nil {
		return nil, errors.WithMessagef(err, "section data of %d bytes at %#x", s.SizeOfRawData, s.PointerToRawData)
	}
	return data, nil
}
