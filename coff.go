// Package coff reads classic COFF object files as produced by the Windows
// toolchain: the file header, section table, symbol table and string table.
//
// https://learn.microsoft.com/en-us/windows/win32/debug/pe-format
package coff

import "fmt"

const (
	FileHeaderSize    = 20
	SectionHeaderSize = 40
	SymbolSize        = 18

	// the string table starts with its own size
	stringTableSizeLen = 4
)

// Machine is the IMAGE_FILE_HEADER.Machine field.
type Machine uint16

const (
	IMAGE_FILE_MACHINE_UNKNOWN Machine = 0x0000
	IMAGE_FILE_MACHINE_I386    Machine = 0x014c
	IMAGE_FILE_MACHINE_ARMNT   Machine = 0x01c4
	IMAGE_FILE_MACHINE_AMD64   Machine = 0x8664
	IMAGE_FILE_MACHINE_ARM64   Machine = 0xaa64
)

var machineNames = map[Machine]string{
	IMAGE_FILE_MACHINE_UNKNOWN: "unknown",
	IMAGE_FILE_MACHINE_I386:    "i386",
	IMAGE_FILE_MACHINE_ARMNT:   "armnt",
	IMAGE_FILE_MACHINE_AMD64:   "amd64",
	IMAGE_FILE_MACHINE_ARM64:   "arm64",
}

func (m Machine) String() string {
	if s, ok := machineNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Machine(%#04x)", uint16(m))
}

// Special section numbers of a symbol.
const (
	IMAGE_SYM_UNDEFINED = 0
	IMAGE_SYM_ABSOLUTE  = -1
	IMAGE_SYM_DEBUG     = -2
)

const (
	IMAGE_SYM_CLASS_END_OF_FUNCTION  = 0x00ff
	IMAGE_SYM_CLASS_NULL             = 0x0000
	IMAGE_SYM_CLASS_AUTOMATIC        = 0x0001
	IMAGE_SYM_CLASS_EXTERNAL         = 0x0002
	IMAGE_SYM_CLASS_STATIC           = 0x0003
	IMAGE_SYM_CLASS_REGISTER         = 0x0004
	IMAGE_SYM_CLASS_EXTERNAL_DEF     = 0x0005
	IMAGE_SYM_CLASS_LABEL            = 0x0006
	IMAGE_SYM_CLASS_UNDEFINED_LABEL  = 0x0007
	IMAGE_SYM_CLASS_MEMBER_OF_STRUCT = 0x0008
	IMAGE_SYM_CLASS_ARGUMENT         = 0x0009
	IMAGE_SYM_CLASS_STRUCT_TAG       = 0x000A
	IMAGE_SYM_CLASS_MEMBER_OF_UNION  = 0x000B
	IMAGE_SYM_CLASS_UNION_TAG        = 0x000C
	IMAGE_SYM_CLASS_TYPE_DEFINITION  = 0x000D
	IMAGE_SYM_CLASS_UNDEFINED_STATIC = 0x000E
	IMAGE_SYM_CLASS_ENUM_TAG         = 0x000F
	IMAGE_SYM_CLASS_MEMBER_OF_ENUM   = 0x0010
	IMAGE_SYM_CLASS_REGISTER_PARAM   = 0x0011
	IMAGE_SYM_CLASS_BIT_FIELD        = 0x0012
	IMAGE_SYM_CLASS_FAR_EXTERNAL     = 0x0044
	IMAGE_SYM_CLASS_BLOCK            = 0x0064
	IMAGE_SYM_CLASS_FUNCTION         = 0x0065
	IMAGE_SYM_CLASS_END_OF_STRUCT    = 0x0066
	IMAGE_SYM_CLASS_FILE             = 0x0067
	IMAGE_SYM_CLASS_SECTION          = 0x0068
	IMAGE_SYM_CLASS_WEAK_EXTERNAL    = 0x0069
	IMAGE_SYM_CLASS_CLR_TOKEN        = 0x006B
)

// Section characteristics.
const (
	IMAGE_SCN_CNT_CODE               = 0x00000020
	IMAGE_SCN_CNT_INITIALIZED_DATA   = 0x00000040
	IMAGE_SCN_CNT_UNINITIALIZED_DATA = 0x00000080
	IMAGE_SCN_LNK_INFO               = 0x00000200
	IMAGE_SCN_LNK_REMOVE             = 0x00000800
	IMAGE_SCN_MEM_DISCARDABLE        = 0x02000000
	IMAGE_SCN_MEM_EXECUTE            = 0x20000000
	IMAGE_SCN_MEM_READ               = 0x40000000
	IMAGE_SCN_MEM_WRITE              = 0x80000000
)
