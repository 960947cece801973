package coff

import (
	"bytes"

	"github.com/pkg/errors"
)

// StringTable is the COFF string table including its 4-byte size prefix,
// so symbol name offsets index it directly.
type StringTable []byte

// String returns the NUL-terminated string starting at off.
func (st StringTable) String(off uint32) (string, error) {
	if off < stringTableSizeLen || int64(off) >= int64(len(st)) {
		return "", errors.Wrapf(ErrInvalidOffset, "offset %d in table of %d bytes", off, len(st))
	}
	return cString(st[off:]), nil
}

// cString stops at the first NUL or at the end of b.
func cString(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		i = len(b)
	}
	return string(b[:i])
}
