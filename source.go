package coff

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// readChunk bounds the buffer allocated up front when r cannot report its
// size. Larger reads grow with the bytes actually returned.
const readChunk = 64 << 10

// sizer is implemented by *io.SectionReader and *bytes.Reader.
type sizer interface {
	Size() int64
}

// readAt reads exactly n bytes at off. A short read is ErrTruncated.
func readAt(r io.ReaderAt, off int64, n int64) ([]byte, error) {
	if off < 0 || n < 0 {
		return nil, ErrTruncated
	}
	if sz, ok := r.(sizer); ok {
		if off+n > sz.Size() {
			return nil, ErrTruncated
		}
	} else if n > readChunk {
		return readAll(r, off, n)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	read, err := r.ReadAt(buf, off)
	if int64(read) == n {
		// io.ReaderAt may report io.EOF together with a full read
		return buf, nil
	}
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, ErrTruncated
	}
	return nil, errors.WithMessagef(err, "read %d bytes at %#x", n, off)
}

// readAll reads n bytes at off from a reader of unknown size.
func readAll(r io.ReaderAt, off int64, n int64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(readChunk)
	read, err := buf.ReadFrom(io.NewSectionReader(r, off, n))
	if err != nil {
		return nil, errors.WithMessagef(err, "read %d bytes at %#x", n, off)
	}
	if read != n {
		return nil, ErrTruncated
	}
	return buf.Bytes(), nil
}

// decode fills data from little-endian records in buf.
func decode(buf []byte, data interface{}) error {
	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, data)
}

// readStruct decodes little-endian records of total size bytes at off.
func readStruct(r io.ReaderAt, off int64, size int64, data interface{}) error {
	buf, err := readAt(r, off, size)
	if err != nil {
		return err
	}
	return decode(buf, data)
}
