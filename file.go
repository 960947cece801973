package coff

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// FileHeader is IMAGE_FILE_HEADER.
type FileHeader struct {
	Machine              Machine
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

// File is a parsed COFF object. All tables are read once by NewFile and
// never change afterwards, so a File can be shared between goroutines.
type File struct {
	FileHeader
	Sections    []SectionHeader
	Symbols     []Symbol
	StringTable StringTable

	name   string
	logger log.Logger
	reader io.ReaderAt
	closer io.Closer
}

type Option func(*File)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger log.Logger) Option {
	return func(f *File) {
		f.logger = logger
	}
}

// WithName sets the name the file is reported under in diagnostics.
func WithName(name string) Option {
	return func(f *File) {
		f.name = name
	}
}

// Open opens the named object file. The file stays open for SectionData
// until Close is called.
func Open(filePath string, opts ...Option) (*File, error) {
	fp, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	fi, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	opts = append([]Option{WithName(filePath)}, opts...)
	f, err := NewFile(io.NewSectionReader(fp, 0, fi.Size()), opts...)
	if err != nil {
		fp.Close()
		return nil, errors.WithMessage(err, filePath)
	}
	f.closer = fp
	return f, nil
}

// NewFile parses the header, section table, symbol table and string table
// from r, in that order. It fails as a whole if any of them is malformed.
func NewFile(r io.ReaderAt, opts ...Option) (*File, error) {
	f := &File{
		reader: r,
		logger: log.NewNopLogger(),
	}
	for _, o := range opts {
		o(f)
	}
	if err := f.readFileHeader(); err != nil {
		return nil, err
	}
	if err := f.readSectionHeaders(); err != nil {
		return nil, err
	}
	if err := f.readSymbols(); err != nil {
		return nil, err
	}
	if err := f.readStringTable(); err != nil {
		return nil, err
	}
	return f, nil
}

// Close closes the underlying file if the File was created by Open.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

func (f *File) Name() string {
	return f.name
}

func (f *File) readFileHeader() error {
	if err := readStruct(f.reader, 0, FileHeaderSize, &f.FileHeader); err != nil {
		return errors.WithMessage(err, "file header")
	}
	level.Debug(f.logger).Log("msg", "read file header", "file", f.name,
		"machine", f.Machine, "sections", f.NumberOfSections,
		"symtab", f.PointerToSymbolTable, "symbols", f.NumberOfSymbols)
	return nil
}

func (f *File) readSectionHeaders() error {
	n := int(f.NumberOfSections)
	if n == 0 {
		f.Sections = []SectionHeader{}
		return nil
	}
	// the bytes are checked before the table is allocated
	buf, err := readAt(f.reader, FileHeaderSize, int64(n)*SectionHeaderSize)
	if err != nil {
		return errors.WithMessagef(err, "%d section headers at %#x", n, FileHeaderSize)
	}
	f.Sections = make([]SectionHeader, n)
	return decode(buf, f.Sections)
}

func (f *File) readSymbols() error {
	n := int64(f.NumberOfSymbols)
	// PointerToSymbolTable means nothing without symbols
	if n == 0 {
		f.Symbols = []Symbol{}
		return nil
	}
	off := int64(f.PointerToSymbolTable)
	buf, err := readAt(f.reader, off, n*SymbolSize)
	if err != nil {
		return errors.WithMessagef(err, "%d symbols at %#x", n, off)
	}
	f.Symbols = make([]Symbol, n)
	return decode(buf, f.Symbols)
}

func (f *File) stringTableOffset() int64 {
	return int64(f.PointerToSymbolTable) + int64(f.NumberOfSymbols)*SymbolSize
}

func (f *File) readStringTable() error {
	if f.PointerToSymbolTable == 0 && f.NumberOfSymbols == 0 {
		f.StringTable = StringTable{}
		return nil
	}
	off := f.stringTableOffset()
	prefix, err := readAt(f.reader, off, stringTableSizeLen)
	if err != nil {
		return errors.WithMessagef(err, "string table size at %#x", off)
	}
	// the size counts its own four bytes
	size := binary.LittleEndian.Uint32(prefix)
	if size < stringTableSizeLen {
		level.Debug(f.logger).Log("msg", "string table size smaller than its prefix, using empty table",
			"file", f.name, "size", size)
		f.StringTable = StringTable(prefix)
		return nil
	}
	blob, err := readAt(f.reader, off, int64(size))
	if err != nil {
		return errors.WithMessagef(err, "string table of %d bytes at %#x", size, off)
	}
	f.StringTable = StringTable(blob)
	level.Debug(f.logger).Log("msg", "read string table", "file", f.name, "offset", off, "size", size)
	return nil
}
