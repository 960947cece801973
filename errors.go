package coff

import "errors"

var (
	// ErrTruncated means the file ends before a structure it declares.
	ErrTruncated = errors.New("coff: truncated")
	// ErrInvalidOffset means a string table offset points outside the table.
	ErrInvalidOffset = errors.New("coff: invalid string table offset")
	// ErrUnsupportedFeature is only reported to the logger, parsing goes on.
	ErrUnsupportedFeature = errors.New("coff: unsupported feature")
)
