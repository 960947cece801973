package coff

import (
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// WalkSymbols calls fn for every primary symbol with its index in
// f.Symbols. Auxiliary records are stepped over, so the cursor can advance
// by more than one slot. Walking stops at the first error fn returns.
func (f *File) WalkSymbols(fn func(i int, s *Symbol) error) error {
	for i := 0; i < len(f.Symbols); i++ {
		s := &f.Symbols[i]
		if err := fn(i, s); err != nil {
			return err
		}
		if s.NumberOfAuxSymbols > 0 {
			level.Warn(f.logger).Log("msg", "ignoring aux symbols", "file", f.name,
				"count", s.NumberOfAuxSymbols, "index", i, "err", ErrUnsupportedFeature)
			i += int(s.NumberOfAuxSymbols)
		}
	}
	return nil
}

// Exports maps the names of symbols defined in a section to their values.
// If a name occurs twice the later symbol wins.
func (f *File) Exports() (map[string]uint32, error) {
	exports := make(map[string]uint32)
	err := f.WalkSymbols(func(i int, s *Symbol) error {
		if !s.IsExported() {
			return nil
		}
		name, err := f.SymbolName(s)
		if err != nil {
			return errors.WithMessagef(err, "symbol %d", i)
		}
		exports[name] = s.Value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exports, nil
}

// Imports lists the names of undefined, absolute and debug symbols in
// symbol table order.
func (f *File) Imports() ([]string, error) {
	imports := []string{}
	err := f.WalkSymbols(func(i int, s *Symbol) error {
		if s.IsExported() {
			return nil
		}
		name, err := f.SymbolName(s)
		if err != nil {
			return errors.WithMessagef(err, "symbol %d", i)
		}
		imports = append(imports, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return imports, nil
}
