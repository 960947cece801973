package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/ianlancetaylor/demangle"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/rrlinker/coff"
)

type dumper struct {
	w        io.Writer
	demangle []demangle.Option
}

func (d *dumper) name(s string) string {
	if d.demangle == nil {
		return s
	}
	return demangleName(s, d.demangle)
}

func (d *dumper) dump(f *coff.File, cfg config) error {
	fmt.Fprintf(d.w, "%s:\n", f.Name())
	if cfg.header {
		if err := d.header(f); err != nil {
			return err
		}
	}
	if cfg.sections {
		if err := d.sections(f); err != nil {
			return err
		}
	}
	if cfg.symbols {
		if err := d.symbols(f); err != nil {
			return err
		}
	}
	if cfg.exports {
		if err := d.exports(f); err != nil {
			return err
		}
	}
	if cfg.imports {
		if err := d.imports(f); err != nil {
			return err
		}
	}
	if cfg.defaultLib {
		if err := d.defaultLibs(f); err != nil {
			return err
		}
	}
	if cfg.section != "" {
		if err := d.sectionData(f, cfg.section); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) header(f *coff.File) error {
	sum, err := sha256sum(f.Name())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(d.w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "  machine:\t%s\n", f.Machine)
	fmt.Fprintf(tw, "  sections:\t%d\n", f.NumberOfSections)
	fmt.Fprintf(tw, "  timestamp:\t%s\n", time.Unix(int64(f.TimeDateStamp), 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "  symbol table:\t%#x\n", f.PointerToSymbolTable)
	fmt.Fprintf(tw, "  symbols:\t%d\n", f.NumberOfSymbols)
	fmt.Fprintf(tw, "  string table:\t%d bytes\n", len(f.StringTable))
	fmt.Fprintf(tw, "  characteristics:\t%#04x\n", f.Characteristics)
	fmt.Fprintf(tw, "  sha256:\t%s\n", sum)
	return tw.Flush()
}

func (d *dumper) sections(f *coff.File) error {
	tw := tabwriter.NewWriter(d.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  #\tname\tsize\toffset\trelocs\tflags\n")
	for i := range f.Sections {
		s := &f.Sections[i]
		name, err := f.SectionName(s)
		if err != nil {
			name = fmt.Sprintf("<%v>", err)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%#x\t%#x\t%d\t%#08x\n",
			i+1, name, s.SizeOfRawData, s.PointerToRawData, s.NumberOfRelocations, s.Characteristics)
	}
	return tw.Flush()
}

func (d *dumper) symbols(f *coff.File) error {
	tw := tabwriter.NewWriter(d.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  #\tvalue\tsection\tclass\taux\tname\n")
	err := f.WalkSymbols(func(i int, s *coff.Symbol) error {
		name, err := f.SymbolName(s)
		if err != nil {
			name = fmt.Sprintf("<%v>", err)
		}
		fmt.Fprintf(tw, "  %d\t%#08x\t%d\t%#02x\t%d\t%s\n",
			i, s.Value, s.SectionNumber, s.StorageClass, s.NumberOfAuxSymbols, d.name(name))
		return nil
	})
	if err != nil {
		return errors.WithMessage(err, "symbols")
	}
	return tw.Flush()
}

func (d *dumper) exports(f *coff.File) error {
	exports, err := f.Exports()
	if err != nil {
		return errors.WithMessage(err, "exports")
	}
	names := lo.Keys(exports)
	sort.Strings(names)
	fmt.Fprintf(d.w, "  exports:\n")
	for _, name := range names {
		fmt.Fprintf(d.w, "    %#08x %s\n", exports[name], d.name(name))
	}
	return nil
}

func (d *dumper) imports(f *coff.File) error {
	imports, err := f.Imports()
	if err != nil {
		return errors.WithMessage(err, "imports")
	}
	fmt.Fprintf(d.w, "  imports:\n")
	for _, name := range imports {
		fmt.Fprintf(d.w, "    %s\n", d.name(name))
	}
	return nil
}

func (d *dumper) defaultLibs(f *coff.File) error {
	libs, err := f.DefaultLibs()
	if err != nil {
		return errors.WithMessage(err, "defaultlib")
	}
	fmt.Fprintf(d.w, "  defaultlib:\n")
	for _, lib := range libs {
		fmt.Fprintf(d.w, "    %s\n", lib)
	}
	return nil
}

func (d *dumper) sectionData(f *coff.File, name string) error {
	s := f.Section(name)
	if s == nil {
		return errors.Errorf("no section %q", name)
	}
	data, err := f.SectionData(s)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.w, "  %s (%d bytes):\n", name, len(data))
	hd := hex.Dumper(d.w)
	defer hd.Close()
	_, err = hd.Write(data)
	return err
}

// unresolved returns the sorted undefined externals of all files that no
// file defines.
func unresolved(files []*coff.File) ([]string, error) {
	imports := coff.NewStringSet()
	exports := coff.NewStringSet()
	for _, f := range files {
		err := f.WalkSymbols(func(_ int, s *coff.Symbol) error {
			if !s.IsExternal() {
				return nil
			}
			name, err := f.SymbolName(s)
			if err != nil {
				return err
			}
			if s.IsUndefinedExternal() {
				imports.Put(name)
			} else {
				exports.Put(name)
			}
			return nil
		})
		if err != nil {
			return nil, errors.WithMessage(err, f.Name())
		}
	}
	imports.Subtract(exports)
	return imports.SortedValues(), nil
}
