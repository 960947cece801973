package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/ogier/pflag"
	"github.com/pkg/errors"

	"github.com/rrlinker/coff"
)

type config struct {
	header     bool
	sections   bool
	symbols    bool
	exports    bool
	imports    bool
	section    string
	defaultLib bool
	unresolved bool
	demangle   string
	verbose    bool
	files      []string
}

// anySelected reports whether the user picked what to print.
func (c *config) anySelected() bool {
	return c.header || c.sections || c.symbols || c.exports || c.imports ||
		c.section != "" || c.defaultLib || c.unresolved
}

func parseFlags(args []string) (config, error) {
	var cfg config
	name := filepath.Base(os.Args[0])
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.BoolVar(&cfg.header, "header", false, "print the file header")
	fs.BoolVar(&cfg.sections, "sections", false, "print the section table")
	fs.BoolVar(&cfg.symbols, "symbols", false, "print the raw symbol table")
	fs.BoolVar(&cfg.exports, "exports", false, "print symbols defined in a section")
	fs.BoolVar(&cfg.imports, "imports", false, "print undefined symbols")
	fs.StringVar(&cfg.section, "section", "", "hex dump the raw data of the named section")
	fs.BoolVar(&cfg.defaultLib, "defaultlib", false, "print libraries requested by '-defaultlib:' in '.drectve'")
	fs.BoolVar(&cfg.unresolved, "unresolved", false, "print imports of all inputs not exported by any input")
	fs.StringVar(&cfg.demangle, "demangle", "none", "demangle Itanium C++ names: none, simplified, templates or full")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s: [flags] file.obj...\n", name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		fs.Usage()
		return cfg, errors.New("no input files")
	}
	if !cfg.anySelected() {
		cfg.header = true
		cfg.exports = true
		cfg.imports = true
	}
	return cfg, nil
}

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		level.Error(logger).Log("err", err)
		os.Exit(2)
	}
	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	out := newConsoleWriter(os.Stdout)
	err = run(cfg, logger, out)
	out.Close()
	if err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}

func run(cfg config, logger log.Logger, w io.Writer) error {
	files := make([]*coff.File, 0, len(cfg.files))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, path := range cfg.files {
		f, err := coff.Open(path, coff.WithLogger(logger))
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	d := &dumper{w: w, demangle: demangleOptions(cfg.demangle)}
	for _, f := range files {
		if err := d.dump(f, cfg); err != nil {
			return errors.WithMessage(err, f.Name())
		}
	}
	if cfg.unresolved {
		names, err := unresolved(files)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "unresolved:\n")
		for _, name := range names {
			fmt.Fprintf(w, "  %s\n", d.name(name))
		}
	}
	return nil
}
