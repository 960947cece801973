package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/rrlinker/coff"
	"github.com/rrlinker/coff/internal/cofftest"
)

func writeObject(t *testing.T, name string, obj *cofftest.Object) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, obj.Bytes(), 0o644))
	return path
}

var mainObject = &cofftest.Object{
	Machine: 0x8664,
	Sections: []cofftest.Section{
		{Name: ".text", Data: []byte{0xe8, 0, 0, 0, 0, 0xc3}},
		{Name: ".drectve", Data: []byte(` /DEFAULTLIB:"LIBCMT" /DEFAULTLIB:"OLDNAMES"`)},
	},
	Symbols: []cofftest.Symbol{
		{Name: ".text", SectionNumber: 1, StorageClass: coff.IMAGE_SYM_CLASS_STATIC, Aux: 1},
		{Name: "main", SectionNumber: 1, StorageClass: coff.IMAGE_SYM_CLASS_EXTERNAL},
		{Name: "_Z6helperi", StorageClass: coff.IMAGE_SYM_CLASS_EXTERNAL},
		{Name: "__imp_ExitProcess", StorageClass: coff.IMAGE_SYM_CLASS_EXTERNAL},
	},
}

var helperObject = &cofftest.Object{
	Machine:  0x8664,
	Sections: []cofftest.Section{{Name: ".text", Data: []byte{0xc3}}},
	Symbols: []cofftest.Symbol{
		{Name: "_Z6helperi", SectionNumber: 1, StorageClass: coff.IMAGE_SYM_CLASS_EXTERNAL},
		{Name: "counter", Value: 4, StorageClass: coff.IMAGE_SYM_CLASS_EXTERNAL},
		{Name: "puts", StorageClass: coff.IMAGE_SYM_CLASS_EXTERNAL},
	},
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"a.obj", "b.obj"})
	require.NoError(t, err)
	require.Equal(t, []string{"a.obj", "b.obj"}, cfg.files)
	require.True(t, cfg.header)
	require.True(t, cfg.exports)
	require.True(t, cfg.imports)
	require.False(t, cfg.sections)

	cfg, err = parseFlags([]string{"--sections", "--demangle=full", "-v", "a.obj"})
	require.NoError(t, err)
	require.True(t, cfg.sections)
	require.True(t, cfg.verbose)
	require.False(t, cfg.header)
	require.Equal(t, "full", cfg.demangle)

	_, err = parseFlags([]string{"--exports"})
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	path := writeObject(t, "main.obj", mainObject)
	cfg := config{
		header:     true,
		sections:   true,
		symbols:    true,
		exports:    true,
		imports:    true,
		defaultLib: true,
		section:    ".text",
		demangle:   "full",
		files:      []string{path},
	}
	var out, logs bytes.Buffer
	require.NoError(t, run(cfg, log.NewLogfmtLogger(&logs), &out))

	s := out.String()
	require.Contains(t, s, path+":")
	require.Contains(t, s, "amd64")
	require.Contains(t, s, "sha256:")
	require.Contains(t, s, ".drectve")
	require.Contains(t, s, "main\n")
	require.Contains(t, s, "helper(int)\n")
	require.Contains(t, s, "__imp_ExitProcess\n")
	require.Contains(t, s, "libcmt\n")
	require.Contains(t, s, "oldnames\n")
	require.Contains(t, s, "e8 00 00 00 00 c3")
	require.Contains(t, logs.String(), "ignoring aux symbols")
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	logger := log.NewNopLogger()

	err := run(config{files: []string{filepath.Join(t.TempDir(), "missing.obj")}}, logger, &out)
	require.ErrorIs(t, err, os.ErrNotExist)

	short := filepath.Join(t.TempDir(), "short.obj")
	require.NoError(t, os.WriteFile(short, []byte{1, 2, 3}, 0o644))
	err = run(config{header: true, files: []string{short}}, logger, &out)
	require.ErrorIs(t, err, coff.ErrTruncated)

	path := writeObject(t, "main.obj", mainObject)
	err = run(config{section: ".nope", files: []string{path}}, logger, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), `no section ".nope"`)
}

var errClosed = errors.New("closed")

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errClosed }

func TestDumpWriteErrors(t *testing.T) {
	path := writeObject(t, "main.obj", mainObject)
	f, err := coff.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d := &dumper{w: errWriter{}}
	require.ErrorIs(t, d.header(f), errClosed)
	require.ErrorIs(t, d.sections(f), errClosed)
	require.ErrorIs(t, d.symbols(f), errClosed)
	require.ErrorIs(t, d.dump(f, config{symbols: true}), errClosed)
}

func TestUnresolved(t *testing.T) {
	a := writeObject(t, "main.obj", mainObject)
	b := writeObject(t, "helper.obj", helperObject)

	var files []*coff.File
	for _, path := range []string{a, b} {
		f, err := coff.Open(path)
		require.NoError(t, err)
		defer f.Close()
		files = append(files, f)
	}

	names, err := unresolved(files)
	require.NoError(t, err)
	require.Equal(t, []string{"__imp_ExitProcess", "puts"}, names)

	names, err = unresolved(files[:1])
	require.NoError(t, err)
	require.Equal(t, []string{"_Z6helperi", "__imp_ExitProcess"}, names)

	var out bytes.Buffer
	cfg := config{unresolved: true, files: []string{a, b}}
	require.NoError(t, run(cfg, log.NewNopLogger(), &out))
	require.True(t, strings.HasSuffix(out.String(), "unresolved:\n  __imp_ExitProcess\n  puts\n"))
}

func TestDemangleName(t *testing.T) {
	require.Equal(t, "helper(int)", demangleName("_Z6helperi", demangleFull))
	require.Equal(t, "helper", demangleName("_Z6helperi", demangleSimplified))
	require.Equal(t, "helper(int)", demangleName("__Z6helperi", demangleFull))
	require.Equal(t, "?foo@@YAXXZ", demangleName("?foo@@YAXXZ", demangleFull))
	require.Equal(t, "plain", demangleName("plain", demangleFull))

	require.Nil(t, demangleOptions("none"))
	require.Nil(t, demangleOptions(""))
	require.Equal(t, demangleTemplates, demangleOptions("templates"))
}

func TestParseCodepage(t *testing.T) {
	require.Equal(t, 932, parseCodepage(strings.NewReader("Active code page: 932\r\n")))
	require.Equal(t, -1, parseCodepage(strings.NewReader("\n")))

	enc, ok := codepageEncoding(932)
	require.True(t, ok)
	require.Equal(t, japanese.ShiftJIS, enc)
	_, ok = codepageEncoding(437)
	require.False(t, ok)
}
