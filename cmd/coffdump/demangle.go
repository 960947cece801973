package main

import (
	"strings"

	"github.com/ianlancetaylor/demangle"
)

var (
	demangleSimplified = []demangle.Option{demangle.NoParams, demangle.NoEnclosingParams, demangle.NoTemplateParams}
	demangleTemplates  = []demangle.Option{demangle.NoParams, demangle.NoEnclosingParams}
	demangleFull       = []demangle.Option{demangle.NoClones}
)

// demangleOptions maps the --demangle flag to options, nil meaning names
// are printed as stored.
func demangleOptions(mode string) []demangle.Option {
	switch mode {
	case "simplified":
		return demangleSimplified
	case "templates":
		return demangleTemplates
	case "full":
		return demangleFull
	default:
		return nil
	}
}

// demangleName handles the Itanium names emitted by mingw. On i386 they
// carry an extra leading underscore. MSVC "?" names are left alone.
func demangleName(name string, opts []demangle.Option) string {
	if strings.HasPrefix(name, "__Z") {
		if s, err := demangle.ToString(name[1:], opts...); err == nil {
			return s
		}
	}
	return demangle.Filter(name, opts...)
}
