package coff

import (
	"path"
	"regexp"
	"strings"
)

var defaultLibDirective = regexp.MustCompile(`(?i)[-/]defaultlib:("[^"]*"|[^\s"]+)`)

// DefaultLibs returns the libraries named by -defaultlib: directives in the
// .drectve section, lowercased and without extension. An object without
// .drectve has none.
func (f *File) DefaultLibs() ([]string, error) {
	section := f.Section(".drectve")
	if section == nil {
		return []string{}, nil
	}
	data, err := f.SectionData(section)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, m := range defaultLibDirective.FindAllSubmatch(data, -1) {
		name := strings.Trim(string(m[1]), `"`)
		name = strings.ReplaceAll(name, `\`, "/")
		name = strings.ToLower(path.Base(name))
		if ext := path.Ext(name); ext != "" {
			name = strings.TrimSuffix(name, ext)
		}
		if name == "" || name == "." {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
