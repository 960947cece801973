package coff

import (
	"sort"
)

// StringSet collects symbol names.
type StringSet struct {
	values map[string]struct{}
}

func NewStringSet(values ...string) *StringSet {
	s := &StringSet{values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.Put(v)
	}
	return s
}

func (s *StringSet) Put(v string) {
	s.values[v] = struct{}{}
}

func (s *StringSet) SortedValues() []string {
	ret := make([]string, 0, len(s.values))
	for v := range s.values {
		ret = append(ret, v)
	}
	sort.Strings(ret)
	return ret
}

// Subtract removes every value of other from s.
func (s *StringSet) Subtract(other *StringSet) {
	for v := range other.values {
		delete(s.values, v)
	}
}
