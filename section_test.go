package coff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rrlinker/coff/internal/cofftest"
)

func TestSectionData(t *testing.T) {
	obj := &cofftest.Object{
		Sections: []cofftest.Section{
			{Name: ".text", Data: []byte{0x55, 0x48, 0x89, 0xe5, 0xc3}},
			{Name: ".bss", Characteristics: IMAGE_SCN_CNT_UNINITIALIZED_DATA},
			{Name: ".rdata", Data: []byte("hello\x00")},
		},
	}
	f, err := NewFile(bytes.NewReader(obj.Bytes()))
	require.NoError(t, err)
	require.Len(t, f.Sections, 3)

	for i, s := range obj.Sections {
		data, err := f.SectionData(&f.Sections[i])
		require.NoError(t, err)
		require.Equal(t, len(s.Data), len(data))
		require.True(t, bytes.Equal(s.Data, data))
	}

	// reads are repeatable and in any order
	again, err := f.SectionData(&f.Sections[0])
	require.NoError(t, err)
	require.Equal(t, obj.Sections[0].Data, again)

	empty, err := f.SectionData(&f.Sections[1])
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestSectionDataOutOfRange(t *testing.T) {
	obj := &cofftest.Object{
		Sections: []cofftest.Section{
			{Name: ".text", Data: []byte{1, 2, 3}, Size: 300},
		},
	}
	f, err := NewFile(bytes.NewReader(obj.Bytes()))
	require.NoError(t, err)

	_, err = f.SectionData(&f.Sections[0])
	require.ErrorIs(t, err, ErrTruncated)

	s := f.Sections[0]
	s.SizeOfRawData = 1
	s.PointerToRawData = 0xfffffff0
	_, err = f.SectionData(&s)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestSectionName(t *testing.T) {
	obj := &cofftest.Object{
		Sections: []cofftest.Section{
			{Name: ".text$mn"},
			{Name: ".debug$S_with_long_name"},
			{Name: "/"},
			{Name: "/notnum"},
		},
		Symbols: []cofftest.Symbol{{Name: "x"}},
	}
	f, err := NewFile(bytes.NewReader(obj.Bytes()))
	require.NoError(t, err)

	for i, s := range obj.Sections {
		name, err := f.SectionName(&f.Sections[i])
		require.NoError(t, err)
		require.Equal(t, s.Name, name)
	}
	require.Equal(t, "/4", cString(f.Sections[1].Name[:]))

	require.Equal(t, &f.Sections[1], f.Section(".debug$S_with_long_name"))
	require.Equal(t, &f.Sections[0], f.Section(".text$mn"))
	require.Nil(t, f.Section(".data"))

	bad := SectionHeader{}
	copy(bad.Name[:], "/999")
	_, err = f.SectionName(&bad)
	require.ErrorIs(t, err, ErrInvalidOffset)
}
