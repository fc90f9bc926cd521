// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCOFFObject assembles a COFF object whose symbol table holds the given
// long names, stored through the string table the way linker-emitted marker
// symbols are.
func buildCOFFObject(names ...string) []byte {
	payload := &bytes.Buffer{}
	offsets := make([]uint32, len(names))
	for i, n := range names {
		offsets[i] = uint32(4 + payload.Len())
		payload.WriteString(n)
		payload.WriteByte(0)
	}

	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, uint16(0x8664)) // machine
	_ = binary.Write(buf, binary.LittleEndian, uint16(0))      // sections
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))      // timestamp
	_ = binary.Write(buf, binary.LittleEndian, uint32(20))     // symbol table pointer
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(names)))
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // optional header size
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // characteristics
	for i := range names {
		rec := make([]byte, 18)
		binary.LittleEndian.PutUint32(rec[4:8], offsets[i])
		rec[12] = 1 // section number
		rec[16] = 2 // external storage class
		buf.Write(rec)
	}
	_ = binary.Write(buf, binary.LittleEndian, uint32(4+payload.Len()))
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

func writeObject(t *testing.T, dir, name string, names ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buildCOFFObject(names...), 0o644))
	return path
}

func TestPairArguments(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		args []string
		want []inputPair
	}{
		{"single file", []string{"a.o"}, []inputPair{{path: "a.o"}}},
		{"file with macro", []string{"a.o", "DATA"}, []inputPair{
			{path: "a.o", macro: "DATA"},
		}},
		{"macro then bare file", []string{"a.o", "DATA", "b.o"}, []inputPair{
			{path: "a.o", macro: "DATA"},
			{path: "b.o"},
		}},
		{"all paired", []string{"a.o", "A", "b.o", "B"}, []inputPair{
			{path: "a.o", macro: "A"},
			{path: "b.o", macro: "B"},
		}},
		{"dash token is not a macro", []string{"a.o", "-x"}, []inputPair{
			{path: "a.o"},
			{path: "-x"},
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(test.want, pairArguments(test.args))
		})
	}
}

func TestGenerateHeaders(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tmp := t.TempDir()
	obj := writeObject(t, tmp, "data.o",
		"_binary_data_bin_size",
		"_binary_data_bin_start",
		"_binary_data_bin_end",
	)

	outDir := filepath.Join(tmp, "include")
	root := newRootCommand()
	root.SetArgs([]string{"-d", outDir, obj, "DATA"})
	require.NoError(root.Execute())

	out, err := os.ReadFile(filepath.Join(outDir, "data.h"))
	require.NoError(err)

	want := `// Auto-generated header from data.o
#ifndef _INCLUDE_DATA_H_
#define _INCLUDE_DATA_H_

extern const unsigned int _binary_data_bin_size;
extern const unsigned char _binary_data_bin_start[];
extern const unsigned char _binary_data_bin_end[];

// Macros for convenience
#define DATA_SIZE _binary_data_bin_size
#define DATA_START _binary_data_bin_start
#define DATA_END _binary_data_bin_end

#endif // _INCLUDE_DATA_H_
`
	assert.Equal(want, string(out))
}

func TestGenerateCombinedHeader(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tmp := t.TempDir()
	data := writeObject(t, tmp, "data.o", "_binary_data_bin_start")
	font := writeObject(t, tmp, "font.o", "_binary_font_ttf_start")

	outDir := filepath.Join(tmp, "include")
	root := newRootCommand()
	root.SetArgs([]string{"-d", outDir, "-n", "assets", data, "DATA", font})
	require.NoError(root.Execute())

	out, err := os.ReadFile(filepath.Join(outDir, "assets.h"))
	require.NoError(err)

	assert.Contains(string(out), "#ifndef _INCLUDE_ASSETS_H_\n")
	assert.Contains(string(out), fmt.Sprintf("// From %s\n", data))
	assert.Contains(string(out), fmt.Sprintf("// From %s\n", font))
	assert.Contains(string(out), "#define DATA_START _binary_data_bin_start\n")

	assert.NoFileExists(filepath.Join(outDir, "data.h"), "Combined mode should not write per-file headers")
	assert.NoFileExists(filepath.Join(outDir, "font.h"))
}

func TestRunSkipsUndecodableFiles(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tmp := t.TempDir()
	good := writeObject(t, tmp, "good.o", "_binary_good_bin_start")

	outDir := filepath.Join(tmp, "include")
	root := newRootCommand()
	root.SetArgs([]string{"-d", outDir, filepath.Join(tmp, "missing.o"), good})
	require.NoError(root.Execute(), "One decodable file should be enough to succeed")

	assert.FileExists(filepath.Join(outDir, "good.h"))
}

func TestRunFailsWithNoValidFiles(t *testing.T) {
	tmp := t.TempDir()
	root := newRootCommand()
	root.SetArgs([]string{"-d", filepath.Join(tmp, "include"), filepath.Join(tmp, "missing.o")})
	err := root.Execute()
	assert.Error(t, err)
	assert.ErrorContains(t, err, "missing.o")
}

func TestRunRequiresDirFlag(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"whatever.o"})
	assert.Error(t, root.Execute())
}
