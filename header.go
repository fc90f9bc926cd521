// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package symhdr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteHeader generates one C header for f under outDir, named after the
// object file's base name with a ".h" extension. The path written is
// returned for reporting.
func WriteHeader(outDir string, f *ObjectFile) (string, error) {
	base := baseName(f.Path)
	path := filepath.Join(outDir, base+".h")
	if err := os.WriteFile(path, renderHeader(base, f), 0o666); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCombinedHeader generates a single C header declaring every file's
// symbols, grouped under comments naming their source object. name is used
// both for the include guard and for the file name, which gets a ".h"
// extension appended unless it already carries one.
func WriteCombinedHeader(outDir, name string, files []*ObjectFile) (string, error) {
	fileName := name
	if !strings.HasSuffix(fileName, ".h") {
		fileName += ".h"
	}
	path := filepath.Join(outDir, fileName)
	if err := os.WriteFile(path, renderCombinedHeader(name, files), 0o666); err != nil {
		return "", err
	}
	return path, nil
}

func renderHeader(base string, f *ObjectFile) []byte {
	token := guardToken(base)
	g := newHeaderGenerator()
	g.writeln("// Auto-generated header from %s.o", base)
	g.writeln("#ifndef _INCLUDE_%s_H_", token)
	g.writeln("#define _INCLUDE_%s_H_", token)
	g.writeln("")

	for _, s := range f.Symbols {
		g.declaration(s.Name)
	}

	if f.Macro != "" {
		g.writeln("")
		g.writeln("// Macros for convenience")
		for _, s := range f.Symbols {
			g.define(f.Macro, s.Name)
		}
	}

	g.writeln("")
	g.writeln("#endif // _INCLUDE_%s_H_", token)
	return g.buf.Bytes()
}

func renderCombinedHeader(name string, files []*ObjectFile) []byte {
	token := guardToken(name)
	g := newHeaderGenerator()
	g.writeln("// Auto-generated combined header from %d object files", len(files))
	g.writeln("#ifndef _INCLUDE_%s_H_", token)
	g.writeln("#define _INCLUDE_%s_H_", token)
	g.writeln("")

	for _, f := range files {
		if len(f.Symbols) == 0 {
			continue
		}
		g.writeln("// From %s", f.Path)
		for _, s := range f.Symbols {
			g.declaration(s.Name)
		}
		g.writeln("")
	}

	withMacro := 0
	for _, f := range files {
		if f.Macro != "" {
			withMacro++
		}
	}
	if withMacro > 0 {
		g.writeln("// Macros for convenience")
		for _, f := range files {
			if f.Macro == "" || len(f.Symbols) == 0 {
				continue
			}
			g.writeln("// From %s", f.Path)
			for _, s := range f.Symbols {
				g.define(f.Macro, s.Name)
			}
		}
	}

	g.writeln("")
	g.writeln("#endif // _INCLUDE_%s_H_", token)
	return g.buf.Bytes()
}

func newHeaderGenerator() *headerGenerator {
	return &headerGenerator{buf: &bytes.Buffer{}}
}

type headerGenerator struct {
	buf *bytes.Buffer
}

func (g *headerGenerator) writeln(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(g.buf, format+"\n", a...)
}

// declaration emits the extern declaration for one symbol. Names ending in
// "_size" hold the embedded blob's length and are declared as an unsigned
// int; everything else is a byte array.
func (g *headerGenerator) declaration(name string) {
	if strings.HasSuffix(name, "_size") {
		g.writeln("extern const unsigned int %s;", name)
		return
	}
	g.writeln("extern const unsigned char %s[];", name)
}

// define emits the convenience macro for one symbol: the text after the
// name's last underscore, upper-cased and glued to the macro prefix. A name
// without an underscore gets no macro.
func (g *headerGenerator) define(prefix, name string) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return
	}
	g.writeln("#define %s %s", strings.ToUpper(prefix+"_"+name[i+1:]), name)
}
