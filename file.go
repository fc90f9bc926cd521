// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

// Package symhdr extracts embedded-binary-data symbols from relocatable
// object files and generates C headers declaring them.
//
// An object-copy step that wraps a raw blob into a linkable object emits a
// triad of symbols named <name>_start, <name>_end and <name>_size. This
// package decodes the symbol tables of Microsoft COFF, 64-bit little-endian
// ELF and Mach-O objects, keeps the symbols carrying the _binary_ marker
// prefix, and renders extern declarations plus optional convenience macros
// for them.
package symhdr

import (
	"bytes"
	"errors"
	"io"
	"os"
)

var (
	elfMagic       = []byte{0x7f, 0x45, 0x4c, 0x46}
	machoMagic1    = []byte{0xfe, 0xed, 0xfa, 0xce}
	machoMagic2    = []byte{0xfe, 0xed, 0xfa, 0xcf}
	machoMagic3    = []byte{0xce, 0xfa, 0xed, 0xfe}
	machoMagic4    = []byte{0xcf, 0xfa, 0xed, 0xfe}
	maxMagicBufLen = 4
)

// ObjectFile is the extraction result for one input file.
type ObjectFile struct {
	// Path is the file path as given, echoed verbatim in generated comments.
	Path string
	// Macro is the optional prefix for convenience macros. Empty means no
	// macros are generated for this file's symbols.
	Macro string
	// Symbols holds the filtered symbols in symbol-table order. That order
	// determines declaration order in generated headers.
	Symbols []Symbol
	// Warnings collects non-fatal per-symbol diagnostics gathered during
	// decoding, such as name offsets pointing outside the string table.
	Warnings []string
}

// Open decodes the symbol table of the object file at filePath and returns
// the embedded-binary-data symbols it declares.
//
// The file's format is classified from its first 4 bytes: the ELF magic
// selects the ELF decoder, a Mach-O magic selects the Mach-O decoder, and
// anything else is treated as a COFF candidate since COFF has no
// distinguishing magic of its own. The probe handle is closed before the
// selected decoder re-opens the file, so each decode owns a fresh handle.
func Open(filePath string) (*ObjectFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, maxMagicBufLen)
	n, err := f.Read(buf)
	f.Close()
	// An empty file reports EOF with nothing read; that is the same
	// too-short case as a 1-3 byte file, not an I/O failure.
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n < maxMagicBufLen {
		return nil, ErrNotEnoughBytesRead
	}

	var dec decoder
	if fileMagicMatch(buf, elfMagic) {
		dec, err = openELF(filePath)
	} else if fileMagicMatch(buf, machoMagic1) || fileMagicMatch(buf, machoMagic2) || fileMagicMatch(buf, machoMagic3) || fileMagicMatch(buf, machoMagic4) {
		dec, err = openMachO(filePath)
	} else {
		dec, err = openCOFF(filePath)
	}
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	syms, err := dec.symbols()
	if err != nil {
		return nil, err
	}

	return &ObjectFile{
		Path:     filePath,
		Symbols:  syms,
		Warnings: dec.warnings(),
	}, nil
}

// decoder is the single capability a format backend provides: one pass over
// the file's symbol table. Implementations own whatever file state they
// opened; Close releases it on every path, decode success or failure.
type decoder interface {
	io.Closer
	symbols() ([]Symbol, error)
	warnings() []string
}

func fileMagicMatch(buf, magic []byte) bool {
	return bytes.HasPrefix(buf, magic)
}
