// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package symhdr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

const (
	// A COFF object header is 20 bytes; every symbol-table record, primary
	// or auxiliary, is 18.
	coffHeaderSize = 20
	coffSymbolSize = 18

	// maxCOFFSymbols caps the declared symbol count. The count field in a
	// garbage header is attacker-chosen; without a ceiling it drives the
	// record loop across the whole 32-bit range before the first short read
	// stops it.
	maxCOFFSymbols = 1000000
)

func openCOFF(filePath string) (*coffFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error when reading the object file: %w", err)
	}
	return &coffFile{data: data}, nil
}

var _ decoder = (*coffFile)(nil)

// coffFile decodes the symbol table of a Microsoft COFF object. All record
// fields are read little-endian at explicit byte offsets; nothing is overlaid
// on in-memory structs.
type coffFile struct {
	data  []byte
	warns []string
}

// Close drops the decode buffer. The file handle itself is only held while
// the buffer is read.
func (c *coffFile) Close() error {
	c.data = nil
	return nil
}

func (c *coffFile) warnings() []string {
	return c.warns
}

// symbols walks the symbol table named by the object header and returns the
// records carrying the marker prefix, in table order.
//
// Decoding is deliberately tolerant at the record level: a file cut off in
// the middle of the table yields the symbols read before the cut as a
// successful partial result, and a long name pointing outside the string
// table drops only that record. Header-level problems, a declared symbol
// count past the ceiling or a table pointer beyond the end of the file, fail
// the whole file.
func (c *coffFile) symbols() ([]Symbol, error) {
	if len(c.data) < coffHeaderSize {
		return nil, ErrTruncatedHeader
	}
	// Open never routes ELF input here, but the COFF decoder is also the
	// fallback for anything without a recognized magic, so recheck.
	if fileMagicMatch(c.data, elfMagic) {
		return nil, ErrNotCOFF
	}

	symPtr := binary.LittleEndian.Uint32(c.data[8:12])
	symCount := binary.LittleEndian.Uint32(c.data[12:16])

	if symCount == 0 {
		return nil, nil
	}
	if symCount > maxCOFFSymbols {
		return nil, fmt.Errorf("%w: %d symbols declared", ErrCorruptHeader, symCount)
	}
	if uint64(symPtr) >= uint64(len(c.data)) {
		return nil, fmt.Errorf("%w: symbol table at %#x is beyond the end of the file", ErrCorruptHeader, symPtr)
	}

	strTable := c.stringTable(symPtr, symCount)

	var syms []Symbol
	for i := uint32(0); i < symCount; i++ {
		off := uint64(symPtr) + uint64(i)*coffSymbolSize
		if off+coffSymbolSize > uint64(len(c.data)) {
			// Table cut off mid-record. Keep what was collected.
			break
		}
		rec := c.data[off : off+coffSymbolSize]

		name, ok := c.symbolName(rec[:8], strTable)
		if ok && hasMarkerPrefix(name) {
			syms = append(syms, Symbol{
				Name:         name,
				Value:        binary.LittleEndian.Uint32(rec[8:12]),
				Section:      int16(binary.LittleEndian.Uint16(rec[12:14])),
				StorageClass: rec[16],
			})
		}

		// Auxiliary records are structurally indistinguishable from primary
		// ones and carry no name of their own. Skip them so the next
		// iteration lands on a record boundary again.
		i += uint32(rec[17])
	}
	return syms, nil
}

// stringTable returns the symbol string table, its own 4 length bytes
// included since long-name offsets count from the table start. The result is
// nil when the table is absent and clamped to the file when the declared
// length overshoots it. Either way the table being short is not fatal: a
// file truncated inside the symbol table must still yield the records before
// the cut, so name resolution degrades per record instead.
func (c *coffFile) stringTable(symPtr, symCount uint32) []byte {
	off := uint64(symPtr) + uint64(symCount)*coffSymbolSize
	if off+4 > uint64(len(c.data)) {
		return nil
	}
	size := uint64(binary.LittleEndian.Uint32(c.data[off : off+4]))
	if size <= 4 {
		// The length field counts itself; 4 or less means no string data.
		return nil
	}
	end := off + size
	if end > uint64(len(c.data)) {
		end = uint64(len(c.data))
	}
	return c.data[off:end]
}

// symbolName resolves the 8-byte name field of a symbol record. A short name
// is stored inline, padded to 8 bytes, and is trimmed of trailing spaces. A
// long name leaves the first four bytes zero and stores a string-table
// offset in the remaining four. ok is false when a long name points outside
// the table; the record is dropped with a warning, since the placeholder
// name the offset would produce can never carry the marker prefix anyway.
func (c *coffFile) symbolName(field, strTable []byte) (name string, ok bool) {
	if binary.LittleEndian.Uint32(field[:4]) == 0 {
		off := binary.LittleEndian.Uint32(field[4:8])
		if uint64(off) >= uint64(len(strTable)) {
			c.warns = append(c.warns, fmt.Sprintf("symbol name ?offset=%d is outside the string table", off))
			return "", false
		}
		return cstring(strTable, off), true
	}

	short := field
	if i := bytes.IndexByte(short, 0); i >= 0 {
		short = short[:i]
	}
	return string(bytes.TrimRight(short, " ")), true
}
