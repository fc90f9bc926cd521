// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package symhdr

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	elfHeaderSize  = 64
	elfSectionSize = 64
	elfSymbolSize  = 24

	// Identification and type values accepted by the decoder. Anything else
	// is an unsupported variant, not a corrupt file.
	elfClass64  = 2
	elfData2LSB = 1
	elfTypeRel  = 1
)

func openELF(filePath string) (*elfFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error when reading the object file: %w", err)
	}
	return &elfFile{data: data}, nil
}

var _ decoder = (*elfFile)(nil)

// elfFile decodes the symbol table of a 64-bit little-endian relocatable ELF
// object. Like the COFF decoder it reads fields little-endian at explicit
// byte offsets and bounds-checks every table against the file before use.
type elfFile struct {
	data  []byte
	warns []string
}

// Close drops the decode buffer.
func (e *elfFile) Close() error {
	e.data = nil
	return nil
}

func (e *elfFile) warnings() []string {
	return e.warns
}

// elfSection holds the fields of a section header the decoder consumes. The
// on-disk entry also carries type, flags, address, link, info and alignment;
// those are skipped over by offset.
type elfSection struct {
	name   uint32
	offset uint64
	size   uint64
	// entsize is the declared size of one entry for table sections.
	entsize uint64
}

// symbols reads the section header table, locates .symtab and .strtab by
// their exact names, and returns the defined symbols carrying the marker
// prefix in table order. Values wider than 32 bits and section indexes wider
// than 16 are truncated to the common symbol shape.
func (e *elfFile) symbols() ([]Symbol, error) {
	if len(e.data) < elfHeaderSize {
		return nil, ErrTruncatedHeader
	}
	if !fileMagicMatch(e.data, elfMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrUnsupportedELF)
	}
	if e.data[4] != elfClass64 {
		return nil, fmt.Errorf("%w: not a 64-bit object", ErrUnsupportedELF)
	}
	if e.data[5] != elfData2LSB {
		return nil, fmt.Errorf("%w: not little-endian", ErrUnsupportedELF)
	}
	if typ := binary.LittleEndian.Uint16(e.data[16:18]); typ != elfTypeRel {
		return nil, fmt.Errorf("%w: type %d is not a relocatable object", ErrUnsupportedELF, typ)
	}

	shoff := binary.LittleEndian.Uint64(e.data[40:48])
	shentsize := binary.LittleEndian.Uint16(e.data[58:60])
	shnum := binary.LittleEndian.Uint16(e.data[60:62])
	shstrndx := binary.LittleEndian.Uint16(e.data[62:64])

	if shnum == 0 {
		return nil, fmt.Errorf("%w: object has no sections", ErrMissingSymtab)
	}
	if shentsize < elfSectionSize {
		return nil, fmt.Errorf("%w: section header entry size %d", ErrCorruptHeader, shentsize)
	}
	shend := shoff + uint64(shnum)*uint64(shentsize)
	if shend < shoff || shend > uint64(len(e.data)) {
		return nil, fmt.Errorf("%w: section header table at %#x is beyond the end of the file", ErrCorruptHeader, shoff)
	}
	if shstrndx >= shnum {
		return nil, fmt.Errorf("%w: section name table index %d out of range", ErrCorruptHeader, shstrndx)
	}

	sections := make([]elfSection, shnum)
	for i := range sections {
		off := shoff + uint64(i)*uint64(shentsize)
		sections[i] = elfSection{
			name:    binary.LittleEndian.Uint32(e.data[off : off+4]),
			offset:  binary.LittleEndian.Uint64(e.data[off+24 : off+32]),
			size:    binary.LittleEndian.Uint64(e.data[off+32 : off+40]),
			entsize: binary.LittleEndian.Uint64(e.data[off+56 : off+64]),
		}
	}

	shstrtab, err := e.sectionData(sections[shstrndx])
	if err != nil {
		return nil, fmt.Errorf("section name table: %w", err)
	}

	var symtab, strtab *elfSection
	for i := range sections {
		if uint64(sections[i].name) >= uint64(len(shstrtab)) {
			continue
		}
		switch cstring(shstrtab, sections[i].name) {
		case ".symtab":
			symtab = &sections[i]
		case ".strtab":
			strtab = &sections[i]
		}
	}
	if symtab == nil {
		return nil, fmt.Errorf("%w: object has no .symtab section", ErrMissingSymtab)
	}
	if strtab == nil {
		return nil, fmt.Errorf("%w: object has no .strtab section", ErrMissingSymtab)
	}

	symData, err := e.sectionData(*symtab)
	if err != nil {
		return nil, fmt.Errorf(".symtab: %w", err)
	}
	strs, err := e.sectionData(*strtab)
	if err != nil {
		return nil, fmt.Errorf(".strtab: %w", err)
	}
	if symtab.entsize < elfSymbolSize {
		return nil, fmt.Errorf("%w: symbol entry size %d", ErrCorruptHeader, symtab.entsize)
	}

	var syms []Symbol
	count := uint64(len(symData)) / symtab.entsize
	for i := uint64(0); i < count; i++ {
		off := i * symtab.entsize
		nameOff := binary.LittleEndian.Uint32(symData[off : off+4])
		if nameOff == 0 {
			// Anonymous entry, most commonly the null symbol at index 0.
			continue
		}
		if uint64(nameOff) >= uint64(len(strs)) {
			e.warns = append(e.warns, fmt.Sprintf("symbol %d name offset %d is outside .strtab", i, nameOff))
			continue
		}
		name := cstring(strs, nameOff)
		if !hasMarkerPrefix(name) {
			continue
		}
		syms = append(syms, Symbol{
			Name:    name,
			Value:   uint32(binary.LittleEndian.Uint64(symData[off+8 : off+16])),
			Section: int16(binary.LittleEndian.Uint16(symData[off+6 : off+8])),
		})
	}
	return syms, nil
}

// sectionData bounds-checks a section's declared extent against the file and
// returns its bytes.
func (e *elfFile) sectionData(sh elfSection) ([]byte, error) {
	end := sh.offset + sh.size
	if end < sh.offset || end > uint64(len(e.data)) {
		return nil, fmt.Errorf("%w: section extent %#x+%#x is beyond the end of the file", ErrCorruptHeader, sh.offset, sh.size)
	}
	return e.data[sh.offset:end], nil
}
