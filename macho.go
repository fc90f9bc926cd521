// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package symhdr

import (
	"fmt"
	"io"
	"os"

	"github.com/blacktop/go-macho"
)

func openMachO(filePath string) (*machoFile, error) {
	osFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error when opening the file: %w", err)
	}
	f, err := parseMachO(osFile)
	if err != nil {
		osFile.Close()
		return nil, err
	}
	return &machoFile{file: f, osFile: osFile}, nil
}

// parseMachO wraps the go-macho parser. It can panic on malformed load
// commands, so recover and surface that as an error instead of taking down
// the whole batch.
func parseMachO(r io.ReaderAt) (f *macho.File, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("error when processing Mach-O file, probably corrupt: %s", p)
		}
	}()
	f, err = macho.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("error when parsing the Mach-O file: %w", err)
	}
	return f, nil
}

var _ decoder = (*machoFile)(nil)

// machoFile extracts symbols from a Mach-O object. Unlike the COFF and ELF
// decoders it leans on go-macho for the load-command walk and keeps the file
// handle open for the parser's reads.
type machoFile struct {
	file   *macho.File
	osFile *os.File
}

func (m *machoFile) Close() error {
	err := m.file.Close()
	if err != nil {
		return err
	}
	return m.osFile.Close()
}

func (m *machoFile) warnings() []string {
	return nil
}

// symbols returns the symtab entries carrying the marker prefix, in table
// order. Stab debug entries are skipped. Values are truncated to 32 bits and
// the section ordinal to 16, matching the common symbol shape.
func (m *machoFile) symbols() ([]Symbol, error) {
	if m.file.Symtab == nil {
		return nil, fmt.Errorf("%w: object has no symtab load command", ErrMissingSymtab)
	}

	const stabTypeMask = 0xe0

	var syms []Symbol
	for _, s := range m.file.Symtab.Syms {
		if s.Type&stabTypeMask != 0 {
			// Skip stab debug info.
			continue
		}
		if !hasMarkerPrefix(s.Name) {
			continue
		}
		syms = append(syms, Symbol{
			Name:    s.Name,
			Value:   uint32(s.Value),
			Section: int16(s.Sect),
		})
	}
	return syms, nil
}
