// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package symhdr

import "strings"

// MarkerPrefix is the name prefix an object-copy step gives the symbols that
// wrap an embedded binary blob (<name>_start, <name>_end, <name>_size). Only
// symbols carrying it are extracted.
const MarkerPrefix = "_binary_"

// Symbol is one embedded-binary-data symbol extracted from an object file.
type Symbol struct {
	// Name of the symbol. Always begins with MarkerPrefix.
	Name string
	// Value is the symbol's offset or address, truncated to 32 bits for
	// formats with wider values.
	Value uint32
	// Section is the format's section identifier: the COFF section number,
	// the ELF section header index, or the Mach-O section ordinal, truncated
	// to a signed 16-bit value.
	Section int16
	// StorageClass is the COFF storage class. ELF and Mach-O have no such
	// concept, so it is 0 for symbols from those formats.
	StorageClass uint8
}

// hasMarkerPrefix reports whether name passes the extraction filter. It is
// the sole semantic gate separating embedded-data symbols from everything
// else in a symbol table and is applied identically by every decoder.
func hasMarkerPrefix(name string) bool {
	return strings.HasPrefix(name, MarkerPrefix)
}
