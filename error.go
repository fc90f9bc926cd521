// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package symhdr

import "errors"

var (
	// ErrNotEnoughBytesRead is returned if read call returned less bytes than what is needed.
	ErrNotEnoughBytesRead = errors.New("not enough bytes read")
	// ErrNotCOFF is returned if the COFF decoder is handed a file that starts
	// with the ELF magic.
	ErrNotCOFF = errors.New("not a COFF object")
	// ErrTruncatedHeader is returned if the file ends before its fixed-size
	// object header does.
	ErrTruncatedHeader = errors.New("truncated object header")
	// ErrCorruptHeader is returned if a declared size, count or table pointer
	// fails a sanity bound.
	ErrCorruptHeader = errors.New("corrupt object header")
	// ErrUnsupportedELF is returned for ELF objects that are not 64-bit,
	// little-endian and relocatable. The wrapped message names the check
	// that failed.
	ErrUnsupportedELF = errors.New("unsupported ELF variant")
	// ErrMissingSymtab is returned if the object has no symbol table or no
	// string table to resolve names against.
	ErrMissingSymtab = errors.New("no symbol table")
)
