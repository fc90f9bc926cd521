// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package symhdr

import "strings"

// baseName strips any directory prefix and one trailing ".o" or ".obj"
// extension from an object file path. Both separator styles are recognized
// regardless of host so the derived header name is the same everywhere.
func baseName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	// Only the final extension counts: "a.bin.o" becomes "a.bin",
	// "a.o.bak" stays as it is.
	if strings.HasSuffix(base, ".o") {
		return base[:len(base)-len(".o")]
	}
	if strings.HasSuffix(base, ".obj") {
		return base[:len(base)-len(".obj")]
	}
	return base
}

// guardToken turns a header's logical name into the token used inside its
// include guard: dots become underscores and the result is upper-cased.
func guardToken(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
}

// cstring returns the NUL-terminated string starting at buf[off], or the rest
// of buf if no terminator is present.
func cstring(buf []byte, off uint32) string {
	b := buf[off:]
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
