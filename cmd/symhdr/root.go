// Copyright 2025 The symhdr Authors. All rights reserved.
// Use of this source code is governed by the license that
// can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/objtk/symhdr"
)

type generateTool struct {
	outDir     string
	headerName string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	g := new(generateTool)
	root := cobra.Command{
		Use:   "symhdr -d <dir> [-n <name>] <file.o> [MACRO] ...",
		Short: "Generate C headers for binary data symbols in object files",
		Long: `symhdr extracts the _binary_* symbols that objcopy and linkers emit for
embedded binary data from COFF, ELF and Mach-O object files, and generates C
headers declaring them.

Each object file may be followed by a macro prefix, which adds convenience
macros for its symbols to the generated header:

  symhdr -d include data.o DATA font.o FONT logo.o`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          g.run,
	}

	root.Flags().StringVarP(&g.outDir, "dir", "d", "", "output directory for generated headers (required)")
	root.Flags().StringVarP(&g.headerName, "name", "n", "", "combine all symbols into a single header with this name")
	root.Flags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	_ = root.MarkFlagRequired("dir")

	return &root
}

func (g *generateTool) run(cmd *cobra.Command, args []string) error {
	if g.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", g.outDir, err)
	}

	var decodeErrs error
	var files []*symhdr.ObjectFile
	for _, p := range pairArguments(args) {
		f, err := symhdr.Open(p.path)
		if err != nil {
			logrus.WithField("file", p.path).Error("skipping: ", err)
			decodeErrs = multierror.Append(decodeErrs, fmt.Errorf("%s: %w", p.path, err))
			continue
		}
		for _, w := range f.Warnings {
			logrus.WithField("file", p.path).Warn(w)
		}
		f.Macro = p.macro
		logrus.WithField("file", p.path).Debugf("decoded %d symbols", len(f.Symbols))
		files = append(files, f)
	}

	if len(files) == 0 {
		return fmt.Errorf("no object files could be processed: %w", decodeErrs)
	}

	if g.headerName != "" {
		path, err := symhdr.WriteCombinedHeader(g.outDir, g.headerName, files)
		if err != nil {
			logrus.WithError(err).Error("failed to write combined header")
			return nil
		}
		logrus.Info("generated ", path)
		return nil
	}

	for _, f := range files {
		path, err := symhdr.WriteHeader(g.outDir, f)
		if err != nil {
			// Keep going; a failed write only loses this file's header.
			logrus.WithField("file", f.Path).Error("failed to write header: ", err)
			continue
		}
		logrus.Info("generated ", path)
	}
	return nil
}

type inputPair struct {
	path  string
	macro string
}

// pairArguments splits the positional arguments into object file and macro
// prefix pairs. A token is a macro only when it follows a file and does not
// begin with "-"; otherwise it starts the next pair.
func pairArguments(args []string) []inputPair {
	var pairs []inputPair
	for i := 0; i < len(args); i++ {
		p := inputPair{path: args[i]}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			p.macro = args[i+1]
			i++
		}
		pairs = append(pairs, p)
	}
	return pairs
}
