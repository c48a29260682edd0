// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// registry.go - Extension-keyed parser registry and local block placement.
package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/jeranaias/codevox/internal/cancel"
	"github.com/jeranaias/codevox/internal/scan"
	"github.com/jeranaias/codevox/internal/voxel"
)

// =============================================================================
// SYMBOLS
// =============================================================================

// symbol is one extracted code element before placement.
type symbol struct {
	Name   string
	Kind   voxel.Kind
	Line   int
	Parent string // receiver type or enclosing class, empty for top-level
}

// LanguageParser extracts symbols from one language's source text.
type LanguageParser interface {
	Parse(content string, token *cancel.Token) ([]symbol, error)
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps file extensions to language parsers and implements
// scan.Parser for the pipeline.
type Registry struct {
	parsers map[string]LanguageParser
}

// NewRegistry creates a registry with the built-in language parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]LanguageParser)}

	r.parsers[".go"] = &GoParser{}

	js := &JSParser{}
	r.parsers[".js"] = js
	r.parsers[".ts"] = js
	r.parsers[".jsx"] = js
	r.parsers[".tsx"] = js

	r.parsers[".py"] = &PythonParser{}

	return r
}

// Supports reports whether a parser is registered for the file's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.parsers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Parse reads the item's file, extracts its symbols, and places them on the
// file's local grid. Returns cancel.ErrCanceled if the token is already
// cancelled at entry.
func (r *Registry) Parse(item scan.Item, token *cancel.Token) ([]voxel.Block, error) {
	if token != nil && token.Cancelled() {
		return nil, cancel.ErrCanceled
	}

	parser, ok := r.parsers[strings.ToLower(filepath.Ext(item.Path))]
	if !ok {
		return nil, fmt.Errorf("no parser for %s", item.RelPath)
	}

	content, err := os.ReadFile(item.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", item.RelPath, err)
	}

	symbols, err := parser.Parse(string(content), token)
	if err != nil {
		return nil, err
	}

	return placeBlocks(item.RelPath, symbols), nil
}

// DetectLanguage names the language of a file via the chroma lexer registry.
func DetectLanguage(path string) string {
	if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
		return lexer.Config().Name
	}
	return "Unknown"
}

// =============================================================================
// LOCAL PLACEMENT
// =============================================================================

// localGridWidth is the number of columns in a file's local block grid.
// Columns are spaced two units apart so neighboring stacks don't touch.
const localGridWidth = 4

// placeBlocks assigns each symbol a deterministic local position and id.
// Top-level symbols occupy successive grid cells at y=0; members stack above
// their parent's cell. Placement depends only on symbol order, so identical
// file content always yields identical blocks.
func placeBlocks(relPath string, symbols []symbol) []voxel.Block {
	if len(symbols) == 0 {
		return nil
	}

	blocks := make([]voxel.Block, 0, len(symbols))

	// cell and height track each top-level symbol's column and its stack.
	cell := make(map[string]voxel.Position, len(symbols))
	height := make(map[string]int, len(symbols))
	next := 0

	place := func(name string) voxel.Position {
		pos := voxel.Position{
			X: (next % localGridWidth) * 2,
			Y: 0,
			Z: (next / localGridWidth) * 2,
		}
		next++
		cell[name] = pos
		return pos
	}

	for i, sym := range symbols {
		var pos voxel.Position
		if sym.Parent != "" {
			parent, ok := cell[sym.Parent]
			if !ok {
				// Member seen before its parent declaration: claim the
				// parent's cell now so later members stack consistently.
				parent = place(sym.Parent)
			}
			height[sym.Parent]++
			pos = voxel.Position{X: parent.X, Y: height[sym.Parent], Z: parent.Z}
		} else if claimed, ok := cell[sym.Name]; ok {
			// An earlier member already claimed this symbol's cell;
			// the declaration itself sits at its base.
			pos = claimed
		} else {
			pos = place(sym.Name)
		}

		blocks = append(blocks, voxel.Block{
			ID:       voxel.BlockID(relPath, i),
			Kind:     sym.Kind,
			Position: pos,
			Name:     sym.Name,
			File:     relPath,
			Line:     sym.Line,
		})
	}

	return blocks
}
