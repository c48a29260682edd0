// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voxel defines the block data model produced by scanning a codebase.
package voxel

import (
	"fmt"
	"hash/fnv"
)

// =============================================================================
// BLOCK KIND
// =============================================================================

// Kind classifies the code element a block represents.
type Kind string

const (
	// KindPackage is a package or module declaration
	KindPackage Kind = "package"

	// KindFunction is a free function
	KindFunction Kind = "function"

	// KindMethod is a function attached to a type or class
	KindMethod Kind = "method"

	// KindStruct is a struct or class declaration
	KindStruct Kind = "struct"

	// KindInterface is an interface declaration
	KindInterface Kind = "interface"

	// KindType is any other named type declaration
	KindType Kind = "type"

	// KindConst is a constant declaration
	KindConst Kind = "const"

	// KindVar is a variable declaration
	KindVar Kind = "var"

	// KindImport is an import statement
	KindImport Kind = "import"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// =============================================================================
// POSITION
// =============================================================================

// Position is an integer coordinate in the voxel grid. Y is up.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// =============================================================================
// BLOCK
// =============================================================================

// Block is one positioned code element in the scene.
//
// Blocks are produced by a parser at file-local coordinates and translated
// onto the global grid by the scan pipeline. After a scan returns they are
// owned by the caller; nothing in this module mutates them further.
type Block struct {
	// ID uniquely identifies the block within a scan
	ID string `json:"id"`

	// Kind is the code element classification
	Kind Kind `json:"kind"`

	// Position is the block's location in the voxel grid
	Position Position `json:"position"`

	// Name is the identifier of the code element (function name, type name)
	Name string `json:"name"`

	// File is the originating file, relative to the scan root
	File string `json:"file"`

	// Line is the 1-based source line the element was found on
	Line int `json:"line"`
}

// Translate shifts the block by the given offsets on the ground plane.
func (b *Block) Translate(dx, dz int) {
	b.Position.X += dx
	b.Position.Z += dz
}

// =============================================================================
// ID GENERATION
// =============================================================================

// BlockID derives a deterministic block id from the originating file path
// and the block's index within that file. Two scans over the same tree
// produce identical ids.
func BlockID(path string, index int) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("%016x-%d", h.Sum64(), index)
}
