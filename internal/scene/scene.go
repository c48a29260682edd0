// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scene aggregates scan output into an exportable voxel scene.
package scene

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/codevox/internal/voxel"
)

// =============================================================================
// SCENE
// =============================================================================

// Scene is the aggregate result of one scan: every block, plus enough
// context to reproduce or export it. Scenes are built once and read-only
// afterwards.
type Scene struct {
	// Root is the scanned directory
	Root string `json:"root"`

	// Files is the number of work items that were enumerated
	Files int `json:"files"`

	// Languages counts enumerated files per detected language
	Languages map[string]int `json:"languages,omitempty"`

	// Blocks is the full block sequence in enumeration order
	Blocks []voxel.Block `json:"blocks"`

	// Duration is how long the scan took
	Duration time.Duration `json:"duration_ns"`

	// Partial is true when the scan was cancelled before completing
	Partial bool `json:"partial,omitempty"`
}

// Bounds is the axis-aligned extent of a scene.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
	MinZ, MaxZ int
}

// Bounds computes the scene's extent. An empty scene has zero bounds.
func (s *Scene) Bounds() Bounds {
	if len(s.Blocks) == 0 {
		return Bounds{}
	}

	p := s.Blocks[0].Position
	b := Bounds{MinX: p.X, MaxX: p.X, MinY: p.Y, MaxY: p.Y, MinZ: p.Z, MaxZ: p.Z}
	for _, block := range s.Blocks[1:] {
		p = block.Position
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
		if p.Z < b.MinZ {
			b.MinZ = p.Z
		}
		if p.Z > b.MaxZ {
			b.MaxZ = p.Z
		}
	}
	return b
}

// CountByKind tallies blocks per kind.
func (s *Scene) CountByKind() map[voxel.Kind]int {
	counts := make(map[voxel.Kind]int)
	for _, b := range s.Blocks {
		counts[b.Kind]++
	}
	return counts
}

// WriteJSON streams the scene as indented JSON. This is one-shot export,
// not persistence: the scene is never read back.
func (s *Scene) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
