// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render.go - Top-down text map and legend.
package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/codevox/internal/voxel"
)

// =============================================================================
// TOP-DOWN MAP
// =============================================================================

// kindGlyphs maps each block kind to its map character.
var kindGlyphs = map[voxel.Kind]rune{
	voxel.KindPackage:   'P',
	voxel.KindFunction:  'f',
	voxel.KindMethod:    'm',
	voxel.KindStruct:    'S',
	voxel.KindInterface: 'I',
	voxel.KindType:      't',
	voxel.KindConst:     'c',
	voxel.KindVar:       'v',
	voxel.KindImport:    'i',
}

// kindColors maps each block kind to its lipgloss color.
var kindColors = map[voxel.Kind]lipgloss.Style{
	voxel.KindPackage:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // Cyan
	voxel.KindFunction:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // Green
	voxel.KindMethod:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // Light green
	voxel.KindStruct:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // Orange
	voxel.KindInterface: lipgloss.NewStyle().Foreground(lipgloss.Color("177")), // Purple
	voxel.KindType:      lipgloss.NewStyle().Foreground(lipgloss.Color("180")), // Tan
	voxel.KindConst:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // Red
	voxel.KindVar:       lipgloss.NewStyle().Foreground(lipgloss.Color("147")), // Lavender
	voxel.KindImport:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // Gray
}

// Map renders a top-down view of the scene, at most width cells across.
// Where stacks overlap a cell, the tallest block wins. Returns an empty
// string for an empty scene.
func (s *Scene) Map(width int) string {
	if len(s.Blocks) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	b := s.Bounds()
	spanX := b.MaxX - b.MinX + 1
	spanZ := b.MaxZ - b.MinZ + 1

	// step downsamples large scenes so the map fits the requested width.
	step := 1
	for spanX/step > width {
		step++
	}
	cols := (spanX + step - 1) / step
	rows := (spanZ + step - 1) / step

	type cell struct {
		kind voxel.Kind
		y    int
		set  bool
	}
	grid := make([]cell, cols*rows)

	for _, block := range s.Blocks {
		cx := (block.Position.X - b.MinX) / step
		cz := (block.Position.Z - b.MinZ) / step
		idx := cz*cols + cx
		if !grid[idx].set || block.Position.Y > grid[idx].y {
			grid[idx] = cell{kind: block.Kind, y: block.Position.Y, set: true}
		}
	}

	var sb strings.Builder
	for cz := 0; cz < rows; cz++ {
		for cx := 0; cx < cols; cx++ {
			c := grid[cz*cols+cx]
			if !c.set {
				sb.WriteByte('.')
				continue
			}
			glyph := string(kindGlyphs[c.kind])
			sb.WriteString(kindColors[c.kind].Render(glyph))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Legend lists each kind present in the scene with its glyph and count,
// one per line, truncated to width columns.
func (s *Scene) Legend(width int) string {
	counts := s.CountByKind()
	if len(counts) == 0 {
		return ""
	}

	kinds := make([]voxel.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var sb strings.Builder
	for _, k := range kinds {
		label := fmt.Sprintf("%s %d", k, counts[k])
		if width > 2 {
			label = runewidth.Truncate(label, width-2, "…")
		}
		sb.WriteString(kindColors[k].Render(string(kindGlyphs[k])) + " " + label + "\n")
	}
	return sb.String()
}
