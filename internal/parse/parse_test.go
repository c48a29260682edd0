// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/codevox/internal/cancel"
	"github.com/jeranaias/codevox/internal/scan"
	"github.com/jeranaias/codevox/internal/voxel"
)

const goSample = `package demo

import "fmt"

const answer = 42

type Greeter struct{}

func (g *Greeter) Greet() {}

func (g *Greeter) Shout() {}

func main() { fmt.Println(answer) }
`

const jsSample = `import { thing } from './thing';

export class Widget {
  render() {
    return thing;
  }
  update() {}
}

export function helper() {}

const fmtName = (n) => n.trim();
`

const pySample = `import os
from pathlib import Path

class Scanner:
    def scan(self):
        pass

    def stop(self):
        pass

def main():
    pass
`

func kinds(syms []symbol) []voxel.Kind {
	out := make([]voxel.Kind, len(syms))
	for i, s := range syms {
		out[i] = s.Kind
	}
	return out
}

func TestGoParserExtractsSymbols(t *testing.T) {
	syms, err := (&GoParser{}).Parse(goSample, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []voxel.Kind{
		voxel.KindPackage, voxel.KindImport, voxel.KindConst,
		voxel.KindStruct, voxel.KindMethod, voxel.KindMethod, voxel.KindFunction,
	}
	got := kinds(syms)
	if len(got) != len(want) {
		t.Fatalf("expected %d symbols, got %d: %+v", len(want), len(got), syms)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d: expected %s, got %s (%s)", i, want[i], got[i], syms[i].Name)
		}
	}

	for _, s := range syms {
		if s.Kind == voxel.KindMethod && s.Parent != "Greeter" {
			t.Errorf("method %s should have parent Greeter, got %q", s.Name, s.Parent)
		}
	}
}

func TestGoParserSyntaxError(t *testing.T) {
	if _, err := (&GoParser{}).Parse("package {{{", nil); err == nil {
		t.Error("expected a parse error for invalid source")
	}
}

func TestJSParserExtractsSymbols(t *testing.T) {
	syms, err := (&JSParser{}).Parse(jsSample, nil)
	if err != nil {
		t.Fatal(err)
	}

	byName := make(map[string]symbol)
	for _, s := range syms {
		byName[s.Name] = s
	}

	if s, ok := byName["Widget"]; !ok || s.Kind != voxel.KindStruct {
		t.Errorf("expected Widget class, got %+v", s)
	}
	if s, ok := byName["render"]; !ok || s.Kind != voxel.KindMethod || s.Parent != "Widget" {
		t.Errorf("expected render method of Widget, got %+v", s)
	}
	if s, ok := byName["update"]; !ok || s.Kind != voxel.KindMethod {
		t.Errorf("expected update method, got %+v", s)
	}
	if s, ok := byName["helper"]; !ok || s.Kind != voxel.KindFunction {
		t.Errorf("expected helper function, got %+v", s)
	}
	if s, ok := byName["fmtName"]; !ok || s.Kind != voxel.KindFunction {
		t.Errorf("arrow function fmtName should be a function, got %+v", s)
	}
	if s, ok := byName["./thing"]; !ok || s.Kind != voxel.KindImport {
		t.Errorf("expected import ./thing, got %+v", s)
	}
}

func TestPythonParserExtractsSymbols(t *testing.T) {
	syms, err := (&PythonParser{}).Parse(pySample, nil)
	if err != nil {
		t.Fatal(err)
	}

	byName := make(map[string]symbol)
	for _, s := range syms {
		byName[s.Name] = s
	}

	if s := byName["Scanner"]; s.Kind != voxel.KindStruct {
		t.Errorf("expected Scanner class, got %+v", s)
	}
	if s := byName["scan"]; s.Kind != voxel.KindMethod || s.Parent != "Scanner" {
		t.Errorf("expected scan method of Scanner, got %+v", s)
	}
	if s := byName["main"]; s.Kind != voxel.KindFunction || s.Parent != "" {
		t.Errorf("main should be a top-level function, got %+v", s)
	}
	if s := byName["os"]; s.Kind != voxel.KindImport {
		t.Errorf("expected os import, got %+v", s)
	}
	if s := byName["pathlib"]; s.Kind != voxel.KindImport {
		t.Errorf("expected pathlib import, got %+v", s)
	}
}

func TestPlaceBlocksStacksMembers(t *testing.T) {
	syms := []symbol{
		{Name: "Greeter", Kind: voxel.KindStruct, Line: 1},
		{Name: "Greet", Kind: voxel.KindMethod, Line: 2, Parent: "Greeter"},
		{Name: "Shout", Kind: voxel.KindMethod, Line: 3, Parent: "Greeter"},
		{Name: "main", Kind: voxel.KindFunction, Line: 4},
	}

	blocks := placeBlocks("demo.go", syms)
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}

	parent := blocks[0].Position
	if parent.Y != 0 {
		t.Errorf("top-level block should sit at y=0, got %d", parent.Y)
	}
	for i, wantY := range []int{1, 2} {
		member := blocks[i+1].Position
		if member.X != parent.X || member.Z != parent.Z {
			t.Errorf("member %d should share its parent's column, got %+v", i, member)
		}
		if member.Y != wantY {
			t.Errorf("member %d should stack at y=%d, got %d", i, wantY, member.Y)
		}
	}
	if blocks[3].Position == parent {
		t.Error("distinct top-level symbols must occupy distinct cells")
	}

	// Ids are deterministic: same inputs, same ids.
	again := placeBlocks("demo.go", syms)
	for i := range blocks {
		if blocks[i].ID != again[i].ID {
			t.Errorf("block %d: id changed between runs", i)
		}
	}
}

func TestPlaceBlocksMemberBeforeParent(t *testing.T) {
	syms := []symbol{
		{Name: "Greet", Kind: voxel.KindMethod, Line: 1, Parent: "Greeter"},
		{Name: "Greeter", Kind: voxel.KindStruct, Line: 5},
		{Name: "main", Kind: voxel.KindFunction, Line: 9},
	}

	blocks := placeBlocks("demo.go", syms)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}

	member, parent := blocks[0].Position, blocks[1].Position
	if parent.X != member.X || parent.Z != member.Z {
		t.Errorf("late parent should occupy the column its member claimed: parent %+v, member %+v", parent, member)
	}
	if parent.Y != 0 {
		t.Errorf("parent declaration should sit at y=0, got %d", parent.Y)
	}
	if member.Y != 1 {
		t.Errorf("member should stack at y=1, got %d", member.Y)
	}
	if p := blocks[2].Position; p.X == parent.X && p.Z == parent.Z {
		t.Error("unrelated top-level symbol must occupy a distinct cell")
	}
}

func TestRegexParsersPollTokenOnLargeInput(t *testing.T) {
	// Well past one poll interval, so the in-loop check must trip.
	line := "const x = 1;\n"
	jsInput := strings.Repeat(line, 4*cancelPollInterval)
	pyInput := strings.Repeat("x = 1\n", 4*cancelPollInterval)

	src := cancel.NewSource()
	src.Cancel()

	if syms, err := (&JSParser{}).Parse(jsInput, src.Token()); !errors.Is(err, cancel.ErrCanceled) {
		t.Errorf("JSParser should stop at a poll check, got err=%v syms=%d", err, len(syms))
	}
	if syms, err := (&PythonParser{}).Parse(pyInput, src.Token()); !errors.Is(err, cancel.ErrCanceled) {
		t.Errorf("PythonParser should stop at a poll check, got err=%v syms=%d", err, len(syms))
	}
}

func TestRegistryParseFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "demo.go")
	if err := os.WriteFile(path, []byte(goSample), 0o644); err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry()
	if !registry.Supports(path) {
		t.Fatal("registry should support .go files")
	}
	if registry.Supports(filepath.Join(root, "notes.txt")) {
		t.Error("registry should not support .txt files")
	}

	item := scan.Item{Path: path, RelPath: "demo.go"}
	blocks, err := registry.Parse(item, cancel.NewSource().Token())
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) == 0 {
		t.Fatal("expected blocks from the sample file")
	}
	for _, b := range blocks {
		if b.File != "demo.go" {
			t.Errorf("block %s should carry its originating file, got %q", b.ID, b.File)
		}
	}
}

func TestRegistryParseCancelledAtEntry(t *testing.T) {
	src := cancel.NewSource()
	src.Cancel()

	registry := NewRegistry()
	_, err := registry.Parse(scan.Item{Path: "whatever.go", RelPath: "whatever.go"}, src.Token())

	if !errors.Is(err, cancel.ErrCanceled) {
		t.Errorf("expected ErrCanceled for a pre-cancelled token, got %v", err)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"main.go":  "Go",
		"app.py":   "Python",
		"index.ts": "TypeScript",
	}
	for path, want := range cases {
		if got := DetectLanguage(path); got != want {
			t.Errorf("%s: expected %s, got %s", path, want, got)
		}
	}
}
