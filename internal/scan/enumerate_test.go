// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEnumerateOrderedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.go", "package b\n")
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "sub/c.go", "package c\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "node_modules/dep.go", "package dep\n")

	opts := EnumerateOptions{IgnorePatterns: []string{"node_modules"}}
	supports := func(path string) bool { return strings.HasSuffix(path, ".go") }

	items, err := Enumerate(root, opts, supports)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, item := range items {
		got = append(got, item.RelPath)
	}

	want := []string{"a.go", "b.go", "sub/c.go"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// Enumeration must be deterministic (lexical walk order).
	if !sort.StringsAreSorted(got) {
		t.Errorf("items not in lexical order: %v", got)
	}
}

func TestEnumerateMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.go", "package small\n")
	writeFile(t, root, "big.go", strings.Repeat("// padding\n", 100))

	items, err := Enumerate(root, EnumerateOptions{MaxFileSize: 64}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 1 || items[0].RelPath != "small.go" {
		t.Errorf("expected only small.go, got %+v", items)
	}
}

func TestEnumerateRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.go", "package a\n")

	if _, err := Enumerate(filepath.Join(root, "file.go"), EnumerateOptions{}, nil); err == nil {
		t.Error("expected an error for a non-directory root")
	}
	if _, err := Enumerate(filepath.Join(root, "missing"), EnumerateOptions{}, nil); err == nil {
		t.Error("expected an error for a missing root")
	}
}
