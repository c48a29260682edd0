// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// enumerate.go - Eager work-item enumeration.
package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/codevox/internal/cancel"
	"github.com/jeranaias/codevox/internal/voxel"
)

// =============================================================================
// WORK ITEMS
// =============================================================================

// Item is one unit of scan work: a single source file.
type Item struct {
	// Path is the absolute path to the file
	Path string

	// RelPath is the path relative to the scan root; block ids and metadata
	// are derived from it so scans are reproducible across machines
	RelPath string

	// Size is the file size in bytes
	Size int64
}

// Parser turns one item into positioned blocks. It must return
// cancel.ErrCanceled if the token is already cancelled at entry, and should
// honor cancellation promptly on large inputs.
type Parser interface {
	Parse(item Item, token *cancel.Token) ([]voxel.Block, error)
}

// =============================================================================
// ENUMERATION
// =============================================================================

// EnumerateOptions controls which files become work items.
type EnumerateOptions struct {
	// IgnorePatterns are glob patterns matched against path base names;
	// matching directories are skipped entirely
	IgnorePatterns []string

	// MaxFileSize is the largest file to scan, in bytes (0 = unlimited)
	MaxFileSize int64
}

// Enumerate walks root once, eagerly, and returns the ordered, finite
// sequence of work items. supports filters by path (typically the parser
// registry's extension check); nil means every file qualifies.
//
// Enumeration order is the walk order, which filepath.Walk keeps
// deterministic (lexical); the pipeline's layout depends on it.
func Enumerate(root string, opts EnumerateOptions, supports func(path string) bool) ([]Item, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("invalid scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid scan root: %s is not a directory", root)
	}

	var items []Item
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}

		if info.IsDir() {
			if shouldIgnore(filepath.Base(path), opts.IgnorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldIgnore(filepath.Base(path), opts.IgnorePatterns) {
			return nil
		}
		if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
			return nil
		}
		if supports != nil && !supports(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}

		items = append(items, Item{
			Path:    path,
			RelPath: filepath.ToSlash(relPath),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return items, nil
}

// shouldIgnore checks a base name against the ignore patterns.
func shouldIgnore(name string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, _ := filepath.Match(pattern, name)
		if matched {
			return true
		}
	}
	return false
}
