// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package parse extracts positioned voxel blocks from source files.
//
// Go files are parsed with go/ast; JavaScript/TypeScript and Python files
// use regex-based extraction. Each file's blocks are laid out on a small
// local grid: top-level declarations sit on the ground plane, members stack
// above their parent. The scan pipeline translates the whole grid onto the
// global spiral afterwards.
//
// # Key Types
//
//   - Registry: extension-keyed parser registry, implements scan.Parser
//   - LanguageParser: one language's symbol extractor
//
// # Usage
//
//	registry := parse.NewRegistry()
//	blocks, err := registry.Parse(item, token)
//
// Parsers honor cancellation: a token cancelled at entry yields
// cancel.ErrCanceled, and the regex parsers poll the token periodically on
// large inputs.
package parse
