// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scan implements the bounded-concurrency scan pipeline: it
// enumerates work items eagerly, processes them in fixed-size concurrent
// batches, checks for cancellation between batches, tolerates isolated
// per-item failures, and reports progress once per batch while laying the
// results out on a deterministic Fermat spiral.
//
// # Key Types
//
//   - Item: one unit of work (a source file)
//   - Parser: the per-item parsing capability supplied by the caller
//   - Pipeline: the batch loop
//   - ProgressSink: per-batch progress callback owned by the caller
//
// # Usage
//
//	items, err := scan.Enumerate(root, opts, registry.Supports)
//	pipe := scan.NewPipeline(scan.DefaultBatchSize, scan.DefaultSpiralScale)
//	blocks, err := pipe.Run(items, registry, sink, token)
//
// A cancelled token stops the pipeline at the next batch boundary; the
// blocks from fully completed batches are returned together with
// ErrScanCanceled.
package scan
