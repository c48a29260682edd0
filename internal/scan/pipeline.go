// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// pipeline.go - The batch loop.
package scan

import (
	"fmt"
	"log"
	"sync"

	"github.com/jeranaias/codevox/internal/cancel"
	"github.com/jeranaias/codevox/internal/voxel"
)

// DefaultBatchSize is the number of items dispatched concurrently per batch.
const DefaultBatchSize = 5

// ErrScanCanceled is returned by Run when the pipeline stopped at a batch
// boundary because cancellation was requested. It wraps cancel.ErrCanceled,
// so errors.Is works against either sentinel. The blocks returned alongside
// it are the contributions of every batch that fully completed.
var ErrScanCanceled = fmt.Errorf("scan stopped: %w", cancel.ErrCanceled)

// =============================================================================
// PROGRESS
// =============================================================================

// ProgressSink receives at most one callback per batch. It is owned by the
// caller; the pipeline never retains it past Run.
type ProgressSink interface {
	// OnProgress reports batch completion. current never exceeds total.
	OnProgress(message string, incrementPercent float64, current, total int)
}

// ProgressFunc adapts a function to the ProgressSink interface.
type ProgressFunc func(message string, incrementPercent float64, current, total int)

// OnProgress implements ProgressSink.
func (f ProgressFunc) OnProgress(message string, incrementPercent float64, current, total int) {
	f(message, incrementPercent, current, total)
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline processes work items in fixed-size concurrent batches.
//
// At most batchSize parser invocations run at any instant, and no item
// starts before the previous batch fully completes. Cancellation is
// cooperative and checked only at batch boundaries: an in-flight batch
// always runs to completion once started.
type Pipeline struct {
	batchSize int
	scale     float64
}

// NewPipeline creates a pipeline. Non-positive arguments fall back to
// DefaultBatchSize and DefaultSpiralScale.
func NewPipeline(batchSize int, scale float64) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if scale <= 0 {
		scale = DefaultSpiralScale
	}
	return &Pipeline{batchSize: batchSize, scale: scale}
}

// Run drives the scan: for each batch it checks the token, dispatches every
// item concurrently, awaits the whole batch, translates each item's blocks
// by the spiral offset of the item's global index, merges them in
// enumeration order, and reports progress once.
//
// One item's parser failure never aborts the batch or the scan; the failure
// is logged and the item contributes nothing. Returns ErrScanCanceled with
// partial results when stopped by the token.
func (p *Pipeline) Run(items []Item, parser Parser, sink ProgressSink, token *cancel.Token) ([]voxel.Block, error) {
	total := len(items)
	blocks := make([]voxel.Block, 0)

	for start := 0; start < total; start += p.batchSize {
		if token != nil && token.Cancelled() {
			return blocks, ErrScanCanceled
		}

		end := start + p.batchSize
		if end > total {
			end = total
		}
		batch := items[start:end]

		// Dispatch the whole batch concurrently and await all of it.
		// results is indexed by position within the batch so the merge
		// below is independent of completion order.
		results := make([][]voxel.Block, len(batch))
		var wg sync.WaitGroup
		for bi := range batch {
			wg.Add(1)
			go func(bi int, item Item) {
				defer wg.Done()
				got, err := parser.Parse(item, token)
				if err != nil {
					log.Printf("scan: %s: %v", item.RelPath, err)
					return
				}
				results[bi] = got
			}(bi, batch[bi])
		}
		wg.Wait()

		// Merge, translating by the offset of each item's original global
		// index, not its completion order.
		for bi := range batch {
			dx, dz := SpiralOffset(start+bi, p.scale)
			for i := range results[bi] {
				results[bi][i].Translate(dx, dz)
			}
			blocks = append(blocks, results[bi]...)
		}

		if sink != nil {
			increment := float64(p.batchSize) / float64(total) * 100
			sink.OnProgress(fmt.Sprintf("Scanned %d/%d files", end, total), increment, end, total)
		}
	}

	return blocks, nil
}
