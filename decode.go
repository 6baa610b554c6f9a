// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package bigfile

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/woozymasta/bigfile/class"
)

// DecodeResult is the outcome of decoding one entry.
type DecodeResult struct {
	Record class.Record
	Err    error
	Pool   int
	Entry  int
}

// decodeTask addresses one entry.
type decodeTask struct {
	pool  int
	entry int
	index int
}

// DecodeEntries decodes every entry into a record over a worker pool.
// Results are in archive order, each carrying its own error, and successful
// records are stored in Entry.Record. The returned error is only set when ctx
// is cancelled.
func (a *Archive) DecodeEntries(ctx context.Context, opts DecodeOptions) ([]DecodeResult, error) {
	if a == nil {
		return nil, ErrNilArchive
	}

	opts.applyDefaults()

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	tasks := make([]decodeTask, 0, a.EntryCount())
	for i := range a.Pools {
		for j := range a.Pools[i].Entries {
			tasks = append(tasks, decodeTask{pool: i, entry: j, index: len(tasks)})
		}
	}

	results := make([]DecodeResult, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}

	taskCh := make(chan decodeTask, len(tasks))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for task := range taskCh {
				if ctx.Err() != nil {
					return
				}

				results[task.index] = a.decodeEntry(opts.Registry, task)
			}
		})
	}

	for _, task := range tasks {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()
			return nil, ctx.Err()
		case taskCh <- task:
		}
	}

	close(taskCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opaque, failed := 0, 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case class.Unsupported(res.Record):
			opaque++
		}
	}

	Logger().Debug("decoded entries",
		zap.Int("entries", len(results)),
		zap.Int("opaque", opaque),
		zap.Int("failed", failed))

	return results, nil
}

// DecodeEntry decodes a single entry and stores the record on success.
func (a *Archive) DecodeEntry(pool, entry int, reg *class.Registry) (class.Record, error) {
	if a == nil {
		return nil, ErrNilArchive
	}

	if reg == nil {
		reg = class.Default()
	}

	res := a.decodeEntry(reg, decodeTask{pool: pool, entry: entry})
	return res.Record, res.Err
}

func (a *Archive) decodeEntry(reg *class.Registry, task decodeTask) DecodeResult {
	res := DecodeResult{Pool: task.pool, Entry: task.entry}
	if task.pool < 0 || task.pool >= len(a.Pools) || task.entry < 0 || task.entry >= len(a.Pools[task.pool].Entries) {
		res.Err = &EntryError{Pool: task.pool, Entry: task.entry, Offset: -1, Err: errEntryIndex}
		return res
	}

	pool := &a.Pools[task.pool]
	e := &pool.Entries[task.entry]

	rec, err := reg.Decode(a.Key(e), a.PoolOrder(task.pool), e.LinkHeader, e.Body)
	if err != nil {
		res.Err = &EntryError{Pool: task.pool, Entry: task.entry, Offset: e.Offset, Err: err}
		return res
	}

	e.Record = rec
	res.Record = rec
	return res
}
