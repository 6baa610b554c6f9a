// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

// Package extract writes archive entries to a directory, one file per entry,
// with a BLAKE3 manifest of everything written.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/woozymasta/bigfile"
)

// workItem is one selected entry with its prepared output path.
type workItem struct {
	relPath string
	relDir  string
	index   int
	pool    int
	entry   int
}

// Run writes the selected entries of a to dstDir in parallel and returns the
// manifest. On failure it returns the first encountered error.
func Run(ctx context.Context, a *bigfile.Archive, dstDir string, opts Options) (*Manifest, error) {
	if a == nil {
		return nil, bigfile.ErrNilArchive
	}

	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	flt, err := newFilter(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return nil, err
	}

	workItems, err := prepareWorkItems(a, flt, &opts)
	if err != nil {
		return nil, err
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if err := prepareDirs(dstRootAbs, workItems); err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Signature: a.Signature.Value,
		Version:   a.Dialect.Version(),
		Platform:  a.Platform,
		Format:    opts.Format,
		Files:     make([]File, len(workItems)),
	}

	taskCh := make(chan workItem, len(workItems))
	errCh := make(chan error, len(workItems))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for task := range taskCh {
				err := writeEntry(ctx, a, dstRootAbs, task, &opts, manifest)
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		})
	}

	for _, task := range workItems {
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
	close(errCh)

	var first error
	for err := range errCh {
		if err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}

	if !opts.NoManifest {
		if err := writeManifest(dstRootAbs, manifest); err != nil {
			return nil, err
		}
	}

	bigfile.Logger().Debug("extracted entries",
		zap.String("dir", dstRootAbs),
		zap.String("format", string(opts.Format)),
		zap.Int("files", len(workItems)),
		zap.Int("entries", a.EntryCount()))

	return manifest, nil
}

// prepareWorkItems selects entries through the filter and assigns unique
// output paths in archive order.
func prepareWorkItems(a *bigfile.Archive, flt *filter, opts *Options) ([]workItem, error) {
	unique := newUniquePaths(a.EntryCount())
	workItems := make([]workItem, 0, a.EntryCount())
	for i := range a.Pools {
		for j := range a.Pools[i].Entries {
			e := &a.Pools[i].Entries[j]
			matchPath := entryPath(e.Name.String(), e.Class.String())
			if !flt.Selected(matchPath) {
				continue
			}

			relPath := sanitizePath(matchPath)
			if opts.RawNames {
				var err error
				if relPath, err = normalizePath(matchPath); err != nil {
					return nil, fmt.Errorf("pool %d entry %d: %w", i, j, err)
				}
			}

			relPath = unique.claim(relPath + opts.Format.Extension())
			if _, err := normalizePath(relPath); err != nil {
				return nil, fmt.Errorf("pool %d entry %d: %w", i, j, err)
			}

			relDir := filepath.Dir(filepath.FromSlash(relPath))
			if relDir == "." {
				relDir = ""
			}

			workItems = append(workItems, workItem{
				relPath: relPath,
				relDir:  relDir,
				index:   len(workItems),
				pool:    i,
				entry:   j,
			})
		}
	}

	return workItems, nil
}

// prepareDirs creates all unique parent directories needed by work items.
func prepareDirs(dstRootAbs string, workItems []workItem) error {
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		dirPath := filepath.Join(dstRootAbs, task.relDir)
		key := strings.ToLower(dirPath)
		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// writeEntry renders one work item, writes it and records it in the manifest.
func writeEntry(ctx context.Context, a *bigfile.Archive, dstRootAbs string, task workItem, opts *Options, m *Manifest) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	e := &a.Pools[task.pool].Entries[task.entry]
	data, err := render(a, task, opts)
	if err != nil {
		return fmt.Errorf("render %s: %w", task.relPath, err)
	}

	outPath := filepath.Join(dstRootAbs, filepath.FromSlash(task.relPath))
	file, err := openFile(outPath, opts.FileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.relPath, err)
	}

	_, writeErr := file.Write(data)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", task.relPath, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.relPath, closeErr)
	}

	f := File{
		Path:   task.relPath,
		BLAKE3: digest(data),
		Name:   e.Name,
		Class:  e.Class,
		Pool:   task.pool,
		Entry:  task.entry,
		Size:   int64(len(data)),
	}
	m.Files[task.index] = f

	if opts.OnEntryDone != nil {
		opts.OnEntryDone(f)
	}

	return nil
}

// openFile opens path according to the file creation policy.
func openFile(path string, mode FileMode) (*os.File, error) {
	switch mode {
	case FileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil || !os.IsExist(err) {
			return file, err
		}

		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case FileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case FileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFileMode, mode)
	}
}
