// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package bigfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/class"
	"github.com/woozymasta/bigfile/lz"
)

// Encode serializes the archive. Entries with a Record are re-encoded
// through the record; a stored payload is reused whenever the body is
// unchanged, so decoded archives re-encode byte for byte.
func (a *Archive) Encode(opts WriterOptions) ([]byte, error) {
	if a == nil {
		return nil, ErrNilArchive
	}

	w := binio.NewWriter(a.Platform.ByteOrder())
	sig := a.Signature
	if sig.Size == 0 {
		sig.Size = SignatureSize
	}

	if sig.Size != SignatureSize {
		return nil, fmt.Errorf("%w: signature field of %d bytes", ErrMalformedHeader, sig.Size)
	}

	sig.EncodeTo(w)

	width := a.Dialect.CountWidth()
	if err := writeCount(w, width, len(a.Pools)); err != nil {
		return nil, fmt.Errorf("pool count: %w", err)
	}

	for i := range a.Pools {
		if err := a.writePool(w, i, opts); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

// WriteTo writes the encoded archive to w with default options.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if w == nil {
		return 0, ErrNilWriter
	}

	data, err := a.Encode(WriterOptions{})
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	return int64(n), err
}

// WriteFile encodes the archive and replaces path atomically.
func (a *Archive) WriteFile(path string, opts WriterOptions) error {
	data, err := a.Encode(opts)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}

	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp archive: %w", err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp archive: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replace archive: %w", err)
	}

	return nil
}

func (a *Archive) writePool(w *binio.Writer, i int, opts WriterOptions) error {
	defer w.SetOrder(w.Order())

	pool := &a.Pools[i]
	if !pool.Codec.Valid() {
		return fmt.Errorf("%w: pool %d uses unknown codec %d", ErrMalformedHeader, i, pool.Codec)
	}

	w.U8(uint8(pool.Codec))
	order := a.PoolOrder(i)
	if a.Dialect.PoolOrder() {
		if !order.Valid() {
			return fmt.Errorf("%w: pool %d byte order %d", ErrMalformedHeader, i, order)
		}

		w.U8(uint8(order))
	}

	w.SetOrder(order)
	if err := writeCount(w, a.Dialect.CountWidth(), len(pool.Entries)); err != nil {
		return fmt.Errorf("pool %d entry count: %w", i, err)
	}

	for j := range pool.Entries {
		if err := writeEntry(w, pool.Codec, order, &pool.Entries[j], opts); err != nil {
			return &EntryError{Pool: i, Entry: j, Offset: -1, Err: err}
		}
	}

	return nil
}

func writeEntry(w *binio.Writer, codec lz.Algorithm, order binio.ByteOrder, e *Entry, opts WriterOptions) error {
	link, body := e.LinkHeader, e.Body
	if e.Record != nil {
		var err error
		if link, body, err = class.Encode(e.Record, order); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}

	payload := body
	if e.Compressed {
		reuse := !opts.Recompress && e.Payload != nil && bytes.Equal(body, e.Body)
		if reuse {
			payload = e.Payload
		} else {
			var err error
			if payload, err = lz.Compress(codec, body, order); err != nil {
				return err
			}
		}
	}

	dataSize := uint64(len(link)) + uint64(len(payload))
	if dataSize > math.MaxUint32 || uint64(len(body)) > math.MaxUint32 {
		return fmt.Errorf("%w: entry of %d bytes", ErrSizeMismatch, dataSize)
	}

	compressedSize := 0
	if e.Compressed {
		compressedSize = len(payload)
	}

	w.U32(uint32(dataSize))       //nolint:gosec // bounded above
	w.U32(uint32(len(link)))      //nolint:gosec // bounded by dataSize
	w.U32(uint32(len(body)))      //nolint:gosec // bounded above
	w.U32(uint32(compressedSize)) //nolint:gosec // bounded by dataSize
	e.Class.EncodeTo(w)
	e.Name.EncodeTo(w)
	w.Raw(link)
	w.Raw(payload)
	return nil
}

// writeCount writes n and fails when it does not fit width.
func writeCount(w *binio.Writer, width binio.SizeWidth, n int) error {
	limit := uint64(math.MaxUint32)
	switch width {
	case binio.Size8:
		limit = math.MaxUint8
	case binio.Size16:
		limit = math.MaxUint16
	}

	if uint64(n) > limit {
		return fmt.Errorf("%w: %d > %d", ErrCountOverflow, n, limit)
	}

	w.Count(width, n)
	return nil
}
