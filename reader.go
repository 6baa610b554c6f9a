// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package bigfile

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/dialect"
	"github.com/woozymasta/bigfile/lz"
)

// Open reads the archive at path into memory and parses it.
// An empty ReaderOptions.Platform is detected from the file extension.
func Open(path string, opts ReaderOptions) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if opts.Platform == "" {
		if p, ok := dialect.PlatformFromPath(path); ok {
			opts.Platform = p.String()
		}
	}

	a, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return a, nil
}

// Parse decodes the container structure of an in-memory archive and
// decompresses every entry. Any corrupt entry aborts the parse.
func Parse(data []byte, opts ReaderOptions) (*Archive, error) {
	opts.applyDefaults()

	platform, err := dialect.ParsePlatform(opts.Platform)
	if err != nil {
		return nil, err
	}

	r := binio.NewReader(data, platform.ByteOrder())
	a := &Archive{Platform: platform, Signature: binio.NewFixedString("", SignatureSize)}
	if err := a.Signature.DecodeFrom(r); err != nil {
		return nil, fmt.Errorf("%w: signature: %w", ErrMalformedHeader, err)
	}

	a.Dialect = dialect.Parse(a.Signature.Value)

	width := a.Dialect.CountWidth()
	count, err := r.Count(width)
	if err != nil {
		return nil, fmt.Errorf("%w: pool count: %w", ErrMalformedHeader, err)
	}

	if count > r.Len()/minPoolSize {
		return nil, fmt.Errorf("%w: %d pools in %d bytes", ErrMalformedHeader, count, r.Len())
	}

	a.Pools = make([]Pool, count)
	for i := range a.Pools {
		if err := readPool(r, a, i); err != nil {
			return nil, err
		}
	}

	if err := r.ExpectEnd(); err != nil {
		return nil, fmt.Errorf("after last pool: %w", err)
	}

	Logger().Debug("parsed archive",
		zap.Stringer("dialect", a.Dialect.Kind),
		zap.String("version", a.Dialect.Version()),
		zap.Stringer("platform", a.Platform),
		zap.Int("pools", len(a.Pools)),
		zap.Int("entries", a.EntryCount()))

	return a, nil
}

// readPool reads the pool table at index i. The reader byte order is
// restored to the archive order afterwards.
func readPool(r *binio.Reader, a *Archive, i int) error {
	archiveOrder := r.Order()
	defer r.SetOrder(archiveOrder)

	pool := &a.Pools[i]
	codec, err := r.U8()
	if err != nil {
		return fmt.Errorf("%w: pool %d codec: %w", ErrMalformedHeader, i, err)
	}

	pool.Codec = lz.Algorithm(codec)
	if !pool.Codec.Valid() {
		return fmt.Errorf("%w: pool %d uses unknown codec %d", ErrMalformedHeader, i, codec)
	}

	pool.Order = archiveOrder
	if a.Dialect.PoolOrder() {
		b, err := r.U8()
		if err != nil {
			return fmt.Errorf("%w: pool %d byte order: %w", ErrMalformedHeader, i, err)
		}

		pool.Order = binio.ByteOrder(b)
		if !pool.Order.Valid() {
			return fmt.Errorf("%w: pool %d byte order %d", ErrMalformedHeader, i, b)
		}
	}

	r.SetOrder(pool.Order)
	count, err := r.Count(a.Dialect.CountWidth())
	if err != nil {
		return fmt.Errorf("%w: pool %d entry count: %w", ErrMalformedHeader, i, err)
	}

	if count > r.Len()/entryHeaderSize {
		return fmt.Errorf("%w: pool %d declares %d entries in %d bytes", ErrTruncatedInput, i, count, r.Len())
	}

	pool.Entries = make([]Entry, count)
	for j := range pool.Entries {
		start := r.Position()
		if err := readEntry(r, pool, &pool.Entries[j]); err != nil {
			return &EntryError{Pool: i, Entry: j, Offset: start, Err: err}
		}
	}

	return nil
}

// readEntry reads one entry header, link header and payload, and
// decompresses the payload.
func readEntry(r *binio.Reader, pool *Pool, e *Entry) error {
	e.Offset = r.Position()

	var fields [4]uint32
	for k := range fields {
		v, err := r.U32()
		if err != nil {
			return err
		}

		fields[k] = v
	}

	dataSize, linkSize, decompressedSize, compressedSize := fields[0], fields[1], fields[2], fields[3]
	if err := e.Class.DecodeFrom(r); err != nil {
		return err
	}

	if err := e.Name.DecodeFrom(r); err != nil {
		return err
	}

	if linkSize > dataSize {
		return fmt.Errorf("%w: link header of %d bytes exceeds data size %d", ErrSizeMismatch, linkSize, dataSize)
	}

	if uint64(dataSize) > uint64(r.Len()) {
		return r.Errorf(fmt.Errorf("%w: data size %d with %d bytes left", ErrTruncatedInput, dataSize, r.Len()))
	}

	var err error
	if e.LinkHeader, err = r.Bytes(int(linkSize)); err != nil {
		return err
	}

	if e.Payload, err = r.Bytes(int(dataSize - linkSize)); err != nil {
		return err
	}

	if compressedSize == 0 {
		if uint64(decompressedSize) != uint64(len(e.Payload)) {
			return fmt.Errorf("%w: raw payload of %d bytes, declared %d", ErrSizeMismatch, len(e.Payload), decompressedSize)
		}

		e.Body = e.Payload
		return nil
	}

	if uint64(compressedSize) != uint64(len(e.Payload)) {
		return fmt.Errorf("%w: payload of %d bytes, declared compressed size %d", ErrSizeMismatch, len(e.Payload), compressedSize)
	}

	e.Compressed = true
	e.Body, err = lz.Decompress(pool.Codec, e.Payload, pool.Order)
	if err != nil {
		return err
	}

	if uint64(len(e.Body)) != uint64(decompressedSize) {
		return fmt.Errorf("%w: body of %d bytes, declared decompressed size %d", ErrSizeMismatch, len(e.Body), decompressedSize)
	}

	return nil
}
