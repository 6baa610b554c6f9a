// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package bigfile

import (
	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/class"
	"github.com/woozymasta/bigfile/dialect"
	"github.com/woozymasta/bigfile/lz"
	"github.com/woozymasta/bigfile/names"
)

// Binary layout constants.
const (
	// SignatureSize is the fixed size of the version signature field.
	SignatureSize = 256
	// entryHeaderSize is six u32 fields in front of every entry.
	entryHeaderSize = 24
	// minPoolSize is a codec byte plus the narrowest entry count.
	minPoolSize = 1 + 2
)

// Archive is a parsed bigfile. Dialect is derived from Signature once and
// governs every read and write of the pool table.
type Archive struct {
	// Signature is the raw version signature field, padding included.
	Signature binio.FixedString `json:"signature" yaml:"signature"`
	// Dialect is the engine family selected by the signature.
	Dialect dialect.Dialect `json:"dialect" yaml:"dialect"`
	// Platform selects the archive byte order and the registry keys.
	Platform dialect.Platform `json:"platform" yaml:"platform"`
	// Pools are kept in file order.
	Pools []Pool `json:"pools" yaml:"pools"`
}

// Pool is an ordered group of entries sharing one codec and byte order.
type Pool struct {
	Entries []Entry         `json:"entries" yaml:"entries"`
	Codec   lz.Algorithm    `json:"codec" yaml:"codec"`
	Order   binio.ByteOrder `json:"order" yaml:"order"`
}

// Entry is one stored resource.
type Entry struct {
	// Record is the typed decode result, set by DecodeEntries.
	Record class.Record `json:"-" yaml:"-"`
	// LinkHeader is stored uncompressed in front of the payload.
	LinkHeader []byte `json:"-" yaml:"-"`
	// Body is the decompressed body.
	Body []byte `json:"-" yaml:"-"`
	// Payload is the body as stored: a codec frame when Compressed, else Body itself.
	Payload []byte `json:"-" yaml:"-"`
	// Offset is the absolute offset of the entry header in the source.
	Offset int64 `json:"offset" yaml:"offset"`
	// Name identifies the entry.
	Name names.Name `json:"name" yaml:"name"`
	// Class identifies the record layout family.
	Class names.Name `json:"class" yaml:"class"`
	// Compressed reports whether Payload is a codec frame.
	Compressed bool `json:"compressed,omitempty" yaml:"compressed,omitempty"`
}

// Key returns the registry key for an entry of this archive.
func (a *Archive) Key(e *Entry) class.Key {
	return class.Key{Class: e.Class, Version: a.Dialect.Version(), Platform: a.Platform}
}

// PoolOrder returns the byte order entries of pool i are stored in. Only
// dialects with per-pool byte orders honor Pool.Order.
func (a *Archive) PoolOrder(i int) binio.ByteOrder {
	if a.Dialect.PoolOrder() {
		return a.Pools[i].Order
	}

	return a.Platform.ByteOrder()
}

// EntryCount returns the number of entries across all pools.
func (a *Archive) EntryCount() int {
	n := 0
	for i := range a.Pools {
		n += len(a.Pools[i].Entries)
	}

	return n
}

// ReaderOptions configures archive parsing.
type ReaderOptions struct {
	// Platform names the target platform. Empty means detect from the file
	// extension in Open, PC otherwise.
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`
}

// applyDefaults fills zero-value options with defaults.
func (o *ReaderOptions) applyDefaults() {
	if o.Platform == "" {
		o.Platform = dialect.PC.String()
	}
}

// DecodeOptions configures record decoding.
type DecodeOptions struct {
	// Registry resolves record decoders. Nil means class.Default().
	Registry *class.Registry `json:"-" yaml:"-"`
	// MaxWorkers is the number of decode workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
}

// applyDefaults fills zero-value options with defaults.
func (o *DecodeOptions) applyDefaults() {
	if o.Registry == nil {
		o.Registry = class.Default()
	}
}

// WriterOptions configures archive encoding.
type WriterOptions struct {
	// Recompress re-runs the pool codec on every compressed entry instead of
	// re-emitting stored payloads whose body is unchanged.
	Recompress bool `json:"recompress,omitempty" yaml:"recompress,omitempty"`
}

// RoundTripOptions configures RoundTrip.
type RoundTripOptions struct {
	Reader ReaderOptions `json:"reader,omitzero" yaml:"reader,omitzero"`
	Decode DecodeOptions `json:"decode,omitzero" yaml:"decode,omitzero"`
	Writer WriterOptions `json:"writer,omitzero" yaml:"writer,omitzero"`
}
