// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package bigfile

import (
	"errors"
	"fmt"

	"github.com/woozymasta/bigfile/binio"
)

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrMalformedHeader means the archive header or pool table is unrecognized or truncated.
	ErrMalformedHeader = binio.ErrMalformedHeader
	// ErrTruncatedInput means the input ended before a declared field or token.
	ErrTruncatedInput = binio.ErrTruncatedInput
	// ErrSizeMismatch means declared and actual lengths disagree.
	ErrSizeMismatch = binio.ErrSizeMismatch
	// ErrInvalidBackReference means a compressed payload references data before its start.
	ErrInvalidBackReference = binio.ErrInvalidBackReference
	// ErrInvalidToken means a compressed payload holds a token outside its grammar.
	ErrInvalidToken = binio.ErrInvalidToken
	// ErrEncodeDivergence means re-encoded bytes differ from the source.
	ErrEncodeDivergence = binio.ErrEncodeDivergence
	// ErrNilArchive means the archive is nil.
	ErrNilArchive = errors.New("archive is nil")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrCountOverflow means a pool or entry count does not fit the dialect count width.
	ErrCountOverflow = errors.New("count exceeds dialect limit")
)

var errEntryIndex = errors.New("entry index out of range")

// EntryError locates a failure inside an archive.
type EntryError struct {
	Err error
	// Offset is the absolute offset of the entry header, or -1 when unknown.
	Offset int64
	Pool   int
	Entry  int
}

// Error implements error.
func (e *EntryError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("pool %d entry %d: %v", e.Pool, e.Entry, e.Err)
	}

	return fmt.Sprintf("pool %d entry %d at offset %d: %v", e.Pool, e.Entry, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}

// DivergenceError reports the first offset where re-encoded bytes differ.
type DivergenceError struct {
	Offset   int64
	Original int
	Encoded  int
}

// Error implements error.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%v at offset %d (original %d bytes, encoded %d bytes)",
		ErrEncodeDivergence, e.Offset, e.Original, e.Encoded)
}

// Unwrap returns ErrEncodeDivergence.
func (e *DivergenceError) Unwrap() error {
	return ErrEncodeDivergence
}
