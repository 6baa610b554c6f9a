// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

import (
	"errors"
	"fmt"
)

// Format error kinds shared by every layer. Higher packages re-export them,
// so errors.Is works against any of the aliases.
var (
	// ErrMalformedHeader means an archive or frame header is unrecognized or truncated.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrTruncatedInput means the buffer ended before a declared field or token.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrSizeMismatch means a declared length disagrees with the actual one.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrInvalidBackReference means a back-reference points outside the decoded history.
	ErrInvalidBackReference = errors.New("invalid back-reference")
	// ErrInvalidToken means a token value falls outside the stream grammar.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEncodeDivergence means re-encoded bytes differ from the source bytes.
	ErrEncodeDivergence = errors.New("encode divergence")
)

// OffsetError attaches a byte offset to a format error.
type OffsetError struct {
	Err    error
	Offset int64
}

// Error implements error.
func (e *OffsetError) Error() string {
	return fmt.Sprintf("at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the wrapped error kind.
func (e *OffsetError) Unwrap() error {
	return e.Err
}
