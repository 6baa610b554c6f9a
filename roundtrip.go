// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package bigfile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RoundTrip parses data, decodes every entry into a record, re-encodes the
// archive and compares it with data. A difference is reported as a
// *DivergenceError carrying the first differing offset.
func RoundTrip(ctx context.Context, data []byte, opts RoundTripOptions) (*Archive, error) {
	a, err := Parse(data, opts.Reader)
	if err != nil {
		return nil, err
	}

	results, err := a.DecodeEntries(ctx, opts.Decode)
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		if res.Err != nil {
			return nil, res.Err
		}
	}

	encoded, err := a.Encode(opts.Writer)
	if err != nil {
		return nil, fmt.Errorf("re-encode: %w", err)
	}

	if off := firstDifference(data, encoded); off >= 0 {
		Logger().Warn("round trip diverged",
			zap.Int64("offset", off),
			zap.Int("original", len(data)),
			zap.Int("encoded", len(encoded)))
		return a, &DivergenceError{Offset: off, Original: len(data), Encoded: len(encoded)}
	}

	return a, nil
}

// firstDifference returns the first offset where a and b differ, or -1.
func firstDifference(a, b []byte) int64 {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return int64(i)
		}
	}

	if len(a) != len(b) {
		return int64(n)
	}

	return -1
}
