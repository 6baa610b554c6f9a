// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

const lz4MinMatch = 4

// lz4Compress writes a raw LZ4 block.
func lz4Compress(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, err
	}

	// Zero means incompressible; fall back to a single literal sequence.
	if n == 0 {
		return lz4LiteralBlock(data), nil
	}

	return dst[:n], nil
}

func lz4LiteralBlock(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/255+2)
	n := len(data)
	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xF0)
		for n -= 15; n >= 255; n -= 255 {
			out = append(out, 255)
		}

		out = append(out, byte(n))
	}

	return append(out, data...)
}

// lz4Decompress decodes a raw LZ4 block into exactly size bytes.
func lz4Decompress(body []byte, size int) ([]byte, error) {
	out := make([]byte, 0, outputCap(size))
	pos := 0

	next := func() (int, error) {
		if pos >= len(body) {
			return 0, fmt.Errorf("%w: lz4 block ends at %d", ErrTruncatedInput, pos)
		}

		b := body[pos]
		pos++
		return int(b), nil
	}

	length := func(n int) (int, error) {
		if n != 15 {
			return n, nil
		}

		for {
			b, err := next()
			if err != nil {
				return 0, err
			}

			n += b
			if n > size+15 {
				return 0, fmt.Errorf("%w: run length exceeds output", ErrSizeMismatch)
			}

			if b != 255 {
				return n, nil
			}
		}
	}

	for {
		token, err := next()
		if err != nil {
			return nil, err
		}

		lit, err := length(token >> 4)
		if err != nil {
			return nil, err
		}

		if pos+lit > len(body) {
			return nil, fmt.Errorf("%w: %d literals at %d", ErrTruncatedInput, lit, pos)
		}

		if len(out)+lit > size {
			return nil, fmt.Errorf("%w: literal run of %d overflows output", ErrSizeMismatch, lit)
		}

		out = append(out, body[pos:pos+lit]...)
		pos += lit

		// The last sequence carries literals only.
		if pos == len(body) {
			return out, nil
		}

		if pos+2 > len(body) {
			return nil, fmt.Errorf("%w: lz4 offset at %d", ErrTruncatedInput, pos)
		}

		offset := int(body[pos]) | int(body[pos+1])<<8
		pos += 2
		if offset == 0 || offset > len(out) {
			return nil, fmt.Errorf("%w: offset %d with %d bytes produced", ErrInvalidBackReference, offset, len(out))
		}

		n, err := length(token & 15)
		if err != nil {
			return nil, err
		}

		n += lz4MinMatch
		if len(out)+n > size {
			return nil, fmt.Errorf("%w: match of %d overflows output", ErrSizeMismatch, n)
		}

		out = copyMatch(out, offset, n)
	}
}
