// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/woozymasta/lzss"
)

// lzssChecksumSize is the trailing checksum every LZSS block ends with.
const lzssChecksumSize = 4

func lzssCompress(data []byte) ([]byte, error) {
	return lzss.Compress(data, lzss.DefaultCompressOptions())
}

// lzssDecompress decodes one LZSS block. The format has no end marker, so a
// body that is a complete block of another length is reported as a size
// mismatch; a body cut inside a token or its checksum is truncated.
func lzssDecompress(body []byte, size int) ([]byte, error) {
	out, consumed, err := lzssDecode(body, size)
	if err == nil {
		if consumed != int64(len(body)) {
			return nil, fmt.Errorf("%w: lzss block ends at %d of %d bytes", ErrSizeMismatch, consumed, len(body))
		}

		return out, nil
	}

	if natural, ok := lzssExtent(body); ok && natural != size {
		if _, n, verr := lzssDecode(body, natural); verr == nil && n == int64(len(body)) {
			return nil, fmt.Errorf("%w: lzss block holds %d bytes, declared %d", ErrSizeMismatch, natural, size)
		}
	}

	return nil, lzssError(err)
}

func lzssDecode(body []byte, size int) ([]byte, int64, error) {
	var buf bytes.Buffer
	buf.Grow(outputCap(size))

	n, err := lzss.DecompressToWriter(&buf, bytes.NewReader(body), size, nil)
	if err != nil {
		return nil, n, err
	}

	return buf.Bytes(), n, nil
}

// lzssExtent walks the token structure of body and returns the number of
// bytes it expands to. ok is false when the tokens do not end exactly at the
// trailing checksum.
func lzssExtent(body []byte) (int, bool) {
	end := len(body) - lzssChecksumSize
	if end < 0 {
		return 0, false
	}

	total, pos := 0, 0
	for pos < end {
		flags := body[pos]
		pos++

		for bit := range lzss.FlagBits {
			if pos == end {
				break
			}

			if flags>>bit&1 == 1 {
				pos++
				total++
				continue
			}

			if pos+2 > end {
				return 0, false
			}

			total += int(body[pos+1]&0x0F) + lzss.MinMatchDefault
			pos += 2
		}
	}

	return total, pos == end
}

// lzssError maps lzss library errors onto the codec error kinds.
func lzssError(err error) error {
	switch {
	case errors.Is(err, lzss.ErrInputTooShort),
		errors.Is(err, lzss.ErrUnexpectedEOF),
		errors.Is(err, lzss.ErrUnexpectedEOFBit),
		errors.Is(err, lzss.ErrEmptyInput):
		return fmt.Errorf("%w: %w", ErrTruncatedInput, err)
	default:
		return streamError(err)
	}
}
