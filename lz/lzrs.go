// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

import "fmt"

// LZRS stream parameters.
const (
	LZRSMinMatch  = 3
	LZRSMaxOffset = 1 << 16
	lzrsMaxMatch  = 1 << 16
)

const (
	tokenLiterals = iota
	tokenMatch
	tokenEnd
	tokenKinds
)

// lzrsCompress emits a token stream through the range coder. A literal run
// is a kind symbol, a gamma-coded length and one adaptive symbol per byte.
// A back-reference is a kind symbol, gamma(length-MinMatch+1) and gamma(offset).
// The stream closes with an end symbol and the coder flush.
func lzrsCompress(data []byte) ([]byte, error) {
	enc := newRangeEncoder(len(data)/2 + 16)
	kinds := newFreqModel(tokenKinds)
	literals := newFreqModel(256)

	for _, seq := range greedyParse(data, LZRSMaxOffset, LZRSMinMatch, lzrsMaxMatch) {
		if len(seq.literals) > 0 {
			kinds.encode(enc, tokenLiterals)
			enc.gamma(uint32(len(seq.literals))) //nolint:gosec // bounded by input size
			for _, b := range seq.literals {
				literals.encode(enc, int(b))
			}
		}

		if seq.length == 0 {
			continue
		}

		kinds.encode(enc, tokenMatch)
		enc.gamma(uint32(seq.length - LZRSMinMatch + 1)) //nolint:gosec // bounded by lzrsMaxMatch
		enc.gamma(uint32(seq.offset))                    //nolint:gosec // bounded by LZRSMaxOffset
	}

	kinds.encode(enc, tokenEnd)
	return enc.finish(), nil
}

func lzrsDecompress(body []byte, size int) ([]byte, error) {
	dec, err := newRangeDecoder(body)
	if err != nil {
		return nil, err
	}

	kinds := newFreqModel(tokenKinds)
	literals := newFreqModel(256)
	out := make([]byte, 0, outputCap(size))

	for {
		kind, err := kinds.decode(dec)
		if err != nil {
			return nil, err
		}

		if kind == tokenEnd {
			break
		}

		if kind == tokenLiterals {
			n, err := dec.gamma()
			if err != nil {
				return nil, err
			}

			if int64(n) > int64(size-len(out)) {
				return nil, fmt.Errorf("%w: literal run of %d overflows output", ErrSizeMismatch, n)
			}

			for range n {
				sym, err := literals.decode(dec)
				if err != nil {
					return nil, err
				}

				out = append(out, byte(sym))
			}

			continue
		}

		l, err := dec.gamma()
		if err != nil {
			return nil, err
		}

		off, err := dec.gamma()
		if err != nil {
			return nil, err
		}

		length := int64(l) + LZRSMinMatch - 1
		if int64(off) > LZRSMaxOffset || int64(off) > int64(len(out)) {
			return nil, fmt.Errorf("%w: offset %d with %d bytes produced", ErrInvalidBackReference, off, len(out))
		}

		if length > int64(size-len(out)) {
			return nil, fmt.Errorf("%w: match of %d overflows output", ErrSizeMismatch, length)
		}

		out = copyMatch(out, int(off), int(length))
	}

	if len(out) != size {
		return nil, fmt.Errorf("%w: decoded %d bytes, declared %d", ErrSizeMismatch, len(out), size)
	}

	if dec.pos != len(body) {
		return nil, fmt.Errorf("%w: %d unread body bytes", ErrSizeMismatch, len(body)-dec.pos)
	}

	return out, nil
}
