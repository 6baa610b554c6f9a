// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}

	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func zlibDecompress(body []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, streamError(err)
	}
	defer func() { _ = zr.Close() }()

	// One byte past the declared size is enough to detect a longer stream.
	var out bytes.Buffer
	out.Grow(outputCap(size))
	if _, err := out.ReadFrom(io.LimitReader(zr, int64(size)+1)); err != nil {
		return nil, streamError(err)
	}

	if out.Len() != size {
		return nil, fmt.Errorf("%w: zlib stream has %d bytes, declared %d", ErrSizeMismatch, out.Len(), size)
	}

	return out.Bytes(), nil
}

// streamError classifies errors from stream-oriented codec libraries.
func streamError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncatedInput, err)
	}

	return fmt.Errorf("%w: %w", ErrInvalidToken, err)
}
