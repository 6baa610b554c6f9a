// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

/*
Package lz implements the compression codecs used by bigfile entries.

Every codec shares one framing header, written in the caller's byte order:

	u32 uncompressed_size
	u32 compressed_size   // length of the codec body that follows
	[compressed_size]     codec body

Decompression must produce exactly uncompressed_size bytes from exactly
compressed_size bytes; anything else is ErrSizeMismatch. Empty input frames
as an empty body for every codec.
*/
package lz

import (
	"fmt"
	"strings"

	"github.com/woozymasta/bigfile/binio"
)

// Error kinds reported by the codecs.
var (
	ErrTruncatedInput       = binio.ErrTruncatedInput
	ErrSizeMismatch         = binio.ErrSizeMismatch
	ErrInvalidBackReference = binio.ErrInvalidBackReference
	ErrInvalidToken         = binio.ErrInvalidToken
	ErrMalformedHeader      = binio.ErrMalformedHeader
)

// HeaderSize is the framing header size in bytes.
const HeaderSize = 8

// maxBodySize bounds declared sizes to what the framing header can carry.
const maxBodySize = 1 << 31

// maxInitialCap bounds the output buffer reserved before any token is decoded.
// Decoders grow past it only as output is actually produced.
const maxInitialCap = 1 << 20

// outputCap returns the initial output capacity for a declared size.
func outputCap(size int) int {
	return min(size, maxInitialCap)
}

// Algorithm selects a codec. The numeric values are the on-disk pool selector.
type Algorithm uint8

// Supported codecs.
const (
	None Algorithm = iota
	LZRS
	LZO
	LZ4
	Zlib
	LZSS
)

var algorithmNames = [...]string{
	None: "none",
	LZRS: "lzrs",
	LZO:  "lzo",
	LZ4:  "lz4",
	Zlib: "zlib",
	LZSS: "lzss",
}

// String returns the lower-case codec name.
func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}

	return fmt.Sprintf("unknown(%d)", uint8(a))
}

// Valid reports whether a is a known codec.
func (a Algorithm) Valid() bool {
	return int(a) < len(algorithmNames)
}

// ParseAlgorithm parses a codec name.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil //nolint:gosec // bounded by table size
		}
	}

	return 0, fmt.Errorf("unknown compression algorithm %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}

// Header is the framing header preceding every codec body.
type Header struct {
	Uncompressed uint32 `json:"uncompressed" yaml:"uncompressed"`
	Compressed   uint32 `json:"compressed" yaml:"compressed"`
}

// DecodeFrom reads the header.
func (h *Header) DecodeFrom(r *binio.Reader) error {
	var err error
	if h.Uncompressed, err = r.U32(); err != nil {
		return err
	}

	h.Compressed, err = r.U32()
	return err
}

// EncodeTo writes the header.
func (h Header) EncodeTo(w *binio.Writer) {
	w.U32(h.Uncompressed)
	w.U32(h.Compressed)
}

// codec pairs the body transforms of one algorithm.
type codec struct {
	compress   func(data []byte) ([]byte, error)
	decompress func(body []byte, size int) ([]byte, error)
}

var codecs = map[Algorithm]codec{
	None: {compress: storeCompress, decompress: storeDecompress},
	LZRS: {compress: lzrsCompress, decompress: lzrsDecompress},
	LZO:  {compress: lzoCompress, decompress: lzoDecompress},
	LZ4:  {compress: lz4Compress, decompress: lz4Decompress},
	Zlib: {compress: zlibCompress, decompress: zlibDecompress},
	LZSS: {compress: lzssCompress, decompress: lzssDecompress},
}

func lookup(alg Algorithm) (codec, error) {
	c, ok := codecs[alg]
	if !ok {
		return codec{}, fmt.Errorf("%w: unknown compression algorithm %d", ErrMalformedHeader, alg)
	}

	return c, nil
}

// CompressBody compresses data into a bare codec body.
func CompressBody(alg Algorithm, data []byte) ([]byte, error) {
	c, err := lookup(alg)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return []byte{}, nil
	}

	body, err := c.compress(data)
	if err != nil {
		return nil, fmt.Errorf("%s compress: %w", alg, err)
	}

	return body, nil
}

// DecompressBody decodes a bare codec body that must expand to exactly size bytes.
func DecompressBody(alg Algorithm, body []byte, size int) ([]byte, error) {
	c, err := lookup(alg)
	if err != nil {
		return nil, err
	}

	if size < 0 || size > maxBodySize {
		return nil, fmt.Errorf("%w: declared size %d", ErrSizeMismatch, size)
	}

	if size == 0 && len(body) == 0 {
		return []byte{}, nil
	}

	out, err := c.decompress(body, size)
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", alg, err)
	}

	if len(out) != size {
		return nil, fmt.Errorf("%s decompress: %w: got %d bytes, declared %d", alg, ErrSizeMismatch, len(out), size)
	}

	return out, nil
}

// Compress compresses data and prepends the framing header.
func Compress(alg Algorithm, data []byte, order binio.ByteOrder) ([]byte, error) {
	if uint64(len(data)) > maxBodySize {
		return nil, fmt.Errorf("%w: input of %d bytes", ErrSizeMismatch, len(data))
	}

	body, err := CompressBody(alg, data)
	if err != nil {
		return nil, err
	}

	w := binio.NewWriter(order)
	Header{
		Uncompressed: uint32(len(data)), //nolint:gosec // bounded above
		Compressed:   uint32(len(body)), //nolint:gosec // codecs never expand past 4 GiB for 2 GiB input
	}.EncodeTo(w)
	w.Raw(body)

	return w.Bytes(), nil
}

// ReadHeader parses the framing header at the start of frame.
func ReadHeader(frame []byte, order binio.ByteOrder) (Header, error) {
	var h Header
	if err := h.DecodeFrom(binio.NewReader(frame, order)); err != nil {
		return h, fmt.Errorf("read frame header: %w", err)
	}

	return h, nil
}

// Decompress parses a framed stream and returns the decompressed bytes.
func Decompress(alg Algorithm, frame []byte, order binio.ByteOrder) ([]byte, error) {
	h, err := ReadHeader(frame, order)
	if err != nil {
		return nil, err
	}

	body := frame[HeaderSize:]
	if uint64(h.Compressed) != uint64(len(body)) {
		return nil, fmt.Errorf("%w: frame declares %d compressed bytes, has %d", ErrSizeMismatch, h.Compressed, len(body))
	}

	return DecompressBody(alg, body, int(h.Uncompressed))
}

func storeCompress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func storeDecompress(body []byte, size int) ([]byte, error) {
	if len(body) != size {
		return nil, ErrSizeMismatch
	}

	return storeCompress(body)
}
