// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

import (
	"encoding/binary"
	"math"
)

// Decoder is implemented by values that parse themselves from a Reader.
type Decoder interface {
	DecodeFrom(r *Reader) error
}

// Encoder is implemented by values that serialize themselves to a Writer.
type Encoder interface {
	EncodeTo(w *Writer)
}

// Codec is a value that can be both decoded and re-encoded.
// EncodeTo must reproduce exactly the bytes DecodeFrom consumed.
type Codec interface {
	Decoder
	Encoder
}

// Reader is a position-tracking cursor over an in-memory buffer.
type Reader struct {
	buf   []byte
	bo    binary.ByteOrder
	base  int64
	pos   int
	order ByteOrder
}

// NewReader returns a Reader over buf using the given byte order.
func NewReader(buf []byte, order ByteOrder) *Reader {
	return &Reader{buf: buf, order: order, bo: order.Binary()}
}

// Order returns the byte order used for multi-byte reads.
func (r *Reader) Order() ByteOrder {
	return r.order
}

// SetOrder switches the byte order for subsequent reads.
func (r *Reader) SetOrder(order ByteOrder) {
	r.order = order
	r.bo = order.Binary()
}

// Position returns the absolute offset of the next unread byte.
func (r *Reader) Position() int64 {
	return r.base + int64(r.pos)
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// Sub returns a Reader over the next n bytes and advances past them.
// Offsets reported by the sub-reader stay absolute.
func (r *Reader) Sub(n int) (*Reader, error) {
	b, err := r.view(n)
	if err != nil {
		return nil, err
	}

	return &Reader{buf: b, order: r.order, bo: r.bo, base: r.base + int64(r.pos-n)}, nil
}

// Errorf wraps err with the current absolute offset.
func (r *Reader) Errorf(err error) error {
	return &OffsetError{Err: err, Offset: r.Position()}
}

// view returns the next n bytes without copying.
func (r *Reader) view(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.Errorf(ErrTruncatedInput)
	}

	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.view(n)
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Remaining returns a copy of every unread byte.
func (r *Reader) Remaining() []byte {
	out, _ := r.Bytes(r.Len())
	return out
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.view(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// U16 reads a 16-bit unsigned integer.
func (r *Reader) U16() (uint16, error) {
	b, err := r.view(2)
	if err != nil {
		return 0, err
	}

	return r.bo.Uint16(b), nil
}

// U32 reads a 32-bit unsigned integer.
func (r *Reader) U32() (uint32, error) {
	b, err := r.view(4)
	if err != nil {
		return 0, err
	}

	return r.bo.Uint32(b), nil
}

// U64 reads a 64-bit unsigned integer.
func (r *Reader) U64() (uint64, error) {
	b, err := r.view(8)
	if err != nil {
		return 0, err
	}

	return r.bo.Uint64(b), nil
}

// I8 reads a signed byte.
func (r *Reader) I8() (int8, error) {
	v, err := r.U8()
	return int8(v), err //nolint:gosec // two's complement reinterpretation
}

// I16 reads a 16-bit signed integer.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err //nolint:gosec // two's complement reinterpretation
}

// I32 reads a 32-bit signed integer.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err //nolint:gosec // two's complement reinterpretation
}

// I64 reads a 64-bit signed integer.
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err //nolint:gosec // two's complement reinterpretation
}

// F32 reads an IEEE-754 single. The bit pattern is kept as-is, NaN payloads included.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// F64 reads an IEEE-754 double.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	return math.Float64frombits(v), err
}

// Bool8 reads a one-byte boolean. Only 0 and 1 are accepted so the value re-encodes exactly.
func (r *Reader) Bool8() (bool, error) {
	v, err := r.U8()
	if err != nil {
		return false, err
	}

	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, r.Errorf(ErrInvalidToken)
	}
}

// Count reads a size field of the given width.
func (r *Reader) Count(width SizeWidth) (int, error) {
	switch width {
	case Size8:
		v, err := r.U8()
		return int(v), err
	case Size16:
		v, err := r.U16()
		return int(v), err
	default:
		v, err := r.U32()
		if err != nil {
			return 0, err
		}
		if uint64(v) > uint64(math.MaxInt32) {
			return 0, r.Errorf(ErrTruncatedInput)
		}

		return int(v), nil
	}
}

// Decode reads v from r.
func (r *Reader) Decode(v Decoder) error {
	return v.DecodeFrom(r)
}

// ExpectEnd fails with ErrSizeMismatch when unread bytes remain.
func (r *Reader) ExpectEnd() error {
	if r.Len() != 0 {
		return r.Errorf(ErrSizeMismatch)
	}

	return nil
}
