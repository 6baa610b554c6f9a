// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// SizeWidth is the byte width of a length prefix.
type SizeWidth uint8

// Length prefix widths.
const (
	Size32 SizeWidth = 0 // default
	Size8  SizeWidth = 1
	Size16 SizeWidth = 2
)

// Writer serializes values into an in-memory buffer with a fixed byte order.
type Writer struct {
	buf   bytes.Buffer
	bo    binary.ByteOrder
	order ByteOrder
	tmp   [8]byte
}

// NewWriter returns an empty Writer for the given byte order.
func NewWriter(order ByteOrder) *Writer {
	return &Writer{order: order, bo: order.Binary()}
}

// Order returns the byte order used for multi-byte writes.
func (w *Writer) Order() ByteOrder {
	return w.order
}

// SetOrder switches the byte order for subsequent writes.
func (w *Writer) SetOrder(order ByteOrder) {
	w.order = order
	w.bo = order.Binary()
}

// Bytes returns the written bytes. The slice aliases the writer buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) {
	w.buf.Write(b)
}

// U8 writes one byte.
func (w *Writer) U8(v uint8) {
	w.buf.WriteByte(v)
}

// U16 writes a 16-bit unsigned integer.
func (w *Writer) U16(v uint16) {
	w.bo.PutUint16(w.tmp[:2], v)
	w.buf.Write(w.tmp[:2])
}

// U32 writes a 32-bit unsigned integer.
func (w *Writer) U32(v uint32) {
	w.bo.PutUint32(w.tmp[:4], v)
	w.buf.Write(w.tmp[:4])
}

// U64 writes a 64-bit unsigned integer.
func (w *Writer) U64(v uint64) {
	w.bo.PutUint64(w.tmp[:8], v)
	w.buf.Write(w.tmp[:8])
}

// I8 writes a signed byte.
func (w *Writer) I8(v int8) {
	w.U8(uint8(v)) //nolint:gosec // two's complement reinterpretation
}

// I16 writes a 16-bit signed integer.
func (w *Writer) I16(v int16) {
	w.U16(uint16(v)) //nolint:gosec // two's complement reinterpretation
}

// I32 writes a 32-bit signed integer.
func (w *Writer) I32(v int32) {
	w.U32(uint32(v)) //nolint:gosec // two's complement reinterpretation
}

// I64 writes a 64-bit signed integer.
func (w *Writer) I64(v int64) {
	w.U64(uint64(v)) //nolint:gosec // two's complement reinterpretation
}

// F32 writes an IEEE-754 single.
func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// F64 writes an IEEE-754 double.
func (w *Writer) F64(v float64) {
	w.U64(math.Float64bits(v))
}

// Bool8 writes a one-byte boolean.
func (w *Writer) Bool8(v bool) {
	if v {
		w.U8(1)
		return
	}

	w.U8(0)
}

// Count writes a size field of the given width.
func (w *Writer) Count(width SizeWidth, n int) {
	switch width {
	case Size8:
		w.U8(uint8(n)) //nolint:gosec // caller bounds n by width
	case Size16:
		w.U16(uint16(n)) //nolint:gosec // caller bounds n by width
	default:
		w.U32(uint32(n)) //nolint:gosec // caller bounds n by width
	}
}

// Encode writes v.
func (w *Writer) Encode(v Encoder) {
	v.EncodeTo(w)
}
