// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

// BitField names a run of bits inside a flag aggregate. Offset 0 is the least
// significant bit.
type BitField struct {
	Name   string
	Offset uint8
	Width  uint8
}

// FieldValue is one decomposed bit field, used for reports.
type FieldValue struct {
	Name  string `json:"name" yaml:"name"`
	Value uint32 `json:"value" yaml:"value"`
}

// Flags32 is a 32-bit flag aggregate. Every bit, padding included, is stored
// verbatim so the value re-encodes exactly.
type Flags32 uint32

// Bit reports whether bit n is set.
func (f Flags32) Bit(n uint8) bool {
	return f>>n&1 == 1
}

// Field returns width bits starting at offset.
func (f Flags32) Field(offset, width uint8) uint32 {
	return extractBits(uint32(f), offset, width)
}

// WithField returns f with width bits at offset replaced by v.
func (f Flags32) WithField(offset, width uint8, v uint32) Flags32 {
	return Flags32(insertBits(uint32(f), offset, width, v))
}

// Decompose splits f according to layout.
func (f Flags32) Decompose(layout []BitField) []FieldValue {
	return decompose(uint32(f), layout)
}

// DecodeFrom reads 4 bytes.
func (f *Flags32) DecodeFrom(r *Reader) error {
	v, err := r.U32()
	*f = Flags32(v)
	return err
}

// EncodeTo writes 4 bytes.
func (f Flags32) EncodeTo(w *Writer) {
	w.U32(uint32(f))
}

// Flags16 is a 16-bit flag aggregate.
type Flags16 uint16

// Bit reports whether bit n is set.
func (f Flags16) Bit(n uint8) bool {
	return f>>n&1 == 1
}

// Field returns width bits starting at offset.
func (f Flags16) Field(offset, width uint8) uint32 {
	return extractBits(uint32(f), offset, width)
}

// WithField returns f with width bits at offset replaced by v.
func (f Flags16) WithField(offset, width uint8, v uint32) Flags16 {
	return Flags16(insertBits(uint32(f), offset, width, v)) //nolint:gosec // 16-bit layout
}

// Decompose splits f according to layout.
func (f Flags16) Decompose(layout []BitField) []FieldValue {
	return decompose(uint32(f), layout)
}

// DecodeFrom reads 2 bytes.
func (f *Flags16) DecodeFrom(r *Reader) error {
	v, err := r.U16()
	*f = Flags16(v)
	return err
}

// EncodeTo writes 2 bytes.
func (f Flags16) EncodeTo(w *Writer) {
	w.U16(uint16(f))
}

func mask(width uint8) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}

	return 1<<width - 1
}

func extractBits(v uint32, offset, width uint8) uint32 {
	return v >> offset & mask(width)
}

func insertBits(v uint32, offset, width uint8, field uint32) uint32 {
	m := mask(width) << offset
	return v&^m | field<<offset&m
}

func decompose(v uint32, layout []BitField) []FieldValue {
	out := make([]FieldValue, len(layout))
	for i, field := range layout {
		out[i] = FieldValue{Name: field.Name, Value: extractBits(v, field.Offset, field.Width)}
	}

	return out
}
