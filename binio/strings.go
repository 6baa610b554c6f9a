// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

import "bytes"

// NullString is a NUL-terminated string.
type NullString string

// DecodeFrom reads bytes up to and including the terminator.
func (s *NullString) DecodeFrom(r *Reader) error {
	idx := bytes.IndexByte(r.buf[r.pos:], 0)
	if idx < 0 {
		r.pos = len(r.buf)
		return r.Errorf(ErrTruncatedInput)
	}

	b, _ := r.view(idx + 1)
	*s = NullString(b[:idx])
	return nil
}

// EncodeTo writes the string and its terminator.
func (s NullString) EncodeTo(w *Writer) {
	w.Raw([]byte(s))
	w.U8(0)
}

// PascalString is a u32 length-prefixed string without terminator.
type PascalString string

// DecodeFrom reads the length and the string bytes.
func (s *PascalString) DecodeFrom(r *Reader) error {
	n, err := r.Count(Size32)
	if err != nil {
		return err
	}

	b, err := r.view(n)
	if err != nil {
		return err
	}

	*s = PascalString(b)
	return nil
}

// EncodeTo writes the length and the string bytes.
func (s PascalString) EncodeTo(w *Writer) {
	w.Count(Size32, len(s))
	w.Raw([]byte(s))
}

// PascalStringNull is a u32 length-prefixed string whose length counts a
// trailing NUL. A stored string without that NUL is kept as Terminated=false.
type PascalStringNull struct {
	Value      string `json:"value" yaml:"value"`
	Terminated bool   `json:"terminated" yaml:"terminated"`
}

// DecodeFrom reads the length and the string bytes.
func (s *PascalStringNull) DecodeFrom(r *Reader) error {
	n, err := r.Count(Size32)
	if err != nil {
		return err
	}

	b, err := r.view(n)
	if err != nil {
		return err
	}

	if n > 0 && b[n-1] == 0 {
		s.Value = string(b[:n-1])
		s.Terminated = true
		return nil
	}

	s.Value = string(b)
	s.Terminated = false
	return nil
}

// EncodeTo writes the length, the string bytes and the terminator if present.
func (s PascalStringNull) EncodeTo(w *Writer) {
	n := len(s.Value)
	if s.Terminated {
		n++
	}

	w.Count(Size32, n)
	w.Raw([]byte(s.Value))
	if s.Terminated {
		w.U8(0)
	}
}

// FixedString is a NUL-terminated string stored in a fixed-size field.
// Bytes after the terminator are kept in Pad unless they are all zero.
type FixedString struct {
	Value string `json:"value" yaml:"value"`
	Pad   []byte `json:"pad,omitempty" yaml:"pad,omitempty"`
	Size  int    `json:"size" yaml:"size"`
}

// NewFixedString returns an empty fixed field of the given size.
func NewFixedString(value string, size int) FixedString {
	return FixedString{Value: value, Size: size}
}

// DecodeFrom reads Size bytes. Size must be set by the caller.
func (s *FixedString) DecodeFrom(r *Reader) error {
	b, err := r.view(s.Size)
	if err != nil {
		return err
	}

	idx := bytes.IndexByte(b, 0)
	if idx < 0 {
		s.Value = string(b)
		s.Pad = nil
		return nil
	}

	s.Value = string(b[:idx])
	s.Pad = nil
	tail := b[idx+1:]
	for _, c := range tail {
		if c != 0 {
			s.Pad = append([]byte(nil), tail...)
			break
		}
	}

	return nil
}

// EncodeTo writes exactly Size bytes.
func (s FixedString) EncodeTo(w *Writer) {
	value := s.Value
	if len(value) > s.Size {
		value = value[:s.Size]
	}

	w.Raw([]byte(value))
	if len(value) == s.Size {
		return
	}

	w.U8(0)
	left := s.Size - len(value) - 1
	pad := s.Pad
	if len(pad) > left {
		pad = pad[:left]
	}

	w.Raw(pad)
	for range left - len(pad) {
		w.U8(0)
	}
}
