// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

import "github.com/woozymasta/bigfile/binio"

// RotShapeDataBody holds billboard shape parameters.
type RotShapeDataBody struct {
	One    uint32     `json:"one" yaml:"one"`
	Zeroes [28]uint16 `json:"zeroes" yaml:"zeroes"`
	Pad    [32]byte   `json:"pad" yaml:"pad"`
	Scale  float32    `json:"scale" yaml:"scale"`
}

// RotShapeData is a resource link header followed by the shape parameters.
// The body layout is reconstructed and has not been checked against shipped archives.
type RotShapeData = Trivial[ResourceLinkHeader, RotShapeDataBody]

// DecodeFrom reads the fixed-size body.
func (b *RotShapeDataBody) DecodeFrom(r *binio.Reader) error {
	var err error
	if b.One, err = r.U32(); err != nil {
		return err
	}

	for i := range b.Zeroes {
		if b.Zeroes[i], err = r.U16(); err != nil {
			return err
		}
	}

	pad, err := r.Bytes(len(b.Pad))
	if err != nil {
		return err
	}

	copy(b.Pad[:], pad)
	b.Scale, err = r.F32()
	return err
}

// EncodeTo writes the fixed-size body.
func (b RotShapeDataBody) EncodeTo(w *binio.Writer) {
	w.U32(b.One)
	for _, z := range b.Zeroes {
		w.U16(z)
	}

	w.Raw(b.Pad[:])
	w.F32(b.Scale)
}
