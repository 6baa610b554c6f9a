// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

import (
	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/names"
)

// FontCharacter is one glyph cell of a font atlas.
type FontCharacter struct {
	MaterialIndex uint32      `json:"material_index" yaml:"material_index"`
	Descent       float32     `json:"descent" yaml:"descent"`
	TopLeft       binio.Vec2f `json:"top_left" yaml:"top_left"`
	BottomRight   binio.Vec2f `json:"bottom_right" yaml:"bottom_right"`
}

const fontCharacterSize = 4 + 4 + 8 + 8

// DecodeFrom reads the glyph.
func (c *FontCharacter) DecodeFrom(r *binio.Reader) error {
	var err error
	if c.MaterialIndex, err = r.U32(); err != nil {
		return err
	}

	if c.Descent, err = r.F32(); err != nil {
		return err
	}

	if err = c.TopLeft.DecodeFrom(r); err != nil {
		return err
	}

	return c.BottomRight.DecodeFrom(r)
}

// EncodeTo writes the glyph.
func (c FontCharacter) EncodeTo(w *binio.Writer) {
	w.U32(c.MaterialIndex)
	w.F32(c.Descent)
	c.TopLeft.EncodeTo(w)
	c.BottomRight.EncodeTo(w)
}

// FontsBody maps character codes to glyphs. Wire order and duplicate codes
// are kept.
type FontsBody struct {
	Characters     *binio.OrderedMap[uint32, FontCharacter] `json:"characters" yaml:"characters"`
	MaterialCRC32s []names.Name                             `json:"material_crc32s" yaml:"material_crc32s"`
}

// Fonts is a resource link header followed by the glyph table.
// The glyph layout is reconstructed and has not been checked against shipped archives.
type Fonts = Trivial[ResourceLinkHeader, FontsBody]

// DecodeFrom reads the glyph table and material list.
func (b *FontsBody) DecodeFrom(r *binio.Reader) error {
	var err error
	b.Characters, err = binio.ReadOrderedMap(r, binio.Size32, 4+fontCharacterSize,
		(*binio.Reader).U32,
		func(r *binio.Reader) (FontCharacter, error) {
			var c FontCharacter
			err := c.DecodeFrom(r)
			return c, err
		})
	if err != nil {
		return err
	}

	b.MaterialCRC32s, err = readNames(r)
	return err
}

// EncodeTo writes the glyph table and material list.
func (b FontsBody) EncodeTo(w *binio.Writer) {
	binio.WriteOrderedMap(w, binio.Size32, b.Characters, (*binio.Writer).U32, func(w *binio.Writer, c FontCharacter) {
		c.EncodeTo(w)
	})
	writeNames(w, b.MaterialCRC32s)
}
