// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

import (
	"fmt"

	"github.com/woozymasta/bigfile/binio"
)

// Sound flag bits. Remaining bits are kept verbatim.
const (
	SoundLooping uint8 = 0
	SoundStereo  uint8 = 1
)

// SoundFlagLayout names the bits of Sound.Flags.
var SoundFlagLayout = []binio.BitField{
	{Name: "looping", Offset: SoundLooping, Width: 1},
	{Name: "stereo", Offset: SoundStereo, Width: 1},
	{Name: "reserved", Offset: 2, Width: 14},
}

// Sound is 16-bit PCM audio.
//
// Body layout: u32 sample rate, u16 flags, loop start and end (u32 each,
// looping sounds only), u32 data size in bytes, then samples. Stereo samples
// are interleaved left then right. The layout is reconstructed and has not
// been checked against shipped archives.
type Sound struct {
	LinkHeader ResourceLinkHeader `json:"link_header" yaml:"link_header"`
	SampleRate uint32             `json:"sample_rate" yaml:"sample_rate"`
	Flags      binio.Flags16      `json:"flags" yaml:"flags"`
	LoopStart  uint32             `json:"loop_start,omitempty" yaml:"loop_start,omitempty"`
	LoopEnd    uint32             `json:"loop_end,omitempty" yaml:"loop_end,omitempty"`
	Left       []int16            `json:"left" yaml:"left"`
	Right      []int16            `json:"right,omitempty" yaml:"right,omitempty"`
}

// Looping reports whether loop points are present.
func (s *Sound) Looping() bool {
	return s.Flags.Bit(SoundLooping)
}

// Stereo reports whether the sound has two channels.
func (s *Sound) Stereo() bool {
	return s.Flags.Bit(SoundStereo)
}

func decodeSound(linkHeader, body []byte, order binio.ByteOrder) (Record, error) {
	s := &Sound{}
	if err := decodeAll(linkHeader, order, &s.LinkHeader); err != nil {
		return nil, fmt.Errorf("link header: %w", err)
	}

	if err := decodeAll(body, order, (*soundBody)(s)); err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}

	return s, nil
}

// Encode writes the link header and body.
func (s *Sound) Encode(order binio.ByteOrder) ([]byte, []byte, error) {
	if s.Stereo() && len(s.Left) != len(s.Right) {
		return nil, nil, fmt.Errorf("stereo sound with %d left and %d right samples", len(s.Left), len(s.Right))
	}

	header, err := encodeValue(order, &s.LinkHeader)
	if err != nil {
		return nil, nil, err
	}

	body, err := encodeValue(order, (*soundBody)(s))
	if err != nil {
		return nil, nil, err
	}

	return header, body, nil
}

// soundBody carries the body codec so the record itself only exposes Encode.
type soundBody Sound

func (b *soundBody) DecodeFrom(r *binio.Reader) error {
	var err error
	if b.SampleRate, err = r.U32(); err != nil {
		return err
	}

	if err = b.Flags.DecodeFrom(r); err != nil {
		return err
	}

	if b.Flags.Bit(SoundLooping) {
		if b.LoopStart, err = r.U32(); err != nil {
			return err
		}

		if b.LoopEnd, err = r.U32(); err != nil {
			return err
		}
	}

	size, err := r.U32()
	if err != nil {
		return err
	}

	frame := 2
	if b.Flags.Bit(SoundStereo) {
		frame = 4
	}

	if int64(size) > int64(r.Len()) {
		return r.Errorf(fmt.Errorf("%w: %d sample bytes", binio.ErrTruncatedInput, size))
	}

	if int(size)%frame != 0 {
		return r.Errorf(fmt.Errorf("%w: %d sample bytes for %d-byte frames", binio.ErrSizeMismatch, size, frame))
	}

	n := int(size) / frame
	b.Left = make([]int16, n)
	if frame == 4 {
		b.Right = make([]int16, n)
	}

	for i := range n {
		if b.Left[i], err = r.I16(); err != nil {
			return err
		}

		if frame == 4 {
			if b.Right[i], err = r.I16(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (b *soundBody) EncodeTo(w *binio.Writer) {
	stereo := b.Flags.Bit(SoundStereo)

	w.U32(b.SampleRate)
	b.Flags.EncodeTo(w)
	if b.Flags.Bit(SoundLooping) {
		w.U32(b.LoopStart)
		w.U32(b.LoopEnd)
	}

	frame := 2
	if stereo {
		frame = 4
	}

	w.U32(uint32(len(b.Left) * frame)) //nolint:gosec // sample counts come from a u32 size
	for i, v := range b.Left {
		w.I16(v)
		if stereo {
			w.I16(b.Right[i])
		}
	}
}
