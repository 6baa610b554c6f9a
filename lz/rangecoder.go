// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

import (
	"fmt"
	"math/bits"
)

// Carry-less 32-bit range coder.
const (
	rcTop = 1 << 24
	rcBot = 1 << 16

	modelIncrement = 24
	modelLimit     = 1 << 15
	maxGammaBits   = 32
)

type rangeEncoder struct {
	out []byte
	low uint32
	rng uint32
}

func newRangeEncoder(capacity int) *rangeEncoder {
	return &rangeEncoder{rng: 0xFFFFFFFF, out: make([]byte, 0, capacity)}
}

func (e *rangeEncoder) encode(cum, freq, total uint32) {
	e.rng /= total
	e.low += cum * e.rng
	e.rng *= freq

	for {
		if e.low^(e.low+e.rng) >= rcTop {
			if e.rng >= rcBot {
				return
			}

			e.rng = -e.low & (rcBot - 1)
		}

		e.out = append(e.out, byte(e.low>>24))
		e.low <<= 8
		e.rng <<= 8
	}
}

func (e *rangeEncoder) bit(b uint32) {
	e.encode(b, 1, 2)
}

// gamma writes v >= 1 as an Elias-gamma code of direct bits.
func (e *rangeEncoder) gamma(v uint32) {
	n := bits.Len32(v)
	for range n - 1 {
		e.bit(0)
	}

	for i := n - 1; i >= 0; i-- {
		e.bit((v >> uint(i)) & 1) //nolint:gosec // i is non-negative
	}
}

func (e *rangeEncoder) finish() []byte {
	for range 4 {
		e.out = append(e.out, byte(e.low>>24))
		e.low <<= 8
	}

	return e.out
}

type rangeDecoder struct {
	src  []byte
	pos  int
	low  uint32
	rng  uint32
	code uint32
}

func newRangeDecoder(src []byte) (*rangeDecoder, error) {
	d := &rangeDecoder{src: src, rng: 0xFFFFFFFF}
	for range 4 {
		b, err := d.next()
		if err != nil {
			return nil, err
		}

		d.code = d.code<<8 | uint32(b)
	}

	return d, nil
}

func (d *rangeDecoder) next() (byte, error) {
	if d.pos >= len(d.src) {
		return 0, fmt.Errorf("%w: range coder needs byte at %d", ErrTruncatedInput, d.pos)
	}

	b := d.src[d.pos]
	d.pos++
	return b, nil
}

func (d *rangeDecoder) target(total uint32) (uint32, error) {
	d.rng /= total
	v := (d.code - d.low) / d.rng
	if v >= total {
		return 0, fmt.Errorf("%w: range coder target out of range at %d", ErrInvalidToken, d.pos)
	}

	return v, nil
}

func (d *rangeDecoder) consume(cum, freq uint32) error {
	d.low += cum * d.rng
	d.rng *= freq

	for {
		if d.low^(d.low+d.rng) >= rcTop {
			if d.rng >= rcBot {
				return nil
			}

			d.rng = -d.low & (rcBot - 1)
		}

		b, err := d.next()
		if err != nil {
			return err
		}

		d.code = d.code<<8 | uint32(b)
		d.low <<= 8
		d.rng <<= 8
	}
}

func (d *rangeDecoder) bit() (uint32, error) {
	v, err := d.target(2)
	if err != nil {
		return 0, err
	}

	return v, d.consume(v, 1)
}

func (d *rangeDecoder) gamma() (uint32, error) {
	zeros := 0
	for {
		b, err := d.bit()
		if err != nil {
			return 0, err
		}

		if b == 1 {
			break
		}

		zeros++
		if zeros >= maxGammaBits {
			return 0, fmt.Errorf("%w: gamma code longer than %d bits", ErrInvalidToken, maxGammaBits)
		}
	}

	v := uint32(1)
	for range zeros {
		b, err := d.bit()
		if err != nil {
			return 0, err
		}

		v = v<<1 | b
	}

	return v, nil
}

// freqModel is an adaptive frequency table over a small alphabet.
type freqModel struct {
	freq  []uint32
	total uint32
}

func newFreqModel(symbols int) *freqModel {
	m := &freqModel{freq: make([]uint32, symbols)}
	for i := range m.freq {
		m.freq[i] = 1
	}

	m.total = uint32(symbols) //nolint:gosec // small alphabet
	return m
}

func (m *freqModel) update(sym int) {
	m.freq[sym] += modelIncrement
	m.total += modelIncrement
	if m.total <= modelLimit {
		return
	}

	m.total = 0
	for i, f := range m.freq {
		m.freq[i] = (f + 1) / 2
		m.total += m.freq[i]
	}
}

func (m *freqModel) encode(e *rangeEncoder, sym int) {
	var cum uint32
	for _, f := range m.freq[:sym] {
		cum += f
	}

	e.encode(cum, m.freq[sym], m.total)
	m.update(sym)
}

func (m *freqModel) decode(d *rangeDecoder) (int, error) {
	v, err := d.target(m.total)
	if err != nil {
		return 0, err
	}

	var cum uint32
	for sym, f := range m.freq {
		if v < cum+f {
			if err := d.consume(cum, f); err != nil {
				return 0, err
			}

			m.update(sym)
			return sym, nil
		}

		cum += f
	}

	return 0, fmt.Errorf("%w: symbol outside model", ErrInvalidToken)
}
