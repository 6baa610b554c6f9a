// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

import "fmt"

const (
	lzoWindow   = 0xBFFF
	lzoMaxMatch = 1 << 16

	lzoM2MaxLen    = 8
	lzoM2MaxOffset = 0x800
	lzoM3MaxOffset = 0x4000
)

// lzoCompress produces an LZO1X stream using M2, M3 and M4 back-references.
func lzoCompress(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)+len(data)/16+64+3)
	stateAt := -1

	for _, seq := range greedyParse(data, lzoWindow, 3, lzoMaxMatch) {
		if n := len(seq.literals); n > 0 {
			switch {
			case len(out) == 0 && n <= 238:
				out = append(out, byte(17+n))
			case n <= 3 && stateAt >= 0:
				out[stateAt] |= byte(n)
			case n <= 18:
				out = append(out, byte(n-3))
			default:
				out = append(out, 0)
				out = appendLZOLength(out, n-18)
			}

			out = append(out, seq.literals...)
		}

		if seq.length == 0 {
			break
		}

		out, stateAt = appendLZOMatch(out, seq.length, seq.offset)
	}

	return append(out, 0x11, 0x00, 0x00), nil
}

// appendLZOLength writes n >= 1 as zero bytes worth 255 each plus a final non-zero byte.
func appendLZOLength(out []byte, n int) []byte {
	for n > 255 {
		out = append(out, 0)
		n -= 255
	}

	return append(out, byte(n))
}

// appendLZOMatch writes one back-reference and returns the index of the byte
// whose low two bits carry the following literal count.
func appendLZOMatch(out []byte, length, dist int) ([]byte, int) {
	switch {
	case dist <= lzoM2MaxOffset && length <= lzoM2MaxLen:
		d := dist - 1
		at := len(out)
		return append(out, byte((length-1)<<5|(d&7)<<2), byte(d>>3)), at

	case dist <= lzoM3MaxOffset:
		d := dist - 1
		if length-2 <= 31 {
			out = append(out, byte(32|(length-2)))
		} else {
			out = append(out, 32)
			out = appendLZOLength(out, length-2-31)
		}

		at := len(out)
		return append(out, byte(d<<2), byte(d>>6)), at

	default:
		d := dist - 0x4000
		hi := byte((d & 0x4000) >> 11)
		if length-2 <= 7 {
			out = append(out, 16|hi|byte(length-2))
		} else {
			out = append(out, 16|hi)
			out = appendLZOLength(out, length-2-7)
		}

		v := (d & 0x3FFF) << 2
		at := len(out)
		return append(out, byte(v), byte(v>>8)), at
	}
}

type lzoDecoder struct {
	src  []byte
	out  []byte
	pos  int
	size int
}

func (d *lzoDecoder) next() (int, error) {
	if d.pos >= len(d.src) {
		return 0, fmt.Errorf("%w: lzo stream ends at %d", ErrTruncatedInput, d.pos)
	}

	b := d.src[d.pos]
	d.pos++
	return int(b), nil
}

func (d *lzoDecoder) length(base int) (int, error) {
	n := 0
	for {
		b, err := d.next()
		if err != nil {
			return 0, err
		}

		if b != 0 {
			return base + n + b, nil
		}

		n += 255
		if n > d.size {
			return 0, fmt.Errorf("%w: run length exceeds output", ErrSizeMismatch)
		}
	}
}

func (d *lzoDecoder) literals(n int) error {
	if d.pos+n > len(d.src) {
		return fmt.Errorf("%w: %d literals at %d", ErrTruncatedInput, n, d.pos)
	}

	if len(d.out)+n > d.size {
		return fmt.Errorf("%w: literal run of %d overflows output", ErrSizeMismatch, n)
	}

	d.out = append(d.out, d.src[d.pos:d.pos+n]...)
	d.pos += n
	return nil
}

func (d *lzoDecoder) match(dist, n int) error {
	if dist <= 0 || dist > len(d.out) {
		return fmt.Errorf("%w: distance %d with %d bytes produced", ErrInvalidBackReference, dist, len(d.out))
	}

	if len(d.out)+n > d.size {
		return fmt.Errorf("%w: match of %d overflows output", ErrSizeMismatch, n)
	}

	d.out = copyMatch(d.out, dist, n)
	return nil
}

// Decoder states.
const (
	lzoInstruction = iota // expecting a literal run or a match
	lzoAfterRun           // a literal run of 4+ just ended
	lzoMatch              // instruction byte already read
)

func lzoDecompress(body []byte, size int) ([]byte, error) {
	d := &lzoDecoder{src: body, out: make([]byte, 0, outputCap(size)), size: size}
	state := lzoInstruction
	t := 0

	if len(body) > 0 && body[0] > 17 {
		d.pos = 1
		t = int(body[0]) - 17
		if err := d.literals(t); err != nil {
			return nil, err
		}

		state = lzoAfterRun
		if t < 4 {
			var err error
			if t, err = d.next(); err != nil {
				return nil, err
			}

			state = lzoMatch
		}
	}

	for {
		var err error
		switch state {
		case lzoInstruction:
			if t, err = d.next(); err != nil {
				return nil, err
			}

			if t >= 16 {
				state = lzoMatch
				continue
			}

			if t == 0 {
				if t, err = d.length(15); err != nil {
					return nil, err
				}
			}

			if err := d.literals(t + 3); err != nil {
				return nil, err
			}

			state = lzoAfterRun
			continue

		case lzoAfterRun:
			if t, err = d.next(); err != nil {
				return nil, err
			}

			if t >= 16 {
				state = lzoMatch
				continue
			}

			b, err := d.next()
			if err != nil {
				return nil, err
			}

			if err := d.match(1+0x800+t>>2+b<<2, 3); err != nil {
				return nil, err
			}

		case lzoMatch:
			done, err := d.instruction(t)
			if err != nil {
				return nil, err
			}

			if done {
				if d.pos != len(d.src) {
					return nil, fmt.Errorf("%w: %d bytes after end marker", ErrSizeMismatch, len(d.src)-d.pos)
				}

				return d.out, nil
			}
		}

		// Low two bits of the byte before last carry the trailing literal count.
		if trailing := int(d.src[d.pos-2]) & 3; trailing == 0 {
			state = lzoInstruction
		} else {
			if err := d.literals(trailing); err != nil {
				return nil, err
			}

			if t, err = d.next(); err != nil {
				return nil, err
			}

			state = lzoMatch
		}
	}
}

// instruction decodes one back-reference starting with byte t.
// It reports true on the end-of-stream marker.
func (d *lzoDecoder) instruction(t int) (bool, error) {
	var err error
	switch {
	case t >= 64:
		b, err := d.next()
		if err != nil {
			return false, err
		}

		return false, d.match(1+(t>>2)&7+b<<3, t>>5+1)

	case t >= 32:
		n := t & 31
		if n == 0 {
			if n, err = d.length(31); err != nil {
				return false, err
			}
		}

		v, err := d.le16()
		if err != nil {
			return false, err
		}

		return false, d.match(1+v>>2, n+2)

	case t >= 16:
		n := t & 7
		if n == 0 {
			if n, err = d.length(7); err != nil {
				return false, err
			}
		}

		v, err := d.le16()
		if err != nil {
			return false, err
		}

		dist := (t&8)<<11 + v>>2
		if dist == 0 {
			if n != 1 {
				return false, fmt.Errorf("%w: malformed end marker", ErrInvalidToken)
			}

			return true, nil
		}

		return false, d.match(dist+0x4000, n+2)

	default:
		b, err := d.next()
		if err != nil {
			return false, err
		}

		return false, d.match(1+t>>2+b<<2, 2)
	}
}

func (d *lzoDecoder) le16() (int, error) {
	if d.pos+2 > len(d.src) {
		return 0, fmt.Errorf("%w: lzo distance at %d", ErrTruncatedInput, d.pos)
	}

	v := int(d.src[d.pos]) | int(d.src[d.pos+1])<<8
	d.pos += 2
	return v, nil
}
