// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package names

// asoboPolynomial is the CRC-32 generator processed MSB-first (non-reflected).
const asoboPolynomial = 0x04C11DB7

var crcTable = makeTable(asoboPolynomial)

func makeTable(poly uint32) *[256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i) << 24 //nolint:gosec // i < 256
		for range 8 {
			if c&0x80000000 != 0 {
				c = c<<1 ^ poly
			} else {
				c <<= 1
			}
		}

		t[i] = c
	}

	return &t
}

// Hash returns the Asobo CRC-32 of s. ASCII letters are folded to lower case
// so names hash the same regardless of the case they were authored in.
func Hash(s string) Name {
	return HashBytes([]byte(s), 0)
}

// HashBytes returns the Asobo CRC-32 of b continuing from starting.
func HashBytes(b []byte, starting uint32) Name {
	crc := starting
	for _, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}

		crc = crc<<8 ^ crcTable[byte(crc>>24)^c]
	}

	return Name(crc)
}
