// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

const (
	hashBits = 15
	maxChain = 64
)

// sequence is a literal run followed by an optional back-reference.
// The trailing run of a stream has length 0.
type sequence struct {
	literals []byte
	length   int
	offset   int
}

func hash3(b []byte) uint32 {
	v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	return (v * 2654435761) >> (32 - hashBits)
}

func matchLen(data []byte, a, b, limit int) int {
	n := 0
	for b+n < len(data) && n < limit && data[a+n] == data[b+n] {
		n++
	}

	return n
}

// greedyParse splits data into sequences using hash chains over 3-byte prefixes.
// Matches may overlap their own output. Offsets never exceed window.
func greedyParse(data []byte, window, minMatch, maxMatch int) []sequence {
	head := make([]int32, 1<<hashBits)
	for i := range head {
		head[i] = -1
	}

	prev := make([]int32, len(data))
	insert := func(i int) {
		if i+3 > len(data) {
			return
		}

		h := hash3(data[i:])
		prev[i] = head[h]
		head[h] = int32(i) //nolint:gosec // inputs are bounded well below 2 GiB
	}

	var seqs []sequence
	litStart := 0
	i := 0
	for i < len(data) {
		bestLen, bestOff := 0, 0
		if i+minMatch <= len(data) {
			cand := head[hash3(data[i:])]
			for chain := 0; cand >= 0 && chain < maxChain; chain++ {
				dist := i - int(cand)
				if dist > window {
					break
				}

				if l := matchLen(data, int(cand), i, maxMatch); l > bestLen {
					bestLen, bestOff = l, dist
					if l == maxMatch {
						break
					}
				}

				cand = prev[cand]
			}
		}

		if bestLen >= minMatch {
			seqs = append(seqs, sequence{literals: data[litStart:i], length: bestLen, offset: bestOff})
			for k := i; k < i+bestLen; k++ {
				insert(k)
			}

			i += bestLen
			litStart = i
			continue
		}

		insert(i)
		i++
	}

	return append(seqs, sequence{literals: data[litStart:]})
}

// copyMatch appends length bytes starting dist bytes back, byte by byte so
// overlapping references repeat their own output.
func copyMatch(out []byte, dist, length int) []byte {
	start := len(out) - dist
	for k := range length {
		out = append(out, out[start+k])
	}

	return out
}
