// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package lz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"runtime"
	"testing"

	lzo "github.com/anchore/go-lzo"
	"github.com/pierrec/lz4/v4"

	"github.com/woozymasta/bigfile/binio"
)

var allAlgorithms = []Algorithm{None, LZRS, LZO, LZ4, Zlib, LZSS}

func randomBytes(n int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.Uint32())
	}

	return out
}

// farRepeats builds input whose matches land in every LZO distance class.
func farRepeats() []byte {
	base := randomBytes(0x6000, 7)
	var buf bytes.Buffer
	buf.Write(base)
	buf.Write(base[0x100:0x180])   // distance beyond 0x4000
	buf.Write(base[0x5000:0x5020]) // distance within 0x4000
	buf.Write(randomBytes(300, 8)) // long literal run
	buf.Write(base[0x5F00:0x5F05]) // short match
	buf.Write(bytes.Repeat([]byte{0xAB}, 5000))
	return buf.Bytes()
}

func testInputs() map[string][]byte {
	return map[string][]byte{
		"empty":    nil,
		"single":   {0x42},
		"run4":     []byte("aaaa"),
		"text":     bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200),
		"random":   randomBytes(4096, 1),
		"zeros":    make([]byte, 100000),
		"far":      farRepeats(),
		"tail3":    []byte("abcdefabcdefxyz"),
		"literal2": []byte("ab"),
	}
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	t.Parallel()

	for _, alg := range allAlgorithms {
		for name, data := range testInputs() {
			for _, order := range []binio.ByteOrder{binio.LittleEndian, binio.BigEndian} {
				t.Run(alg.String()+"/"+name+"/"+order.String(), func(t *testing.T) {
					t.Parallel()

					frame, err := Compress(alg, data, order)
					if err != nil {
						t.Fatalf("Compress: %v", err)
					}

					got, err := Decompress(alg, frame, order)
					if err != nil {
						t.Fatalf("Decompress: %v", err)
					}

					if !bytes.Equal(got, data) {
						t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
					}
				})
			}
		}
	}
}

func TestFrameHeaderByteOrder(t *testing.T) {
	t.Parallel()

	data := []byte("byte order check")
	le, err := Compress(None, data, binio.LittleEndian)
	if err != nil {
		t.Fatalf("Compress LE: %v", err)
	}

	be, err := Compress(None, data, binio.BigEndian)
	if err != nil {
		t.Fatalf("Compress BE: %v", err)
	}

	if got := binary.LittleEndian.Uint32(le); got != uint32(len(data)) {
		t.Fatalf("LE uncompressed size=%d, want %d", got, len(data))
	}

	if got := binary.BigEndian.Uint32(be); got != uint32(len(data)) {
		t.Fatalf("BE uncompressed size=%d, want %d", got, len(data))
	}

	if !bytes.Equal(le[HeaderSize:], be[HeaderSize:]) {
		t.Fatal("stored bodies differ between byte orders")
	}
}

func TestDecompressFrameErrors(t *testing.T) {
	t.Parallel()

	frame, err := Compress(LZ4, []byte("frame error check frame error check"), binio.LittleEndian)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if _, err := Decompress(LZ4, frame[:5], binio.LittleEndian); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("short header: expected ErrTruncatedInput, got %v", err)
	}

	if _, err := Decompress(LZ4, frame[:len(frame)-1], binio.LittleEndian); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("short body: expected ErrSizeMismatch, got %v", err)
	}

	if _, err := Decompress(Algorithm(99), frame, binio.LittleEndian); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("unknown codec: expected ErrMalformedHeader, got %v", err)
	}
}

func TestDeclaredSizeMismatch(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("hello world "), 40)
	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			t.Parallel()

			body, err := CompressBody(alg, data)
			if err != nil {
				t.Fatalf("CompressBody: %v", err)
			}

			for _, size := range []int{len(data) - 1, len(data) + 1} {
				if _, err := DecompressBody(alg, body, size); !errors.Is(err, ErrSizeMismatch) {
					t.Fatalf("size %d: expected ErrSizeMismatch, got %v", size, err)
				}
			}
		})
	}
}

// Not parallel: TotalAlloc is process wide.
func TestHugeDeclaredSizeAllocatesLittle(t *testing.T) {
	const declared = 0x7FFFFFF0

	data := []byte("hello hello hello")
	for _, alg := range allAlgorithms {
		body, err := CompressBody(alg, data)
		if err != nil {
			t.Fatalf("%s: CompressBody: %v", alg, err)
		}

		w := binio.NewWriter(binio.LittleEndian)
		Header{Uncompressed: declared, Compressed: uint32(len(body))}.EncodeTo(w)
		w.Raw(body)
		frame := w.Bytes()

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, err = Decompress(alg, frame, binio.LittleEndian)
		runtime.ReadMemStats(&after)

		if !errors.Is(err, ErrSizeMismatch) {
			t.Fatalf("%s: expected ErrSizeMismatch, got %v", alg, err)
		}

		if delta := after.TotalAlloc - before.TotalAlloc; delta > 64<<20 {
			t.Fatalf("%s: allocated %d bytes for a %d byte frame", alg, delta, len(frame))
		}
	}
}

func TestLZSSBlockErrors(t *testing.T) {
	t.Parallel()

	// Three literals "abc" followed by their unsigned byte sum.
	block := []byte{0x07, 'a', 'b', 'c', 0x26, 0x01, 0x00, 0x00}

	got, err := DecompressBody(LZSS, block, 3)
	if err != nil {
		t.Fatalf("DecompressBody: %v", err)
	}

	if string(got) != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}

	tests := []struct {
		want error
		name string
		body []byte
		size int
	}{
		{name: "declared larger", body: block, size: 4, want: ErrSizeMismatch},
		{name: "declared smaller", body: block, size: 2, want: ErrSizeMismatch},
		{name: "trailing byte", body: append(bytes.Clone(block), 0), size: 3, want: ErrSizeMismatch},
		{name: "checksum cut", body: block[:7], size: 3, want: ErrTruncatedInput},
		{name: "literal cut", body: block[:3], size: 3, want: ErrTruncatedInput},
		{name: "bad checksum", body: []byte{0x07, 'a', 'b', 'c', 0x27, 0x01, 0x00, 0x00}, size: 3, want: ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := DecompressBody(LZSS, tc.body, tc.size); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEmptyBlockDecodesEmpty(t *testing.T) {
	t.Parallel()

	for _, alg := range allAlgorithms {
		got, err := DecompressBody(alg, nil, 0)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}

		if len(got) != 0 {
			t.Fatalf("%s: got %d bytes", alg, len(got))
		}
	}
}

func TestLZRSTruncatedStream(t *testing.T) {
	t.Parallel()

	data := []byte("aaaa")
	body, err := CompressBody(LZRS, data)
	if err != nil {
		t.Fatalf("CompressBody: %v", err)
	}

	for cut := 1; cut <= len(body); cut++ {
		_, err := DecompressBody(LZRS, body[:len(body)-cut], len(data))
		if !errors.Is(err, ErrTruncatedInput) {
			t.Fatalf("cut %d: expected ErrTruncatedInput, got %v", cut, err)
		}
	}
}

func TestLZRSTrailingBytes(t *testing.T) {
	t.Parallel()

	data := []byte("trailing trailing trailing")
	body, err := CompressBody(LZRS, data)
	if err != nil {
		t.Fatalf("CompressBody: %v", err)
	}

	body = append(body, 0)
	if _, err := DecompressBody(LZRS, body, len(data)); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestLZRSCompresses(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("compressible "), 1000)
	body, err := CompressBody(LZRS, data)
	if err != nil {
		t.Fatalf("CompressBody: %v", err)
	}

	if len(body) >= len(data)/10 {
		t.Fatalf("body of %d bytes for %d input bytes", len(body), len(data))
	}
}

func TestInvalidBackReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		alg  Algorithm
		body []byte
		size int
	}{
		// zero literals then a 4-byte match at offset 1 with empty history
		{name: "lz4", alg: LZ4, body: []byte{0x00, 0x01, 0x00}, size: 4},
		{name: "lz4 zero offset", alg: LZ4, body: []byte{0x10, 'a', 0x00, 0x00}, size: 5},
		// one literal then an M2 reference five bytes back
		{name: "lzo", alg: LZO, body: []byte{18, 'a', 80, 0, 0x11, 0, 0}, size: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := DecompressBody(tc.alg, tc.body, tc.size); !errors.Is(err, ErrInvalidBackReference) {
				t.Fatalf("expected ErrInvalidBackReference, got %v", err)
			}
		})
	}
}

func TestLZODecodeVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []byte
		want string
	}{
		{name: "end marker only", body: []byte{0x11, 0, 0}, want: ""},
		{name: "first literal run", body: []byte{17 + 5, 'h', 'e', 'l', 'l', 'o', 0x11, 0, 0}, want: "hello"},
		// three literals, M2 length 3 distance 3
		{name: "m2", body: []byte{20, 'a', 'b', 'c', 72, 0, 0x11, 0, 0}, want: "abcabc"},
		// two literals, M2 length 3 distance 2 carrying one trailing literal
		{name: "state literal", body: []byte{19, 'x', 'y', 69, 0, 'z', 0x11, 0, 0}, want: "xyxyxz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecompressBody(LZO, tc.body, len(tc.want))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}

			if string(got) != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLZOTruncated(t *testing.T) {
	t.Parallel()

	data := farRepeats()
	body, err := CompressBody(LZO, data)
	if err != nil {
		t.Fatalf("CompressBody: %v", err)
	}

	if _, err := DecompressBody(LZO, body[:len(body)-2], len(data)); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
}

func TestLZOInterop(t *testing.T) {
	t.Parallel()

	for name, data := range testInputs() {
		if len(data) == 0 {
			continue
		}

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			body, err := CompressBody(LZO, data)
			if err != nil {
				t.Fatalf("CompressBody: %v", err)
			}

			dst := make([]byte, len(data))
			n, err := lzo.Decompress(body, dst)
			if err != nil {
				t.Fatalf("lzo.Decompress: %v", err)
			}

			if !bytes.Equal(dst[:n], data) {
				t.Fatal("library decode mismatch")
			}
		})
	}
}

func TestLZ4Interop(t *testing.T) {
	t.Parallel()

	for name, data := range testInputs() {
		if len(data) == 0 {
			continue
		}

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			body, err := CompressBody(LZ4, data)
			if err != nil {
				t.Fatalf("CompressBody: %v", err)
			}

			dst := make([]byte, len(data))
			n, err := lz4.UncompressBlock(body, dst)
			if err != nil {
				t.Fatalf("lz4.UncompressBlock: %v", err)
			}

			if !bytes.Equal(dst[:n], data) {
				t.Fatal("library decode mismatch")
			}
		})
	}
}

func TestLZ4LiteralBlock(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 14, 15, 16, 269, 270, 1000} {
		data := randomBytes(n, uint64(n))
		got, err := lz4Decompress(lz4LiteralBlock(data), n)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		if !bytes.Equal(got, data) {
			t.Fatalf("n=%d: mismatch", n)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	for _, alg := range allAlgorithms {
		got, err := ParseAlgorithm(alg.String())
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", alg, err)
		}

		if got != alg {
			t.Fatalf("ParseAlgorithm(%q)=%v", alg, got)
		}
	}

	if _, err := ParseAlgorithm("brotli"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}

	var alg Algorithm
	if err := alg.UnmarshalText([]byte(" LZO ")); err != nil || alg != LZO {
		t.Fatalf("UnmarshalText: alg=%v err=%v", alg, err)
	}
}
