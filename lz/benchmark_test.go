package lz

import (
	"bytes"
	"testing"

	"github.com/woozymasta/bigfile/binio"
)

func benchInput() []byte {
	var buf bytes.Buffer
	for i := range 4096 {
		buf.WriteString("object ")
		buf.WriteByte(byte('a' + i%23))
		buf.WriteByte(byte(i))
	}

	return buf.Bytes()
}

func BenchmarkCompress(b *testing.B) {
	data := benchInput()
	for _, alg := range []Algorithm{LZRS, LZO, LZ4, Zlib, LZSS} {
		b.Run(alg.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := Compress(alg, data, binio.LittleEndian); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecompress(b *testing.B) {
	data := benchInput()
	for _, alg := range []Algorithm{LZRS, LZO, LZ4, Zlib, LZSS} {
		b.Run(alg.String(), func(b *testing.B) {
			frame, err := Compress(alg, data, binio.LittleEndian)
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for b.Loop() {
				if _, err := Decompress(alg, frame, binio.LittleEndian); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
