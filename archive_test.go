// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package bigfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/class"
	"github.com/woozymasta/bigfile/dialect"
	"github.com/woozymasta/bigfile/lz"
	"github.com/woozymasta/bigfile/names"
)

const (
	asoboSignature     = "v1.381.67.09 - Asobo Studio - Internal Cross Technology"
	asoboOldSignature  = "v1.291.03.06 - Asobo Studio - Internal Cross Technology"
	blackSheepSig      = "Bigfile Data v2.0 "
	legacySignature    = "v1.06 - Asobo Studio - Internal Cross Technology"
	entryTableStart    = SignatureSize + 4 + 1 + 4
	testBitmapClass    = "Bitmap_Z"
	testUnknownVersion = "GameObj_Z"
)

func newArchive(sig string, platform dialect.Platform, pools ...Pool) *Archive {
	return &Archive{
		Signature: binio.NewFixedString(sig, SignatureSize),
		Dialect:   dialect.Parse(sig),
		Platform:  platform,
		Pools:     pools,
	}
}

func recordEntry(t *testing.T, className, name string, rec class.Record, order binio.ByteOrder, compressed bool) Entry {
	t.Helper()

	link, body, err := rec.Encode(order)
	if err != nil {
		t.Fatalf("encode %s: %v", className, err)
	}

	return Entry{
		Class:      names.Hash(className),
		Name:       names.Hash(name),
		LinkHeader: link,
		Body:       body,
		Compressed: compressed,
	}
}

func sampleWorldRef() *class.WorldRef {
	return &class.WorldRef{
		LinkHeader: class.ObjectLinkHeader{
			LinkName: names.Hash("wr"),
			Radius:   3,
			Flags:    binio.Flags32(0x80000001),
			Type:     26,
		},
		Body: class.WorldRefBody{
			GameObjName: names.Hash("go"),
			Unused17s:   []uint32{},
			Unuseds:     []uint8{},
			Mats:        []binio.Mat4f{},
			UUIDPairs:   []class.UUIDPair{},
			InitScript:  binio.PascalStringNull{Value: "", Terminated: true},
			NodeNames2:  []names.Name{},
		},
	}
}

func mustEncode(t *testing.T, a *Archive, opts WriterOptions) []byte {
	t.Helper()

	data, err := a.Encode(opts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	return data
}

// entryBytes builds one entry with explicit header fields.
func entryBytes(order binio.ByteOrder, className string, link, payload []byte, decompressed, compressed uint32) []byte {
	w := binio.NewWriter(order)
	w.U32(uint32(len(link) + len(payload)))
	w.U32(uint32(len(link)))
	w.U32(decompressed)
	w.U32(compressed)
	names.Hash(className).EncodeTo(w)
	names.Hash("entry").EncodeTo(w)
	w.Raw(link)
	w.Raw(payload)
	return w.Bytes()
}

// singlePool builds an Asobo archive with one pool of raw entry bytes.
func singlePool(codec lz.Algorithm, entries ...[]byte) []byte {
	w := binio.NewWriter(binio.LittleEndian)
	binio.NewFixedString(asoboSignature, SignatureSize).EncodeTo(w)
	w.U32(1)
	w.U8(uint8(codec))
	w.U32(uint32(len(entries)))
	for _, e := range entries {
		w.Raw(e)
	}

	return w.Bytes()
}

func TestPoolWithUnregisteredEntry(t *testing.T) {
	t.Parallel()

	order := binio.LittleEndian
	bitmap := &class.Bitmap{
		LinkHeader: class.ResourceLinkHeader{LinkName: names.Hash("tex")},
		Body:       class.RawBody{Data: bytes.Repeat([]byte("pixel"), 50)},
	}

	src := newArchive(asoboSignature, dialect.PC, Pool{
		Codec: lz.LZRS,
		Entries: []Entry{
			recordEntry(t, "WorldRef_Z", "wr", sampleWorldRef(), order, true),
			{Class: names.Hash(testUnknownVersion), Name: names.Hash("go"), LinkHeader: []byte{1, 2}, Body: []byte("opaque body"), Compressed: true},
			recordEntry(t, testBitmapClass, "tex", bitmap, order, false),
		},
	})

	data := mustEncode(t, src, WriterOptions{})
	a, err := RoundTrip(t.Context(), data, RoundTripOptions{})
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	entries := a.Pools[0].Entries
	if len(entries) != 3 {
		t.Fatalf("entries=%d, want 3", len(entries))
	}

	wantOpaque := []bool{false, true, false}
	for i, e := range entries {
		if got := class.Unsupported(e.Record); got != wantOpaque[i] {
			t.Fatalf("entry %d: opaque=%v, want %v", i, got, wantOpaque[i])
		}

		link, body, err := e.Record.Encode(order)
		if err != nil {
			t.Fatalf("entry %d: Encode: %v", i, err)
		}

		if !bytes.Equal(link, src.Pools[0].Entries[i].LinkHeader) || !bytes.Equal(body, src.Pools[0].Entries[i].Body) {
			t.Fatalf("entry %d: re-encoded bytes differ", i)
		}
	}
}

func TestRoundTripAllCodecs(t *testing.T) {
	t.Parallel()

	for _, codec := range []lz.Algorithm{lz.None, lz.LZRS, lz.LZO, lz.LZ4, lz.Zlib, lz.LZSS} {
		t.Run(codec.String(), func(t *testing.T) {
			t.Parallel()

			src := newArchive(asoboSignature, dialect.PC,
				Pool{Codec: codec, Entries: []Entry{
					{Class: names.Hash(testBitmapClass), Name: 1, LinkHeader: []byte{0, 0, 0, 0}, Body: bytes.Repeat([]byte("abc"), 300), Compressed: true},
					{Class: names.Hash(testBitmapClass), Name: 2, LinkHeader: []byte{1, 0, 0, 0}, Body: []byte{}, Compressed: true},
					{Class: names.Hash("Mesh_Z"), Name: 3, Body: []byte("raw"), Compressed: false},
				}},
				Pool{Codec: codec},
			)

			data := mustEncode(t, src, WriterOptions{})
			if _, err := RoundTrip(t.Context(), data, RoundTripOptions{}); err != nil {
				t.Fatalf("RoundTrip: %v", err)
			}

			a, err := Parse(data, ReaderOptions{})
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			for i, e := range a.Pools[0].Entries {
				if !bytes.Equal(e.Body, src.Pools[0].Entries[i].Body) {
					t.Fatalf("entry %d body differs", i)
				}
			}
		})
	}
}

func TestByteOrderPropagation(t *testing.T) {
	t.Parallel()

	build := func(platform dialect.Platform) []byte {
		order := platform.ByteOrder()
		rec := &class.GameObj{
			LinkHeader: class.RawBody{Data: []byte{7}},
			Body:       class.GameObjBody{NodeCRC32s: []names.Name{0x11223344, 0x55667788}},
		}

		a := newArchive(asoboOldSignature, platform, Pool{
			Codec:   lz.LZO,
			Entries: []Entry{recordEntry(t, "GameObj_Z", "obj", rec, order, true)},
		})

		return mustEncode(t, a, WriterOptions{})
	}

	le := build(dialect.PC)
	be := build(dialect.X360)
	if bytes.Equal(le, be) {
		t.Fatal("expected different raw bytes per byte order")
	}

	decode := func(data []byte, platform dialect.Platform) class.Record {
		a, err := RoundTrip(t.Context(), data, RoundTripOptions{Reader: ReaderOptions{Platform: platform.String()}})
		if err != nil {
			t.Fatalf("RoundTrip %s: %v", platform, err)
		}

		rec := a.Pools[0].Entries[0].Record
		if class.Unsupported(rec) {
			t.Fatalf("%s: record is opaque", platform)
		}

		return rec
	}

	if l, b := decode(le, dialect.PC), decode(be, dialect.X360); !reflect.DeepEqual(l, b) {
		t.Fatalf("records differ: %+v vs %+v", l, b)
	}
}

func TestPerPoolByteOrder(t *testing.T) {
	t.Parallel()

	src := newArchive(blackSheepSig, dialect.PC,
		Pool{Codec: lz.LZ4, Order: binio.BigEndian, Entries: []Entry{
			{Class: 1, Name: 2, Body: bytes.Repeat([]byte{9}, 100), Compressed: true},
		}},
		Pool{Codec: lz.None, Order: binio.LittleEndian, Entries: []Entry{
			{Class: 3, Name: 4, LinkHeader: []byte{5}, Body: []byte{6}},
		}},
	)

	data := mustEncode(t, src, WriterOptions{})
	a, err := RoundTrip(t.Context(), data, RoundTripOptions{})
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	if a.Dialect.Kind != dialect.BlackSheep {
		t.Fatalf("dialect=%s", a.Dialect.Kind)
	}

	if a.Pools[0].Order != binio.BigEndian || a.Pools[1].Order != binio.LittleEndian {
		t.Fatalf("pool orders %s %s", a.Pools[0].Order, a.Pools[1].Order)
	}

	// big-endian entry count right after codec and order bytes
	if got := data[SignatureSize+4+2 : SignatureSize+4+6]; !bytes.Equal(got, []byte{0, 0, 0, 1}) {
		t.Fatalf("pool 0 entry count bytes %x", got)
	}
}

func TestEmptyBlockCodecEntry(t *testing.T) {
	t.Parallel()

	emptyFrame := make([]byte, lz.HeaderSize)
	data := singlePool(lz.LZ4,
		entryBytes(binio.LittleEndian, testBitmapClass, nil, nil, 0, 0),
		entryBytes(binio.LittleEndian, testBitmapClass, nil, emptyFrame, 0, lz.HeaderSize),
	)

	a, err := Parse(data, ReaderOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for i, e := range a.Pools[0].Entries {
		if len(e.Body) != 0 {
			t.Fatalf("entry %d body has %d bytes", i, len(e.Body))
		}
	}

	if !a.Pools[0].Entries[1].Compressed {
		t.Fatal("framed entry not marked compressed")
	}

	encoded := mustEncode(t, a, WriterOptions{})
	if !bytes.Equal(encoded, data) {
		t.Fatal("re-encoded archive differs")
	}
}

func TestTruncatedHybridEntry(t *testing.T) {
	t.Parallel()

	frame, err := lz.Compress(lz.LZRS, []byte("aaaa"), binio.LittleEndian)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	// drop the last body byte and fix the frame header to match
	body := frame[lz.HeaderSize : len(frame)-1]
	w := binio.NewWriter(binio.LittleEndian)
	lz.Header{Uncompressed: 4, Compressed: uint32(len(body))}.EncodeTo(w)
	w.Raw(body)
	cut := w.Bytes()

	good := entryBytes(binio.LittleEndian, testBitmapClass, nil, []byte("ok"), 2, 0)
	data := singlePool(lz.LZRS,
		good,
		entryBytes(binio.LittleEndian, testBitmapClass, nil, cut, 4, uint32(len(cut))),
	)

	_, err = Parse(data, ReaderOptions{})
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}

	var entryErr *EntryError
	if !errors.As(err, &entryErr) {
		t.Fatalf("expected *EntryError, got %T", err)
	}

	if entryErr.Pool != 0 || entryErr.Entry != 1 || entryErr.Offset != int64(entryTableStart+len(good)) {
		t.Fatalf("error position pool=%d entry=%d offset=%d", entryErr.Pool, entryErr.Entry, entryErr.Offset)
	}
}

func TestEntrySizeErrors(t *testing.T) {
	t.Parallel()

	frame, err := lz.Compress(lz.LZ4, bytes.Repeat([]byte("xy"), 20), binio.LittleEndian)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	tests := []struct {
		name  string
		entry []byte
		want  error
	}{
		{name: "raw size", entry: entryBytes(binio.LittleEndian, testBitmapClass, nil, []byte("abc"), 4, 0), want: ErrSizeMismatch},
		{name: "decompressed size", entry: entryBytes(binio.LittleEndian, testBitmapClass, nil, frame, 41, uint32(len(frame))), want: ErrSizeMismatch},
		{name: "compressed size", entry: entryBytes(binio.LittleEndian, testBitmapClass, nil, frame, 40, uint32(len(frame)+1)), want: ErrSizeMismatch},
		{name: "truncated payload", entry: entryBytes(binio.LittleEndian, testBitmapClass, nil, []byte("abc"), 3, 0)[:entryHeaderSize+1], want: ErrTruncatedInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(singlePool(lz.LZ4, tc.entry), ReaderOptions{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMalformedHeader(t *testing.T) {
	t.Parallel()

	if _, err := Parse(make([]byte, 100), ReaderOptions{}); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("short signature: expected ErrMalformedHeader, got %v", err)
	}

	data := singlePool(lz.Algorithm(42))
	if _, err := Parse(data, ReaderOptions{}); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("unknown codec: expected ErrMalformedHeader, got %v", err)
	}

	w := binio.NewWriter(binio.LittleEndian)
	binio.NewFixedString(asoboSignature, SignatureSize).EncodeTo(w)
	w.U32(1000)
	if _, err := Parse(w.Bytes(), ReaderOptions{}); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("pool count: expected ErrMalformedHeader, got %v", err)
	}

	if _, err := Parse(singlePool(lz.None), ReaderOptions{Platform: "Dreamcast"}); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func TestRoundTripDivergence(t *testing.T) {
	t.Parallel()

	plain := bytes.Repeat([]byte{'a'}, 64)
	// a literal-only block is valid but not what the compressor emits
	block := append([]byte{0xF0, 64 - 15}, plain...)
	w := binio.NewWriter(binio.LittleEndian)
	lz.Header{Uncompressed: uint32(len(plain)), Compressed: uint32(len(block))}.EncodeTo(w)
	w.Raw(block)
	frame := w.Bytes()

	data := singlePool(lz.LZ4, entryBytes(binio.LittleEndian, testBitmapClass, []byte{0, 0, 0, 0}, frame, 64, uint32(len(frame))))

	if _, err := RoundTrip(t.Context(), data, RoundTripOptions{}); err != nil {
		t.Fatalf("payload reuse: %v", err)
	}

	_, err := RoundTrip(t.Context(), data, RoundTripOptions{Writer: WriterOptions{Recompress: true}})
	if !errors.Is(err, ErrEncodeDivergence) {
		t.Fatalf("expected ErrEncodeDivergence, got %v", err)
	}

	var div *DivergenceError
	if !errors.As(err, &div) {
		t.Fatalf("expected *DivergenceError, got %T", err)
	}

	if div.Offset != entryTableStart {
		t.Fatalf("divergence offset=%d, want %d", div.Offset, entryTableStart)
	}
}

func TestCountOverflow(t *testing.T) {
	t.Parallel()

	a := newArchive(legacySignature, dialect.PC)
	a.Pools = make([]Pool, 1<<16)
	if _, err := a.Encode(WriterOptions{}); !errors.Is(err, ErrCountOverflow) {
		t.Fatalf("expected ErrCountOverflow, got %v", err)
	}
}

func TestLegacyDialectCounts(t *testing.T) {
	t.Parallel()

	src := newArchive(legacySignature, dialect.PC, Pool{Codec: lz.LZO, Entries: []Entry{
		{Class: 1, Name: 1, Body: []byte("legacy legacy legacy legacy"), Compressed: true},
	}})

	data := mustEncode(t, src, WriterOptions{})
	// u16 pool count
	if got := data[SignatureSize : SignatureSize+2]; !bytes.Equal(got, []byte{1, 0}) {
		t.Fatalf("pool count bytes %x", got)
	}

	if _, err := RoundTrip(t.Context(), data, RoundTripOptions{}); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
}

func TestWriteFileAndOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "LEVEL.DBM")

	src := newArchive(asoboSignature, dialect.X360, Pool{Codec: lz.Zlib, Entries: []Entry{
		{Class: 1, Name: 2, Body: bytes.Repeat([]byte("x360"), 64), Compressed: true},
	}})

	if err := src.WriteFile(path, WriterOptions{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	a, err := Open(path, ReaderOptions{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if a.Platform != dialect.X360 {
		t.Fatalf("platform=%s, want X360", a.Platform)
	}

	if a.Pools[0].Order != binio.BigEndian {
		t.Fatalf("pool order=%s", a.Pools[0].Order)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	if !bytes.Equal(buf.Bytes(), raw) {
		t.Fatal("WriteTo output differs from file")
	}
}

func TestDecodeEntriesReportsPerEntryErrors(t *testing.T) {
	t.Parallel()

	a := newArchive(asoboSignature, dialect.PC, Pool{Codec: lz.None, Entries: []Entry{
		// WorldRef body far too short
		{Class: names.Hash("WorldRef_Z"), Name: 1, LinkHeader: []byte{1}, Body: []byte{2}},
		{Class: names.Hash("Unknown_Z"), Name: 2, Body: []byte{3}},
	}})

	results, err := a.DecodeEntries(t.Context(), DecodeOptions{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("DecodeEntries: %v", err)
	}

	var entryErr *EntryError
	if !errors.As(results[0].Err, &entryErr) || entryErr.Entry != 0 {
		t.Fatalf("entry 0: expected *EntryError, got %v", results[0].Err)
	}

	if !errors.Is(results[0].Err, ErrTruncatedInput) {
		t.Fatalf("entry 0: expected ErrTruncatedInput, got %v", results[0].Err)
	}

	if results[1].Err != nil || !class.Unsupported(results[1].Record) {
		t.Fatalf("entry 1: err=%v record=%T", results[1].Err, results[1].Record)
	}

	if a.Pools[0].Entries[0].Record != nil {
		t.Fatal("failed entry must not get a record")
	}

	if _, err := a.DecodeEntry(5, 0, nil); err == nil {
		t.Fatal("expected error for out of range entry")
	}
}
