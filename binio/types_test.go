package binio

import (
	"bytes"
	"errors"
	"testing"
)

func TestDynArrayRoundTrip(t *testing.T) {
	t.Parallel()

	widths := []SizeWidth{Size8, Size16, Size32}
	for _, width := range widths {
		for _, order := range []ByteOrder{LittleEndian, BigEndian} {
			w := NewWriter(order)
			items := []uint32{1, 0xDEADBEEF, 7}
			WriteDynArray(w, width, items, (*Writer).U32)

			r := NewReader(w.Bytes(), order)
			got, err := ReadDynArray(r, width, 4, (*Reader).U32)
			if err != nil {
				t.Fatalf("width %d order %s: %v", width, order, err)
			}
			if len(got) != 3 || got[1] != 0xDEADBEEF {
				t.Fatalf("got %v", got)
			}
			if err := r.ExpectEnd(); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestDynArrayRejectsOversizedCount(t *testing.T) {
	t.Parallel()

	w := NewWriter(LittleEndian)
	w.U32(1 << 20)
	w.U32(1)

	_, err := ReadDynArray(NewReader(w.Bytes(), LittleEndian), Size32, 4, (*Reader).U32)
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("err = %v, want ErrTruncatedInput", err)
	}
}

func TestCodecsRoundTrip(t *testing.T) {
	t.Parallel()

	items := []Vec3f{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0.5, Z: 9}}
	w := NewWriter(BigEndian)
	WriteCodecs(w, Size32, items)

	got, err := ReadCodecs[Vec3f](NewReader(w.Bytes(), BigEndian), Size32, 12)
	if err != nil {
		t.Fatalf("ReadCodecs: %v", err)
	}
	if len(got) != 2 || got[1] != items[1] {
		t.Fatalf("got %+v", got)
	}
}

func TestStringsRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data []byte
		val  Codec
	}{
		{name: "null string", data: []byte("abc\x00"), val: new(NullString)},
		{name: "pascal", data: []byte{3, 0, 0, 0, 'x', 'y', 'z'}, val: new(PascalString)},
		{name: "pascal null terminated", data: []byte{3, 0, 0, 0, 'h', 'i', 0}, val: new(PascalStringNull)},
		{name: "pascal null unterminated", data: []byte{2, 0, 0, 0, 'h', 'i'}, val: new(PascalStringNull)},
		{name: "pascal null empty", data: []byte{0, 0, 0, 0}, val: new(PascalStringNull)},
		{name: "fixed with garbage pad", data: []byte{'o', 'k', 0, 0x55, 0, 0x99}, val: &FixedString{Size: 6}},
		{name: "fixed full", data: []byte{'f', 'u', 'l', 'l'}, val: &FixedString{Size: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := NewReader(tc.data, LittleEndian)
			if err := tc.val.DecodeFrom(r); err != nil {
				t.Fatalf("DecodeFrom: %v", err)
			}
			if err := r.ExpectEnd(); err != nil {
				t.Fatalf("ExpectEnd: %v", err)
			}

			w := NewWriter(LittleEndian)
			tc.val.EncodeTo(w)
			if !bytes.Equal(w.Bytes(), tc.data) {
				t.Fatalf("re-encoded %q, want %q", w.Bytes(), tc.data)
			}
		})
	}
}

func TestNullStringUnterminated(t *testing.T) {
	t.Parallel()

	var s NullString
	if err := s.DecodeFrom(NewReader([]byte("abc"), LittleEndian)); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("err = %v, want ErrTruncatedInput", err)
	}
}

func TestFlagsKeepPaddingBits(t *testing.T) {
	t.Parallel()

	layout := []BitField{
		{Name: "a", Offset: 0, Width: 1},
		{Name: "b", Offset: 1, Width: 3},
		{Name: "padding", Offset: 4, Width: 28},
	}

	f := Flags32(0xF0000005)
	if !f.Bit(0) || f.Field(1, 3) != 2 {
		t.Fatalf("unexpected fields %v", f.Decompose(layout))
	}
	if got := f.Decompose(layout)[2].Value; got != 0x0F000000 {
		t.Fatalf("padding = %#x", got)
	}

	w := NewWriter(BigEndian)
	f.EncodeTo(w)
	var back Flags32
	if err := back.DecodeFrom(NewReader(w.Bytes(), BigEndian)); err != nil {
		t.Fatal(err)
	}
	if back != f {
		t.Fatalf("got %#x, want %#x", uint32(back), uint32(f))
	}

	if g := f.WithField(1, 3, 7); g.Field(1, 3) != 7 || g.Field(4, 28) != f.Field(4, 28) {
		t.Fatalf("WithField clobbered neighbours: %#x", uint32(g))
	}
}

func TestOrderedMapKeepsDuplicates(t *testing.T) {
	t.Parallel()

	w := NewWriter(LittleEndian)
	w.U32(3)
	for _, kv := range [][2]uint16{{5, 50}, {1, 10}, {5, 51}} {
		w.U16(kv[0])
		w.U16(kv[1])
	}
	src := append([]byte(nil), w.Bytes()...)

	m, err := ReadOrderedMap(NewReader(src, LittleEndian), Size32, 4, (*Reader).U16, (*Reader).U16)
	if err != nil {
		t.Fatalf("ReadOrderedMap: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}
	if v, ok := m.Get(5); !ok || v != 50 {
		t.Fatalf("Get(5) = %d, %v; want first occurrence 50", v, ok)
	}

	var keys []uint16
	for k := range m.All() {
		keys = append(keys, k)
	}
	if len(keys) != 3 || keys[0] != 5 || keys[1] != 1 {
		t.Fatalf("order lost: %v", keys)
	}

	out := NewWriter(LittleEndian)
	WriteOrderedMap(out, Size32, m, (*Writer).U16, (*Writer).U16)
	if !bytes.Equal(out.Bytes(), src) {
		t.Fatalf("re-encoded %x, want %x", out.Bytes(), src)
	}
}
