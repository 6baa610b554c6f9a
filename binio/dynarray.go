// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

// ReadDynArray reads a length-prefixed sequence. minElem is the smallest encoded
// size of one element and bounds the count against the remaining buffer, so a
// corrupt count fails fast instead of allocating.
func ReadDynArray[T any](r *Reader, width SizeWidth, minElem int, elem func(*Reader) (T, error)) ([]T, error) {
	n, err := r.Count(width)
	if err != nil {
		return nil, err
	}

	if minElem < 1 {
		minElem = 1
	}
	if n > r.Len()/minElem {
		return nil, r.Errorf(ErrTruncatedInput)
	}

	out := make([]T, 0, n)
	for range n {
		v, err := elem(r)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// WriteDynArray writes the element count followed by every element.
func WriteDynArray[T any](w *Writer, width SizeWidth, items []T, elem func(*Writer, T)) {
	w.Count(width, len(items))
	for _, v := range items {
		elem(w, v)
	}
}

// codecPtr constrains P to a pointer to T that implements Codec.
type codecPtr[T any] interface {
	*T
	Codec
}

// ReadCodecs reads a length-prefixed sequence of Codec values.
func ReadCodecs[T any, P codecPtr[T]](r *Reader, width SizeWidth, minElem int) ([]T, error) {
	return ReadDynArray(r, width, minElem, func(r *Reader) (T, error) {
		var v T
		err := P(&v).DecodeFrom(r)
		return v, err
	})
}

// WriteCodecs writes a length-prefixed sequence of Codec values.
func WriteCodecs[T any, P codecPtr[T]](w *Writer, width SizeWidth, items []T) {
	w.Count(width, len(items))
	for i := range items {
		P(&items[i]).EncodeTo(w)
	}
}
