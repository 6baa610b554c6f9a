// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

import (
	"fmt"

	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/names"
)

// Record is the typed decode result of one entry.
// Encode is the exact inverse of the decoder that produced the record.
type Record interface {
	Encode(order binio.ByteOrder) (linkHeader, body []byte, err error)
}

// Opaque keeps the bytes of an entry no decoder is registered for.
type Opaque struct {
	LinkHeader []byte `json:"link_header" yaml:"link_header"`
	Body       []byte `json:"body" yaml:"body"`
}

// NewOpaque copies linkHeader and body into a new record.
func NewOpaque(linkHeader, body []byte) *Opaque {
	return &Opaque{LinkHeader: clone(linkHeader), Body: clone(body)}
}

// Encode returns copies of the stored bytes.
func (o *Opaque) Encode(binio.ByteOrder) ([]byte, []byte, error) {
	return clone(o.LinkHeader), clone(o.Body), nil
}

// Unsupported reports whether rec is the opaque fallback.
func Unsupported(rec Record) bool {
	_, ok := rec.(*Opaque)
	return ok
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Trivial is a link header followed by a body with no cross-field logic.
type Trivial[H, B any] struct {
	LinkHeader H `json:"link_header" yaml:"link_header"`
	Body       B `json:"body" yaml:"body"`
}

// Encode serializes both halves in order.
func (t *Trivial[H, B]) Encode(order binio.ByteOrder) ([]byte, []byte, error) {
	header, err := encodeValue(order, &t.LinkHeader)
	if err != nil {
		return nil, nil, err
	}

	body, err := encodeValue(order, &t.Body)
	if err != nil {
		return nil, nil, err
	}

	return header, body, nil
}

type codecPtr[T any] interface {
	*T
	binio.Codec
}

// trivial returns a decoder for Trivial[H, B].
func trivial[H, B any, PH codecPtr[H], PB codecPtr[B]]() DecodeFunc {
	return func(linkHeader, body []byte, order binio.ByteOrder) (Record, error) {
		t := &Trivial[H, B]{}
		if err := decodeAll(linkHeader, order, PH(&t.LinkHeader)); err != nil {
			return nil, fmt.Errorf("link header: %w", err)
		}

		if err := decodeAll(body, order, PB(&t.Body)); err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}

		return t, nil
	}
}

// decodeAll decodes v from buf and requires every byte to be consumed.
func decodeAll(buf []byte, order binio.ByteOrder, v binio.Decoder) error {
	r := binio.NewReader(buf, order)
	if err := v.DecodeFrom(r); err != nil {
		return err
	}

	return r.ExpectEnd()
}

func encodeValue(order binio.ByteOrder, v any) ([]byte, error) {
	e, ok := v.(binio.Encoder)
	if !ok {
		return nil, fmt.Errorf("%T does not implement binio.Encoder", v)
	}

	w := binio.NewWriter(order)
	e.EncodeTo(w)
	return w.Bytes(), nil
}

// RawBody is an undifferentiated byte block taking the rest of its buffer.
type RawBody struct {
	Data []byte `json:"data" yaml:"data"`
}

// DecodeFrom copies every unread byte.
func (b *RawBody) DecodeFrom(r *binio.Reader) error {
	b.Data = r.Remaining()
	return nil
}

// EncodeTo writes the bytes back.
func (b RawBody) EncodeTo(w *binio.Writer) {
	w.Raw(b.Data)
}

// ResourceLinkHeader is the link header shared by resource classes.
type ResourceLinkHeader struct {
	LinkName names.Name `json:"link_name" yaml:"link_name"`
}

// DecodeFrom reads the link name.
func (h *ResourceLinkHeader) DecodeFrom(r *binio.Reader) error {
	return h.LinkName.DecodeFrom(r)
}

// EncodeTo writes the link name.
func (h ResourceLinkHeader) EncodeTo(w *binio.Writer) {
	h.LinkName.EncodeTo(w)
}

func readNames(r *binio.Reader) ([]names.Name, error) {
	return binio.ReadCodecs[names.Name](r, binio.Size32, 4)
}

func writeNames(w *binio.Writer, list []names.Name) {
	binio.WriteCodecs(w, binio.Size32, list)
}
