// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

// Vec2f is a 2D float vector.
type Vec2f struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// DecodeFrom reads two floats.
func (v *Vec2f) DecodeFrom(r *Reader) error {
	return readFloats(r, &v.X, &v.Y)
}

// EncodeTo writes two floats.
func (v Vec2f) EncodeTo(w *Writer) {
	writeFloats(w, v.X, v.Y)
}

// Vec3f is a 3D float vector.
type Vec3f struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// DecodeFrom reads three floats.
func (v *Vec3f) DecodeFrom(r *Reader) error {
	return readFloats(r, &v.X, &v.Y, &v.Z)
}

// EncodeTo writes three floats.
func (v Vec3f) EncodeTo(w *Writer) {
	writeFloats(w, v.X, v.Y, v.Z)
}

// Quat is a quaternion stored as x, y, z, w. It is not normalized on read.
type Quat struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
	W float32 `json:"w" yaml:"w"`
}

// DecodeFrom reads four floats.
func (q *Quat) DecodeFrom(r *Reader) error {
	return readFloats(r, &q.X, &q.Y, &q.Z, &q.W)
}

// EncodeTo writes four floats.
func (q Quat) EncodeTo(w *Writer) {
	writeFloats(w, q.X, q.Y, q.Z, q.W)
}

// Mat4f is a row-major 4x4 float matrix.
type Mat4f [16]float32

// DecodeFrom reads sixteen floats.
func (m *Mat4f) DecodeFrom(r *Reader) error {
	for i := range m {
		v, err := r.F32()
		if err != nil {
			return err
		}

		m[i] = v
	}

	return nil
}

// EncodeTo writes sixteen floats.
func (m Mat4f) EncodeTo(w *Writer) {
	for _, v := range m {
		w.F32(v)
	}
}

func readFloats(r *Reader, dst ...*float32) error {
	for _, p := range dst {
		v, err := r.F32()
		if err != nil {
			return err
		}

		*p = v
	}

	return nil
}

func writeFloats(w *Writer, values ...float32) {
	for _, v := range values {
		w.F32(v)
	}
}
