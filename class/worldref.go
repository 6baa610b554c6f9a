// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

import (
	"fmt"

	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/names"
)

// ObjectFlagLayout names the bits of ObjectLinkHeader.Flags.
var ObjectFlagLayout = []binio.BitField{
	{Name: "init", Offset: 0, Width: 1},
	{Name: "max_bsphere", Offset: 1, Width: 1},
	{Name: "skinned", Offset: 2, Width: 1},
	{Name: "morphed", Offset: 3, Width: 1},
	{Name: "oriented_bbox", Offset: 4, Width: 1},
	{Name: "no_sead_display", Offset: 5, Width: 1},
	{Name: "no_sead_collide", Offset: 6, Width: 1},
	{Name: "no_display", Offset: 7, Width: 1},
	{Name: "transparent", Offset: 8, Width: 1},
	{Name: "optimized_vertex", Offset: 9, Width: 1},
	{Name: "linear_mapping", Offset: 10, Width: 1},
	{Name: "skinned_with_one_bone", Offset: 11, Width: 1},
	{Name: "light_baked", Offset: 12, Width: 1},
	{Name: "light_baked_with_material", Offset: 13, Width: 1},
	{Name: "shadow_receiver", Offset: 14, Width: 1},
	{Name: "no_tesselate", Offset: 15, Width: 1},
	{Name: "last", Offset: 16, Width: 1},
	{Name: "padding", Offset: 17, Width: 15},
}

// ObjectType identifies the kind of scene object.
type ObjectType uint16

var objectTypeNames = map[ObjectType]string{
	0: "points", 1: "surface", 2: "spline", 3: "skin", 4: "rot_shape",
	5: "lod", 6: "mesh", 7: "camera", 9: "spline_zone", 10: "occluder",
	11: "camera_zone", 12: "light", 13: "hfog", 14: "collision_vol",
	15: "emiter", 16: "omni", 17: "graph", 18: "particles", 19: "flare",
	20: "hfield", 21: "tree", 22: "gen_world", 23: "road",
	24: "gen_world_surface", 25: "spline_graph", 26: "world_ref",
}

// String returns the type name, or its number when unknown.
func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("object_type(%d)", uint16(t))
}

// ObjectLinkHeader is the link header of scene objects.
type ObjectLinkHeader struct {
	LinkName  names.Name    `json:"link_name" yaml:"link_name"`
	DataName  names.Name    `json:"data_name" yaml:"data_name"`
	Rot       binio.Quat    `json:"rot" yaml:"rot"`
	Transform binio.Mat4f   `json:"transform" yaml:"transform"`
	Radius    float32       `json:"radius" yaml:"radius"`
	Flags     binio.Flags32 `json:"flags" yaml:"flags"`
	Type      ObjectType    `json:"type" yaml:"type"`
}

// DecodeFrom reads the header.
func (h *ObjectLinkHeader) DecodeFrom(r *binio.Reader) error {
	for _, d := range []binio.Decoder{&h.LinkName, &h.DataName, &h.Rot, &h.Transform} {
		if err := d.DecodeFrom(r); err != nil {
			return err
		}
	}

	var err error
	if h.Radius, err = r.F32(); err != nil {
		return err
	}

	if err = h.Flags.DecodeFrom(r); err != nil {
		return err
	}

	t, err := r.U16()
	h.Type = ObjectType(t)
	return err
}

// EncodeTo writes the header.
func (h ObjectLinkHeader) EncodeTo(w *binio.Writer) {
	h.LinkName.EncodeTo(w)
	h.DataName.EncodeTo(w)
	h.Rot.EncodeTo(w)
	h.Transform.EncodeTo(w)
	w.F32(h.Radius)
	h.Flags.EncodeTo(w)
	w.U16(uint16(h.Type))
}

// UUIDPair is a pair of opaque identifiers.
type UUIDPair struct {
	UUID0 uint32 `json:"uuid0" yaml:"uuid0"`
	UUID1 uint32 `json:"uuid1" yaml:"uuid1"`
}

// DecodeFrom reads both halves.
func (p *UUIDPair) DecodeFrom(r *binio.Reader) error {
	var err error
	if p.UUID0, err = r.U32(); err != nil {
		return err
	}

	p.UUID1, err = r.U32()
	return err
}

// EncodeTo writes both halves.
func (p UUIDPair) EncodeTo(w *binio.Writer) {
	w.U32(p.UUID0)
	w.U32(p.UUID1)
}

// WorldRefBody places a sub-world and its game object.
type WorldRefBody struct {
	NodeName0   names.Name             `json:"node_name0" yaml:"node_name0"`
	WarpName    names.Name             `json:"warp_name" yaml:"warp_name"`
	GameObjName names.Name             `json:"game_obj_name" yaml:"game_obj_name"`
	Unused14    names.Name             `json:"unused14" yaml:"unused14"`
	GenWorld    names.Name             `json:"gen_world_name" yaml:"gen_world_name"`
	NodeName1   names.Name             `json:"node_name1" yaml:"node_name1"`
	Unused17s   []uint32               `json:"unused17s" yaml:"unused17s"`
	Unuseds     []uint8                `json:"unuseds" yaml:"unuseds"`
	Mats        []binio.Mat4f          `json:"mats" yaml:"mats"`
	PointA      binio.Vec3f            `json:"point_a" yaml:"point_a"`
	PointB      binio.Vec3f            `json:"point_b" yaml:"point_b"`
	UUIDPairs   []UUIDPair             `json:"uuid_pairs" yaml:"uuid_pairs"`
	InitScript  binio.PascalStringNull `json:"init_script" yaml:"init_script"`
	NodeNames2  []names.Name           `json:"node_names2" yaml:"node_names2"`
	Zero        uint32                 `json:"zero" yaml:"zero"`
}

// WorldRef is an object link header followed by a world reference body.
type WorldRef = Trivial[ObjectLinkHeader, WorldRefBody]

// DecodeFrom reads the body.
func (b *WorldRefBody) DecodeFrom(r *binio.Reader) error {
	for _, n := range []*names.Name{&b.NodeName0, &b.WarpName, &b.GameObjName, &b.Unused14, &b.GenWorld, &b.NodeName1} {
		if err := n.DecodeFrom(r); err != nil {
			return err
		}
	}

	var err error
	if b.Unused17s, err = binio.ReadDynArray(r, binio.Size32, 4, (*binio.Reader).U32); err != nil {
		return err
	}

	if b.Unuseds, err = binio.ReadDynArray(r, binio.Size32, 1, (*binio.Reader).U8); err != nil {
		return err
	}

	if b.Mats, err = binio.ReadCodecs[binio.Mat4f](r, binio.Size32, 64); err != nil {
		return err
	}

	if err = b.PointA.DecodeFrom(r); err != nil {
		return err
	}

	if err = b.PointB.DecodeFrom(r); err != nil {
		return err
	}

	if b.UUIDPairs, err = binio.ReadCodecs[UUIDPair](r, binio.Size32, 8); err != nil {
		return err
	}

	if err = b.InitScript.DecodeFrom(r); err != nil {
		return err
	}

	if b.NodeNames2, err = readNames(r); err != nil {
		return err
	}

	b.Zero, err = r.U32()
	return err
}

// EncodeTo writes the body.
func (b WorldRefBody) EncodeTo(w *binio.Writer) {
	for _, n := range []names.Name{b.NodeName0, b.WarpName, b.GameObjName, b.Unused14, b.GenWorld, b.NodeName1} {
		n.EncodeTo(w)
	}

	binio.WriteDynArray(w, binio.Size32, b.Unused17s, (*binio.Writer).U32)
	binio.WriteDynArray(w, binio.Size32, b.Unuseds, (*binio.Writer).U8)
	binio.WriteCodecs(w, binio.Size32, b.Mats)
	b.PointA.EncodeTo(w)
	b.PointB.EncodeTo(w)
	binio.WriteCodecs(w, binio.Size32, b.UUIDPairs)
	b.InitScript.EncodeTo(w)
	writeNames(w, b.NodeNames2)
	w.U32(b.Zero)
}
