// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

import (
	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/names"
)

// GameObjBody lists the nodes a game object owns.
type GameObjBody struct {
	NodeCRC32s []names.Name `json:"node_crc32s" yaml:"node_crc32s"`
}

// GameObj keeps its link header unparsed.
type GameObj = Trivial[RawBody, GameObjBody]

// DecodeFrom reads the node list.
func (b *GameObjBody) DecodeFrom(r *binio.Reader) error {
	var err error
	b.NodeCRC32s, err = readNames(r)
	return err
}

// EncodeTo writes the node list.
func (b GameObjBody) EncodeTo(w *binio.Writer) {
	writeNames(w, b.NodeCRC32s)
}
