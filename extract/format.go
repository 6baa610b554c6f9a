// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package extract

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/bigfile"
	"github.com/woozymasta/bigfile/class"
	"github.com/woozymasta/bigfile/names"
)

// cborMode encodes with core deterministic options so output is stable.
var cborMode = mustCBORMode()

func mustCBORMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	return mode
}

// Document is the yaml and cbor form of one entry.
type Document struct {
	Record     class.Record `json:"record" yaml:"record"`
	Key        class.Key    `json:"key" yaml:"key"`
	Name       names.Name   `json:"name" yaml:"name"`
	Class      names.Name   `json:"class" yaml:"class"`
	Pool       int          `json:"pool" yaml:"pool"`
	Entry      int          `json:"entry" yaml:"entry"`
	Opaque     bool         `json:"opaque,omitempty" yaml:"opaque,omitempty"`
	Compressed bool         `json:"compressed,omitempty" yaml:"compressed,omitempty"`
}

// render returns the bytes written for one entry.
func render(a *bigfile.Archive, task workItem, opts *Options) ([]byte, error) {
	e := &a.Pools[task.pool].Entries[task.entry]
	if opts.Format == FormatRaw {
		out := make([]byte, 0, len(e.LinkHeader)+len(e.Body))
		out = append(out, e.LinkHeader...)
		return append(out, e.Body...), nil
	}

	rec := e.Record
	if rec == nil {
		var err error
		rec, err = a.DecodeEntry(task.pool, task.entry, opts.Registry)
		if err != nil {
			return nil, err
		}
	}

	doc := Document{
		Record:     rec,
		Key:        a.Key(e),
		Name:       e.Name,
		Class:      e.Class,
		Pool:       task.pool,
		Entry:      task.entry,
		Opaque:     class.Unsupported(rec),
		Compressed: e.Compressed,
	}

	switch opts.Format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return buf.Bytes(), nil
	case FormatCBOR:
		out, err := cborMode.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode cbor: %w", err)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}
