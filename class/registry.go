// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

/*
Package class maps entries to typed records.

A Registry is keyed by (class, version, platform). Lookups are exact: an
entry whose key is not registered decodes to an Opaque record holding its
bytes unchanged. Every registered decoder has an Encode that reproduces the
bytes it consumed.
*/
package class

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/dialect"
	"github.com/woozymasta/bigfile/names"
)

// Key identifies one record layout.
type Key struct {
	Class    names.Name       `json:"class" yaml:"class"`
	Version  string           `json:"version" yaml:"version"`
	Platform dialect.Platform `json:"platform" yaml:"platform"`
}

// String formats the key for logs and errors.
func (k Key) String() string {
	return fmt.Sprintf("%s %s %s", k.Class, k.Version, k.Platform)
}

// DecodeFunc parses a link header and body in the given byte order.
type DecodeFunc func(linkHeader, body []byte, order binio.ByteOrder) (Record, error)

// Registration binds one class layout to its decoder.
type Registration struct {
	Class    string
	Version  string
	Platform dialect.Platform
	Decode   DecodeFunc
}

// Key returns the lookup key of the registration.
func (r Registration) Key() Key {
	return Key{Class: names.Hash(r.Class), Version: r.Version, Platform: r.Platform}
}

// Registry is an immutable dispatch table, safe for concurrent use.
type Registry struct {
	decoders map[Key]Registration
	keys     []Key
}

// NewRegistry builds a registry. Duplicate keys are rejected.
func NewRegistry(regs []Registration) (*Registry, error) {
	r := &Registry{decoders: make(map[Key]Registration, len(regs))}
	for _, reg := range regs {
		if reg.Decode == nil {
			return nil, fmt.Errorf("registration %s %s %s has no decoder", reg.Class, reg.Version, reg.Platform)
		}

		key := reg.Key()
		if _, ok := r.decoders[key]; ok {
			return nil, fmt.Errorf("duplicate registration %s %s %s", reg.Class, reg.Version, reg.Platform)
		}

		r.decoders[key] = reg
		r.keys = append(r.keys, key)
	}

	return r, nil
}

var defaultRegistry = mustRegistry(catalog())

func mustRegistry(regs []Registration) *Registry {
	r, err := NewRegistry(regs)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		names.Default().Add(reg.Class)
	}

	return r
}

// Default returns the registry built from the built-in catalog.
func Default() *Registry {
	return defaultRegistry
}

// Lookup returns the registration for an exact key.
func (r *Registry) Lookup(key Key) (Registration, bool) {
	reg, ok := r.decoders[key]
	return reg, ok
}

// Keys returns every registered key in registration order.
func (r *Registry) Keys() []Key {
	return slices.Clone(r.keys)
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	return len(r.keys)
}

// Decode parses an entry into a record. Unregistered keys yield an Opaque
// record and no error.
func (r *Registry) Decode(key Key, order binio.ByteOrder, linkHeader, body []byte) (Record, error) {
	reg, ok := r.decoders[key]
	if !ok {
		Logger().Info("no decoder registered, keeping entry opaque",
			zap.Stringer("class", key.Class),
			zap.String("version", key.Version),
			zap.Stringer("platform", key.Platform))
		return NewOpaque(linkHeader, body), nil
	}

	rec, err := reg.Decode(linkHeader, body, order)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	return rec, nil
}

// Encode serializes a record back into link header and body bytes.
func Encode(rec Record, order binio.ByteOrder) ([]byte, []byte, error) {
	if rec == nil {
		return nil, nil, errors.New("encode: nil record")
	}

	return rec.Encode(order)
}
