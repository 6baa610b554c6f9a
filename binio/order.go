// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder selects how multi-byte values are laid out on the wire.
// It is threaded explicitly from the container dialect down to every field.
type ByteOrder uint8

// Supported byte orders. The numeric values are the on-disk pool selector.
const (
	LittleEndian ByteOrder = 0
	BigEndian    ByteOrder = 1
)

// Binary returns the encoding/binary implementation for the order.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Valid reports whether o is a known byte order.
func (o ByteOrder) Valid() bool {
	return o == LittleEndian || o == BigEndian
}

// String returns "little" or "big".
func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// ParseByteOrder parses "little"/"le" or "big"/"be".
func ParseByteOrder(name string) (ByteOrder, error) {
	switch name {
	case "little", "le":
		return LittleEndian, nil
	case "big", "be":
		return BigEndian, nil
	default:
		return 0, fmt.Errorf("unknown byte order %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o ByteOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *ByteOrder) UnmarshalText(text []byte) error {
	parsed, err := ParseByteOrder(string(text))
	if err != nil {
		return err
	}

	*o = parsed
	return nil
}
