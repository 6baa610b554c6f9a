// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

// Package names implements the 32-bit name hashes used to identify bigfile
// entries and classes, and an optional side table mapping hashes back to the
// strings they were computed from.
package names

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/woozymasta/bigfile/binio"
)

// Name is a 32-bit name hash. The hash is the identity; the string from the
// side table is for diagnostics only.
type Name uint32

// DecodeFrom reads the hash.
func (n *Name) DecodeFrom(r *binio.Reader) error {
	v, err := r.U32()
	*n = Name(v)
	return err
}

// EncodeTo writes the hash.
func (n Name) EncodeTo(w *binio.Writer) {
	w.U32(uint32(n))
}

// Hex returns the hash as 8 upper-case hex digits.
func (n Name) Hex() string {
	return fmt.Sprintf("%08X", uint32(n))
}

// String returns the known string for n or its hex form.
func (n Name) String() string {
	if s, ok := Default().Lookup(n); ok {
		return s
	}

	return n.Hex()
}

// hexPrefix marks a raw hash in text form.
const hexPrefix = "0x"

// MarshalText implements encoding.TextMarshaler. Known names marshal as their
// string, anything else as "0x" followed by the hash in hex.
func (n Name) MarshalText() ([]byte, error) {
	if s, ok := Default().Lookup(n); ok {
		if _, raw := parseHex(s); !raw {
			return []byte(s), nil
		}
	}

	return []byte(hexPrefix + n.Hex()), nil
}

// UnmarshalText accepts a "0x" prefixed hash or a string to hash.
func (n *Name) UnmarshalText(text []byte) error {
	if v, ok := parseHex(string(text)); ok {
		*n = v
		return nil
	}

	*n = Hash(string(text))
	return nil
}

func parseHex(s string) (Name, bool) {
	if len(s) != len(hexPrefix)+8 || !strings.EqualFold(s[:len(hexPrefix)], hexPrefix) {
		return 0, false
	}

	v, err := strconv.ParseUint(s[len(hexPrefix):], 16, 32)
	if err != nil {
		return 0, false
	}

	return Name(v), true
}

// Table maps name hashes to their source strings. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	entries map[Name]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[Name]string)}
}

var defaultTable = NewTable()

// Default returns the process-wide table consulted by Name.String.
func Default() *Table {
	return defaultTable
}

// Add hashes s and records it. The first string recorded for a hash wins.
func (t *Table) Add(s string) Name {
	n := Hash(s)
	t.mu.Lock()
	if _, ok := t.entries[n]; !ok {
		t.entries[n] = s
	}
	t.mu.Unlock()

	return n
}

// Lookup returns the string recorded for n.
func (t *Table) Lookup(n Name) (string, bool) {
	t.mu.RLock()
	s, ok := t.entries[n]
	t.mu.RUnlock()

	return s, ok
}

// Len returns the number of recorded names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}

// Load reads one name per line. Blank lines are skipped, surrounding quotes
// and whitespace are trimmed.
func (t *Table) Load(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	added := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = strings.Trim(line, `"`)
		if line == "" {
			continue
		}

		t.Add(line)
		added++
	}

	if err := sc.Err(); err != nil {
		return added, fmt.Errorf("read names: %w", err)
	}

	return added, nil
}

// Dump writes the known string of every name in list, sorted and one per
// line, in the form Load reads. Unknown and repeated names are skipped.
func (t *Table) Dump(w io.Writer, list []Name) (int, error) {
	seen := make(map[Name]struct{}, len(list))
	lines := make([]string, 0, len(list))

	t.mu.RLock()
	for _, n := range list {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}

		if s, ok := t.entries[n]; ok {
			lines = append(lines, s)
		}
	}
	t.mu.RUnlock()

	slices.Sort(lines)

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return 0, fmt.Errorf("write names: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("write names: %w", err)
	}

	return len(lines), nil
}
