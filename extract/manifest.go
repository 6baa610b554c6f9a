// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package extract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/bigfile/dialect"
	"github.com/woozymasta/bigfile/names"
)

// ErrDigestMismatch means a file on disk no longer matches its manifest digest.
var ErrDigestMismatch = errors.New("digest mismatch")

// Manifest lists every file written by Run in archive order.
type Manifest struct {
	Signature string           `json:"signature" yaml:"signature"`
	Version   string           `json:"version" yaml:"version"`
	Platform  dialect.Platform `json:"platform" yaml:"platform"`
	Format    Format           `json:"format" yaml:"format"`
	Files     []File           `json:"files" yaml:"files"`
}

// File is one written output.
type File struct {
	// Path is slash-separated and relative to the destination directory.
	Path   string     `json:"path" yaml:"path"`
	BLAKE3 string     `json:"blake3" yaml:"blake3"`
	Name   names.Name `json:"name" yaml:"name"`
	Class  names.Name `json:"class" yaml:"class"`
	Pool   int        `json:"pool" yaml:"pool"`
	Entry  int        `json:"entry" yaml:"entry"`
	Size   int64      `json:"size" yaml:"size"`
}

// digest returns the hex BLAKE3-256 of data.
func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeManifest stores m as manifest.yaml under dir.
func writeManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// ReadManifest loads manifest.yaml from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return &m, nil
}

// Verify re-hashes every listed file under dir and reports the first mismatch.
func (m *Manifest) Verify(dir string) error {
	for _, f := range m.Files {
		rel, err := normalizePath(f.Path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("verify %s: %w", f.Path, err)
		}

		if int64(len(data)) != f.Size || digest(data) != f.BLAKE3 {
			return fmt.Errorf("%w: %s", ErrDigestMismatch, f.Path)
		}
	}

	return nil
}
