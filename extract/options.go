// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package extract

import (
	"fmt"

	"github.com/woozymasta/pathrules"

	"github.com/woozymasta/bigfile/class"
)

// ManifestName is the file written at the root of the destination directory.
const ManifestName = "manifest.yaml"

// Format selects how an entry is written.
type Format string

// Output formats.
const (
	// FormatRaw writes the link header followed by the decompressed body.
	FormatRaw Format = "raw"
	// FormatYAML writes the decoded record as a YAML document.
	FormatYAML Format = "yaml"
	// FormatCBOR writes the decoded record as core deterministic CBOR.
	FormatCBOR Format = "cbor"
)

// Extension returns the suffix appended to output files, empty for raw.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatCBOR:
		return ".cbor"
	default:
		return ""
	}
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatRaw, FormatYAML, FormatCBOR:
		return true
	default:
		return false
	}
}

// FileMode controls output file creation.
type FileMode string

// Output file creation policies.
const (
	// FileModeAuto first tries create-only, then falls back to truncate for existing files.
	FileModeAuto FileMode = "auto"
	// FileModeTruncate opens existing files with truncate and creates missing files.
	FileModeTruncate FileMode = "truncate"
	// FileModeCreateOnly fails on existing files.
	FileModeCreateOnly FileMode = "create_only"
)

// Options configures Run.
type Options struct {
	// OnEntryDone is called after one file is fully written.
	OnEntryDone func(file File) `json:"-" yaml:"-"`
	// Registry decodes records for yaml and cbor output when Entry.Record is unset.
	Registry *class.Registry `json:"-" yaml:"-"`
	// Format selects the output encoding.
	Format Format `json:"format,omitempty" yaml:"format,omitempty"`
	// FileMode controls output file creation policy.
	FileMode FileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Rules are ordered include/exclude patterns matched against "<name>.<Class>".
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// MaxWorkers is the number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// RawNames disables output path sanitization.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
	// NoManifest skips writing manifest.yaml.
	NoManifest bool `json:"no_manifest,omitempty" yaml:"no_manifest,omitempty"`
}

// applyDefaults fills zero-valued options with defaults.
func (opts *Options) applyDefaults() {
	if opts.Format == "" {
		opts.Format = FormatRaw
	}

	if opts.FileMode == "" {
		opts.FileMode = FileModeAuto
	}

	if opts.Registry == nil {
		opts.Registry = class.Default()
	}

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{CaseInsensitive: true}
	}

	// Rules led by an include are an allow-list.
	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
		if len(opts.Rules) > 0 && opts.Rules[0].Action == pathrules.ActionInclude {
			opts.MatcherOptions.DefaultAction = pathrules.ActionExclude
		}
	}
}

// validate rejects unknown enum values.
func (opts *Options) validate() error {
	if !opts.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	switch opts.FileMode {
	case FileModeAuto, FileModeTruncate, FileModeCreateOnly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFileMode, opts.FileMode)
	}
}
