// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package extract

import "errors"

// Sentinel errors for extraction. Use errors.Is in callers.
var (
	// ErrInvalidPath means an entry output path is empty, absolute or escapes the destination.
	ErrInvalidPath = errors.New("invalid extract path")
	// ErrInvalidRules means one or more filter rules are invalid.
	ErrInvalidRules = errors.New("invalid filter rules")
	// ErrUnknownFormat means the output format is not one of raw, yaml or cbor.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrUnknownFileMode means the file creation policy is not recognized.
	ErrUnknownFileMode = errors.New("unknown file mode")
)
