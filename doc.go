// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

/*
Package bigfile reads and writes bigfile game archives.

An archive starts with a 256-byte version signature. The signature selects a
dialect (see package dialect) which fixes the width of pool and entry counts
and whether pools carry their own byte order. Pools group entries that share
a codec (see package lz). Each entry holds a name hash, a class hash, an
uncompressed link header and a body that is stored raw or as a codec frame.

Records (see package class) are typed views of entries, selected by
(class, version, platform). Entries without a registered layout decode to an
opaque record, so every archive round-trips.

# Reading

	a, err := bigfile.Open("LEVEL.DPC", bigfile.ReaderOptions{})
	if err != nil {
	    return err
	}
	results, err := a.DecodeEntries(ctx, bigfile.DecodeOptions{MaxWorkers: 4})
	if err != nil {
	    return err
	}
	for _, res := range results {
	    if res.Err != nil {
	        return res.Err
	    }
	}

The platform is detected from the file extension when ReaderOptions.Platform
is empty; Parse defaults to PC.

# Writing

Encode reuses stored payloads when a body is unchanged, so a decoded archive
re-encodes byte for byte:

	if err := a.WriteFile("LEVEL.DPC", bigfile.WriterOptions{}); err != nil {
	    return err
	}

Set WriterOptions.Recompress to run the pool codec again for every
compressed entry.

# Verifying

RoundTrip parses, decodes, re-encodes and compares in one call:

	_, err := bigfile.RoundTrip(ctx, data, bigfile.RoundTripOptions{})
	var div *bigfile.DivergenceError
	if errors.As(err, &div) {
	    fmt.Println("first difference at", div.Offset)
	}

Format errors wrap the sentinels in errors.go and, for entries, an
*EntryError carrying the pool index, entry index and byte offset.
*/
package bigfile
