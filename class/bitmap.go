// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

// Bitmap keeps its pixel payload undifferentiated.
type Bitmap = Trivial[ResourceLinkHeader, RawBody]
