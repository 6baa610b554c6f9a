// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package class

import "github.com/woozymasta/bigfile/dialect"

// Format versions with registered layouts.
const (
	VersionAsobo1291 = "v1.291.03.06"
	VersionAsobo1381 = "v1.381.67.09"
)

func catalog() []Registration {
	return []Registration{
		{Class: "GameObj_Z", Version: VersionAsobo1291, Platform: dialect.PC, Decode: trivial[RawBody, GameObjBody]()},
		{Class: "GameObj_Z", Version: VersionAsobo1291, Platform: dialect.X360, Decode: trivial[RawBody, GameObjBody]()},
		{Class: "WorldRef_Z", Version: VersionAsobo1381, Platform: dialect.PC, Decode: trivial[ObjectLinkHeader, WorldRefBody]()},
		{Class: "RotShapeData_Z", Version: VersionAsobo1381, Platform: dialect.PC, Decode: trivial[ResourceLinkHeader, RotShapeDataBody]()},
		{Class: "Fonts_Z", Version: VersionAsobo1381, Platform: dialect.PC, Decode: trivial[ResourceLinkHeader, FontsBody]()},
		{Class: "Sound_Z", Version: VersionAsobo1381, Platform: dialect.PC, Decode: decodeSound},
		{Class: "Bitmap_Z", Version: VersionAsobo1381, Platform: dialect.PC, Decode: trivial[ResourceLinkHeader, RawBody]()},
	}
}
