// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package dialect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/woozymasta/bigfile/binio"
)

// Platform is the target an archive was built for.
type Platform uint8

// Known platforms. The zero value is PC.
const (
	PC Platform = iota
	UWP
	Maclinux
	PS2
	PSP
	Xbox
	GameCube
	Wii
	X360
	PS3
)

type platformInfo struct {
	name      string
	extension string
	order     binio.ByteOrder
}

var platforms = [...]platformInfo{
	PC:       {"PC", ".DPC", binio.LittleEndian},
	UWP:      {"UWP", ".DUA", binio.LittleEndian},
	Maclinux: {"Maclinux", ".DMC", binio.LittleEndian},
	PS2:      {"PS2", ".DPS", binio.LittleEndian},
	PSP:      {"PSP", ".DPP", binio.LittleEndian},
	Xbox:     {"Xbox", ".DXB", binio.LittleEndian},
	GameCube: {"GameCube", ".DGC", binio.BigEndian},
	Wii:      {"Wii", ".DRV", binio.BigEndian},
	X360:     {"X360", ".DBM", binio.BigEndian},
	PS3:      {"PS3", ".DP3", binio.BigEndian},
}

// Platforms lists every known platform.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	for i := range out {
		out[i] = Platform(i) //nolint:gosec // bounded by table size
	}

	return out
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	return int(p) < len(platforms)
}

// String returns the platform name.
func (p Platform) String() string {
	if p.Valid() {
		return platforms[p].name
	}

	return fmt.Sprintf("platform(%d)", uint8(p))
}

// ByteOrder returns the native byte order of archives built for p.
func (p Platform) ByteOrder() binio.ByteOrder {
	if p.Valid() {
		return platforms[p].order
	}

	return binio.LittleEndian
}

// Extension returns the archive file extension, including the dot.
func (p Platform) Extension() string {
	if p.Valid() {
		return platforms[p].extension
	}

	return ""
}

// ParsePlatform parses a platform name case-insensitively.
func ParsePlatform(name string) (Platform, error) {
	name = strings.TrimSpace(name)
	for i, info := range platforms {
		if strings.EqualFold(info.name, name) {
			return Platform(i), nil //nolint:gosec // bounded by table size
		}
	}

	return PC, fmt.Errorf("unknown platform %q", name)
}

// PlatformFromPath infers the platform from an archive file extension.
func PlatformFromPath(path string) (Platform, bool) {
	ext := filepath.Ext(path)
	for i, info := range platforms {
		if strings.EqualFold(info.extension, ext) {
			return Platform(i), true //nolint:gosec // bounded by table size
		}
	}

	return PC, false
}

// MarshalText implements encoding.TextMarshaler.
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}

	*p = parsed
	return nil
}
