// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package extract

import (
	"fmt"
	"hash/fnv"
	"path"
	"strconv"
	"strings"
	"unicode"
)

// maxSegmentLen limits one path segment to a common filesystem-safe length.
const maxSegmentLen = 240

// reservedDeviceNames are case-insensitive DOS device names.
var reservedDeviceNames = map[string]struct{}{
	"aux": {}, "con": {}, "nul": {}, "prn": {}, "clock$": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {},
	"com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {},
	"lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// entryPath returns the slash-separated match path "<name>.<Class>". Names
// loaded from a name table may carry either separator.
func entryPath(name, class string) string {
	p := strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	p = strings.TrimPrefix(p, "./")

	return p + "." + class
}

// normalizePath rejects absolute and traversal paths and drops empty or "." segments.
func normalizePath(raw string) (string, error) {
	if raw == "" || strings.ContainsRune(raw, 0) || strings.HasPrefix(raw, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}

	if len(raw) >= 3 && isASCIIAlpha(raw[0]) && raw[1] == ':' && raw[2] == '/' {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}

	parts := strings.Split(raw, "/")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
		default:
			clean = append(clean, part)
		}
	}

	if len(clean) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}

	return strings.Join(clean, "/"), nil
}

// sanitizePath rewrites every segment of a slash-separated path to a
// filesystem-safe form. It never fails on mangled names.
func sanitizePath(raw string) string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." {
			continue
		}

		out = append(out, sanitizeSegment(part))
	}

	if len(out) == 0 {
		return "_"
	}

	return strings.Join(out, "/")
}

// sanitizeSegment replaces control and reserved characters, trims trailing
// dots and spaces, and prefixes DOS device names.
func sanitizeSegment(segment string) string {
	if segment == ".." {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		if unicode.IsControl(r) || unicode.In(r, unicode.Cf) || r == '\uFFFD' || strings.ContainsRune(`<>:"\|?*`, r) {
			b.WriteByte('_')
			continue
		}

		b.WriteRune(r)
	}

	sanitized := strings.TrimRight(b.String(), ". ")
	if sanitized == "" {
		return "_"
	}

	base := strings.ToLower(sanitized)
	if dot := strings.IndexByte(base, '.'); dot >= 0 {
		base = base[:dot]
	}
	if _, ok := reservedDeviceNames[base]; ok {
		sanitized = "_" + sanitized
	}

	return shortenSegment(sanitized, maxSegmentLen)
}

// uniquePaths tracks case-insensitive output paths and suffixes collisions.
type uniquePaths struct {
	used map[string]struct{}
	next map[string]int
}

func newUniquePaths(n int) *uniquePaths {
	return &uniquePaths{
		used: make(map[string]struct{}, n),
		next: make(map[string]int),
	}
}

// claim returns p, or p with a "~N" suffix before its extension when p is taken.
func (u *uniquePaths) claim(p string) string {
	key := strings.ToLower(p)
	if _, taken := u.used[key]; !taken {
		u.used[key] = struct{}{}
		return p
	}

	dir, name := path.Split(p)
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for idx := max(u.next[key], 2); ; idx++ {
		suffix := "~" + strconv.Itoa(idx)
		candidate := dir + shortenSegment(base, max(maxSegmentLen-len(ext)-len(suffix), 1)) + suffix + ext
		candidateKey := strings.ToLower(candidate)
		if _, taken := u.used[candidateKey]; taken {
			continue
		}

		u.used[candidateKey] = struct{}{}
		u.next[key] = idx + 1
		return candidate
	}
}

// shortenSegment truncates value to maxLen keeping an FNV-1a suffix for identity.
func shortenSegment(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	if maxLen <= 10 {
		return value[:maxLen]
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())

	return value[:max(maxLen-len(hashPart), 1)] + hashPart
}

// isASCIIAlpha reports whether b is an ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
