// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "levels/start.WorldRef_Z", want: "levels/start.WorldRef_Z"},
		{name: "reserved device", in: "aux.Sound_Z", want: "_aux.Sound_Z"},
		{name: "reserved upper", in: "dir/LPT1", want: "dir/_LPT1"},
		{name: "unsafe runes", in: "a?b*c:d.Fonts_Z", want: "a_b_c_d.Fonts_Z"},
		{name: "control rune", in: "tab\there", want: "tab_here"},
		{name: "trailing dots", in: "dir./file ", want: "dir/file"},
		{name: "traversal", in: "../../x", want: "_/_/x"},
		{name: "empty", in: "/", want: "_"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizePath(tc.in); got != tc.want {
				t.Fatalf("sanitizePath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeLongSegment(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("n", 300)
	got := sanitizeSegment(long)
	if len(got) != maxSegmentLen {
		t.Fatalf("len = %d, want %d", len(got), maxSegmentLen)
	}

	if got == sanitizeSegment(strings.Repeat("n", 301)) {
		t.Fatal("shortened segments must keep distinct identities")
	}
}

func TestNormalizePathRejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "/abs/x", "C:/x", "a/../b", "..", "./.", "a\x00b"} {
		if _, err := normalizePath(in); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("normalizePath(%q): expected ErrInvalidPath, got %v", in, err)
		}
	}

	got, err := normalizePath("./a//b/./c.X")
	if err != nil || got != "a/b/c.X" {
		t.Fatalf("normalizePath = %q, %v", got, err)
	}
}

func TestUniquePathsClaim(t *testing.T) {
	t.Parallel()

	u := newUniquePaths(4)
	steps := []struct {
		in   string
		want string
	}{
		{in: "d/a.X", want: "d/a.X"},
		{in: "D/A.x", want: "D/A~2.x"},
		{in: "d/a.X", want: "d/a~3.X"},
		{in: "d/a~2.X", want: "d/a~2~2.X"},
		{in: "b", want: "b"},
		{in: "b", want: "b~2"},
	}

	for _, step := range steps {
		if got := u.claim(step.in); got != step.want {
			t.Fatalf("claim(%q) = %q, want %q", step.in, got, step.want)
		}
	}
}
