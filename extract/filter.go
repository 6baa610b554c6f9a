// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package extract

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// filter holds compiled include/exclude rules. A nil filter selects everything.
type filter struct {
	matcher *pathrules.Matcher
}

// newFilter compiles rules, returning nil when no usable rule remains.
func newFilter(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*filter, error) {
	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidRules, err)
	}

	return &filter{matcher: matcher}, nil
}

// normalizeRules converts pattern separators to "/" and drops empty patterns.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(rule.Pattern)
		pattern = strings.ReplaceAll(pattern, `\`, "/")
		pattern = strings.TrimPrefix(pattern, "./")
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Selected reports whether the entry path passes the rules.
func (f *filter) Selected(entryPath string) bool {
	if f == nil || f.matcher == nil {
		return true
	}

	return f.matcher.Included(entryPath, false)
}

// ParseRules turns "pattern" and "!pattern" strings into rules. A leading "!"
// excludes, anything else includes.
func ParseRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		action := pathrules.ActionInclude
		if rest, ok := strings.CutPrefix(pattern, "!"); ok {
			action = pathrules.ActionExclude
			pattern = strings.TrimSpace(rest)
		}
		if pattern == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{Action: action, Pattern: pattern})
	}

	return rules
}
