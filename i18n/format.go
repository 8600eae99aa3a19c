// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"sort"
	"strings"
)

// marker is one "%N" occurrence in a string.
type marker struct {
	start, end int
	n          int
}

// Arg replaces the %N markers of s with args.
//
// The first argument replaces every occurrence of the lowest-numbered marker,
// the second argument the next lowest, and so on. Numbers run from 1 to 99.
// Markers left without an argument are kept as is, and text inserted by an
// argument is never scanned for markers again.
//
//	Arg("%2 of %1", "4", "1") == "1 of 4"
func Arg(s string, args ...string) string {
	if len(args) == 0 {
		return s
	}

	markers := findMarkers(s)
	if len(markers) == 0 {
		return s
	}

	var numbers []int

	seen := make(map[int]bool)

	for _, m := range markers {
		if !seen[m.n] {
			seen[m.n] = true
			numbers = append(numbers, m.n)
		}
	}

	sort.Ints(numbers)

	replacement := make(map[int]string, len(args))
	for i, n := range numbers {
		if i >= len(args) {
			break
		}

		replacement[n] = args[i]
	}

	var b strings.Builder

	last := 0

	for _, m := range markers {
		arg, ok := replacement[m.n]
		if !ok {
			continue
		}

		b.WriteString(s[last:m.start])
		b.WriteString(arg)
		last = m.end
	}

	b.WriteString(s[last:])

	return b.String()
}

// Placeholders returns the distinct marker numbers used in s, in ascending order.
// For "%2 of %1 (%1)" it returns [1 2].
func Placeholders(s string) []int {
	var out []int

	for _, m := range findMarkers(s) {
		out = append(out, m.n)
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// findMarkers returns the "%N" markers of s in order. A marker is a percent
// sign followed by one or two digits with a value from 1 to 99.
func findMarkers(s string) []marker {
	var out []marker

	for i := 0; i < len(s)-1; i++ {
		if s[i] != '%' || !isDigit(s[i+1]) {
			continue
		}

		end := i + 2
		if end < len(s) && isDigit(s[end]) {
			end++
		}

		n := 0
		for _, c := range s[i+1 : end] {
			n = n*10 + int(c-'0')
		}

		if n == 0 {
			continue
		}

		out = append(out, marker{start: i, end: end, n: n})
		i = end - 1
	}

	return out
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
