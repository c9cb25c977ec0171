// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matcher implements the constraint engine that decides whether a
// live request satisfies a set of requirements, and — when it does not —
// how far off it was. The registry and Condition design follow
// vdobler/ht's check package; the weighted pseudo-edit-distance is new.
package matcher

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxDistance caps the weighted sum so a wildly mismatched history entry
// cannot overflow the uint accumulator.
const maxDistance = 1 << 20

// stringDistance returns the Levenshtein distance between a and b, the
// classic insert/delete/substitute edit count vdobler/ht's check.impl also
// leans on indirectly via its Condition.Contains substring search.
func stringDistance(a, b string) uint {
	if a == b {
		return 0
	}
	return uint(levenshtein.ComputeDistance(a, b))
}

// containsDistance scores how far s is from containing sub. Zero when it
// already does; otherwise the edit distance to the closest window of s
// that is the same length as sub.
func containsDistance(s, sub string) uint {
	if sub == "" || strings.Contains(s, sub) {
		return 0
	}
	best := uint(maxDistance)
	n := len(sub)
	if len(s) < n {
		return stringDistance(s, sub)
	}
	for i := 0; i+n <= len(s); i++ {
		if d := stringDistance(s[i:i+n], sub); d < best {
			best = d
		}
	}
	return best
}

// prefixDistance scores how far s is from starting with p.
func prefixDistance(s, p string) uint {
	if strings.HasPrefix(s, p) {
		return 0
	}
	n := len(p)
	if len(s) < n {
		n = len(s)
	}
	return stringDistance(s[:n], p)
}

// suffixDistance scores how far s is from ending with sfx.
func suffixDistance(s, sfx string) uint {
	if strings.HasSuffix(s, sfx) {
		return 0
	}
	n := len(sfx)
	if len(s) < n {
		n = len(s)
	}
	return stringDistance(s[len(s)-n:], sfx)
}

// negated inverts a "should not" distance: zero becomes the length of the
// match that should not have been there, and non-zero becomes zero.
func negated(d uint, matchLen int) uint {
	if d == 0 {
		return uint(matchLen)
	}
	return 0
}

func addDistance(total, d uint) uint {
	if total+d < total || total+d > maxDistance {
		return maxDistance
	}
	return total + d
}
