package matcher

import (
	"regexp"
	"strings"
	"sync"

	"github.com/vdobler/htmock/internal/wire"
)

// Normalizer adjusts a value before comparison, e.g. lower-casing header
// names or collapsing localhost/127.0.0.1 for host comparisons.
type Normalizer func(string) string

// Identity leaves a value untouched.
func Identity(s string) string { return s }

// Fold lower-cases a value, used for header, cookie, method and host
// comparisons per the case-insensitivity rules.
func Fold(s string) string { return strings.ToLower(s) }

// regexCache avoids recompiling the same pattern for every history entry
// scanned during verify. It is shared process-wide across every pooled
// *state.State instance, so a sync.Map guards it instead of a plain map.
var regexCache sync.Map

func compileRegex(pattern string) (*regexp.Regexp, error) {
	if re, ok := regexCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	actual, _ := regexCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// EvalString checks a single-valued attribute (scheme, method, host, port,
// path) against constraint c, normalizing both operand and actual value
// with norm before comparing. It mirrors vdobler/ht's Condition.Fulfilled:
// every non-empty field in c contributes one more requirement, all of
// which must hold.
func EvalString(attr string, c wire.StringConstraint, actual string, norm Normalizer) (bool, uint, []wire.Mismatch) {
	if norm == nil {
		norm = Identity
	}
	a := norm(actual)
	ok := true
	var dist uint
	var mismatches []wire.Mismatch

	fail := func(constraint, expected string, d uint) {
		ok = false
		dist = addDistance(dist, d)
		mismatches = append(mismatches, wire.Mismatch{
			Matcher:    attr,
			Constraint: constraint,
			Expected:   expected,
			Actual:     actual,
		})
	}

	if c.Equals != "" {
		if want := norm(c.Equals); want != a {
			fail("equals", c.Equals, stringDistance(a, want))
		}
	}
	if c.NotEquals != "" {
		if want := norm(c.NotEquals); want == a {
			fail("not_equals", c.NotEquals, negated(0, len(a)))
		}
	}
	if c.Contains != "" {
		if want := norm(c.Contains); !strings.Contains(a, want) {
			fail("contains", c.Contains, containsDistance(a, want))
		}
	}
	if c.Excludes != "" {
		if want := norm(c.Excludes); strings.Contains(a, want) {
			fail("excludes", c.Excludes, negated(containsDistance(a, want), len(want)))
		}
	}
	if c.Prefix != "" {
		if want := norm(c.Prefix); !strings.HasPrefix(a, want) {
			fail("prefix", c.Prefix, prefixDistance(a, want))
		}
	}
	if c.PrefixNot != "" {
		if want := norm(c.PrefixNot); strings.HasPrefix(a, want) {
			fail("prefix_not", c.PrefixNot, negated(prefixDistance(a, want), len(want)))
		}
	}
	if c.Suffix != "" {
		if want := norm(c.Suffix); !strings.HasSuffix(a, want) {
			fail("suffix", c.Suffix, suffixDistance(a, want))
		}
	}
	if c.SuffixNot != "" {
		if want := norm(c.SuffixNot); strings.HasSuffix(a, want) {
			fail("suffix_not", c.SuffixNot, negated(suffixDistance(a, want), len(want)))
		}
	}
	if c.Regexp != "" {
		re, err := compileRegex(c.Regexp)
		if err != nil || !re.MatchString(actual) {
			fail("regex", c.Regexp, uint(len(actual)))
		}
	}
	return ok, dist, mismatches
}

// EvalBody is EvalString's counterpart for byte-oriented bodies, where
// operands may not be valid UTF-8 and so travel through BodyConstraint
// rather than StringConstraint.
func EvalBody(c wire.BodyConstraint, actual []byte) (bool, uint, []wire.Mismatch) {
	return EvalString("body", wire.StringConstraint{
		Equals:    c.Equals,
		NotEquals: c.NotEquals,
		Contains:  c.Contains,
		Excludes:  c.Excludes,
		Prefix:    c.Prefix,
		PrefixNot: c.PrefixNot,
		Suffix:    c.Suffix,
		SuffixNot: c.SuffixNot,
		Regexp:    c.Regexp,
	}, string(actual), Identity)
}
