package matcher

import (
	"regexp"
	"strconv"

	"github.com/vdobler/htmock/internal/wire"
)

// pairResult is the outcome of evaluating one (key, value) pair against a
// KVConstraint's Key/Value sub-constraints, combined with Operator.
type pairResult struct {
	pair  wire.KV
	ok    bool
	dist  uint
	miss  []wire.Mismatch
}

func evalPair(attr string, c wire.KVConstraint, pair wire.KV, keyNorm, valNorm Normalizer) pairResult {
	keyOK, keyDist, keyMiss := true, uint(0), []wire.Mismatch(nil)
	if !c.Key.Empty() {
		keyOK, keyDist, keyMiss = EvalString(attr+".key", c.Key, pair.Key, keyNorm)
	}
	valOK, valDist, valMiss := true, uint(0), []wire.Mismatch(nil)
	if !c.Value.Empty() {
		valOK, valDist, valMiss = EvalString(attr+".value", c.Value, pair.Value, valNorm)
	}

	var ok bool
	switch c.Operator {
	case wire.OpOR:
		ok = keyOK || valOK
	case wire.OpNAND:
		ok = !(keyOK && valOK)
	case wire.OpNOR:
		ok = !(keyOK || valOK)
	case wire.OpIMPLICATION:
		ok = !keyOK || valOK
	default: // wire.OpAND and unset
		ok = keyOK && valOK
	}

	dist := addDistance(keyDist, valDist)
	miss := append(append([]wire.Mismatch(nil), keyMiss...), valMiss...)
	return pairResult{pair: pair, ok: ok, dist: dist, miss: miss}
}

// EvalKV evaluates a multi-valued constraint (header, cookie, query
// parameter or form field) against the ordered pairs present on a request.
//
// Exists and Missing are the wire spellings of "this key must be present" /
// "this key must be absent", and take priority over Strategy/Operator when
// set: Exists forces Presence+AND (so only Key, not Value, decides a pair's
// match), Missing forces Absence+NAND (so no pair may match Key at all).
func EvalKV(attr string, c wire.KVConstraint, pairs []wire.KV, keyNorm, valNorm Normalizer) (bool, uint, []wire.Mismatch) {
	if c.CountByRegex != nil {
		return evalCountByRegex(attr, *c.CountByRegex, pairs)
	}

	strategy, operator := c.Strategy, c.Operator
	switch {
	case c.Missing:
		strategy, operator = wire.StrategyAbsence, wire.OpNAND
	case c.Exists:
		strategy, operator = wire.StrategyPresence, wire.OpAND
	}
	eff := c
	eff.Operator = operator
	if c.Exists || c.Missing {
		eff.Value = wire.StringConstraint{}
	}

	results := make([]pairResult, len(pairs))
	for i, p := range pairs {
		results[i] = evalPair(attr, eff, p, keyNorm, valNorm)
	}

	switch strategy {
	case wire.StrategyAbsence:
		return evalAbsence(attr, eff, results)
	default: // wire.StrategyPresence and unset
		return evalPresence(attr, eff, results)
	}
}

func evalPresence(attr string, c wire.KVConstraint, results []pairResult) (bool, uint, []wire.Mismatch) {
	for _, r := range results {
		if r.ok {
			return true, 0, nil
		}
	}
	if len(results) == 0 {
		return false, uint(maxDistance), []wire.Mismatch{{
			Matcher:    attr,
			Constraint: "presence",
			Expected:   "at least one matching pair",
			Actual:     "none present",
		}}
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.dist < best.dist {
			best = r
		}
	}
	miss := append([]wire.Mismatch(nil), best.miss...)
	for i := range miss {
		miss[i].BestMatchKey = best.pair.Key
		miss[i].BestMatchValue = best.pair.Value
		miss[i].BestMatch = true
	}
	return false, best.dist, miss
}

func evalAbsence(attr string, c wire.KVConstraint, results []pairResult) (bool, uint, []wire.Mismatch) {
	var worst *pairResult
	for i, r := range results {
		if !r.ok && (worst == nil || r.dist > worst.dist) {
			worst = &results[i]
		}
	}
	if worst == nil {
		return true, 0, nil
	}
	miss := append([]wire.Mismatch(nil), worst.miss...)
	for i := range miss {
		miss[i].BestMatchKey = worst.pair.Key
		miss[i].BestMatchValue = worst.pair.Value
		miss[i].BestMatch = true
	}
	return false, worst.dist, miss
}

func evalCountByRegex(attr string, cbr wire.CountByRegex, pairs []wire.KV) (bool, uint, []wire.Mismatch) {
	keyRe, err := compileRegex(cbr.KeyRegex)
	if err != nil {
		return false, uint(maxDistance), []wire.Mismatch{{
			Matcher: attr, Constraint: "count_by_regex", Expected: cbr.KeyRegex, Actual: "invalid key regex",
		}}
	}
	valRe, err := compileRegex(cbr.ValueRegex)
	if err != nil {
		return false, uint(maxDistance), []wire.Mismatch{{
			Matcher: attr, Constraint: "count_by_regex", Expected: cbr.ValueRegex, Actual: "invalid value regex",
		}}
	}
	n := countMatches(keyRe, valRe, pairs)
	if n == cbr.Count {
		return true, 0, nil
	}
	diff := n - cbr.Count
	if diff < 0 {
		diff = -diff
	}
	return false, uint(diff), []wire.Mismatch{{
		Matcher:    attr,
		Constraint: "count_by_regex",
		Expected:   strconv.Itoa(cbr.Count),
		Actual:     strconv.Itoa(n),
	}}
}

func countMatches(keyRe, valRe *regexp.Regexp, pairs []wire.KV) int {
	n := 0
	for _, p := range pairs {
		if keyRe.MatchString(p.Key) && valRe.MatchString(p.Value) {
			n++
		}
	}
	return n
}

