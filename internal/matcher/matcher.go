package matcher

import (
	"strconv"

	"github.com/vdobler/htmock/internal/wire"
)

// Result is the outcome of evaluating one RequestRequirements against one
// Request: whether every configured constraint held, the weighted sum of
// the constraints that did not, and the structured explanation of each.
type Result struct {
	Matches    bool
	Distance   uint
	Mismatches []wire.Mismatch
}

// attrEval evaluates exactly one request attribute and folds its outcome
// into an in-progress Result.
type attrEval func(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch)

// registry is the fixed, ordered list of attribute evaluators applied to
// every (request, requirements) pair. Order only matters for the ordering
// of emitted Mismatches; matches/distance are order-independent.
var registry = []attrEval{
	evalScheme,
	evalMethod,
	evalHost,
	evalPort,
	evalPath,
	evalQueryParams,
	evalHeaders,
	evalCookies,
	evalBody,
	evalJSONBody,
	evalJSONBodyIncludes,
	evalJSONBodyExcludes,
	evalFormFields,
	evalPredicates,
}

// Evaluate runs the full registry against req and rr, per §4.2: matches is
// the conjunction across all entries, distance the weighted sum, and
// mismatches the ordered concatenation.
func Evaluate(req *Request, rr *wire.RequestRequirements) Result {
	result := Result{Matches: true}
	for _, eval := range registry {
		ok, dist, miss := eval(req, rr)
		if !ok {
			result.Matches = false
		}
		result.Distance = addDistance(result.Distance, dist)
		result.Mismatches = append(result.Mismatches, miss...)
	}
	return result
}

func evalScheme(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if rr.Scheme.Empty() {
		return true, 0, nil
	}
	return EvalString("scheme", rr.Scheme, req.Scheme, Fold)
}

func evalMethod(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if rr.Method.Empty() {
		return true, 0, nil
	}
	return EvalString("method", rr.Method, req.Method, Fold)
}

func evalHost(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if rr.Host.Empty() {
		return true, 0, nil
	}
	return EvalString("host", rr.Host, req.Host, normalizeHost)
}

func evalPort(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if rr.Port.Empty() {
		return true, 0, nil
	}
	return EvalString("port", rr.Port, req.Port, Identity)
}

func evalPath(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if rr.Path.Empty() {
		return true, 0, nil
	}
	return EvalString("path", rr.Path, req.Path, Identity)
}

func evalBody(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if rr.Body.Empty() {
		return true, 0, nil
	}
	return EvalBody(rr.Body, req.Body)
}

func evalJSONBody(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	return EvalJSONBody(rr.JSONBody, req.Body)
}

func evalJSONBodyIncludes(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	return EvalJSONBodyIncludes(rr.JSONBodyIncludes, req.Body)
}

func evalJSONBodyExcludes(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if len(rr.JSONBodyExcludes) == 0 {
		return true, 0, nil
	}
	return EvalJSONBodyExcludes(rr.JSONBodyExcludes, req.Body)
}

func evalQueryParams(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	return evalKVList("query_param", rr.QueryParam, req.Query, Identity, Identity)
}

func evalHeaders(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	return evalKVList("header", rr.Header, req.Headers, Fold, Identity)
}

func evalCookies(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	return evalKVList("cookie", rr.Cookie, req.Cookies, Fold, Identity)
}

func evalFormFields(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if len(rr.FormField) == 0 {
		return true, 0, nil
	}
	return evalKVList("form_field", rr.FormField, ParseForm(req.Body), Identity, Identity)
}

func evalKVList(attr string, constraints []wire.KVConstraint, pairs []wire.KV, keyNorm, valNorm Normalizer) (bool, uint, []wire.Mismatch) {
	ok := true
	var dist uint
	var mismatches []wire.Mismatch
	for _, c := range constraints {
		cOK, cDist, cMiss := EvalKV(attr, c, pairs, keyNorm, valNorm)
		if !cOK {
			ok = false
		}
		dist = addDistance(dist, cDist)
		mismatches = append(mismatches, cMiss...)
	}
	return ok, dist, mismatches
}

func evalPredicates(req *Request, rr *wire.RequestRequirements) (bool, uint, []wire.Mismatch) {
	if len(rr.IsTrue) == 0 && len(rr.IsFalse) == 0 {
		return true, 0, nil
	}
	httpReq := req.toHTTPRequest()
	ok := true
	var mismatches []wire.Mismatch
	for i, p := range rr.IsTrue {
		if !p(httpReq) {
			ok = false
			mismatches = append(mismatches, wire.Mismatch{Matcher: "is_true", Constraint: strconv.Itoa(i)})
		}
	}
	for i, p := range rr.IsFalse {
		if p(httpReq) {
			ok = false
			mismatches = append(mismatches, wire.Mismatch{Matcher: "is_false", Constraint: strconv.Itoa(i)})
		}
	}
	var dist uint
	if !ok {
		dist = 1
	}
	return ok, dist, mismatches
}
