package matcher

import (
	"encoding/json"
	"reflect"

	"github.com/vdobler/htmock/internal/wire"
)

// decodeJSON reports whether body is valid JSON and, if so, its decoded
// form (map[string]interface{}, []interface{}, or a scalar).
func decodeJSON(body []byte) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	return v, true
}

// EvalJSONBody implements json_body: structural equality with requirement,
// ignoring map key order. Requests with a non-JSON body never satisfy it.
func EvalJSONBody(requirement json.RawMessage, body []byte) (bool, uint, []wire.Mismatch) {
	if len(requirement) == 0 {
		return true, 0, nil
	}
	var want interface{}
	if err := json.Unmarshal(requirement, &want); err != nil {
		return false, maxDistance, []wire.Mismatch{{Matcher: "json_body", Constraint: "equals", Expected: "valid requirement document"}}
	}
	got, ok := decodeJSON(body)
	if !ok {
		return false, maxDistance, []wire.Mismatch{{Matcher: "json_body", Constraint: "equals", Expected: string(requirement), Actual: "request body is not JSON"}}
	}
	if jsonEqual(want, got) {
		return true, 0, nil
	}
	return false, maxDistance, []wire.Mismatch{{Matcher: "json_body", Constraint: "equals", Expected: string(requirement), Actual: string(body)}}
}

// EvalJSONBodyIncludes implements json_body_includes: every path present in
// requirement must exist in body with an equal value. Arrays require every
// element of the requirement array to have a containing counterpart
// somewhere in the body array, regardless of position (subset by equality,
// not by index).
func EvalJSONBodyIncludes(requirement json.RawMessage, body []byte) (bool, uint, []wire.Mismatch) {
	if len(requirement) == 0 {
		return true, 0, nil
	}
	var want interface{}
	if err := json.Unmarshal(requirement, &want); err != nil {
		return false, maxDistance, []wire.Mismatch{{Matcher: "json_body_includes", Constraint: "includes", Expected: "valid requirement document"}}
	}
	got, ok := decodeJSON(body)
	if !ok {
		return false, maxDistance, []wire.Mismatch{{Matcher: "json_body_includes", Constraint: "includes", Expected: string(requirement), Actual: "request body is not JSON"}}
	}
	if jsonIncludes(want, got) {
		return true, 0, nil
	}
	return false, maxDistance, []wire.Mismatch{{Matcher: "json_body_includes", Constraint: "includes", Expected: string(requirement), Actual: string(body)}}
}

// EvalJSONBodyExcludes is EvalJSONBodyIncludes negated.
func EvalJSONBodyExcludes(requirement json.RawMessage, body []byte) (bool, uint, []wire.Mismatch) {
	ok, _, _ := EvalJSONBodyIncludes(requirement, body)
	if !ok {
		return true, 0, nil
	}
	return false, maxDistance, []wire.Mismatch{{Matcher: "json_body_excludes", Constraint: "excludes", Expected: string(requirement), Actual: string(body)}}
}

func jsonEqual(want, got interface{}) bool {
	wm, wIsMap := want.(map[string]interface{})
	gm, gIsMap := got.(map[string]interface{})
	if wIsMap && gIsMap {
		if len(wm) != len(gm) {
			return false
		}
		for k, wv := range wm {
			gv, ok := gm[k]
			if !ok || !jsonEqual(wv, gv) {
				return false
			}
		}
		return true
	}
	wa, wIsArr := want.([]interface{})
	ga, gIsArr := got.([]interface{})
	if wIsArr && gIsArr {
		if len(wa) != len(ga) {
			return false
		}
		for i := range wa {
			if !jsonEqual(wa[i], ga[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(want, got)
}

// jsonIncludes reports whether got structurally contains want: every key of
// a requirement object must exist in the corresponding request object with
// an equal (recursively-contained) value; every element of a requirement
// array must have a containing counterpart somewhere in the request array.
func jsonIncludes(want, got interface{}) bool {
	wm, wIsMap := want.(map[string]interface{})
	if wIsMap {
		gm, gIsMap := got.(map[string]interface{})
		if !gIsMap {
			return false
		}
		for k, wv := range wm {
			gv, ok := gm[k]
			if !ok || !jsonIncludes(wv, gv) {
				return false
			}
		}
		return true
	}
	wa, wIsArr := want.([]interface{})
	if wIsArr {
		ga, gIsArr := got.([]interface{})
		if !gIsArr {
			return false
		}
		for _, wv := range wa {
			found := false
			for _, gv := range ga {
				if jsonIncludes(wv, gv) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(want, got)
}
