package wire

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// KV is an ordered key/value pair, used everywhere the wire protocol needs
// to preserve the order headers, query parameters or form fields arrived in.
type KV struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Strategy controls how a multi-valued constraint (header, cookie, query
// parameter, form field) is applied across the several (key, value) pairs
// a request may carry for the same matcher.
type Strategy string

const (
	// StrategyPresence passes when any request pair satisfies the rule.
	StrategyPresence Strategy = "presence"
	// StrategyAbsence passes when all request pairs satisfy the rule.
	StrategyAbsence Strategy = "absence"
)

// Operator combines the key-match and value-match sub-predicates of a
// multi-valued constraint.
type Operator string

const (
	OpAND         Operator = "and"
	OpOR          Operator = "or"
	OpNAND        Operator = "nand"
	OpNOR         Operator = "nor"
	OpIMPLICATION Operator = "implication"
)

// StringConstraint is a conjunction of string tests, modelled on the
// condition family vdobler/ht applies to header and body values: each
// non-empty field adds one more requirement that must hold.
type StringConstraint struct {
	Equals    string `json:"equals,omitempty" yaml:"equals,omitempty"`
	NotEquals string `json:"not_equals,omitempty" yaml:"not_equals,omitempty"`
	Contains  string `json:"contains,omitempty" yaml:"contains,omitempty"`
	Excludes  string `json:"excludes,omitempty" yaml:"excludes,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	PrefixNot string `json:"prefix_not,omitempty" yaml:"prefix_not,omitempty"`
	Suffix    string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	SuffixNot string `json:"suffix_not,omitempty" yaml:"suffix_not,omitempty"`
	Regexp    string `json:"regex,omitempty" yaml:"regex,omitempty"`
}

// Empty reports whether c carries no constraint at all.
func (c StringConstraint) Empty() bool {
	return c == StringConstraint{}
}

// BodyConstraint is a StringConstraint whose operands may be arbitrary
// bytes. Operands that are not valid UTF-8 are transported as a sibling
// "<name>_base64" field instead of the plain field.
type BodyConstraint struct {
	Equals    string
	NotEquals string
	Contains  string
	Excludes  string
	Prefix    string
	PrefixNot string
	Suffix    string
	SuffixNot string
	Regexp    string
}

func (c BodyConstraint) Empty() bool {
	return c == BodyConstraint{}
}

var bodyConstraintFields = []string{
	"equals", "not_equals", "contains", "excludes",
	"prefix", "prefix_not", "suffix", "suffix_not",
}

func (c BodyConstraint) fieldValue(name string) string {
	switch name {
	case "equals":
		return c.Equals
	case "not_equals":
		return c.NotEquals
	case "contains":
		return c.Contains
	case "excludes":
		return c.Excludes
	case "prefix":
		return c.Prefix
	case "prefix_not":
		return c.PrefixNot
	case "suffix":
		return c.Suffix
	case "suffix_not":
		return c.SuffixNot
	}
	return ""
}

func (c *BodyConstraint) setField(name, value string) {
	switch name {
	case "equals":
		c.Equals = value
	case "not_equals":
		c.NotEquals = value
	case "contains":
		c.Contains = value
	case "excludes":
		c.Excludes = value
	case "prefix":
		c.Prefix = value
	case "prefix_not":
		c.PrefixNot = value
	case "suffix":
		c.Suffix = value
	case "suffix_not":
		c.SuffixNot = value
	}
}

// toMap renders c as the "<name>" / "<name>_base64" map both the JSON and
// YAML encodings share.
func (c BodyConstraint) toMap() map[string]string {
	m := make(map[string]string, len(bodyConstraintFields)+1)
	for _, name := range bodyConstraintFields {
		v := c.fieldValue(name)
		if v == "" {
			continue
		}
		if utf8.ValidString(v) {
			m[name] = v
		} else {
			m[name+"_base64"] = base64.StdEncoding.EncodeToString([]byte(v))
		}
	}
	if c.Regexp != "" {
		m["regex"] = c.Regexp
	}
	return m
}

// fromMap undoes toMap's base64 fallback.
func (c *BodyConstraint) fromMap(raw map[string]string) error {
	for _, name := range bodyConstraintFields {
		if b64, ok := raw[name+"_base64"]; ok {
			decoded, err := base64.StdEncoding.DecodeString(b64)
			if err != nil {
				return &DataConversionError{Err: err}
			}
			c.setField(name, string(decoded))
			continue
		}
		if v, ok := raw[name]; ok {
			c.setField(name, v)
		}
	}
	c.Regexp = raw["regex"]
	return nil
}

// MarshalJSON implements json.Marshaler, routing non-UTF-8 operands to a
// parallel "_base64" field as described in the wire protocol.
func (c BodyConstraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toMap())
}

// UnmarshalJSON implements json.Unmarshaler, undoing MarshalJSON's base64
// fallback.
func (c *BodyConstraint) UnmarshalJSON(data []byte) error {
	raw := map[string]string{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.fromMap(raw)
}

// MarshalYAML implements yaml.Marshaler with the same base64 fallback as
// MarshalJSON, so the recording document stays readable for ordinary text
// bodies.
func (c BodyConstraint) MarshalYAML() (interface{}, error) {
	return c.toMap(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler, undoing MarshalYAML.
func (c *BodyConstraint) UnmarshalYAML(value *yaml.Node) error {
	raw := map[string]string{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return c.fromMap(raw)
}

// CountByRegex matches multi-valued attributes whose key matches KeyRegex
// and whose value matches ValueRegex exactly Count times.
type CountByRegex struct {
	KeyRegex   string `json:"key_regex" yaml:"key_regex"`
	ValueRegex string `json:"value_regex" yaml:"value_regex"`
	Count      int    `json:"count" yaml:"count"`
}

// KVConstraint is one constraint against a multi-valued attribute (headers,
// cookies, query parameters, form fields).
type KVConstraint struct {
	Key      StringConstraint `json:"key,omitempty" yaml:"key,omitempty"`
	Value    StringConstraint `json:"value,omitempty" yaml:"value,omitempty"`
	Strategy Strategy         `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Operator Operator         `json:"operator,omitempty" yaml:"operator,omitempty"`
	Exists   bool             `json:"exists,omitempty" yaml:"exists,omitempty"`
	Missing  bool             `json:"missing,omitempty" yaml:"missing,omitempty"`

	CountByRegex *CountByRegex `json:"count_by_regex,omitempty" yaml:"count_by_regex,omitempty"`
}

// Predicate is an opaque, non-serializable user check over a live request.
// A RequestRequirements carrying predicates must never reach the wire; see
// InvalidMockDefinitionError.
type Predicate func(r *http.Request) bool

// RequestRequirements is the bag of constraints attached to one stub, rule
// or recording.
type RequestRequirements struct {
	Scheme StringConstraint `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Method StringConstraint `json:"method,omitempty" yaml:"method,omitempty"`
	Host   StringConstraint `json:"host,omitempty" yaml:"host,omitempty"`
	Port   StringConstraint `json:"port,omitempty" yaml:"port,omitempty"`
	Path   StringConstraint `json:"path,omitempty" yaml:"path,omitempty"`
	Body   BodyConstraint   `json:"body,omitempty" yaml:"body,omitempty"`

	JSONBody         json.RawMessage `json:"json_body,omitempty" yaml:"json_body,omitempty"`
	JSONBodyIncludes json.RawMessage `json:"json_body_includes,omitempty" yaml:"json_body_includes,omitempty"`
	JSONBodyExcludes json.RawMessage `json:"json_body_excludes,omitempty" yaml:"json_body_excludes,omitempty"`

	QueryParam []KVConstraint `json:"query_param,omitempty" yaml:"query_param,omitempty"`
	Header     []KVConstraint `json:"header,omitempty" yaml:"header,omitempty"`
	Cookie     []KVConstraint `json:"cookie,omitempty" yaml:"cookie,omitempty"`
	FormField  []KVConstraint `json:"form_field,omitempty" yaml:"form_field,omitempty"`

	// IsTrue/IsFalse hold opaque predicates over the whole request. They
	// have no JSON representation: RemoteAdapter.AddMock must reject any
	// definition carrying one before it ever reaches json.Marshal.
	IsTrue  []Predicate `json:"-" yaml:"-"`
	IsFalse []Predicate `json:"-" yaml:"-"`
}

// HasPredicates reports whether rr carries user predicates, which makes it
// unfit for the wire.
func (rr RequestRequirements) HasPredicates() bool {
	return len(rr.IsTrue) > 0 || len(rr.IsFalse) > 0
}

// HeaderField is an ordered response header.
type HeaderField struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// MockResponseDef is the canned response of a mock.
type MockResponseDef struct {
	Status     int           `json:"status" yaml:"status"`
	Headers    []HeaderField `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string        `json:"body,omitempty" yaml:"body,omitempty"`
	BodyBase64 string        `json:"body_base64,omitempty" yaml:"body_base64,omitempty"`
	DelayMS    int64         `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty"`
}

// BodyBytes decodes the response body, preferring the base64 form when
// present.
func (r MockResponseDef) BodyBytes() ([]byte, error) {
	if r.BodyBase64 != "" {
		return base64.StdEncoding.DecodeString(r.BodyBase64)
	}
	return []byte(r.Body), nil
}

// SetBody populates Body or BodyBase64 depending on whether b is valid
// UTF-8.
func (r *MockResponseDef) SetBody(b []byte) {
	if utf8.Valid(b) {
		r.Body, r.BodyBase64 = string(b), ""
	} else {
		r.Body, r.BodyBase64 = "", base64.StdEncoding.EncodeToString(b)
	}
}

// MockDefinition is the (requirements, response) pair a test submits.
type MockDefinition struct {
	Request  RequestRequirements `json:"request" yaml:"request"`
	Response MockResponseDef     `json:"response" yaml:"response"`
}

// ActiveMock is a mock the server is currently willing to serve.
type ActiveMock struct {
	ID         int            `json:"id" yaml:"id"`
	Definition MockDefinition `json:"definition" yaml:"definition"`
	CallCount  int            `json:"call_count" yaml:"call_count"`
	Static     bool           `json:"static" yaml:"static"`
}

// ForwardingRuleDef forwards matching requests to an upstream base URL.
type ForwardingRuleDef struct {
	ID            int                 `json:"id" yaml:"id"`
	TargetBaseURL string              `json:"target_base_url" yaml:"target_base_url"`
	Request       RequestRequirements `json:"request" yaml:"request"`
	Headers       []KV                `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ProxyRuleDef proxies matching requests to the host/port/scheme named by
// the request's own absolute-form URI.
type ProxyRuleDef struct {
	ID      int                 `json:"id" yaml:"id"`
	Request RequestRequirements `json:"request" yaml:"request"`
	Headers []KV                `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// RecordingCreate is the client-supplied part of a recording.
type RecordingCreate struct {
	Request               RequestRequirements `json:"request" yaml:"request"`
	RecordResponseDelays  bool                `json:"record_response_delays,omitempty" yaml:"record_response_delays,omitempty"`
	HeaderAllowlist       []string            `json:"header_allowlist,omitempty" yaml:"header_allowlist,omitempty"`
}

// Recording is a live capture rule plus its id.
type Recording struct {
	ID int `json:"id" yaml:"id"`
	RecordingCreate
}

// RecordedEntry is one captured request/response pair in portable form.
type RecordedEntry struct {
	When RequestRequirements `json:"when" yaml:"when"`
	Then MockResponseDef     `json:"then" yaml:"then"`
}

// RecordedDocument is the exportable/importable recording document; see
// internal/reccodec for its YAML/JSON encoding.
type RecordedDocument struct {
	Mocks []RecordedEntry `json:"mocks" yaml:"mocks"`
}

// Mismatch names one constraint that a history entry failed to satisfy.
type Mismatch struct {
	Matcher        string `json:"matcher" yaml:"matcher"`
	Constraint     string `json:"constraint" yaml:"constraint"`
	Expected       string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual         string `json:"actual,omitempty" yaml:"actual,omitempty"`
	BestMatchKey   string `json:"best_match_key,omitempty" yaml:"best_match_key,omitempty"`
	BestMatchValue string `json:"best_match_value,omitempty" yaml:"best_match_value,omitempty"`
	BestMatch      bool   `json:"best_match,omitempty" yaml:"best_match,omitempty"`
}

// RequestSnapshot is an immutable, displayable copy of a received request.
type RequestSnapshot struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Method    string    `json:"method" yaml:"method"`
	Scheme    string    `json:"scheme" yaml:"scheme"`
	Host      string    `json:"host" yaml:"host"`
	Port      string    `json:"port" yaml:"port"`
	Path      string    `json:"path" yaml:"path"`
	Query     []KV      `json:"query,omitempty" yaml:"query,omitempty"`
	Headers   []KV      `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies   []KV      `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Body      string    `json:"body,omitempty" yaml:"body,omitempty"`
}

// ClosestMatch is the verify report for one failed verification: the
// history entry closest to satisfying the requirements, and why it missed.
type ClosestMatch struct {
	Request    RequestSnapshot `json:"request" yaml:"request"`
	Distance   uint            `json:"distance" yaml:"distance"`
	Mismatches []Mismatch      `json:"mismatches" yaml:"mismatches"`
}
