package matcher

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/vdobler/htmock/internal/wire"
)

// Request is the immutable, already-decoded view of a live HTTP request
// that the matching engine and the history both work against. It is built
// once per request and never mutated afterwards.
type Request struct {
	Scheme  string
	Method  string
	Host    string
	Port    string
	Path    string
	Query   []wire.KV
	Headers []wire.KV
	Cookies []wire.KV
	Body    []byte
}

// FromHTTP builds a Request from an *http.Request plus the scheme the
// connection dispatcher determined (plain vs TLS) and the already-read
// body bytes (the dispatcher drains the body before matching so it can be
// replayed to a forwarding/proxy target afterwards).
func FromHTTP(r *http.Request, scheme string, body []byte) *Request {
	host, port := splitHostPort(r.Host)

	req := &Request{
		Scheme: scheme,
		Method: r.Method,
		Host:   host,
		Port:   port,
		Path:   r.URL.Path,
		Body:   body,
	}

	req.Query = splitOrderedPairs(r.URL.RawQuery)
	for _, name := range orderedHeaderNames(r.Header) {
		for _, v := range r.Header[name] {
			req.Headers = append(req.Headers, wire.KV{Key: name, Value: v})
		}
	}
	for _, c := range r.Cookies() {
		req.Cookies = append(req.Cookies, wire.KV{Key: c.Name, Value: c.Value})
	}
	return req
}

// orderedHeaderNames returns header canonical names in alphabetic order:
// http.Header loses wire order, so the transmitted order cannot be
// recovered, and a stable alphabetic order keeps the snapshot
// deterministic for diagnostics.
func orderedHeaderNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

func splitHostPort(hostport string) (host, port string) {
	h, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, ""
	}
	return h, p
}

// normalizeHost folds case and treats localhost and 127.0.0.1 as equal, as
// required for host equality.
func normalizeHost(s string) string {
	s = strings.ToLower(s)
	if s == "localhost" {
		return "127.0.0.1"
	}
	return s
}

// toHTTPRequest reconstructs a minimal *http.Request for user predicates,
// which were authored against the standard library type.
func (r *Request) toHTTPRequest() *http.Request {
	u := &url.URL{Scheme: r.Scheme, Host: net.JoinHostPort(r.Host, r.Port), Path: r.Path}
	q := u.Query()
	for _, kv := range r.Query {
		q.Add(kv.Key, kv.Value)
	}
	u.RawQuery = q.Encode()

	header := make(http.Header, len(r.Headers))
	for _, kv := range r.Headers {
		header.Add(kv.Key, kv.Value)
	}

	req := &http.Request{
		Method: r.Method,
		URL:    u,
		Host:   r.Host,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(r.Body)),
	}
	return req
}

// ParseForm decodes an application/x-www-form-urlencoded body into its
// ordered (key, value) pairs.
func ParseForm(body []byte) []wire.KV {
	return splitOrderedPairs(string(body))
}

// splitOrderedPairs decodes a "k=v&k=v" encoded string (a URL's raw query
// or an urlencoded form body) into its ordered pairs. url.Values/
// url.ParseQuery lose submission order by returning a map, so both query
// parameters and form fields are split by hand instead.
func splitOrderedPairs(raw string) []wire.KV {
	var pairs []wire.KV
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		key, err := url.QueryUnescape(kv[0])
		if err != nil {
			key = kv[0]
		}
		val := ""
		if len(kv) == 2 {
			if v, err := url.QueryUnescape(kv[1]); err == nil {
				val = v
			} else {
				val = kv[1]
			}
		}
		pairs = append(pairs, wire.KV{Key: key, Value: val})
	}
	return pairs
}
