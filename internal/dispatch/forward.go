package dispatch

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/wire"
)

// serveForward rewrites the request onto rule.TargetBaseURL, executes it
// via the outbound client, streams the upstream response back verbatim,
// and records the interaction with is_proxied=false.
func (h *Handler) serveForward(w http.ResponseWriter, r *http.Request, req *matcher.Request, rule *wire.ForwardingRuleDef) {
	target := strings.TrimRight(rule.TargetBaseURL, "/") + req.Path
	if len(req.Query) > 0 {
		target += "?" + encodeQuery(req.Query)
	}

	upstreamReq, err := http.NewRequest(req.Method, target, bytes.NewReader(req.Body))
	if err != nil {
		http.Error(w, "failed to build forwarding request", http.StatusInternalServerError)
		return
	}
	copyHeaders(upstreamReq.Header, req.Headers)
	overlayHeaders(upstreamReq.Header, rule.Headers)

	start := time.Now()
	resp, err := h.client.Do(upstreamReq)
	elapsed := time.Since(start)
	if err != nil {
		upErr := &wire.UpstreamError{Err: err}
		h.log.Errorf("forwarding rule %d: %v", rule.ID, upErr)
		http.Error(w, upErr.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		http.Error(w, "failed to read upstream response", http.StatusBadGateway)
		return
	}

	for name, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(body)

	h.state.Record(false, elapsed, req, wire.MockResponseDef{
		Status:  resp.StatusCode,
		Headers: headerFields(resp.Header),
		Body:    string(body),
	})
}

func encodeQuery(pairs []wire.KV) string {
	var b strings.Builder
	for i, kv := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv.Key)
		b.WriteByte('=')
		b.WriteString(kv.Value)
	}
	return b.String()
}

func copyHeaders(dst http.Header, pairs []wire.KV) {
	for _, kv := range pairs {
		dst.Add(kv.Key, kv.Value)
	}
}

func overlayHeaders(dst http.Header, pairs []wire.KV) {
	for _, kv := range pairs {
		dst.Set(kv.Key, kv.Value)
	}
}

func headerFields(h http.Header) []wire.HeaderField {
	var fields []wire.HeaderField
	for name, values := range h {
		for _, v := range values {
			fields = append(fields, wire.HeaderField{Name: name, Value: v})
		}
	}
	return fields
}
