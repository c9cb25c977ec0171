package dispatch

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/wire"
)

// serveProxy sends the request on to the scheme/host/port it already
// names, as a transparent proxy rather than a rewrite, and records the
// interaction with is_proxied=true.
func (h *Handler) serveProxy(w http.ResponseWriter, r *http.Request, req *matcher.Request, rule *wire.ProxyRuleDef) {
	target := req.Scheme + "://" + req.Host
	if req.Port != "" {
		target += ":" + req.Port
	}
	target += req.Path
	if len(req.Query) > 0 {
		target += "?" + encodeQuery(req.Query)
	}

	upstreamReq, err := http.NewRequest(req.Method, target, bytes.NewReader(req.Body))
	if err != nil {
		http.Error(w, "failed to build proxied request", http.StatusInternalServerError)
		return
	}
	copyHeaders(upstreamReq.Header, req.Headers)
	overlayHeaders(upstreamReq.Header, rule.Headers)

	start := time.Now()
	resp, err := h.client.Do(upstreamReq)
	elapsed := time.Since(start)
	if err != nil {
		upErr := &wire.UpstreamError{Err: err}
		h.log.Errorf("proxy rule %d: %v", rule.ID, upErr)
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

	h.state.Record(true, elapsed, req, wire.MockResponseDef{
		Status:  resp.StatusCode,
		Headers: headerFields(resp.Header),
		Body:    string(body),
	})
}
