package dispatch

import (
	"io"
	"net/http"
	"time"

	"github.com/vdobler/htmock/internal/matcher"
)

// handleDataPlane implements the ordering in §4.4: forwarding rule, then
// proxy rule, then stub, then 404.
func (h *Handler) handleDataPlane(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusInternalServerError)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	req := matcher.FromHTTP(r, scheme, body)

	if rule, ok := h.state.FindForwardingRule(req); ok {
		h.serveForward(w, r, req, rule)
		return
	}
	if rule, ok := h.state.FindProxyRule(req); ok {
		h.serveProxy(w, r, req, rule)
		return
	}

	resp, ok := h.state.ServeMock(req)
	if !ok {
		http.Error(w, "no mock matched this request", http.StatusNotFound)
		return
	}
	if resp.DelayMS > 0 {
		time.Sleep(time.Duration(resp.DelayMS) * time.Millisecond)
	}

	respBody, err := resp.BodyBytes()
	if err != nil {
		http.Error(w, "failed to decode mock response body", http.StatusInternalServerError)
		return
	}
	for _, hf := range resp.Headers {
		w.Header().Add(hf.Name, hf.Value)
	}
	w.WriteHeader(resp.Status)
	w.Write(respBody)
}
