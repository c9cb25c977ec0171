package dispatch

import (
	"net/http"

	"github.com/vdobler/htmock/internal/connio"
)

// handleConnect upgrades an HTTP CONNECT tunnel request into a raw
// bidirectional byte pipe to the requested host, as required to proxy
// HTTPS traffic whose TLS the server itself never terminates.
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := connio.HandleConnect(w, r); err != nil {
		h.log.Errorf("CONNECT %s failed: %v", r.Host, err)
	}
}
