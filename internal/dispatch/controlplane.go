package dispatch

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/vdobler/htmock/internal/wire"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var verr *wire.ValidationError
	var serr *wire.StaticMockError
	var nerr *wire.NotFoundError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	case errors.As(err, &nerr):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.state.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddMock(w http.ResponseWriter, r *http.Request) {
	var def wire.MockDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	mock, err := h.state.AddMock(def, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mock)
}

func (h *Handler) handleFetchMock(w http.ResponseWriter, r *http.Request) {
	id := muxVarID(r, "id")
	mock, ok := h.state.FetchMock(id)
	if !ok {
		writeError(w, &wire.NotFoundError{Kind: "mock", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, mock)
}

func (h *Handler) handleDeleteMock(w http.ResponseWriter, r *http.Request) {
	id := muxVarID(r, "id")
	existed, err := h.state.DeleteMock(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !existed {
		writeError(w, &wire.NotFoundError{Kind: "mock", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteAllMocks(w http.ResponseWriter, r *http.Request) {
	h.state.DeleteAllMocks()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var rr wire.RequestRequirements
	if err := json.NewDecoder(r.Body).Decode(&rr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cm, found := h.state.Verify(rr)
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, cm)
}

func (h *Handler) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	h.state.DeleteHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddForwardingRule(w http.ResponseWriter, r *http.Request) {
	var rule wire.ForwardingRuleDef
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, h.state.AddForwardingRule(rule))
}

func (h *Handler) handleDeleteForwardingRule(w http.ResponseWriter, r *http.Request) {
	id := muxVarID(r, "id")
	if !h.state.DeleteForwardingRule(id) {
		writeError(w, &wire.NotFoundError{Kind: "forwarding_rule", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddProxyRule(w http.ResponseWriter, r *http.Request) {
	var rule wire.ProxyRuleDef
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, h.state.AddProxyRule(rule))
}

func (h *Handler) handleDeleteProxyRule(w http.ResponseWriter, r *http.Request) {
	id := muxVarID(r, "id")
	if !h.state.DeleteProxyRule(id) {
		writeError(w, &wire.NotFoundError{Kind: "proxy_rule", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePostRecordings serves both halves of the recordings endpoint the
// wire protocol overlays on one POST path: a body shaped like a portable
// recording document (top-level "mocks") is a load-from-recording request;
// anything else is a request to start a new live recording.
func (h *Handler) handlePostRecordings(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var probe struct {
		Mocks interface{} `yaml:"mocks"`
	}
	if err := yaml.Unmarshal(content, &probe); err == nil && probe.Mocks != nil {
		h.handleLoadRecording(w, content)
		return
	}
	h.handleAddRecording(w, content)
}

func (h *Handler) handleAddRecording(w http.ResponseWriter, content []byte) {
	var create wire.RecordingCreate
	if err := json.Unmarshal(content, &create); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, h.state.AddRecording(create))
}

func (h *Handler) handleFetchRecording(w http.ResponseWriter, r *http.Request) {
	id := muxVarID(r, "id")
	data, found, err := h.state.ExportRecording(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, &wire.NotFoundError{Kind: "recording", ID: id})
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) handleDeleteRecording(w http.ResponseWriter, r *http.Request) {
	id := muxVarID(r, "id")
	if !h.state.DeleteRecording(id) {
		writeError(w, &wire.NotFoundError{Kind: "recording", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLoadRecording(w http.ResponseWriter, content []byte) {
	ids, err := h.state.LoadMocksFromRecording(content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}
