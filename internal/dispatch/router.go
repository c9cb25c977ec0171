// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch is the HTTP engine: it tells control-plane traffic
// (under /__httpmock__/) apart from data-plane traffic and routes each to
// the state manager, applying forwarding, proxy and recording rules in
// between. The per-port gorilla/mux router follows vdobler/ht's mock.Mock,
// which runs one mux.Router per listening port.
package dispatch

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vdobler/htmock/internal/log"
	"github.com/vdobler/htmock/internal/state"
)

const controlPlanePrefix = "/__httpmock__"

// Handler is the top-level http.Handler for one server instance.
type Handler struct {
	state  *state.State
	client *http.Client
	log    log.Log
}

// New builds the composed control-plane + data-plane router.
func New(st *state.State, client *http.Client, logger log.Log) http.Handler {
	if logger == nil {
		logger = log.Discard
	}
	h := &Handler{state: st, client: client, log: logger}

	r := mux.NewRouter()
	cp := r.PathPrefix(controlPlanePrefix).Subrouter()
	cp.HandleFunc("/ping", h.handlePing).Methods(http.MethodGet)
	cp.HandleFunc("/state", h.handleReset).Methods(http.MethodDelete)
	cp.HandleFunc("/mocks", h.handleAddMock).Methods(http.MethodPost)
	cp.HandleFunc("/mocks", h.handleDeleteAllMocks).Methods(http.MethodDelete)
	cp.HandleFunc("/mocks/{id:[0-9]+}", h.handleFetchMock).Methods(http.MethodGet)
	cp.HandleFunc("/mocks/{id:[0-9]+}", h.handleDeleteMock).Methods(http.MethodDelete)
	cp.HandleFunc("/verify", h.handleVerify).Methods(http.MethodPost)
	cp.HandleFunc("/history", h.handleDeleteHistory).Methods(http.MethodDelete)
	cp.HandleFunc("/forwarding_rules", h.handleAddForwardingRule).Methods(http.MethodPost)
	cp.HandleFunc("/forwarding_rules/{id:[0-9]+}", h.handleDeleteForwardingRule).Methods(http.MethodDelete)
	cp.HandleFunc("/proxy_rules", h.handleAddProxyRule).Methods(http.MethodPost)
	cp.HandleFunc("/proxy_rules/{id:[0-9]+}", h.handleDeleteProxyRule).Methods(http.MethodDelete)
	cp.HandleFunc("/recordings", h.handlePostRecordings).Methods(http.MethodPost)
	cp.HandleFunc("/recordings/{id:[0-9]+}", h.handleFetchRecording).Methods(http.MethodGet)
	cp.HandleFunc("/recordings/{id:[0-9]+}", h.handleDeleteRecording).Methods(http.MethodDelete)

	r.NewRoute().Methods(http.MethodConnect).HandlerFunc(h.handleConnect)
	r.PathPrefix("/").HandlerFunc(h.handleDataPlane)

	return r
}

func muxVarID(r *http.Request, name string) int {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars[name])
	if err != nil {
		return -1
	}
	return id
}
