// Copyright 2026 The Gatewatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rest exposes a read-only HTTP view over a gatewatch Supervisor:
// the directory of reachable gateways, per-gateway status, and recent log
// records.  Lifecycle control is deliberately not exposed; restart policy
// lives in the supervisor alone.
package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gdamore/gatewatch"
	"github.com/gorilla/mux"
)

// Handler wraps a Supervisor, adding http.Handler functionality.
type Handler struct {
	s   *gatewatch.Supervisor
	log *gatewatch.Log
	r   *mux.Router
}

func (h *Handler) internalError(w http.ResponseWriter, e error) {
	http.Error(w, e.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJson(w http.ResponseWriter, v interface{}) {
	if b, e := json.Marshal(v); e != nil {
		h.internalError(w, e)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.Write(b)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, e *Error) {
	if b, err := json.Marshal(e); err != nil {
		h.internalError(w, err)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.WriteHeader(e.Code)
		w.Write(b)
	}
}

// listGateways serves the directory: the currently reachable gateways with
// addresses already rewritten for cross-namespace consumers.
func (h *Handler) listGateways(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, h.s.Reachable())
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, h.s.Status())
}

func (h *Handler) getGateway(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["gateway"]
	for _, info := range h.s.Status() {
		if info.Name == name {
			h.writeJson(w, info)
			return
		}
	}
	h.writeError(w, &Error{http.StatusNotFound, "Gateway not found"})
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	if h.log == nil {
		h.writeJson(w, &LogChunk{})
		return
	}
	since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	recs, id := h.log.GetRecords(since)
	h.writeJson(w, &LogChunk{Id: id, Records: recs})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.r.ServeHTTP(w, req)
}

// NewHandler builds the HTTP surface for a Supervisor.  The Log may be nil,
// in which case the log endpoint serves an empty chunk.
func NewHandler(s *gatewatch.Supervisor, l *gatewatch.Log) *Handler {
	r := mux.NewRouter()
	h := &Handler{s: s, log: l, r: r}
	r.HandleFunc("/gateways", h.listGateways).Methods("GET")
	r.HandleFunc("/status", h.getStatus).Methods("GET")
	r.HandleFunc("/status/{gateway}", h.getGateway).Methods("GET")
	r.HandleFunc("/log", h.getLog).Methods("GET")
	return h
}
