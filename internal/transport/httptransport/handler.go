package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/awmpietro/golang-logic-trace-case/internal/app"
	"github.com/awmpietro/golang-logic-trace-case/internal/transport/graphdto"
)

type Handler struct {
	svc app.GraphService
}

func NewHandler(svc app.GraphService) *Handler {
	return &Handler{svc: svc}
}

// Graph converts an expression into its visual node/edge graph.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in graphdto.GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	g, err := h.svc.BuildGraph(in.Expression, in.PreserveStructure)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "convert failed", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, graphdto.GraphResponse{Graph: g})
}

// Trace correlates an expression with an execution trace.
func (h *Handler) Trace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in graphdto.TraceRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	session, err := h.svc.CorrelateTrace(in.Expression, in.Trace, in.PreserveStructure)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "correlate failed", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, graphdto.TraceResponse{
		Graph:   session.Graph,
		NodeMap: session.NodeMap,
		Steps:   session.Steps,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
