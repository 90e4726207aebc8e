package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/awmpietro/golang-logic-trace-case/internal/app"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
	"github.com/awmpietro/golang-logic-trace-case/internal/transport/graphdto"
)

type fakeService struct {
	graph   *logic.Graph
	session *app.TraceSession
	err     error
}

func (f *fakeService) BuildGraph(expr json.RawMessage, preserve bool) (*logic.Graph, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.graph, nil
}

func (f *fakeService) CorrelateTrace(expr json.RawMessage, trace *logic.TraceResult, preserve bool) (*app.TraceSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func TestGraph(t *testing.T) {
	h := NewHandler(&fakeService{graph: &logic.Graph{RootID: "node-0"}})

	req := httptest.NewRequest(http.MethodPost, "/graph", strings.NewReader(`{"expression": {"var": "x"}}`))
	rec := httptest.NewRecorder()
	h.Graph(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}

	var out graphdto.GraphResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Graph == nil || out.Graph.RootID != "node-0" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGraph_MethodNotAllowed(t *testing.T) {
	h := NewHandler(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	rec := httptest.NewRecorder()
	h.Graph(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d, want 405", rec.Code)
	}
}

func TestGraph_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		svc  *fakeService
		body string
	}{
		{"invalid json body", &fakeService{}, `{"expression": `},
		{"convert failed", &fakeService{err: fmt.Errorf("expression is not valid JSON")}, `{"expression": "x"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/graph", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			NewHandler(tc.svc).Graph(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rec.Code)
			}
			var out map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatal(err)
			}
			if out["error"] == "" || out["details"] == "" {
				t.Fatalf("error body missing fields: %s", rec.Body.String())
			}
		})
	}
}

func TestTrace(t *testing.T) {
	session := &app.TraceSession{
		Graph:   &logic.Graph{RootID: "node-0"},
		NodeMap: logic.TraceNodeMap{"trace-1": "node-0"},
		Steps:   []app.ResolvedStep{{Index: 0, NodeID: "node-0"}},
	}
	h := NewHandler(&fakeService{session: session})

	body := `{"expression": {"var": "x"}, "trace": {"expression_tree": {"id": 1, "expression": "{\"var\":\"x\"}"}, "steps": [{"node_id": 1}]}}`
	req := httptest.NewRequest(http.MethodPost, "/trace", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Trace(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out graphdto.TraceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.NodeMap["trace-1"] != "node-0" || len(out.Steps) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestTrace_CorrelateFailed(t *testing.T) {
	h := NewHandler(&fakeService{err: fmt.Errorf("trace with expression_tree is required")})

	req := httptest.NewRequest(http.MethodPost, "/trace", strings.NewReader(`{"expression": {"var": "x"}}`))
	rec := httptest.NewRecorder()
	h.Trace(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}
