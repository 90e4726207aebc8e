package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awmpietro/golang-logic-trace-case/internal/app"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic/cache"
	"github.com/awmpietro/golang-logic-trace-case/internal/transport/graphdto"
	httptransport "github.com/awmpietro/golang-logic-trace-case/internal/transport/httptransport"
)

const greetingRule = `{
  "if": [
    {"and": [
      {">=": [{"var": "age"}, 18]},
      {"==": [{"var": "country"}, "BR"]}
    ]},
    {"cat": ["Hello, ", {"var": "name"}]},
    "visitor"
  ]
}`

func newGraphServer() *httptest.Server {
	converter := logic.NewConverter()
	c := cache.NewInMemory(64)
	svc := app.NewService(converter, c)
	h := httptransport.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/graph", h.Graph)
	mux.HandleFunc("/trace", h.Trace)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestGraphEndpoint_Integration(t *testing.T) {
	srv := newGraphServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/graph", graphdto.GraphRequest{
		Expression: json.RawMessage(greetingRule),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var out graphdto.GraphResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Graph == nil || out.Graph.RootID == "" {
		t.Fatal("empty graph in response")
	}

	root := out.Graph.Node(out.Graph.RootID)
	if root == nil || root.Type != logic.NodeIfElse {
		t.Fatalf("unexpected root node: %+v", root)
	}
	if len(out.Graph.Edges) == 0 {
		t.Fatal("expected branch edges for the nested conditions")
	}
}

func TestTraceEndpoint_Integration(t *testing.T) {
	srv := newGraphServer()
	defer srv.Close()

	expr := `{">": [{"var": "temp"}, 30]}`
	trace := &logic.TraceResult{
		ExpressionTree: &logic.ExpressionNode{
			ID:         1,
			Expression: `{">":[{"var":"temp"},30]}`,
			Children: []*logic.ExpressionNode{
				{ID: 2, Expression: `{"var":"temp"}`},
				{ID: 3, Expression: `30`},
			},
		},
		Steps: []logic.ExecutionStep{
			{NodeID: 2, Result: json.RawMessage(`31`)},
			{NodeID: 3, Result: json.RawMessage(`30`)},
			{NodeID: 1, Result: json.RawMessage(`true`)},
		},
	}

	resp := postJSON(t, srv.URL+"/trace", graphdto.TraceRequest{
		Expression: json.RawMessage(expr),
		Trace:      trace,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var out graphdto.TraceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Steps) != 3 {
		t.Fatalf("expected 3 resolved steps, got %d", len(out.Steps))
	}
	for _, step := range out.Steps {
		if out.Graph.Node(step.NodeID) == nil {
			t.Fatalf("step %d resolved to unknown node %q", step.Index, step.NodeID)
		}
	}

	// drive the resolved steps through a playback session
	d := logic.NewDebugger(
		logic.WithNodeMap(out.NodeMap),
		logic.WithParentMap(out.Graph.ParentMap()),
	)
	defer d.Close()
	d.Initialize(trace.Steps)
	d.GoToStep(2)

	snap := d.Snapshot()
	if snap.CurrentNodeID != out.Graph.RootID {
		t.Fatalf("final step should land on the root, got %q", snap.CurrentNodeID)
	}
	if !snap.ExecutedNodeIDs[out.Graph.RootID] {
		// the inlined operands collapse onto the root, so earlier steps
		// already mark it executed
		t.Fatalf("executed set: %v", snap.ExecutedNodeIDs)
	}
}

func TestGraphEndpoint_RejectsBadExpression(t *testing.T) {
	srv := newGraphServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/graph", "application/json", bytes.NewReader([]byte(`{"expression": "{{`)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}
