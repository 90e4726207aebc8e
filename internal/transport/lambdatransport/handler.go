package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/awmpietro/golang-logic-trace-case/internal/app"
	"github.com/awmpietro/golang-logic-trace-case/internal/transport/graphdto"
)

type Handler struct {
	svc app.GraphService
}

func NewHandler(svc app.GraphService) *Handler {
	return &Handler{svc: svc}
}

// Handle routes /graph and /trace; anything else is /graph for backward
// compatibility with single-endpoint deployments.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	if strings.HasSuffix(req.RawPath, "/trace") {
		return h.trace(body), nil
	}
	return h.graph(body), nil
}

func (h *Handler) graph(body []byte) events.APIGatewayV2HTTPResponse {
	var in graphdto.GraphRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
	}

	g, err := h.svc.BuildGraph(in.Expression, in.PreserveStructure)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "convert failed", "details": err.Error()})
	}
	return jsonResp(http.StatusOK, graphdto.GraphResponse{Graph: g})
}

func (h *Handler) trace(body []byte) events.APIGatewayV2HTTPResponse {
	var in graphdto.TraceRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
	}

	session, err := h.svc.CorrelateTrace(in.Expression, in.Trace, in.PreserveStructure)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "correlate failed", "details": err.Error()})
	}
	return jsonResp(http.StatusOK, graphdto.TraceResponse{
		Graph:   session.Graph,
		NodeMap: session.NodeMap,
		Steps:   session.Steps,
	})
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
}
