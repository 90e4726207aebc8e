package graphdto

import (
	"encoding/json"

	"github.com/awmpietro/golang-logic-trace-case/internal/app"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
)

type GraphRequest struct {
	Expression        json.RawMessage `json:"expression"`
	PreserveStructure bool            `json:"preserve_structure,omitempty"`
}

type GraphResponse struct {
	Graph *logic.Graph `json:"graph"`
}

type TraceRequest struct {
	Expression        json.RawMessage    `json:"expression"`
	PreserveStructure bool               `json:"preserve_structure,omitempty"`
	Trace             *logic.TraceResult `json:"trace"`
}

type TraceResponse struct {
	Graph   *logic.Graph       `json:"graph"`
	NodeMap logic.TraceNodeMap `json:"node_map"`
	Steps   []app.ResolvedStep `json:"steps"`
}
