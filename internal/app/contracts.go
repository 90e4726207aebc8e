package app

import (
	"encoding/json"

	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
)

type GraphService interface {
	BuildGraph(expr json.RawMessage, preserve bool) (*logic.Graph, error)
	CorrelateTrace(expr json.RawMessage, trace *logic.TraceResult, preserve bool) (*TraceSession, error)
}
