package logic

import (
	"encoding/json"
	"fmt"
)

// ExpressionNode is one traced sub-expression as produced by the external
// evaluation engine. Expression is a re-serialized copy of the original
// sub-expression, so key order and number formatting may differ from the
// source text.
type ExpressionNode struct {
	ID         int               `json:"id"`
	Expression string            `json:"expression"`
	Children   []*ExpressionNode `json:"children"`
}

// ExecutionStep is one entry of the recorded evaluation order. A nil Result
// means the step produced no value; a non-empty Error marks a per-step
// evaluation failure that does not halt playback.
type ExecutionStep struct {
	NodeID int             `json:"node_id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// TraceResult is the evaluation engine's trace-mode output.
type TraceResult struct {
	ExpressionTree *ExpressionNode `json:"expression_tree"`
	Steps          []ExecutionStep `json:"steps"`
}

// TraceNodeMap maps "trace-<id>" keys onto visual node ids. Many trace ids
// may map to one visual id: inlined operands collapse into their parent's
// cell.
type TraceNodeMap map[string]string

func traceKey(id int) string {
	return fmt.Sprintf("trace-%d", id)
}

// Resolve returns the visual node id for a trace id, falling back to the raw
// trace key when the id never made it into the map.
func (m TraceNodeMap) Resolve(id int) string {
	if v, ok := m[traceKey(id)]; ok {
		return v
	}
	return traceKey(id)
}
