package logic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Correlate converts expr in trace mode, matching the trace tree's children
// against the operands at each level of the descent. The original expression
// text drives the conversion throughout; the trace's re-serialized copies are
// only compared against, never converted, so original key order survives.
func (cv *Converter) Correlate(expr []byte, tree *ExpressionNode, preserveStructure bool) (*Graph, TraceNodeMap, error) {
	if !gjson.ValidBytes(expr) {
		return nil, nil, fmt.Errorf("expression is not valid JSON")
	}
	c := &converter{
		b:        newBuilder(cv.newIDs()),
		preserve: preserveStructure,
		nodeMap:  TraceNodeMap{},
	}
	rootID := c.convert(gjson.ParseBytes(expr), link{}, tree)
	return c.b.graph(rootID), c.nodeMap, nil
}

// assignChildren matches the operand list against tn's unused children,
// returning one trace child (or nil) per operand. For each operand in order:
// first unused child with canonically equal expression text wins; failing
// that, non-literal operands take the next unused child positionally; a nil
// entry means the operand converts with no trace linkage.
//
// The used set lives entirely inside this call.
func (c *converter) assignChildren(operands []gjson.Result, tn *ExpressionNode) []*ExpressionNode {
	matched := make([]*ExpressionNode, len(operands))
	if c.nodeMap == nil || tn == nil || len(tn.Children) == 0 {
		return matched
	}

	children := tn.Children
	used := make([]bool, len(children))

	for i, operand := range operands {
		want := canonicalJSON(operand.Raw)
		for j, ch := range children {
			if !used[j] && canonicalJSON(ch.Expression) == want {
				matched[i] = ch
				used[j] = true
				break
			}
		}
		if matched[i] != nil {
			continue
		}
		if Classify(operand, false) == ArchetypeLiteral {
			continue
		}
		for j, ch := range children {
			if !used[j] {
				matched[i] = ch
				used[j] = true
				break
			}
		}
	}
	return matched
}

// register maps a created node's own trace id onto itself. First writer
// wins: independently created nodes never steal each other's mapping.
func (c *converter) register(tn *ExpressionNode, nodeID string) {
	if c.nodeMap == nil || tn == nil || nodeID == "" {
		return
	}
	key := traceKey(tn.ID)
	if _, ok := c.nodeMap[key]; !ok {
		c.nodeMap[key] = nodeID
	}
}

// mapSubtree collapses an inlined operand's trace node and all of its
// descendants onto the containing node, so a literal buried inside a simple
// display still highlights its parent row during playback.
func (c *converter) mapSubtree(tn *ExpressionNode, nodeID string) {
	if c.nodeMap == nil || tn == nil {
		return
	}
	c.nodeMap[traceKey(tn.ID)] = nodeID
	for _, child := range tn.Children {
		c.mapSubtree(child, nodeID)
	}
}

// canonicalJSON reduces JSON text to a canonical form (sorted keys, uniform
// number formatting) so that structurally equal values compare equal
// regardless of how the trace re-serialized them.
func canonicalJSON(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return strings.TrimSpace(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return string(b)
}
