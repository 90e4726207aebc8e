package logic

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

type dotOptions struct {
	snapshot *Snapshot
}

type DOTOption func(*dotOptions)

// WithSnapshot colors nodes by their debug state (current, executed, error).
func WithSnapshot(snap Snapshot) DOTOption {
	return func(o *dotOptions) { o.snapshot = &snap }
}

// ToDOT renders a converted graph as Graphviz DOT for handoff to any DOT
// consumer. Edges are labelled with their source handle so the positional
// contract stays visible.
func ToDOT(g *Graph, opts ...DOTOption) (string, error) {
	var o dotOptions
	for _, opt := range opts {
		opt(&o)
	}

	gv := gographviz.NewGraph()
	if err := gv.SetName("logic"); err != nil {
		return "", fmt.Errorf("failed to create DOT graph: %w", err)
	}
	if err := gv.SetDir(true); err != nil {
		return "", fmt.Errorf("failed to create DOT graph: %w", err)
	}

	for _, n := range g.Nodes {
		attrs := map[string]string{
			"label": strconv.Quote(dotLabel(n)),
			"shape": `"box"`,
		}
		if o.snapshot != nil {
			if color := stateColor(o.snapshot.NodeState(n.ID)); color != "" {
				attrs["style"] = `"filled"`
				attrs["fillcolor"] = strconv.Quote(color)
			}
		}
		if err := gv.AddNode("logic", strconv.Quote(n.ID), attrs); err != nil {
			return "", fmt.Errorf("failed to add node %q: %w", n.ID, err)
		}
	}

	for _, e := range g.Edges {
		attrs := map[string]string{"label": strconv.Quote(e.SourceHandle)}
		if err := gv.AddEdge(strconv.Quote(e.Source), strconv.Quote(e.Target), true, attrs); err != nil {
			return "", fmt.Errorf("failed to add edge %s->%s: %w", e.Source, e.Target, err)
		}
	}

	return gv.String(), nil
}

func dotLabel(n *Node) string {
	switch data := n.Data.(type) {
	case *LiteralData:
		return truncate(string(data.Value), 24)
	case *VariableData:
		return data.Operator + " " + data.Path
	case *OperatorData:
		return data.Operator
	case *StructureData:
		if data.IsArray {
			return "[structure]"
		}
		return "{structure}"
	}
	return string(n.Type)
}

func stateColor(ns NodeState) string {
	switch {
	case ns.IsError:
		return "salmon"
	case ns.IsCurrent:
		return "gold"
	case ns.IsExecuted:
		return "palegreen"
	case ns.IsOnPath:
		return "lightblue"
	}
	return ""
}
