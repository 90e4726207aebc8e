package logic

import "fmt"

// builder accumulates the node and edge collections for one conversion.
// Single-writer: it is owned exclusively by the convert call that created it
// and is never shared between conversions.
type builder struct {
	ids   IDGenerator
	nodes []*Node
	edges []*Edge
}

func newBuilder(ids IDGenerator) *builder {
	return &builder{ids: ids}
}

func (b *builder) nextID() string {
	return b.ids.NextID()
}

func (b *builder) addNode(n *Node) {
	b.nodes = append(b.nodes, n)
}

// addEdge wires parent source to child target. Target ids are unique per
// tree invariant, so the edge id derived from the target is unique too.
func (b *builder) addEdge(source, target, sourceHandle string) *Edge {
	e := &Edge{
		ID:           fmt.Sprintf("e-%s-%s", source, target),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: "left",
	}
	b.edges = append(b.edges, e)
	return e
}

func (b *builder) graph(rootID string) *Graph {
	return &Graph{Nodes: b.nodes, Edges: b.edges, RootID: rootID}
}
