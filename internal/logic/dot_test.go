package logic

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	g := mustConvert(t, `{"some": [{"var": "items"}, {">=": [{"var": "qty"}, 1]}]}`, false)

	dot, err := ToDOT(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "digraph logic") {
		t.Fatalf("missing graph header:\n%s", dot)
	}
	for _, n := range g.Nodes {
		if !strings.Contains(dot, n.ID) {
			t.Fatalf("node %q missing from output:\n%s", n.ID, dot)
		}
	}
	if !strings.Contains(dot, "branch-0") {
		t.Fatalf("edge label missing:\n%s", dot)
	}
}

func TestToDOT_SnapshotColorsCurrentNode(t *testing.T) {
	g := mustConvert(t, `{">=": [{"var": "score"}, 50]}`, false)

	snap := Snapshot{
		Active:        true,
		State:         PlaybackPaused,
		CurrentNodeID: g.RootID,
		PathNodeIDs:   map[string]bool{g.RootID: true},
	}
	dot, err := ToDOT(g, WithSnapshot(snap))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "gold") {
		t.Fatalf("current node not highlighted:\n%s", dot)
	}

	plain, err := ToDOT(g)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain, "fillcolor") {
		t.Fatalf("plain render must not color nodes:\n%s", plain)
	}
}
