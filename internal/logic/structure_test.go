package logic

import (
	"strings"
	"testing"
)

func TestConvertStructure_PlaceholdersAndOffsets(t *testing.T) {
	g := mustConvert(t, `{"greeting": {"cat": ["Hello, ", {"var": "name"}]}, "limit": 5}`, true)
	checkTree(t, g)

	root := g.Node(g.RootID)
	data, ok := root.Data.(*StructureData)
	if !ok {
		t.Fatalf("expected structure root, got %#v", root.Data)
	}
	if data.IsArray {
		t.Fatal("object structure flagged as array")
	}
	if len(data.Elements) != 1 {
		t.Fatalf("expected 1 embedded expression, got %d", len(data.Elements))
	}

	elem := data.Elements[0]
	if elem.Path != "greeting" || elem.Key != "greeting" {
		t.Fatalf("unexpected element location: %#v", elem)
	}

	// offsets must locate the quoted placeholder in the rendered text
	span := data.Text[elem.StartOffset:elem.EndOffset]
	if !strings.HasPrefix(span, `"`) || !strings.HasSuffix(span, `"`) || !strings.Contains(span, "__expr_0__") {
		t.Fatalf("offsets [%d:%d] select %q", elem.StartOffset, elem.EndOffset, span)
	}

	child := g.Node(elem.BranchID)
	if child == nil || child.Type != NodeOperator {
		t.Fatalf("embedded cat call not converted: %#v", child)
	}

	if !strings.Contains(data.Text, `"limit": 5`) {
		t.Fatalf("plain values must stay in the text:\n%s", data.Text)
	}
}

func TestConvertStructure_ArrayWithEmbeddedExpressions(t *testing.T) {
	g := mustConvert(t, `[{"a": 1, "b": 2}]`, true)
	checkTree(t, g)

	data := g.Node(g.RootID).Data.(*StructureData)
	if !data.IsArray {
		t.Fatal("array structure not flagged")
	}
	// the two-key object is itself a nested structure in preserve mode
	if len(data.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(data.Elements))
	}
	child := g.Node(data.Elements[0].BranchID)
	if child.Type != NodeStructure {
		t.Fatalf("nested structure should placeholder, got %s", child.Type)
	}
	if data.Elements[0].Path != "0" {
		t.Fatalf("element path = %q, want 0", data.Elements[0].Path)
	}
}

func TestConvertStructure_BranchEdgeOrder(t *testing.T) {
	g := mustConvert(t, `{"first": {"var": "a"}, "second": {"var": "b"}, "third": 3}`, true)
	checkTree(t, g)

	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 branch edges, got %d", len(g.Edges))
	}
	if g.Edges[0].SourceHandle != "branch-0" || g.Edges[1].SourceHandle != "branch-1" {
		t.Fatalf("branch numbering must follow discovery order: %#v", g.Edges)
	}

	data := g.Node(g.RootID).Data.(*StructureData)
	if data.Elements[0].Key != "first" || data.Elements[1].Key != "second" {
		t.Fatalf("element order broken: %#v", data.Elements)
	}
}

func TestConvertStructure_WalksIntoOperandListArrays(t *testing.T) {
	// an array holding an operator call is not itself a structure, so it
	// stays in the text and is walked for embedded expressions
	g := mustConvert(t, `{"a": 1, "list": [{"var": "x"}, 5]}`, true)
	checkTree(t, g)

	data := g.Node(g.RootID).Data.(*StructureData)
	if len(data.Elements) != 1 {
		t.Fatalf("expected 1 element, got %#v", data.Elements)
	}
	if data.Elements[0].Path != "list.0" {
		t.Fatalf("element path = %q, want list.0", data.Elements[0].Path)
	}
	if !strings.Contains(data.Text, "\"list\": [\n") {
		t.Fatalf("array should render in place:\n%s", data.Text)
	}
}

func TestRenderStructure_TextIsPrettyPrinted(t *testing.T) {
	g := mustConvert(t, `{"a": 1, "b": true, "c": "s", "d": []}`, true)
	data := g.Node(g.RootID).Data.(*StructureData)
	want := "{\n  \"a\": 1,\n  \"b\": true,\n  \"c\": \"s\",\n  \"d\": []\n}"
	if data.Text != want {
		t.Fatalf("rendered text:\n%s\nwant:\n%s", data.Text, want)
	}
}
