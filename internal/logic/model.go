package logic

import "encoding/json"

// NodeType is the rendering kind of a visual node.
type NodeType string

const (
	NodeLiteral     NodeType = "literal"
	NodeVariable    NodeType = "variable"
	NodeIfElse      NodeType = "ifElse"
	NodeBranchTable NodeType = "branchTable"
	NodeOperator    NodeType = "operator"
	NodeStructure   NodeType = "structure"
)

// BranchType marks how a node hangs off its parent. It mirrors the inbound
// edge and must stay consistent with it.
type BranchType string

const (
	BranchNone   BranchType = ""
	BranchYes    BranchType = "yes"
	BranchNo     BranchType = "no"
	BranchBranch BranchType = "branch"
)

// Position is opaque to the conversion core; layout is the renderer's job.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// NodeData is a closed set of payload variants; see LiteralData, VariableData,
// OperatorData and StructureData.
type NodeData interface {
	Base() *BaseData
	nodeData()
}

// UnmarshalJSON picks the payload variant from the node type, so graphs
// survive a JSON round trip.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Type     NodeType        `json:"type"`
		Position Position        `json:"position"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	n.ID = raw.ID
	n.Type = raw.Type
	n.Position = raw.Position
	if len(raw.Data) == 0 {
		n.Data = nil
		return nil
	}

	var data NodeData
	switch raw.Type {
	case NodeLiteral:
		data = &LiteralData{}
	case NodeVariable:
		data = &VariableData{}
	case NodeStructure:
		data = &StructureData{}
	default:
		data = &OperatorData{}
	}
	if err := json.Unmarshal(raw.Data, data); err != nil {
		return err
	}
	n.Data = data
	return nil
}

// BaseData carries the fields every payload shares. Expression holds the
// exact sub-expression this node represents, keys in original order.
type BaseData struct {
	Expression json.RawMessage `json:"expression"`
	ParentID   string          `json:"parentId,omitempty"`
	ArgIndex   int             `json:"argIndex"`
	BranchType BranchType      `json:"branchType,omitempty"`
}

func (b *BaseData) Base() *BaseData { return b }

type ValueType string

const (
	ValueBoolean ValueType = "boolean"
	ValueNumber  ValueType = "number"
	ValueString  ValueType = "string"
	ValueNull    ValueType = "null"
	ValueArray   ValueType = "array"
	ValueObject  ValueType = "object"
)

type LiteralData struct {
	BaseData
	Value     json.RawMessage `json:"value"`
	ValueType ValueType       `json:"valueType"`
}

func (*LiteralData) nodeData() {}

type VariableData struct {
	BaseData
	Operator       string          `json:"operator"`
	Path           string          `json:"path"`
	PathComponents []string        `json:"pathComponents,omitempty"`
	ScopeJump      int             `json:"scopeJump,omitempty"`
	DefaultValue   json.RawMessage `json:"defaultValue,omitempty"`
	Cells          []Cell          `json:"cells"`
}

func (*VariableData) nodeData() {}

// OperatorData backs operator, if/else and branch-table nodes; they differ
// only in how rows are labelled.
type OperatorData struct {
	BaseData
	Operator string `json:"operator"`
	Cells    []Cell `json:"cells"`
}

func (*OperatorData) nodeData() {}

type StructureData struct {
	BaseData
	IsArray  bool               `json:"isArray"`
	Text     string             `json:"text"`
	Elements []StructureElement `json:"elements"`
}

func (*StructureData) nodeData() {}

// StructureElement locates one embedded expression inside a structure node's
// rendered text. Offsets span the quoted placeholder token.
type StructureElement struct {
	Path        string `json:"path"`
	Key         string `json:"key,omitempty"`
	BranchID    string `json:"branchId"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

type CellKind string

const (
	CellInline   CellKind = "inline"
	CellBranch   CellKind = "branch"
	CellEditable CellKind = "editable"
)

// Cell is one ordered row of a composite node. Inline cells render a simple
// operand in place; branch cells point at a child node; editable cells are
// in-place primitive fields.
type Cell struct {
	Kind     CellKind        `json:"kind"`
	Slot     int             `json:"slot"`
	RowLabel string          `json:"rowLabel,omitempty"`
	Label    string          `json:"label,omitempty"`
	Icon     string          `json:"icon,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Summary  string          `json:"summary,omitempty"`
	BranchID string          `json:"branchId,omitempty"`
	Field    string          `json:"field,omitempty"`
}

type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
}

// Graph is the converted node/edge set. It forms a tree rooted at RootID:
// every non-root node has exactly one inbound edge.
type Graph struct {
	Nodes  []*Node `json:"nodes"`
	Edges  []*Edge `json:"edges"`
	RootID string  `json:"rootId"`
}

func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// ParentMap maps each node id to its parent id, from the payload's ParentID.
// The debugger uses it to derive the on-path set.
func (g *Graph) ParentMap() map[string]string {
	out := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if p := n.Data.Base().ParentID; p != "" {
			out[n.ID] = p
		}
	}
	return out
}
