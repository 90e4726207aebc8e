package logic

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Converter turns JSONLogic expressions into visual graphs. A Converter is
// safe for concurrent use: every conversion gets its own builder, id
// generator and trace map.
type Converter struct {
	newIDs func() IDGenerator
}

type ConverterOption func(*Converter)

// WithIDGeneratorFactory sets the per-conversion id source. The factory is
// invoked once per conversion so sequential generators start fresh each time.
func WithIDGeneratorFactory(fn func() IDGenerator) ConverterOption {
	return func(cv *Converter) { cv.newIDs = fn }
}

// WithUUIDs makes node ids globally unique across conversions.
func WithUUIDs() ConverterOption {
	return func(cv *Converter) { cv.newIDs = func() IDGenerator { return UUID{} } }
}

func NewConverter(opts ...ConverterOption) *Converter {
	cv := &Converter{
		newIDs: func() IDGenerator { return NewSequential("node") },
	}
	for _, opt := range opts {
		opt(cv)
	}
	return cv
}

// Convert builds the node/edge graph for expr. Malformed JSONLogic shapes
// degrade to literal display; only unparseable JSON is an error.
func (cv *Converter) Convert(expr []byte, preserveStructure bool) (*Graph, error) {
	if !gjson.ValidBytes(expr) {
		return nil, fmt.Errorf("expression is not valid JSON")
	}
	c := &converter{
		b:        newBuilder(cv.newIDs()),
		preserve: preserveStructure,
	}
	rootID := c.convert(gjson.ParseBytes(expr), link{}, nil)
	return c.b.graph(rootID), nil
}

// link describes how a node hangs off its parent. viaBranch means the parent
// already wired a branch-<k> edge, so the child must not add an inbound edge
// of its own.
type link struct {
	parentID   string
	argIndex   int
	branchType BranchType
	viaBranch  bool
}

// converter threads the builder and trace state through the recursive
// descent. nodeMap is nil outside trace mode.
type converter struct {
	b        *builder
	preserve bool
	nodeMap  TraceNodeMap
}

func (c *converter) convert(v gjson.Result, ln link, tn *ExpressionNode) string {
	var id string
	switch Classify(v, c.preserve) {
	case ArchetypeLiteral:
		id = c.convertLiteral(v, ln)
	case ArchetypeVariable:
		id = c.convertVariable(v, ln, tn)
	case ArchetypeIfElse:
		id = c.convertIfElse(v, ln, tn)
	case ArchetypeBranchTable:
		id = c.convertBranchTable(v, ln, tn)
	case ArchetypeMultiOperand, ArchetypeSingleOperand:
		id = c.convertOperator(v, ln, tn)
	case ArchetypeStructure:
		id = c.convertStructure(v, ln, tn)
	}
	c.register(tn, id)
	return id
}

// finishNode stores the parent linkage on the payload, adds the node, and
// wires the inbound arg-<N> edge exactly once. Nodes reached through a
// branch cell already got their inbound edge from the parent.
func (c *converter) finishNode(n *Node, ln link) {
	base := n.Data.Base()
	base.ParentID = ln.parentID
	base.ArgIndex = ln.argIndex
	base.BranchType = ln.branchType
	c.b.addNode(n)
	if ln.parentID != "" && !ln.viaBranch {
		c.b.addEdge(ln.parentID, n.ID, fmt.Sprintf("arg-%d", ln.argIndex))
	}
}

func (c *converter) convertLiteral(v gjson.Result, ln link) string {
	id := c.b.nextID()
	n := &Node{
		ID:   id,
		Type: NodeLiteral,
		Data: &LiteralData{
			BaseData:  BaseData{Expression: rawMessage(v)},
			Value:     rawMessage(v),
			ValueType: valueTypeOf(v),
		},
	}
	c.finishNode(n, ln)
	return id
}

// isSimple is the operand-simplicity predicate shared by all composite
// converters: literals and variable references render inline, everything
// else becomes a branch.
func (c *converter) isSimple(v gjson.Result) bool {
	switch Classify(v, c.preserve) {
	case ArchetypeLiteral, ArchetypeVariable:
		return true
	}
	return false
}

// addOperandRow appends one row for operand: an inline cell for simple
// operands (collapsing the matched trace subtree onto the parent), or a
// branch cell plus a branch-<k> edge for complex ones. k counts branch cells
// only, in encounter order.
func (c *converter) addOperandRow(parentID string, cells *[]Cell, operand gjson.Result, slot int, rowLabel string, bt BranchType, branchIdx *int, tn *ExpressionNode) {
	if c.isSimple(operand) {
		*cells = append(*cells, Cell{
			Kind:     CellInline,
			Slot:     slot,
			RowLabel: rowLabel,
			Label:    inlineLabel(operand),
			Icon:     iconFor(operand),
			Value:    rawMessage(operand),
		})
		c.mapSubtree(tn, parentID)
		return
	}

	childID := c.convert(operand, link{
		parentID:   parentID,
		argIndex:   slot,
		branchType: bt,
		viaBranch:  true,
	}, tn)
	c.b.addEdge(parentID, childID, fmt.Sprintf("branch-%d", *branchIdx))
	*branchIdx++
	*cells = append(*cells, Cell{
		Kind:     CellBranch,
		Slot:     slot,
		RowLabel: rowLabel,
		Summary:  summarize(operand),
		BranchID: childID,
	})
}

func rawMessage(v gjson.Result) json.RawMessage {
	return json.RawMessage(v.Raw)
}

func valueTypeOf(v gjson.Result) ValueType {
	if v.IsArray() {
		return ValueArray
	}
	if v.IsObject() {
		return ValueObject
	}
	switch v.Type {
	case gjson.True, gjson.False:
		return ValueBoolean
	case gjson.Number:
		return ValueNumber
	case gjson.String:
		return ValueString
	}
	return ValueNull
}

// inlineLabel is the short display text for an inlined operand.
func inlineLabel(v gjson.Result) string {
	if op, operands, ok := operatorCall(v); ok {
		switch op {
		case "var", "val", "exists":
			if path := variablePath(op, operands); path != "" {
				return path
			}
			return op
		}
	}
	return truncate(compactRaw(v), 40)
}

func iconFor(v gjson.Result) string {
	if _, _, ok := operatorCall(v); ok {
		return "variable"
	}
	switch valueTypeOf(v) {
	case ValueBoolean:
		return "boolean"
	case ValueNumber:
		return "number"
	case ValueString:
		return "text"
	case ValueArray:
		return "list"
	case ValueObject:
		return "object"
	}
	return "null"
}

// summarize is the one-line description shown on a branch cell.
func summarize(v gjson.Result) string {
	if op, operands, ok := operatorCall(v); ok {
		return fmt.Sprintf("%s(%d)", op, len(operands))
	}
	if v.IsArray() {
		return fmt.Sprintf("[%d items]", len(v.Array()))
	}
	if v.IsObject() {
		return fmt.Sprintf("{%d keys}", keyCount(v))
	}
	return truncate(compactRaw(v), 40)
}

func compactRaw(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	var any interface{}
	if err := json.Unmarshal([]byte(v.Raw), &any); err != nil {
		return v.Raw
	}
	b, err := json.Marshal(any)
	if err != nil {
		return v.Raw
	}
	return string(b)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func formatScalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Number:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	}
	return v.Raw
}
