package logic

import (
	"strings"

	"github.com/tidwall/gjson"
)

// convertVariable builds a variable-reference node for var/val/exists calls.
func (c *converter) convertVariable(v gjson.Result, ln link, tn *ExpressionNode) string {
	op, operands, _ := operatorCall(v)
	id := c.b.nextID()
	data := &VariableData{
		BaseData: BaseData{Expression: rawMessage(v)},
		Operator: op,
	}

	switch op {
	case "var":
		c.fillVar(id, data, operands, tn)
	case "exists":
		fillExists(data, operands)
	case "val":
		fillVal(data, operands)
	}

	n := &Node{ID: id, Type: NodeVariable, Data: data}
	c.finishNode(n, ln)
	return id
}

// fillVar handles {"var": [path, default?]}. A simple default inlines as a
// cell value; an operator-call default converts recursively and hangs off a
// "Default" branch cell.
func (c *converter) fillVar(id string, data *VariableData, operands []gjson.Result, tn *ExpressionNode) {
	if len(operands) > 0 {
		data.Path = formatScalar(operands[0])
		data.PathComponents = splitPath(data.Path)
		data.Cells = append(data.Cells, Cell{
			Kind:  CellEditable,
			Slot:  0,
			Field: "path",
			Value: rawMessage(operands[0]),
		})
	}

	if len(operands) < 2 {
		return
	}

	def := operands[1]
	matched := c.assignChildren(operands, tn)
	if c.isSimple(def) {
		data.DefaultValue = rawMessage(def)
		data.Cells = append(data.Cells, Cell{
			Kind:  CellInline,
			Slot:  1,
			Label: "Default",
			Icon:  iconFor(def),
			Value: rawMessage(def),
		})
		c.mapSubtree(matched[1], id)
		return
	}

	branchIdx := 0
	cells := data.Cells
	c.addOperandRow(id, &cells, def, 1, "Default", BranchBranch, &branchIdx, matched[1])
	data.Cells = cells
}

// fillExists handles {"exists": path} and {"exists": [seg, seg, ...]};
// segments join with dots.
func fillExists(data *VariableData, operands []gjson.Result) {
	if len(operands) == 0 {
		return
	}
	if len(operands) == 1 {
		data.Path = formatScalar(operands[0])
		data.PathComponents = splitPath(data.Path)
	} else {
		parts := make([]string, 0, len(operands))
		for _, o := range operands {
			parts = append(parts, formatScalar(o))
		}
		data.PathComponents = parts
		data.Path = strings.Join(parts, ".")
	}
	data.Cells = append(data.Cells, Cell{
		Kind:  CellEditable,
		Slot:  0,
		Field: "path",
		Value: rawMessage(operands[0]),
	})
}

// fillVal handles {"val": [[-N], part, part, ...]}. The leading scope array
// sets scopeJump = abs(N); without it the jump is 0 and every operand is a
// path part.
func fillVal(data *VariableData, operands []gjson.Result) {
	parts := operands
	if len(operands) > 0 && operands[0].IsArray() {
		scope := operands[0].Array()
		if len(scope) > 0 {
			jump := int(scope[0].Int())
			if jump < 0 {
				jump = -jump
			}
			data.ScopeJump = jump
		}
		parts = operands[1:]
	}

	components := make([]string, 0, len(parts))
	for _, p := range parts {
		components = append(components, formatScalar(p))
	}
	data.PathComponents = components
	data.Path = strings.Join(components, ".")
	if len(parts) > 0 {
		data.Cells = append(data.Cells, Cell{
			Kind:  CellEditable,
			Slot:  0,
			Field: "path",
			Value: rawMessage(parts[0]),
		})
	}
}

// variablePath extracts the display path of a var/val/exists call without
// building a node; used for inline cell labels.
func variablePath(op string, operands []gjson.Result) string {
	switch op {
	case "var":
		if len(operands) > 0 {
			return formatScalar(operands[0])
		}
	case "exists", "val":
		data := &VariableData{}
		if op == "exists" {
			fillExists(data, operands)
		} else {
			fillVal(data, operands)
		}
		return data.Path
	}
	return ""
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
