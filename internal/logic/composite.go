package logic

import "github.com/tidwall/gjson"

// convertOperator builds one row per operand. A single-operand call with a
// simple operand renders the operand inline inside the operator node itself.
func (c *converter) convertOperator(v gjson.Result, ln link, tn *ExpressionNode) string {
	op, operands, _ := operatorCall(v)
	id := c.b.nextID()
	data := &OperatorData{
		BaseData: BaseData{Expression: rawMessage(v)},
		Operator: op,
	}

	matched := c.assignChildren(operands, tn)
	branchIdx := 0
	for i, operand := range operands {
		c.addOperandRow(id, &data.Cells, operand, i, "", BranchBranch, &branchIdx, matched[i])
	}

	n := &Node{ID: id, Type: NodeOperator, Data: data}
	c.finishNode(n, ln)
	return id
}

// convertIfElse walks [cond1, then1, cond2, then2, ..., else?] as rows.
// Condition branches carry no polarity; then-branches are "yes" and the
// trailing else is "no". A single-operand if degrades to converting that
// operand directly into the parent slot.
func (c *converter) convertIfElse(v gjson.Result, ln link, tn *ExpressionNode) string {
	op, operands, _ := operatorCall(v)

	if len(operands) == 1 {
		matched := c.assignChildren(operands, tn)
		return c.convert(operands[0], ln, matched[0])
	}

	id := c.b.nextID()
	data := &OperatorData{
		BaseData: BaseData{Expression: rawMessage(v)},
		Operator: op,
	}

	matched := c.assignChildren(operands, tn)
	branchIdx := 0
	pair := 0
	i := 0
	for ; i+1 < len(operands); i += 2 {
		condLabel := "If"
		if pair > 0 {
			condLabel = "Else If"
		}
		c.addOperandRow(id, &data.Cells, operands[i], i, condLabel, BranchNone, &branchIdx, matched[i])
		c.addOperandRow(id, &data.Cells, operands[i+1], i+1, "Then", BranchYes, &branchIdx, matched[i+1])
		pair++
	}
	if i < len(operands) {
		c.addOperandRow(id, &data.Cells, operands[i], i, "Else", BranchNo, &branchIdx, matched[i])
	}

	n := &Node{ID: id, Type: NodeIfElse, Data: data}
	c.finishNode(n, ln)
	return id
}

// convertBranchTable walks [discriminant, [[case, then], ...], default?].
// Row order is significant: Match, then Case/Then per pair, then Default.
func (c *converter) convertBranchTable(v gjson.Result, ln link, tn *ExpressionNode) string {
	op, operands, _ := operatorCall(v)
	id := c.b.nextID()
	data := &OperatorData{
		BaseData: BaseData{Expression: rawMessage(v)},
		Operator: op,
	}

	rows := tableRows(operands)
	rowValues := make([]gjson.Result, len(rows))
	for i, r := range rows {
		rowValues[i] = r.value
	}
	matched := c.assignChildren(rowValues, tn)

	branchIdx := 0
	for i, row := range rows {
		c.addOperandRow(id, &data.Cells, row.value, i, row.label, row.branchType, &branchIdx, matched[i])
	}

	n := &Node{ID: id, Type: NodeBranchTable, Data: data}
	c.finishNode(n, ln)
	return id
}

type tableRow struct {
	label      string
	branchType BranchType
	value      gjson.Result
}

// tableRows flattens switch/match operands into display rows, tolerating
// malformed case entries (a lone value becomes a Case row without a Then).
func tableRows(operands []gjson.Result) []tableRow {
	var rows []tableRow
	if len(operands) == 0 {
		return rows
	}

	rows = append(rows, tableRow{label: "Match", branchType: BranchNone, value: operands[0]})

	if len(operands) > 1 {
		for _, entry := range operands[1].Array() {
			pair := entry.Array()
			if !entry.IsArray() || len(pair) == 0 {
				rows = append(rows, tableRow{label: "Case", branchType: BranchNone, value: entry})
				continue
			}
			rows = append(rows, tableRow{label: "Case", branchType: BranchNone, value: pair[0]})
			if len(pair) > 1 {
				rows = append(rows, tableRow{label: "Then", branchType: BranchYes, value: pair[1]})
			}
		}
	}

	if len(operands) > 2 {
		rows = append(rows, tableRow{label: "Default", branchType: BranchNo, value: operands[2]})
	}
	return rows
}
