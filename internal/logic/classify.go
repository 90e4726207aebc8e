package logic

import "github.com/tidwall/gjson"

// Archetype is the visual shape a JSONLogic value converts into.
type Archetype int

const (
	ArchetypeLiteral Archetype = iota
	ArchetypeVariable
	ArchetypeIfElse
	ArchetypeBranchTable
	ArchetypeMultiOperand
	ArchetypeSingleOperand
	ArchetypeStructure
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeLiteral:
		return "literal"
	case ArchetypeVariable:
		return "variable"
	case ArchetypeIfElse:
		return "ifElse"
	case ArchetypeBranchTable:
		return "branchTable"
	case ArchetypeMultiOperand:
		return "multiOperand"
	case ArchetypeSingleOperand:
		return "singleOperand"
	case ArchetypeStructure:
		return "structure"
	}
	return "unknown"
}

// Classify maps a JSONLogic value to its archetype. Pure and deterministic;
// malformed JSONLogic (object with 0 or >=2 keys) classifies as a literal
// rather than erroring.
func Classify(v gjson.Result, preserveStructure bool) Archetype {
	if preserveStructure {
		if v.IsObject() && keyCount(v) >= 2 {
			return ArchetypeStructure
		}
		if v.IsArray() {
			elems := v.Array()
			if len(elems) > 0 && !hasOperatorCallMember(elems) {
				return ArchetypeStructure
			}
		}
	}

	if !v.IsObject() {
		// null, scalars and arrays all display as literals
		return ArchetypeLiteral
	}

	op, operands, ok := operatorCall(v)
	if !ok {
		return ArchetypeLiteral
	}

	switch op {
	case "var", "val", "exists":
		return ArchetypeVariable
	case "if", "?:":
		return ArchetypeIfElse
	case "switch", "match":
		return ArchetypeBranchTable
	}

	if len(operands) > 1 {
		return ArchetypeMultiOperand
	}
	return ArchetypeSingleOperand
}

// operatorCall reports whether v is a single-key object {op: operands} and
// returns the operator name plus operands normalized to a list.
func operatorCall(v gjson.Result) (op string, operands []gjson.Result, ok bool) {
	if !v.IsObject() {
		return "", nil, false
	}
	count := 0
	var key string
	var val gjson.Result
	v.ForEach(func(k, item gjson.Result) bool {
		count++
		key = k.String()
		val = item
		return count <= 1
	})
	if count != 1 {
		return "", nil, false
	}
	if val.IsArray() {
		return key, val.Array(), true
	}
	return key, []gjson.Result{val}, true
}

func keyCount(v gjson.Result) int {
	n := 0
	v.ForEach(func(_, _ gjson.Result) bool {
		n++
		return true
	})
	return n
}

func hasOperatorCallMember(elems []gjson.Result) bool {
	for _, e := range elems {
		if _, _, ok := operatorCall(e); ok {
			return true
		}
	}
	return false
}
