package logic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// convertStructure renders an object/array as pretty JSON text in which
// every embedded expression is replaced by a placeholder token, and converts
// each embedded expression as a branch. Placeholder offsets are computed by
// scanning the rendered text, never assumed, because indentation and key
// order affect them.
func (c *converter) convertStructure(v gjson.Result, ln link, tn *ExpressionNode) string {
	id := c.b.nextID()
	data := &StructureData{
		BaseData: BaseData{Expression: rawMessage(v)},
		IsArray:  v.IsArray(),
	}

	// depth-first pre-order discovery of embedded expressions
	found := collectEmbedded(c, v, "", "")
	values := make([]gjson.Result, len(found))
	for i, f := range found {
		values[i] = f.value
	}
	matched := c.assignChildren(values, tn)

	data.Text = renderStructure(c, v)

	for k, f := range found {
		childID := c.convert(f.value, link{
			parentID:   id,
			argIndex:   k,
			branchType: BranchBranch,
			viaBranch:  true,
		}, matched[k])
		c.b.addEdge(id, childID, fmt.Sprintf("branch-%d", k))

		token := placeholderToken(k)
		start := strings.Index(data.Text, token)
		elem := StructureElement{
			Path:     f.path,
			Key:      f.key,
			BranchID: childID,
		}
		if start >= 0 {
			// span the quoted token as rendered
			elem.StartOffset = start - 1
			elem.EndOffset = start + len(token) + 1
		}
		data.Elements = append(data.Elements, elem)
	}

	n := &Node{ID: id, Type: NodeStructure, Data: data}
	c.finishNode(n, ln)
	return id
}

type embeddedValue struct {
	path  string
	key   string
	value gjson.Result
}

// isEmbedded decides whether a sub-value is replaced by a placeholder:
// operator calls always, nested structures when preserving structure.
func (c *converter) isEmbedded(v gjson.Result) bool {
	if _, _, ok := operatorCall(v); ok {
		return true
	}
	return c.preserve && Classify(v, true) == ArchetypeStructure
}

func collectEmbedded(c *converter, v gjson.Result, path, key string) []embeddedValue {
	var out []embeddedValue
	walk := func(item gjson.Result, childPath, childKey string) {
		if c.isEmbedded(item) {
			out = append(out, embeddedValue{path: childPath, key: childKey, value: item})
			return
		}
		out = append(out, collectEmbedded(c, item, childPath, childKey)...)
	}

	if v.IsObject() {
		v.ForEach(func(k, item gjson.Result) bool {
			walk(item, joinPath(path, k.String()), k.String())
			return true
		})
	} else if v.IsArray() {
		for i, item := range v.Array() {
			walk(item, joinPath(path, strconv.Itoa(i)), "")
		}
	}
	return out
}

func joinPath(base, part string) string {
	if base == "" {
		return part
	}
	return base + "." + part
}

func placeholderToken(k int) string {
	return fmt.Sprintf("__expr_%d__", k)
}

// renderStructure pretty-prints v with two-space indentation, preserving key
// order, emitting quoted placeholder tokens for embedded values in the same
// pre-order as collectEmbedded.
func renderStructure(c *converter, v gjson.Result) string {
	var b strings.Builder
	next := 0
	renderContainer(c, v, 0, &b, &next)
	return b.String()
}

func renderContainer(c *converter, v gjson.Result, depth int, b *strings.Builder, next *int) {
	indent := strings.Repeat("  ", depth)
	inner := strings.Repeat("  ", depth+1)

	if v.IsObject() {
		if keyCount(v) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		first := true
		v.ForEach(func(k, item gjson.Result) bool {
			if !first {
				b.WriteString(",\n")
			}
			first = false
			b.WriteString(inner)
			b.WriteString(strconv.Quote(k.String()))
			b.WriteString(": ")
			renderValue(c, item, depth+1, b, next)
			return true
		})
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("}")
		return
	}

	elems := v.Array()
	if len(elems) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[\n")
	for i, item := range elems {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(inner)
		renderValue(c, item, depth+1, b, next)
	}
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString("]")
}

func renderValue(c *converter, v gjson.Result, depth int, b *strings.Builder, next *int) {
	if c.isEmbedded(v) {
		b.WriteString(strconv.Quote(placeholderToken(*next)))
		*next++
		return
	}
	if v.IsObject() || v.IsArray() {
		renderContainer(c, v, depth, b, next)
		return
	}
	if v.Type == gjson.String {
		b.WriteString(strconv.Quote(v.String()))
		return
	}
	b.WriteString(v.Raw)
}
