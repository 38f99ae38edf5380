package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/xlab/treeprint"
)

// FormatTree draws a collection as an ASCII tree: map keys and list indexes
// become branches and scalars are printed inline at the leaves. Scalars
// render as with Stringify.
func FormatTree(v any) string {
	if !IsCollection(v) {
		return Stringify(v)
	}
	tree := treeprint.New()
	addChildren(tree, normalize(v))
	return tree.String()
}

// normalize turns structs and typed containers into the map[string]any and
// []any shapes the tree walker understands.
func normalize(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func addChildren(branch treeprint.Tree, node any) {
	switch n := node.(type) {
	case map[string]any:
		for _, k := range SortedKeys(n) {
			addNode(branch, k, n[k])
		}
	case []any:
		for i, elem := range n {
			addNode(branch, fmt.Sprintf("[%d]", i), elem)
		}
	}
}

func addNode(branch treeprint.Tree, key string, val any) {
	val = normalize(val)
	switch n := val.(type) {
	case map[string]any:
		if len(n) == 0 {
			branch.AddNode(key + ": {}")
			return
		}
		addChildren(branch.AddBranch(key), n)
	case []any:
		if len(n) == 0 {
			branch.AddNode(key + ": []")
			return
		}
		addChildren(branch.AddBranch(key), n)
	default:
		branch.AddNode(key + ": " + Stringify(val))
	}
}
