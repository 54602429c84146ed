package utils

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Tree is a JSON-shaped configuration tree: nested maps, slices, strings,
// float64 numbers, bools and nil.
type Tree = map[string]any

// ToTree converts any JSON-serializable value into a Tree. Numbers come back
// as float64 so trees built from structs and from patches compare equal.
func ToTree(v any) (Tree, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tree: %w", err)
	}
	tree := Tree{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("unmarshal tree: %w", err)
	}
	return tree, nil
}

// FromTree decodes tree into out.
func FromTree(tree Tree, out any) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode tree: %w", err)
	}
	return nil
}

// Equal reports whether two trees are deeply equal.
func Equal(a, b any) bool {
	return cmp.Equal(a, b)
}

// Merge returns a new tree with patch merged into base. Nested maps merge
// key-wise, every other value replaces. A nil patch value is skipped, so a
// missing key and a nil key both inherit from base. Neither input is
// modified.
func Merge(base, patch Tree) Tree {
	out := make(Tree, len(base)+len(patch))
	for k, v := range base {
		out[k] = clone(v)
	}
	for k, pv := range patch {
		if pv == nil {
			continue
		}
		pm, patchIsMap := pv.(Tree)
		bm, baseIsMap := out[k].(Tree)
		if patchIsMap && baseIsMap {
			out[k] = Merge(bm, pm)
			continue
		}
		out[k] = clone(pv)
	}
	return out
}

// Difference returns the keys of obj whose values diverge from base.
// Nested maps are diffed recursively and only kept when something inside
// them differs; slices and scalars are kept whole. Merge(base,
// Difference(obj, base)) reproduces obj whenever obj carries every key of
// base.
func Difference(obj, base Tree) Tree {
	out := Tree{}
	for k, v := range obj {
		bv, ok := base[k]
		if ok && cmp.Equal(v, bv) {
			continue
		}
		vm, objIsMap := v.(Tree)
		bm, baseIsMap := bv.(Tree)
		if objIsMap && baseIsMap {
			if sub := Difference(vm, bm); len(sub) > 0 {
				out[k] = sub
			}
			continue
		}
		out[k] = clone(v)
	}
	return out
}

func clone(v any) any {
	switch t := v.(type) {
	case Tree:
		out := make(Tree, len(t))
		for k, item := range t {
			out[k] = clone(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = clone(item)
		}
		return out
	default:
		return v
	}
}
