package stack

import (
	"fmt"
	"strconv"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Property paths address one node inside a value tree. Each mapping key
// is one segment, list elements use their decimal index as the segment,
// and conditional branches use the segments "Fn::If" followed by "1"
// (then) or "2" (else).

// ValueAt returns the node at path below root.
func ValueAt(root Value, path []string) (Value, bool) {
	if len(path) == 0 {
		return root, true
	}

	switch node := root.(type) {
	case Mapping:
		child, ok := node[path[0]]
		if !ok {
			return nil, false
		}
		return ValueAt(child, path[1:])
	case List:
		idx, err := strconv.Atoi(path[0])
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, false
		}
		return ValueAt(node[idx], path[1:])
	case If:
		if path[0] != "Fn::If" || len(path) < 2 {
			return nil, false
		}
		switch path[1] {
		case "1":
			return ValueAt(node.Then, path[2:])
		case "2":
			return ValueAt(node.Else, path[2:])
		default:
			return nil, false
		}
	default:
		return nil, false
	}
}

// Replace returns a new tree equal to root except that the node at path
// is replaced. Shared structure outside the path is reused, not copied.
func Replace(root Value, path []string, replacement Value) (Value, error) {
	if len(path) == 0 {
		return replacement, nil
	}

	switch node := root.(type) {
	case Mapping:
		child, ok := node[path[0]]
		if !ok {
			return nil, fmt.Errorf("unknown key %q in mapping", path[0])
		}
		newChild, err := Replace(child, path[1:], replacement)
		if err != nil {
			return nil, err
		}
		out := make(Mapping, len(node))
		for k, v := range node {
			out[k] = v
		}
		out[path[0]] = newChild
		return out, nil
	case List:
		idx, err := strconv.Atoi(path[0])
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, fmt.Errorf("invalid list index %q", path[0])
		}
		newChild, err := Replace(node[idx], path[1:], replacement)
		if err != nil {
			return nil, err
		}
		out := make(List, len(node))
		copy(out, node)
		out[idx] = newChild
		return out, nil
	case If:
		if path[0] != "Fn::If" || len(path) < 2 {
			return nil, fmt.Errorf("invalid conditional path segment %q", path[0])
		}
		out := node
		switch path[1] {
		case "1":
			newThen, err := Replace(node.Then, path[2:], replacement)
			if err != nil {
				return nil, err
			}
			out.Then = newThen
		case "2":
			newElse, err := Replace(node.Else, path[2:], replacement)
			if err != nil {
				return nil, err
			}
			out.Else = newElse
		default:
			return nil, fmt.Errorf("invalid conditional branch %q", path[1])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot descend into leaf value at %q", path[0])
	}
}

// ConditionNames returns the names of all template conditions referenced
// by conditional nodes anywhere in the tree, sorted.
func ConditionNames(root Value) []string {
	names := sets.New[string]()
	collectConditionNames(root, names)
	return sets.List(names)
}

func collectConditionNames(v Value, names sets.Set[string]) {
	switch node := v.(type) {
	case Mapping:
		for _, child := range node {
			collectConditionNames(child, names)
		}
	case List:
		for _, child := range node {
			collectConditionNames(child, names)
		}
	case If:
		names.Insert(node.Condition)
		collectConditionNames(node.Then, names)
		collectConditionNames(node.Else, names)
	}
}
