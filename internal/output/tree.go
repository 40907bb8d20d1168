package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// Description alignment column.
	descriptionColumn = 36
)

// treeNode represents a node in the file tree.
type treeNode struct {
	name        string
	description string
	isDir       bool
	children    []*treeNode
}

// RenderFileTree renders a file tree with descriptions aligned in a
// column. Files is a map of relative paths to their descriptions;
// rootName is the root directory label.
func RenderFileTree(rootName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := &treeNode{name: rootName, isDir: true}

	for path, desc := range files {
		parts := strings.Split(filepath.ToSlash(path), "/")
		current := root

		for i, part := range parts {
			isLast := i == len(parts)-1

			var child *treeNode
			for _, c := range current.children {
				if c.name == part {
					child = c
					break
				}
			}

			if child == nil {
				child = &treeNode{name: part, isDir: !isLast}
				current.children = append(current.children, child)
			}

			if isLast {
				child.description = desc
			}

			current = child
		}
	}

	sortTree(root)

	var sb strings.Builder
	renderNode(&sb, root, "", true, true)
	return sb.String()
}

// sortTree recursively sorts tree nodes, directories first, then
// alphabetically.
func sortTree(node *treeNode) {
	if len(node.children) == 0 {
		return
	}

	sort.Slice(node.children, func(i, j int) bool {
		if node.children[i].isDir != node.children[j].isDir {
			return node.children[i].isDir
		}
		return node.children[i].name < node.children[j].name
	})

	for _, child := range node.children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, node *treeNode, prefix string, isRoot, isLast bool) {
	styles := GetStyles()

	if isRoot {
		sb.WriteString(styles.Bold.Render(node.name + "/"))
		sb.WriteString("\n")
	} else {
		connector := treeEdge
		if isLast {
			connector = treeLast
		}

		name := node.name
		if node.isDir {
			name += "/"
		}

		line := prefix + connector + name

		if node.description != "" {
			padding := descriptionColumn - len(line)
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding)
			line += styles.Muted.Render(node.description)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for i, child := range node.children {
		childIsLast := i == len(node.children)-1

		var childPrefix string
		if !isRoot {
			if isLast {
				childPrefix = prefix + treeSpace
			} else {
				childPrefix = prefix + treeVert
			}
		}

		renderNode(sb, child, childPrefix, false, childIsLast)
	}
}
