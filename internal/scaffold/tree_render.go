package scaffold

import (
	"sort"
	"strings"
)

type treeNode struct {
	dir      bool
	children map[string]*treeNode
}

// RenderTree draws paths as a box-drawing diagram under a root line.
// Directories carry a trailing slash, so the output parses back into the
// same Layout with ParseTree.
// Example:
// calc_app/
// ├── main.py
// └── utils/
//     └── math_ops.py
func RenderTree(root string, paths []PlannedPath) string {
	top := &treeNode{dir: true, children: map[string]*treeNode{}}
	for _, p := range paths {
		rel := cleanRel(p.Path)
		if rel == "" || rel == "." {
			continue
		}
		parts := strings.Split(rel, "/")
		current := top
		for i, part := range parts {
			child, ok := current.children[part]
			if !ok {
				child = &treeNode{children: map[string]*treeNode{}}
				current.children[part] = child
			}
			if i < len(parts)-1 || p.Kind == KindDir {
				child.dir = true
			}
			current = child
		}
	}

	var sb strings.Builder
	if root = strings.Trim(root, "/"); root != "" {
		sb.WriteString(root)
		sb.WriteString("/\n")
	}
	renderNode(&sb, top, "")
	return strings.TrimRight(sb.String(), "\n")
}

// RenderLayout is RenderTree over every planned path of l.
func RenderLayout(root string, l *Layout) string {
	return RenderTree(root, l.Paths())
}

func renderNode(sb *strings.Builder, node *treeNode, prefix string) {
	keys := make([]string, 0, len(node.children))
	for k := range node.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		child := node.children[k]
		isLast := i == len(keys)-1
		sb.WriteString(prefix)
		if isLast {
			sb.WriteString("└── ")
		} else {
			sb.WriteString("├── ")
		}
		sb.WriteString(k)
		if child.dir {
			sb.WriteString("/")
		}
		sb.WriteString("\n")

		if len(child.children) > 0 {
			newPrefix := prefix
			if isLast {
				newPrefix += "    "
			} else {
				newPrefix += "│   "
			}
			renderNode(sb, child, newPrefix)
		}
	}
}
