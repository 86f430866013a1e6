package merkletree

import (
	"fmt"
	"strings"
)

// renderFrame is one pending node in the depth-first walk Render performs.
// path records, for each ancestor from the root down to this node's parent,
// whether that ancestor was its parent's last (right) child.
type renderFrame struct {
	index int
	path  []bool
}

// Render produces a deterministic, multi-line ASCII dump of tree. Each line
// has the form "<indent><branch>N) <hex>", where N is the flat-array index
// and <hex> is the node's 0x-prefixed form. Traversal is pre-order,
// left-first; the root line carries no branch prefix.
func Render(tree []Node) string {
	if len(tree) == 0 {
		return ""
	}

	stack := []renderFrame{{index: 0}}
	var lines []string

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var b strings.Builder
		if len(f.path) > 1 {
			for _, last := range f.path[:len(f.path)-1] {
				if last {
					b.WriteString("   ")
				} else {
					b.WriteString("│  ")
				}
			}
		}
		if len(f.path) > 0 {
			if f.path[len(f.path)-1] {
				b.WriteString("└─ ")
			} else {
				b.WriteString("├─ ")
			}
		}
		fmt.Fprintf(&b, "%d) %s", f.index, tree[f.index].Hex())
		lines = append(lines, b.String())

		if r := rightChildIndex(f.index); r < len(tree) {
			rightPath := append(append([]bool(nil), f.path...), true)
			leftPath := append(append([]bool(nil), f.path...), false)
			stack = append(stack, renderFrame{index: r, path: rightPath})
			stack = append(stack, renderFrame{index: leftChildIndex(f.index), path: leftPath})
		}
	}

	return strings.Join(lines, "\n")
}
