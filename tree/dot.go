package tree

import (
	"fmt"

	"github.com/emicklei/dot"
)

// DOT renders the populated portion of the tree as a Graphviz graph,
// useful when debugging a coordinator run locally. Each unpopulated
// subtree is drawn as a single node carrying its zero hash; its
// descendants are omitted rather than drawn as a wall of zero nodes.
func (t *QuinaryTree) DOT() string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "BT")

	t.dotNode(g, t.depth, 0)
	return g.String()
}

func (t *QuinaryTree) dotNode(g *dot.Graph, level int, index uint64) dot.Node {
	label := fmt.Sprintf("L%d[%d]\n%s", level, index, shortHash(t.nodeHash(level, index)))
	n := g.Node(fmt.Sprintf("n_%d_%d", level, index)).Label(label)

	if level == 0 || !t.subtreeHasLeaves(level, index) {
		return n
	}
	for j := uint64(0); j < Arity; j++ {
		child := t.dotNode(g, level-1, index*Arity+j)
		g.Edge(child, n)
	}
	return n
}

func shortHash(h interface{ String() string }) string {
	s := h.String()
	if len(s) > 10 {
		return s[:10] + "…"
	}
	return s
}
