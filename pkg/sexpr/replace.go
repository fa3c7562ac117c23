package sexpr

// ReplaceAtomsInNode returns a tree identical in shape to node where
// every leaf whose value exactly equals before is replaced by a leaf
// with value after. The replacement value is stored verbatim, with no
// reserved-word normalization. The input tree is untouched; unchanged
// leaves are shared, which is safe because nodes are immutable.
func ReplaceAtomsInNode(node Node, before, after string) Node {
	switch n := node.(type) {
	case *Leaf:
		if n.value == before {
			return newRawLeaf(after)
		}
		return n
	case *Compound:
		children := make([]Node, len(n.children))
		for i, child := range n.children {
			children[i] = ReplaceAtomsInNode(child, before, after)
		}
		return &Compound{children: children}
	}
	return node
}

// ReplaceAtoms applies ReplaceAtomsInNode to every tree of a forest,
// returning a new forest.
func ReplaceAtoms(forest []Node, before, after string) []Node {
	replaced := make([]Node, len(forest))
	for i, node := range forest {
		replaced[i] = ReplaceAtomsInNode(node, before, after)
	}
	return replaced
}
