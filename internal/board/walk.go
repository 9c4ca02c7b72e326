package board

import "iter"

// Walk returns a depth-first pre-order traversal of the tree rooted at
// root: each node is yielded before its children, mapping entries in
// declaration order, sequence items in index order. The sequence is lazy,
// finite, and restartable; ranging over it again replays from the root.
func Walk(root Node) iter.Seq2[Path, Node] {
	return func(yield func(Path, Node) bool) {
		walk(nil, root, yield)
	}
}

func walk(p Path, n Node, yield func(Path, Node) bool) bool {
	if !yield(p, n) {
		return false
	}
	switch v := n.(type) {
	case *Map:
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			if !walk(p.Child(Key(k)), child, yield) {
				return false
			}
		}
	case *Seq:
		for i, child := range v.Items {
			if !walk(p.Child(Index(i)), child, yield) {
				return false
			}
		}
	}
	return true
}

// FindCardByID walks the document for the card with the given id and
// returns its path. This is a direct address lookup, not a selector; no
// fuzzy matching is involved.
func FindCardByID(root Node, id string) (Path, Card, bool) {
	var (
		foundPath Path
		foundCard Card
		found     bool
	)
	for p, n := range Walk(root) {
		c, ok := AsCard(n)
		if !ok || c.ID() != id {
			continue
		}
		foundPath, foundCard, found = p, c, true
		break
	}
	return foundPath, foundCard, found
}
