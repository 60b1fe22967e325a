package boosting

// Walk visits every node of the tree in pre-order (node, left subtree, right
// subtree). depth is 0 at the root. Returning false from fn skips the
// children of the current node.
func Walk[T Number](n Node[T], fn func(n Node[T], depth int) bool) {
	walk[T](n, 0, fn)
}

func walk[T Number](n Node[T], depth int, fn func(Node[T], int) bool) {
	if !fn(n, depth) {
		return
	}
	if d, ok := n.(*Decision[T]); ok {
		walk[T](d.Left, depth+1, fn)
		walk[T](d.Right, depth+1, fn)
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
// A single leaf has depth 0.
func Depth[T Number](n Node[T]) int {
	maxDepth := 0
	Walk[T](n, func(_ Node[T], depth int) bool {
		if depth > maxDepth {
			maxDepth = depth
		}
		return true
	})
	return maxDepth
}

// NumLeaves returns the number of leaves in the tree.
func NumLeaves[T Number](n Node[T]) int {
	leaves := 0
	Walk[T](n, func(n Node[T], _ int) bool {
		if _, ok := n.(*Leaf[T]); ok {
			leaves++
		}
		return true
	})
	return leaves
}

// NumNodes returns the total number of nodes in the tree.
func NumNodes[T Number](n Node[T]) int {
	nodes := 0
	Walk[T](n, func(Node[T], int) bool {
		nodes++
		return true
	})
	return nodes
}

// MaxFeature returns the largest feature index referenced by a decision
// node, or -1 when the tree is a single leaf.
func MaxFeature[T Number](n Node[T]) int {
	maxFeature := -1
	Walk[T](n, func(n Node[T], _ int) bool {
		if d, ok := n.(*Decision[T]); ok && d.Feature > maxFeature {
			maxFeature = d.Feature
		}
		return true
	})
	return maxFeature
}

// SplitCounts returns how many decision nodes split on each feature index.
// It is the split-count flavour of feature importance.
func SplitCounts[T Number](n Node[T]) map[int]int {
	counts := make(map[int]int)
	Walk[T](n, func(n Node[T], _ int) bool {
		if d, ok := n.(*Decision[T]); ok {
			counts[d.Feature]++
		}
		return true
	})
	return counts
}
