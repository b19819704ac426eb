package internal

// ReconstructPath walks cameFrom backwards from current until it reaches a
// node with no predecessor, then returns the visited nodes in forward order.
// The node without a predecessor (the search start) is not included.
func ReconstructPath[NodeType comparable](
	cameFrom map[NodeType]NodeType,
	current NodeType,
) []NodeType {
	path := make([]NodeType, 0)
	for {
		previousNode, exists := cameFrom[current]
		if !exists {
			break
		}
		path = append(path, current)
		current = previousNode
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// ChainLength counts predecessor hops from current back to a node with no
// predecessor. It stops after limit hops and reports false if the chain was
// still going.
func ChainLength[NodeType comparable](
	cameFrom map[NodeType]NodeType,
	current NodeType,
	limit int,
) (int, bool) {
	hops := 0
	for hops <= limit {
		previousNode, exists := cameFrom[current]
		if !exists {
			return hops, true
		}
		hops++
		current = previousNode
	}
	return hops, false
}

// CopyMap returns a shallow copy of m.
func CopyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
