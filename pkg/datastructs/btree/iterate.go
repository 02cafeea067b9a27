package btree

// Iterator is called for each live entry in key order. Returning false
// stops the iteration.
type Iterator[K, V any] func(key K, val V) bool

// bound is an optional key limit.
type bound[K any] struct {
	key K
	set bool
}

func at[K any](key K) bound[K] {
	return bound[K]{key: key, set: true}
}

// Ascend calls fn for every live entry in ascending key order.
func (t *Tree[K, V]) Ascend(fn Iterator[K, V]) {
	t.root.ascend(bound[K]{}, bound[K]{}, fn)
}

// AscendRange calls fn for every live entry in [greaterOrEqual, lessThan).
func (t *Tree[K, V]) AscendRange(greaterOrEqual, lessThan K, fn Iterator[K, V]) {
	t.root.ascend(at(greaterOrEqual), at(lessThan), fn)
}

// AscendGreaterOrEqual calls fn for every live entry in [pivot, last].
func (t *Tree[K, V]) AscendGreaterOrEqual(pivot K, fn Iterator[K, V]) {
	t.root.ascend(at(pivot), bound[K]{}, fn)
}

// AscendLessThan calls fn for every live entry in [first, pivot).
func (t *Tree[K, V]) AscendLessThan(pivot K, fn Iterator[K, V]) {
	t.root.ascend(bound[K]{}, at(pivot), fn)
}

// ascend walks the subtree in order and returns false once iteration must
// stop, either because fn asked to or because lt was reached.
func (n *node[K, V]) ascend(ge, lt bound[K], fn Iterator[K, V]) bool {
	i := 0
	if ge.set {
		i, _ = n.find(ge.key)
	}
	for ; i <= len(n.keys); i++ {
		if !n.isLeaf() && !n.children[i].ascend(ge, lt, fn) {
			return false
		}
		if i == len(n.keys) {
			break
		}
		if lt.set && n.tree.compare(n.keys[i], lt.key) >= 0 {
			return false
		}
		if s := n.slots[i]; s.present && !fn(n.keys[i], s.val) {
			return false
		}
	}
	return true
}

// NodeInfo is a read-only view of one node handed to Iterate.
type NodeInfo[K, V any] struct {
	Depth   int
	Leaf    bool
	Keys    []K
	Values  []V
	Present []bool
}

// Iterate visits every node in level order, root first, and executes fn on
// each of them.
func (t *Tree[K, V]) Iterate(fn func(NodeInfo[K, V])) {
	type queued struct {
		n     *node[K, V]
		depth int
	}
	queue := []queued{{t.root, 0}}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		fn(q.n.info(q.depth))
		for _, c := range q.n.children {
			queue = append(queue, queued{c, q.depth + 1})
		}
	}
}

func (n *node[K, V]) info(depth int) NodeInfo[K, V] {
	info := NodeInfo[K, V]{
		Depth:   depth,
		Leaf:    n.isLeaf(),
		Keys:    append([]K(nil), n.keys...),
		Values:  make([]V, len(n.slots)),
		Present: make([]bool, len(n.slots)),
	}
	for i, s := range n.slots {
		info.Values[i] = s.val
		info.Present[i] = s.present
	}
	return info
}
