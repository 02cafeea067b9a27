package btree

import "slices"

// slot is a value that may have been logically deleted. A tombstone keeps
// its key structurally present but reports as absent.
type slot[V any] struct {
	val     V
	present bool
}

func liveSlot[V any](v V) slot[V] {
	return slot[V]{val: v, present: true}
}

// node is a B-Tree node. It owns its children; it never points at its
// parent. Parent-side work (splits, borrows, merges) is requested through
// the owning tree, which recomputes the parent on demand.
//
// Layout: children[i] holds the keys strictly between keys[i-1] and keys[i].
type node[K, V any] struct {
	tree     *Tree[K, V]
	keys     []K
	slots    []slot[V]
	children []*node[K, V]
}

func (n *node[K, V]) isLeaf() bool {
	return len(n.children) == 0
}

// isFull reports whether the node holds B keys and must be split.
func (n *node[K, V]) isFull() bool {
	return len(n.keys) == n.tree.order
}

// find returns the position of the first key >= key, and whether that key
// is key itself. For an internal node the position is also the index of the
// child whose range covers key.
func (n *node[K, V]) find(key K) (int, bool) {
	return slices.BinarySearchFunc(n.keys, key, n.tree.compare)
}

func (n *node[K, V]) contains(key K) bool {
	idx, owns := n.find(key)
	switch {
	case owns:
		return n.slots[idx].present
	case n.isLeaf():
		return false
	default:
		return n.children[idx].contains(key)
	}
}

func (n *node[K, V]) get(key K) slot[V] {
	idx, owns := n.find(key)
	switch {
	case owns:
		return n.slots[idx]
	case n.isLeaf():
		return slot[V]{}
	default:
		return n.children[idx].get(key)
	}
}

// insert places key into the leaf covering it, or overwrites the slot of
// the node that already owns it.
func (n *node[K, V]) insert(key K, val V) {
	idx, owns := n.find(key)
	switch {
	case owns:
		if !n.slots[idx].present {
			n.tree.tombstones--
			n.tree.length++
		}
		n.slots[idx] = liveSlot(val)
	case !n.isLeaf():
		n.children[idx].insert(key, val)
	default:
		n.keys = slices.Insert(n.keys, idx, key)
		n.slots = slices.Insert(n.slots, idx, liveSlot(val))
		n.tree.length++
		n.splitSelfIfNeeded()
	}
}

// splitSelfIfNeeded hands a full node to whoever owns its child pointer:
// the parent, or the tree when the node is the root.
func (n *node[K, V]) splitSelfIfNeeded() {
	if !n.isFull() {
		return
	}
	midKey, midSlot := n.midKey(), n.midSlot()
	if parent := n.tree.parent(midKey); parent != nil {
		parent.splitChild(midKey, midSlot)
		return
	}
	n.tree.splitRoot()
}

// splitChild promotes midKey from the full child that holds it, splits that
// child around it and then splits itself if the promotion filled it up.
func (n *node[K, V]) splitChild(midKey K, mid slot[V]) {
	idx, owns := n.find(midKey)
	if owns || n.isLeaf() || !n.children[idx].isFull() {
		panic("btree: splitChild called without a full child holding the median")
	}
	n.keys = slices.Insert(n.keys, idx, midKey)
	n.slots = slices.Insert(n.slots, idx, mid)
	n.splitChildNode(idx)
	n.splitSelfIfNeeded()
}

// splitChildNode partitions children[i] around its median. The child
// keeps [0, B/2), a new right sibling at i+1 takes [B/2+1, B), and the
// median itself is dropped since it already lives in n.
func (n *node[K, V]) splitChildNode(i int) {
	left := n.children[i]
	mid := n.tree.order / 2

	right := n.tree.newNode()
	right.keys = append(right.keys, left.keys[mid+1:]...)
	right.slots = append(right.slots, left.slots[mid+1:]...)
	clear(left.keys[mid:])
	clear(left.slots[mid:])
	left.keys = left.keys[:mid]
	left.slots = left.slots[:mid]

	// An internal node only fills up through a promotion, so it has B+1
	// children here: left keeps [0, B/2], right takes [B/2+1, B].
	if !left.isLeaf() {
		right.children = append(right.children, left.children[mid+1:]...)
		clear(left.children[mid+1:])
		left.children = left.children[:mid+1]
	}

	n.children = slices.Insert(n.children, i+1, right)
}

func (n *node[K, V]) midKey() K {
	if !n.isFull() {
		panic("btree: median requested from a node that is not full")
	}
	return n.keys[n.tree.order/2]
}

func (n *node[K, V]) midSlot() slot[V] {
	if !n.isFull() {
		panic("btree: median requested from a node that is not full")
	}
	return n.slots[n.tree.order/2]
}

// deleteKey locates the node owning key and asks its parent (or the tree,
// for the root) to remove it. It reports whether a live entry went away.
func (n *node[K, V]) deleteKey(key K, parent *node[K, V], childIdx int) bool {
	idx, owns := n.find(key)
	switch {
	case owns:
		if !n.slots[idx].present {
			return false
		}
		if parent == nil {
			n.tree.deleteFromRoot(idx)
		} else {
			parent.deleteFromChild(childIdx, idx)
		}
		n.tree.length--
		return true
	case n.isLeaf():
		return false
	default:
		return n.children[idx].deleteKey(key, n, idx)
	}
}

func (n *node[K, V]) deleteFromChild(childIdx, keyIdx int) {
	if n.children[childIdx].isLeaf() {
		n.deleteFromLeafChild(childIdx, keyIdx)
		return
	}
	n.deleteFromInternalChild(childIdx, keyIdx)
}

// deleteFromLeafChild removes keys[keyIdx] of a leaf child while keeping the
// child at or above the minimum occupancy. In order of preference: remove
// directly, borrow through a sibling, merge with a sibling, or tombstone
// when merging would leave n itself underfull.
func (n *node[K, V]) deleteFromLeafChild(childIdx, keyIdx int) {
	child := n.children[childIdx]
	if !child.isLeaf() {
		panic("btree: leaf delete path used on an internal child")
	}
	minKeys := n.tree.minKeys()
	switch {
	case len(child.keys) > minKeys:
		child.removeAt(keyIdx)
	case n.borrowFromSibling(childIdx, keyIdx):
	case len(n.keys) > minKeys:
		n.mergeWithSibling(childIdx, keyIdx)
	default:
		child.tombstone(keyIdx)
	}
}

// borrowFromSibling removes the key and refills the child by rotating one
// key through the separator, left sibling first.
func (n *node[K, V]) borrowFromSibling(childIdx, keyIdx int) bool {
	child := n.children[childIdx]
	minKeys := n.tree.minKeys()

	if childIdx > 0 {
		left := n.children[childIdx-1]
		if len(left.keys) > minKeys {
			sep := childIdx - 1
			last := len(left.keys) - 1

			child.removeAt(keyIdx)
			child.keys = slices.Insert(child.keys, 0, n.keys[sep])
			child.slots = slices.Insert(child.slots, 0, n.slots[sep])
			n.keys[sep], n.slots[sep] = left.keys[last], left.slots[last]
			left.removeAt(last)
			return true
		}
	}

	if childIdx+1 < len(n.children) {
		right := n.children[childIdx+1]
		if len(right.keys) > minKeys {
			sep := childIdx

			child.removeAt(keyIdx)
			child.keys = append(child.keys, n.keys[sep])
			child.slots = append(child.slots, n.slots[sep])
			n.keys[sep], n.slots[sep] = right.keys[0], right.slots[0]
			right.removeAt(0)
			return true
		}
	}
	return false
}

// mergeWithSibling removes the key, then folds what is left of the child and
// the separating key into a sibling (left when there is one) and drops the
// child from n.
func (n *node[K, V]) mergeWithSibling(childIdx, keyIdx int) {
	child := n.children[childIdx]
	child.removeAt(keyIdx)

	if childIdx > 0 {
		left := n.children[childIdx-1]
		sep := childIdx - 1
		left.keys = append(append(left.keys, n.keys[sep]), child.keys...)
		left.slots = append(append(left.slots, n.slots[sep]), child.slots...)
		n.removeAt(sep)
		n.children = slices.Delete(n.children, childIdx, childIdx+1)
		return
	}

	right := n.children[childIdx+1]
	sep := childIdx
	right.keys = slices.Insert(right.keys, 0, append(child.keys, n.keys[sep])...)
	right.slots = slices.Insert(right.slots, 0, append(child.slots, n.slots[sep])...)
	n.removeAt(sep)
	n.children = slices.Delete(n.children, childIdx, childIdx+1)
}

// deleteFromInternalChild tombstones: keys are never physically removed
// from internal nodes.
func (n *node[K, V]) deleteFromInternalChild(childIdx, keyIdx int) {
	child := n.children[childIdx]
	if child.isLeaf() {
		panic("btree: internal delete path used on a leaf child")
	}
	child.tombstone(keyIdx)
}

func (n *node[K, V]) removeAt(i int) {
	n.keys = slices.Delete(n.keys, i, i+1)
	n.slots = slices.Delete(n.slots, i, i+1)
}

func (n *node[K, V]) tombstone(i int) {
	if n.slots[i].present {
		n.tree.tombstones++
	}
	n.slots[i] = slot[V]{}
}
