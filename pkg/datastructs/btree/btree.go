// Package btree implements an in-memory ordered index as a B-Tree of
// configurable order.
//
// Restructuring is always performed by the node that owns the affected
// child pointers: a full node asks its parent to split it, and a node that
// loses a key asks its parent to borrow, merge or tombstone on its behalf.
// Nodes keep no parent pointers; the parent is recomputed with a root to
// leaf walk whenever it is needed.
//
// Deletes that cannot be repaired without cascading leave a tombstone: the
// key keeps its slot but reads as absent. Compact rebuilds the tree without
// them.
//
// A Tree is not safe for concurrent use.
package btree

import (
	"cmp"
	"fmt"
)

// Tree is a B-Tree mapping keys of type K to values of type V.
type Tree[K, V any] struct {
	root       *node[K, V]
	order      int
	compare    func(a, b K) int
	length     int
	tombstones int
}

// New returns an empty tree of the given order for naturally ordered keys.
func New[K cmp.Ordered, V any](order int) *Tree[K, V] {
	return NewFunc[K, V](order, cmp.Compare[K])
}

// NewFunc returns an empty tree of the given order that orders keys with
// compare, which must return a negative number, zero or a positive number
// as a sorts before, equal to or after b.
func NewFunc[K, V any](order int, compare func(a, b K) int) *Tree[K, V] {
	if order < MinOrder {
		panic(fmt.Sprintf("btree: order %d is below the minimum of %d", order, MinOrder))
	}
	if compare == nil {
		panic("btree: nil compare function")
	}
	t := &Tree[K, V]{order: order, compare: compare}
	t.Reset()
	return t
}

// Reset drops every entry. The order and compare function are kept.
func (t *Tree[K, V]) Reset() {
	t.root = t.newNode()
	t.length = 0
	t.tombstones = 0
}

func (t *Tree[K, V]) newNode() *node[K, V] {
	// Capacity is B: a node briefly holds B keys before it is split.
	return &node[K, V]{
		tree:  t,
		keys:  make([]K, 0, t.order),
		slots: make([]slot[V], 0, t.order),
	}
}

// minKeys is the occupancy every non-root node keeps: ceil(B/2) - 1.
func (t *Tree[K, V]) minKeys() int {
	return (t.order+1)/2 - 1
}

// Order returns the maximum number of children of a node.
func (t *Tree[K, V]) Order() int {
	return t.order
}

// Len returns the number of live entries.
func (t *Tree[K, V]) Len() int {
	return t.length
}

// Tombstones returns the number of slots currently holding a tombstone.
func (t *Tree[K, V]) Tombstones() int {
	return t.tombstones
}

// Height returns the number of levels, 1 for a tree that is a single leaf.
func (t *Tree[K, V]) Height() int {
	h := 1
	for n := t.root; !n.isLeaf(); n = n.children[0] {
		h++
	}
	return h
}

// Contains reports whether key maps to a live value.
func (t *Tree[K, V]) Contains(key K) bool {
	return t.root.contains(key)
}

// Get returns the value stored for key. The boolean is false when the key
// is absent or tombstoned.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	s := t.root.get(key)
	return s.val, s.present
}

// Insert stores val under key, replacing any previous value and clearing a
// tombstone left by an earlier delete.
func (t *Tree[K, V]) Insert(key K, val V) {
	t.root.insert(key, val)
}

// Delete removes key and reports whether a live entry was removed. Deleting
// an absent or already tombstoned key does nothing. The entry may be
// physically removed or tombstoned; either way it reads as absent.
func (t *Tree[K, V]) Delete(key K) bool {
	return t.root.deleteKey(key, nil, -1)
}

// parent returns the node whose child owns key. It is nil when the root
// owns key or when no node does. The result is invalidated by any change
// to the tree.
func (t *Tree[K, V]) parent(key K) *node[K, V] {
	var p *node[K, V]
	c := t.root
	for {
		idx, owns := c.find(key)
		if owns {
			return p
		}
		if c.isLeaf() {
			return nil
		}
		p, c = c, c.children[idx]
	}
}

// splitRoot replaces the full root with a fresh one holding it as its only
// child, then lets the new root split it like any other child.
func (t *Tree[K, V]) splitRoot() {
	old := t.root
	t.root = t.newNode()
	t.root.children = append(t.root.children, old)
	t.root.splitChild(old.midKey(), old.midSlot())
}

// deleteFromRoot tombstones: the root has no parent to rebalance it.
func (t *Tree[K, V]) deleteFromRoot(keyIdx int) {
	t.root.tombstone(keyIdx)
}
