package btree

import "github.com/pkg/errors"

// Verify walks the whole tree and returns an error describing the first
// broken structural invariant, or nil.
//
// Checked: keys strictly increasing in each node and bounded by the
// separators above them, one slot per key, B-1 keys at most, exactly
// keys+1 children for internal nodes, every leaf at the same depth, and the
// live and tombstone counters matching the slots.
func (t *Tree[K, V]) Verify() error {
	v := verifier[K, V]{tree: t, leafDepth: -1}
	if err := v.walk(t.root, bound[K]{}, bound[K]{}, 0); err != nil {
		return err
	}
	if v.live != t.length {
		return errors.Errorf("btree: %d live slots, counter says %d", v.live, t.length)
	}
	if v.dead != t.tombstones {
		return errors.Errorf("btree: %d tombstoned slots, counter says %d", v.dead, t.tombstones)
	}
	return nil
}

type verifier[K, V any] struct {
	tree      *Tree[K, V]
	leafDepth int
	live      int
	dead      int
}

func (v *verifier[K, V]) walk(n *node[K, V], lo, hi bound[K], depth int) error {
	cmp := v.tree.compare
	if n.tree != v.tree {
		return errors.Errorf("btree: node at depth %d belongs to another tree", depth)
	}
	if len(n.slots) != len(n.keys) {
		return errors.Errorf("btree: node at depth %d has %d keys and %d slots", depth, len(n.keys), len(n.slots))
	}
	if len(n.keys) >= v.tree.order {
		return errors.Errorf("btree: node at depth %d has %d keys, order is %d", depth, len(n.keys), v.tree.order)
	}
	if depth > 0 && len(n.keys) == 0 {
		return errors.Errorf("btree: empty non-root node at depth %d", depth)
	}

	for i, k := range n.keys {
		if i > 0 && cmp(n.keys[i-1], k) >= 0 {
			return errors.Errorf("btree: keys out of order at depth %d, index %d", depth, i)
		}
		if lo.set && cmp(k, lo.key) <= 0 {
			return errors.Errorf("btree: key at depth %d, index %d is not above its lower separator", depth, i)
		}
		if hi.set && cmp(k, hi.key) >= 0 {
			return errors.Errorf("btree: key at depth %d, index %d is not below its upper separator", depth, i)
		}
		if n.slots[i].present {
			v.live++
		} else {
			v.dead++
		}
	}

	if n.isLeaf() {
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.Errorf("btree: leaves at depths %d and %d", v.leafDepth, depth)
		}
		return nil
	}

	if len(n.children) != len(n.keys)+1 {
		return errors.Errorf("btree: internal node at depth %d has %d keys and %d children", depth, len(n.keys), len(n.children))
	}
	for i, c := range n.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = at(n.keys[i-1])
		}
		if i < len(n.keys) {
			chi = at(n.keys[i])
		}
		if err := v.walk(c, clo, chi, depth+1); err != nil {
			return errors.Wrapf(err, "child %d", i)
		}
	}
	return nil
}
