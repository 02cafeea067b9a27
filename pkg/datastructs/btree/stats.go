package btree

// TreeStats describes the shape of a tree.
type TreeStats struct {
	Order         int     `json:"order"`
	Height        int     `json:"height"`
	NumNodes      int     `json:"num_nodes"`
	NumLeaves     int     `json:"num_leaves"`
	NumSlots      int     `json:"num_slots"`      // Keys held by nodes, tombstones included.
	NumLive       int     `json:"num_live"`       // Slots with a value.
	NumTombstones int     `json:"num_tombstones"` // Slots without one.
	Underfull     int     `json:"underfull"`      // Non-root nodes below ceil(B/2)-1 keys.
	Occupancy     float64 `json:"occupancy"`      // Derived. Percentage of the B-1 slots per node in use.
}

// Stats returns stats about the tree.
func (t *Tree[K, V]) Stats() TreeStats {
	out := TreeStats{Order: t.order, Height: t.Height()}
	minKeys := t.minKeys()
	t.Iterate(func(n NodeInfo[K, V]) {
		out.NumNodes++
		if n.Leaf {
			out.NumLeaves++
		}
		if n.Depth > 0 && len(n.Keys) < minKeys {
			out.Underfull++
		}
		out.NumSlots += len(n.Keys)
		for _, ok := range n.Present {
			if ok {
				out.NumLive++
			}
		}
	})
	out.NumTombstones = out.NumSlots - out.NumLive
	out.Occupancy = 100.0 * float64(out.NumSlots) / float64((t.order-1)*out.NumNodes)
	return out
}
