package btree

// Compact rebuilds the tree from its live entries, dropping every tombstone.
// It returns the number of tombstones reclaimed.
func (t *Tree[K, V]) Compact() int {
	reclaimed := t.tombstones
	if reclaimed == 0 {
		return 0
	}

	keys := make([]K, 0, t.length)
	vals := make([]V, 0, t.length)
	t.Ascend(func(k K, v V) bool {
		keys = append(keys, k)
		vals = append(vals, v)
		return true
	})

	t.Reset()
	for i := range keys {
		t.Insert(keys[i], vals[i])
	}
	return reclaimed
}
