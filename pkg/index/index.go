package index

import (
	"cmp"
	"io"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-orderedindex/pkg/datastructs/bloom"
	"github.com/huynhanx03/go-orderedindex/pkg/datastructs/btree"
	"github.com/huynhanx03/go-orderedindex/pkg/hash"
	"github.com/huynhanx03/go-orderedindex/pkg/settings"
)

// Entry is a key and its live value.
type Entry[K, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Range bounds a Scan. A nil From starts at the first key, a nil To runs
// to the last one. To is exclusive. Limit <= 0 means no limit.
type Range[K any] struct {
	From  *K
	To    *K
	Limit int
}

// Stats describes the index and the tree underneath it.
type Stats struct {
	btree.TreeStats
	Compactions   int    `json:"compactions"`
	FilterBits    uint64 `json:"filter_bits"`
	FilterEntries uint64 `json:"filter_entries"`
}

// Index is an ordered key-value index that is safe for concurrent use. All
// access to the tree goes through a single RWMutex: lookups share it,
// mutations hold it exclusively.
type Index[K hash.Key, V any] struct {
	mu          sync.RWMutex
	tree        *btree.Tree[K, V]
	filter      *bloom.Bloom
	cfg         settings.Index
	log         *zap.Logger
	compactions int
}

// New returns an empty index configured by cfg.
func New[K hash.Key, V any](cfg settings.Index, log *zap.Logger) (*Index[K, V], error) {
	if cfg.Order < btree.MinOrder {
		return nil, errors.Errorf("index: order %d is below the minimum of %d", cfg.Order, btree.MinOrder)
	}
	if log == nil {
		log = zap.NewNop()
	}

	idx := &Index[K, V]{
		tree: btree.New[K, V](cfg.Order),
		cfg:  cfg,
		log:  log,
	}
	if cfg.BloomCapacity > 0 {
		f, err := bloom.New(cfg.BloomCapacity, cfg.BloomFPRate)
		if err != nil {
			return nil, errors.Wrap(err, "index: failed to create filter")
		}
		idx.filter = f
	}

	log.Info("index created",
		zap.Int("order", cfg.Order),
		zap.Float64("compact_ratio", cfg.CompactRatio),
		zap.Bool("filter", idx.filter != nil),
	)
	return idx, nil
}

// Get returns the live value stored for key.
func (x *Index[K, V]) Get(key K) (V, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if !x.mayContain(key) {
		var zero V
		return zero, false
	}
	return x.tree.Get(key)
}

// Contains reports whether key has a live value.
func (x *Index[K, V]) Contains(key K) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return x.mayContain(key) && x.tree.Contains(key)
}

// Put stores val under key, replacing any earlier value.
func (x *Index[K, V]) Put(key K, val V) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tree.Insert(key, val)
	if x.filter != nil {
		x.filter.Add(hash.KeyToHash(key))
		if x.filter.Saturated() {
			x.rebuildFilter()
		}
	}
}

// Delete removes key and reports whether it had a live value. It may
// compact the tree when tombstones pile up.
func (x *Index[K, V]) Delete(key K) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.tree.Delete(key) {
		return false
	}
	if x.shouldCompact() {
		x.compact("tombstone_ratio")
	}
	return true
}

// Scan returns the live entries inside r in ascending key order.
func (x *Index[K, V]) Scan(r Range[K]) []Entry[K, V] {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []Entry[K, V]
	fn := func(k K, v V) bool {
		out = append(out, Entry[K, V]{Key: k, Value: v})
		return r.Limit <= 0 || len(out) < r.Limit
	}
	switch {
	case r.From != nil && r.To != nil:
		if cmp.Less(*r.From, *r.To) {
			x.tree.AscendRange(*r.From, *r.To, fn)
		}
	case r.From != nil:
		x.tree.AscendGreaterOrEqual(*r.From, fn)
	case r.To != nil:
		x.tree.AscendLessThan(*r.To, fn)
	default:
		x.tree.Ascend(fn)
	}
	return out
}

// Len returns the number of live entries.
func (x *Index[K, V]) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.tree.Len()
}

// Tombstones returns the number of tombstoned slots in the tree.
func (x *Index[K, V]) Tombstones() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.tree.Tombstones()
}

// Stats returns stats about the index.
func (x *Index[K, V]) Stats() Stats {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := Stats{TreeStats: x.tree.Stats(), Compactions: x.compactions}
	if x.filter != nil {
		out.FilterBits = x.filter.TotalSize()
		out.FilterEntries = x.filter.Added()
	}
	return out
}

// Compact rebuilds the tree without tombstones and returns how many were
// reclaimed.
func (x *Index[K, V]) Compact() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.compact("manual")
}

// Verify checks the structural invariants of the tree.
func (x *Index[K, V]) Verify() error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return errors.Wrap(x.tree.Verify(), "index: verification failed")
}

// Dump writes the tree level by level, keys or values, tombstones included.
func (x *Index[K, V]) Dump(w io.Writer, values bool) error {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if values {
		return x.tree.PrintValues(w, true)
	}
	return x.tree.PrintKeys(w, true)
}

// Walk calls fn for every node of the tree in level order while holding
// the read lock.
func (x *Index[K, V]) Walk(fn func(btree.NodeInfo[K, V])) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	x.tree.Iterate(fn)
}

// Reset drops every entry.
func (x *Index[K, V]) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tree.Reset()
	if x.filter != nil {
		x.filter.Clear()
	}
}

func (x *Index[K, V]) mayContain(key K) bool {
	return x.filter == nil || x.filter.Has(hash.KeyToHash(key))
}

func (x *Index[K, V]) shouldCompact() bool {
	if x.cfg.CompactRatio <= 0 {
		return false
	}
	dead := x.tree.Tombstones()
	if dead == 0 || dead < x.cfg.MinTombstones {
		return false
	}
	slots := dead + x.tree.Len()
	return float64(dead)/float64(slots) >= x.cfg.CompactRatio
}

// compact must be called with the write lock held.
func (x *Index[K, V]) compact(trigger string) int {
	reclaimed := x.tree.Compact()
	if reclaimed == 0 {
		return 0
	}
	x.compactions++
	if x.filter != nil {
		x.rebuildFilter()
	}
	x.log.Info("index compacted",
		zap.String("trigger", trigger),
		zap.Int("reclaimed", reclaimed),
		zap.Int("live", x.tree.Len()),
		zap.Int("height", x.tree.Height()),
	)
	return reclaimed
}

// rebuildFilter re-sizes the filter for the live keys and drops the bits of
// deleted ones. It must be called with the write lock held.
func (x *Index[K, V]) rebuildFilter() {
	capacity := max(x.cfg.BloomCapacity, 2*uint64(x.tree.Len()))
	f, err := bloom.New(capacity, x.filter.FPRate())
	if err != nil {
		// Parameters were validated when the first filter was built.
		panic(errors.Wrap(err, "index: failed to rebuild filter"))
	}
	x.tree.Ascend(func(k K, _ V) bool {
		f.Add(hash.KeyToHash(k))
		return true
	})
	x.filter = f
	x.log.Debug("index filter rebuilt",
		zap.Uint64("capacity", capacity),
		zap.Uint64("bits", f.TotalSize()),
	)
}
