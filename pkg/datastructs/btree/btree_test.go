package btree

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	gbtree "github.com/google/btree"
)

// doubleSplitKeys, inserted in order into an order-4 tree, split a leaf
// three times and then cascade a split through the root.
var doubleSplitKeys = []int{100, 200, 300, 400, 150, 125, 140, 130, 120, 110}

const doubleSplitShape = `[150]
[120 130] [300]
[100 110] [125] [140] [200] [400]
`

func newDoubleSplitTree(t *testing.T) *Tree[int, int] {
	t.Helper()
	tree := New[int, int](4)
	for _, k := range doubleSplitKeys {
		tree.Insert(k, k+100)
	}
	if got := shape(t, tree); got != doubleSplitShape {
		t.Fatalf("unexpected starting shape:\n%s", got)
	}
	return tree
}

func shape[K, V any](t *testing.T, tree *Tree[K, V]) string {
	t.Helper()
	var buf bytes.Buffer
	if err := tree.PrintKeys(&buf, false); err != nil {
		t.Fatalf("PrintKeys() = %v", err)
	}
	return buf.String()
}

func mustVerify[K, V any](t *testing.T, tree *Tree[K, V]) {
	t.Helper()
	if err := tree.Verify(); err != nil {
		t.Fatalf("Verify() = %v", err)
	}
}

// =============================================================================
// Constructor Tests: New(), NewFunc()
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		order int
	}{
		{"min_order", MinOrder},
		{"order_4", 4},
		{"default_order", DefaultOrder},
		{"large_order", 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New[int, string](tt.order)
			if tree == nil {
				t.Fatal("New() returned nil")
			}
			if tree.Order() != tt.order {
				t.Errorf("Order() = %d, want %d", tree.Order(), tt.order)
			}
			if tree.Len() != 0 || tree.Tombstones() != 0 {
				t.Errorf("fresh tree Len() = %d, Tombstones() = %d", tree.Len(), tree.Tombstones())
			}
			if tree.Height() != 1 {
				t.Errorf("Height() = %d, want 1", tree.Height())
			}
			mustVerify(t, tree)
		})
	}
}

func TestNew_PanicOnSmallOrder(t *testing.T) {
	for _, order := range []int{-1, 0, 1, 2} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("New(%d) should panic", order)
				}
			}()
			New[int, int](order)
		}()
	}
}

func TestNewFunc_PanicOnNilCompare(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewFunc(nil) should panic")
		}
	}()
	NewFunc[int, int](4, nil)
}

func TestNewFunc_CustomOrder(t *testing.T) {
	tree := NewFunc[string, int](3, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	tree.Insert("Bravo", 1)
	tree.Insert("alpha", 2)
	tree.Insert("BRAVO", 3)

	if tree.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tree.Len())
	}
	if got, _ := tree.Get("bravo"); got != 3 {
		t.Errorf("Get(bravo) = %d, want 3", got)
	}

	var keys []string
	tree.Ascend(func(k string, _ int) bool {
		keys = append(keys, k)
		return true
	})
	if strings.Join(keys, ",") != "alpha,Bravo" {
		t.Errorf("Ascend keys = %v", keys)
	}
}

// =============================================================================
// Get / Contains Tests
// =============================================================================

func TestGet(t *testing.T) {
	tree := New[int, string](4)
	tree.Insert(1, "one")
	tree.Insert(5, "five")
	tree.Insert(8, "eight")
	tree.Insert(4, "four")
	tree.Insert(7, "seven")

	tests := []struct {
		name   string
		key    int
		want   string
		wantOk bool
	}{
		{"existing_key", 4, "four", true},
		{"root_key", 5, "five", true},
		{"nonexistent_between", 6, "", false},
		{"nonexistent_below", 0, "", false},
		{"nonexistent_above", 9, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tree.Get(tt.key)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("Get(%d) = %q, %v, want %q, %v", tt.key, got, ok, tt.want, tt.wantOk)
			}
			if c := tree.Contains(tt.key); c != tt.wantOk {
				t.Errorf("Contains(%d) = %v, want %v", tt.key, c, tt.wantOk)
			}
		})
	}
}

func TestGet_EmptyTree(t *testing.T) {
	tree := New[int, int](4)
	if _, ok := tree.Get(100); ok {
		t.Error("Get on empty tree reported a value")
	}
	if tree.Contains(100) {
		t.Error("Contains on empty tree = true")
	}
}

// =============================================================================
// Insert Tests
// =============================================================================

func TestInsert_DoubleSplit(t *testing.T) {
	tree := newDoubleSplitTree(t)

	for _, k := range doubleSplitKeys {
		if !tree.Contains(k) {
			t.Errorf("Contains(%d) = false", k)
		}
		if got, ok := tree.Get(k); !ok || got != k+100 {
			t.Errorf("Get(%d) = %d, %v, want %d", k, got, ok, k+100)
		}
	}
	if tree.Height() != 3 {
		t.Errorf("Height() = %d, want 3", tree.Height())
	}
	if tree.Len() != len(doubleSplitKeys) {
		t.Errorf("Len() = %d, want %d", tree.Len(), len(doubleSplitKeys))
	}
	mustVerify(t, tree)
}

func TestInsert_Steps(t *testing.T) {
	tree := New[int, int](4)
	steps := []struct {
		key  int
		want string
	}{
		{100, "[100]\n"},
		{200, "[100 200]\n"},
		{300, "[100 200 300]\n"},
		{400, "[300]\n[100 200] [400]\n"},
		{150, "[300]\n[100 150 200] [400]\n"},
		{125, "[150 300]\n[100 125] [200] [400]\n"},
		{140, "[150 300]\n[100 125 140] [200] [400]\n"},
		{130, "[130 150 300]\n[100 125] [140] [200] [400]\n"},
		{120, "[130 150 300]\n[100 120 125] [140] [200] [400]\n"},
	}
	for _, s := range steps {
		tree.Insert(s.key, s.key)
		if got := shape(t, tree); got != s.want {
			t.Fatalf("after Insert(%d):\n%s\nwant:\n%s", s.key, got, s.want)
		}
		mustVerify(t, tree)
	}
}

func TestInsert_Overwrite(t *testing.T) {
	tree := New[int, string](3)
	for i := 0; i < 50; i++ {
		tree.Insert(i, "first")
	}
	for i := 0; i < 50; i++ {
		tree.Insert(i, "second")
	}

	if tree.Len() != 50 {
		t.Errorf("Len() = %d, want 50", tree.Len())
	}
	for i := 0; i < 50; i++ {
		if got, _ := tree.Get(i); got != "second" {
			t.Errorf("Get(%d) = %q, want second", i, got)
		}
	}
	mustVerify(t, tree)
}

func TestInsert_Permutation(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8, 16, 64} {
		rng := rand.New(rand.NewPCG(uint64(order), 7))
		perm := rng.Perm(1000)

		tree := New[int, int](order)
		for _, v := range perm {
			tree.Insert(v, v+100)
		}
		for _, v := range perm {
			if got, ok := tree.Get(v); !ok || got != v+100 {
				t.Fatalf("order %d: Get(%d) = %d, %v", order, v, got, ok)
			}
		}
		if tree.Contains(1001) {
			t.Errorf("order %d: Contains(1001) = true", order)
		}
		mustVerify(t, tree)
	}
}

// =============================================================================
// Delete Tests
// =============================================================================

func TestDelete_Restructuring(t *testing.T) {
	tests := []struct {
		name           string
		prepare        func(*Tree[int, int])
		key            int
		want           string
		wantTombstones int
	}{
		{
			name: "remove_from_leaf_with_spare_keys",
			key:  110,
			want: "[150]\n[120 130] [300]\n[100] [125] [140] [200] [400]\n",
		},
		{
			name: "borrow_from_left_sibling",
			key:  125,
			want: "[150]\n[110 130] [300]\n[100] [120] [140] [200] [400]\n",
		},
		{
			name: "borrow_from_right_sibling",
			prepare: func(tree *Tree[int, int]) {
				tree.Insert(127, 227)
				tree.Delete(110)
			},
			key:  100,
			want: "[150]\n[125 130] [300]\n[120] [127] [140] [200] [400]\n",
		},
		{
			name: "merge_with_left_sibling",
			key:  140,
			want: "[150]\n[120] [300]\n[100 110] [125 130] [200] [400]\n",
		},
		{
			name:    "merge_with_right_sibling",
			prepare: func(tree *Tree[int, int]) { tree.Delete(110) },
			key:     100,
			want:    "[150]\n[130] [300]\n[120 125] [140] [200] [400]\n",
		},
		{
			name:           "tombstone_when_parent_at_minimum",
			key:            200,
			want:           "[150]\n[120 130] [300]\n[100 110] [125] [140] [*] [400]\n",
			wantTombstones: 1,
		},
		{
			name:           "tombstone_internal_key",
			key:            130,
			want:           "[150]\n[120 *] [300]\n[100 110] [125] [140] [200] [400]\n",
			wantTombstones: 1,
		},
		{
			name:           "tombstone_root_key",
			key:            150,
			want:           "[*]\n[120 130] [300]\n[100 110] [125] [140] [200] [400]\n",
			wantTombstones: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newDoubleSplitTree(t)
			if tt.prepare != nil {
				tt.prepare(tree)
			}
			before := tree.Len()

			if !tree.Delete(tt.key) {
				t.Fatalf("Delete(%d) = false", tt.key)
			}
			if got := shape(t, tree); got != tt.want {
				t.Errorf("shape after Delete(%d):\n%s\nwant:\n%s", tt.key, got, tt.want)
			}
			if tree.Tombstones() != tt.wantTombstones {
				t.Errorf("Tombstones() = %d, want %d", tree.Tombstones(), tt.wantTombstones)
			}
			if tree.Len() != before-1 {
				t.Errorf("Len() = %d, want %d", tree.Len(), before-1)
			}
			if tree.Contains(tt.key) {
				t.Errorf("Contains(%d) = true after delete", tt.key)
			}
			if _, ok := tree.Get(tt.key); ok {
				t.Errorf("Get(%d) still reports a value", tt.key)
			}
			mustVerify(t, tree)
		})
	}
}

func TestDelete_Absent(t *testing.T) {
	tree := newDoubleSplitTree(t)

	for _, k := range []int{0, 105, 999} {
		if tree.Delete(k) {
			t.Errorf("Delete(%d) = true for absent key", k)
		}
	}
	if got := shape(t, tree); got != doubleSplitShape {
		t.Errorf("absent deletes changed the tree:\n%s", got)
	}
}

func TestDelete_Tombstoned(t *testing.T) {
	tree := newDoubleSplitTree(t)
	tree.Delete(200)

	if tree.Delete(200) {
		t.Error("second Delete(200) = true")
	}
	if tree.Tombstones() != 1 {
		t.Errorf("Tombstones() = %d, want 1", tree.Tombstones())
	}
}

func TestDelete_SingleLeafRoot(t *testing.T) {
	tree := New[int, int](4)
	tree.Insert(1, 1)
	tree.Insert(2, 2)

	tree.Delete(1)
	if got := shape(t, tree); got != "[* 2]\n" {
		t.Errorf("shape = %q", got)
	}
	if tree.Tombstones() != 1 || tree.Len() != 1 {
		t.Errorf("Tombstones() = %d, Len() = %d", tree.Tombstones(), tree.Len())
	}
}

func TestInsert_ClearsTombstone(t *testing.T) {
	tree := newDoubleSplitTree(t)
	tree.Delete(200)

	tree.Insert(200, 7)
	if got, ok := tree.Get(200); !ok || got != 7 {
		t.Errorf("Get(200) = %d, %v, want 7", got, ok)
	}
	if tree.Tombstones() != 0 {
		t.Errorf("Tombstones() = %d, want 0", tree.Tombstones())
	}
	if tree.Len() != len(doubleSplitKeys) {
		t.Errorf("Len() = %d, want %d", tree.Len(), len(doubleSplitKeys))
	}
	mustVerify(t, tree)
}

func TestDelete_AllThenReinsert(t *testing.T) {
	for _, order := range []int{3, 4, 7, 32} {
		rng := rand.New(rand.NewPCG(uint64(order), 99))
		n := 2000
		tree := New[int, int](order)
		for _, k := range rng.Perm(n) {
			tree.Insert(k, k*2)
		}

		for _, k := range rng.Perm(n) {
			if !tree.Delete(k) {
				t.Fatalf("order %d: Delete(%d) = false", order, k)
			}
		}
		for k := 0; k < n; k++ {
			if tree.Contains(k) {
				t.Fatalf("order %d: Contains(%d) = true after deleting all", order, k)
			}
		}
		if tree.Len() != 0 {
			t.Errorf("order %d: Len() = %d, want 0", order, tree.Len())
		}
		mustVerify(t, tree)

		for _, k := range rng.Perm(n) {
			tree.Insert(k, k*3)
		}
		for k := 0; k < n; k++ {
			if got, ok := tree.Get(k); !ok || got != k*3 {
				t.Fatalf("order %d: Get(%d) = %d, %v after reinsert", order, k, got, ok)
			}
		}
		if tree.Tombstones() != 0 {
			t.Errorf("order %d: Tombstones() = %d after reinserting every key", order, tree.Tombstones())
		}
		mustVerify(t, tree)
	}
}

// =============================================================================
// Cross-validation against a reference ordered map
// =============================================================================

type refEntry struct {
	key, val int
}

func TestRandomOps_MatchReference(t *testing.T) {
	tests := []struct {
		name   string
		order  int
		ops    int
		maxKey int
	}{
		{"order_3_dense", 3, 10_000, 500},
		{"order_4_dense", 4, 10_000, 2_000},
		{"order_4_sparse", 4, 10_000, 1_000_000},
		{"order_5_dense", 5, 10_000, 1_000},
		{"order_16_dense", 16, 10_000, 3_000},
		{"order_64_sparse", 64, 10_000, 1_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(uint64(tt.order), uint64(tt.maxKey)))
			tree := New[int, int](tt.order)
			ref := gbtree.NewG[refEntry](8, func(a, b refEntry) bool { return a.key < b.key })

			for i := 0; i < tt.ops; i++ {
				k := rng.IntN(tt.maxKey)
				switch op := rng.IntN(10); {
				case op < 5:
					tree.Insert(k, i)
					ref.ReplaceOrInsert(refEntry{k, i})
				case op < 8:
					_, want := ref.Delete(refEntry{key: k})
					if got := tree.Delete(k); got != want {
						t.Fatalf("op %d: Delete(%d) = %v, want %v", i, k, got, want)
					}
				default:
					want, wantOk := ref.Get(refEntry{key: k})
					got, ok := tree.Get(k)
					if ok != wantOk || (ok && got != want.val) {
						t.Fatalf("op %d: Get(%d) = %d, %v, want %d, %v", i, k, got, ok, want.val, wantOk)
					}
					if tree.Contains(k) != wantOk {
						t.Fatalf("op %d: Contains(%d) = %v", i, k, !wantOk)
					}
				}
				if tree.Len() != ref.Len() {
					t.Fatalf("op %d: Len() = %d, want %d", i, tree.Len(), ref.Len())
				}
				if i%500 == 0 {
					mustVerify(t, tree)
				}
			}

			mustVerify(t, tree)
			if u := tree.Stats().Underfull; u != 0 {
				t.Errorf("Stats().Underfull = %d, want 0", u)
			}

			var got []refEntry
			tree.Ascend(func(k, v int) bool {
				got = append(got, refEntry{k, v})
				return true
			})
			i := 0
			ref.Ascend(func(e refEntry) bool {
				if i >= len(got) || got[i] != e {
					t.Fatalf("Ascend mismatch at %d: want %+v", i, e)
				}
				i++
				return true
			})
			if i != len(got) {
				t.Errorf("Ascend yielded %d entries, want %d", len(got), i)
			}
		})
	}
}

// =============================================================================
// Reset Tests
// =============================================================================

func TestReset(t *testing.T) {
	tree := newDoubleSplitTree(t)
	tree.Delete(200)

	tree.Reset()
	if tree.Len() != 0 || tree.Tombstones() != 0 || tree.Height() != 1 {
		t.Errorf("after Reset: Len() = %d, Tombstones() = %d, Height() = %d",
			tree.Len(), tree.Tombstones(), tree.Height())
	}
	if tree.Contains(100) {
		t.Error("after Reset, Contains(100) = true")
	}

	tree.Insert(60, 600)
	if got, _ := tree.Get(60); got != 600 {
		t.Errorf("after Reset->Insert, Get(60) = %d, want 600", got)
	}
}

// =============================================================================
// Parent Tests
// =============================================================================

func TestParent(t *testing.T) {
	tree := newDoubleSplitTree(t)

	tests := []struct {
		name     string
		key      int
		wantNil  bool
		wantKeys []int
	}{
		{"root_owned", 150, true, nil},
		{"absent", 105, true, nil},
		{"internal_owned", 130, false, []int{150}},
		{"leaf_owned", 125, false, []int{120, 130}},
		{"right_leaf_owned", 400, false, []int{300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tree.parent(tt.key)
			if tt.wantNil {
				if p != nil {
					t.Errorf("parent(%d) = %v, want nil", tt.key, p.keys)
				}
				return
			}
			if p == nil {
				t.Fatalf("parent(%d) = nil", tt.key)
			}
			if len(p.keys) != len(tt.wantKeys) {
				t.Fatalf("parent(%d).keys = %v, want %v", tt.key, p.keys, tt.wantKeys)
			}
			for i := range p.keys {
				if p.keys[i] != tt.wantKeys[i] {
					t.Errorf("parent(%d).keys = %v, want %v", tt.key, p.keys, tt.wantKeys)
				}
			}
		})
	}
}
