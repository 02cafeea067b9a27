// Package bench times the ordered index against a reference ordered map for
// several orders, checking every answer along the way.
package bench

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	gbtree "github.com/google/btree"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-orderedindex/pkg/datastructs/btree"
	"github.com/huynhanx03/go-orderedindex/pkg/settings"
)

const (
	// referenceDegree is the google/btree degree used for the baseline.
	referenceDegree = 32
	// checkEvery is how many operations run between context checks.
	checkEvery = 4096
)

// Result is the outcome for one structure.
type Result struct {
	Name     string        `json:"name"`
	Order    int           `json:"order,omitempty"`
	Insert   time.Duration `json:"insert"`
	Read     time.Duration `json:"read"`
	Checksum int64         `json:"checksum"`
	Height   int           `json:"height,omitempty"`
	Nodes    int           `json:"nodes,omitempty"`
}

// Report holds the baseline followed by one result per order.
type Report struct {
	Baseline Result   `json:"baseline"`
	Results  []Result `json:"results"`
}

type pair struct {
	key, val int
}

func lessPair(a, b pair) bool { return a.key < b.key }

type workload struct {
	keys    []int
	queries []int
}

func newWorkload(cfg settings.Bench) workload {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	w := workload{
		keys:    make([]int, cfg.Elements),
		queries: make([]int, cfg.NumQueries),
	}
	// Keys are not necessarily distinct.
	for i := range w.keys {
		w.keys[i] = rng.IntN(cfg.MaxValue)
	}
	for i := range w.queries {
		w.queries[i] = rng.IntN(cfg.MaxValue + 1)
	}
	return w
}

// Run builds the workload described by cfg, times the reference map, then
// times one tree per order concurrently. Any answer that differs from the
// reference fails the run.
func Run(ctx context.Context, cfg settings.Bench, log *zap.Logger) (Report, error) {
	if err := settings.ValidateBench(cfg); err != nil {
		return Report{}, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := newWorkload(cfg)
	ref, baseline := runReference(w)
	log.Info("bench baseline",
		zap.Duration("insert", baseline.Insert),
		zap.Duration("read", baseline.Read),
		zap.Int("distinct_keys", ref.Len()),
	)

	results := make([]Result, len(cfg.Orders))
	g, ctx := errgroup.WithContext(ctx)
	for i, order := range cfg.Orders {
		g.Go(func() error {
			res, err := runTree(ctx, order, w, ref, baseline.Checksum)
			if err != nil {
				return errors.Wrapf(err, "order %d", order)
			}
			results[i] = res
			log.Info("bench order done",
				zap.Int("order", order),
				zap.Duration("insert", res.Insert),
				zap.Duration("read", res.Read),
				zap.Int("height", res.Height),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	slices.SortStableFunc(results, func(a, b Result) int { return a.Order - b.Order })
	return Report{Baseline: baseline, Results: results}, nil
}

func runReference(w workload) (*gbtree.BTreeG[pair], Result) {
	ref := gbtree.NewG(referenceDegree, lessPair)

	start := time.Now()
	for _, k := range w.keys {
		ref.ReplaceOrInsert(pair{k, k})
	}
	res := Result{Name: "google/btree", Insert: time.Since(start)}

	start = time.Now()
	for _, q := range w.queries {
		if p, ok := ref.Get(pair{key: q}); ok {
			res.Checksum += int64(p.val)
		}
	}
	res.Read = time.Since(start)
	return ref, res
}

func runTree(ctx context.Context, order int, w workload, ref *gbtree.BTreeG[pair], checksum int64) (Result, error) {
	tree := btree.New[int, int](order)
	res := Result{Name: "btree", Order: order}

	start := time.Now()
	for i, k := range w.keys {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		tree.Insert(k, k)
	}
	res.Insert = time.Since(start)

	start = time.Now()
	for i, q := range w.queries {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if v, ok := tree.Get(q); ok {
			res.Checksum += int64(v)
		}
	}
	res.Read = time.Since(start)

	if res.Checksum != checksum {
		return Result{}, errors.Errorf("read checksum %d, reference %d", res.Checksum, checksum)
	}
	if tree.Len() != ref.Len() {
		return Result{}, errors.Errorf("%d entries, reference has %d", tree.Len(), ref.Len())
	}
	var mismatch error
	ref.Ascend(func(p pair) bool {
		if v, ok := tree.Get(p.key); !ok || v != p.val {
			mismatch = errors.Errorf("key %d: got %d, %v, reference %d", p.key, v, ok, p.val)
			return false
		}
		return true
	})
	if mismatch != nil {
		return Result{}, mismatch
	}
	if err := tree.Verify(); err != nil {
		return Result{}, err
	}

	stats := tree.Stats()
	res.Height, res.Nodes = stats.Height, stats.NumNodes
	return res, nil
}

// Print renders r as a table.
func Print(out io.Writer, r Report) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Structure", "Order", "Insert", "Read", "Checksum", "Height", "Nodes"})
	row := func(res Result) []string {
		order, height, nodes := "-", "-", "-"
		if res.Order > 0 {
			order = strconv.Itoa(res.Order)
			height = strconv.Itoa(res.Height)
			nodes = strconv.Itoa(res.Nodes)
		}
		return []string{
			res.Name, order,
			fmt.Sprint(res.Insert.Round(time.Microsecond)),
			fmt.Sprint(res.Read.Round(time.Microsecond)),
			strconv.FormatInt(res.Checksum, 10),
			height, nodes,
		}
	}
	table.Append(row(r.Baseline))
	for _, res := range r.Results {
		table.Append(row(res))
	}
	table.Render()
}
