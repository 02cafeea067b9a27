package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/huynhanx03/go-orderedindex/pkg/datastructs/btree"
	"github.com/huynhanx03/go-orderedindex/pkg/index"
)

// Visualizer draws an index one tree level per line. Live keys are green,
// tombstones red, and internal nodes bold.
type Visualizer struct {
	idx       *index.Index[string, string]
	live      *color.Color
	tombstone *color.Color
	internal  *color.Color
}

// NewVisualizer returns a visualizer for idx. With colored false it writes
// plain text.
func NewVisualizer(idx *index.Index[string, string], colored bool) *Visualizer {
	v := &Visualizer{
		idx:       idx,
		live:      color.New(color.FgGreen),
		tombstone: color.New(color.FgRed),
		internal:  color.New(color.Bold),
	}
	for _, c := range []*color.Color{v.live, v.tombstone, v.internal} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return v
}

// Render writes every level of the tree to w. With values set it prints
// values in place of keys.
func (v *Visualizer) Render(w io.Writer, values bool) error {
	var (
		b     strings.Builder
		depth = -1
	)
	v.idx.Walk(func(n btree.NodeInfo[string, string]) {
		if n.Depth != depth {
			if depth >= 0 {
				b.WriteByte('\n')
			}
			depth = n.Depth
			fmt.Fprintf(&b, "L%d:", depth)
		}
		b.WriteByte(' ')
		v.node(&b, n, values)
	})
	if depth >= 0 {
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (v *Visualizer) node(b *strings.Builder, n btree.NodeInfo[string, string], values bool) {
	open, end := "[", "]"
	if !n.Leaf {
		open, end = v.internal.Sprint(open), v.internal.Sprint(end)
	}
	b.WriteString(open)
	for i, k := range n.Keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch {
		case !n.Present[i]:
			b.WriteString(v.tombstone.Sprint(k + "*"))
		case values:
			b.WriteString(v.live.Sprint(n.Values[i]))
		default:
			b.WriteString(v.live.Sprint(k))
		}
	}
	b.WriteString(end)
}
