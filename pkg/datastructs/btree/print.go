package btree

import (
	"fmt"
	"io"
	"strings"
)

// PrintKeys writes the keys of every node in level order, one line per
// level. Tombstoned slots are written as "*", or as the key followed by "*"
// when includeTombstones is set.
func (t *Tree[K, V]) PrintKeys(w io.Writer, includeTombstones bool) error {
	return t.printLevelOrder(w, func(n NodeInfo[K, V], i int) string {
		switch {
		case n.Present[i]:
			return fmt.Sprint(n.Keys[i])
		case includeTombstones:
			return fmt.Sprint(n.Keys[i]) + tombstoneMark
		default:
			return tombstoneMark
		}
	})
}

// PrintValues writes the values of every node in level order. Tombstoned
// slots have no value and are written as "*", or skipped entirely unless
// includeTombstones is set.
func (t *Tree[K, V]) PrintValues(w io.Writer, includeTombstones bool) error {
	return t.printLevelOrder(w, func(n NodeInfo[K, V], i int) string {
		switch {
		case n.Present[i]:
			return fmt.Sprint(n.Values[i])
		case includeTombstones:
			return tombstoneMark
		default:
			return ""
		}
	})
}

func (t *Tree[K, V]) printLevelOrder(w io.Writer, format func(NodeInfo[K, V], int) string) error {
	var sb strings.Builder
	level := 0
	first := true
	t.Iterate(func(n NodeInfo[K, V]) {
		if n.Depth > level {
			sb.WriteByte('\n')
			level = n.Depth
			first = true
		}
		if !first {
			sb.WriteByte(' ')
		}
		first = false

		parts := make([]string, 0, len(n.Keys))
		for i := range n.Keys {
			if s := format(n, i); s != "" {
				parts = append(parts, s)
			}
		}
		sb.WriteString("[" + strings.Join(parts, " ") + "]")
	})
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
