package btree

const (
	// MinOrder is the smallest branching factor that keeps a split from
	// producing an empty sibling.
	MinOrder = 3

	// DefaultOrder is used by callers that do not pick an order.
	DefaultOrder = 32

	// tombstoneMark is how a tombstoned slot is rendered by the printers.
	tombstoneMark = "*"
)
