// Package cli is a line-oriented shell over a string index.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faker/faker/v4"

	"github.com/huynhanx03/go-orderedindex/pkg/index"
)

const helpText = `
Ordered Index CLI

Available Commands:
  SET <key> <val>       Insert or overwrite a key-value pair
  GET <key>             Retrieve the value for key
  DEL <key>             Remove key
  SCAN [from [to]]      List live entries in key order, to is exclusive
  STATS                 Show tree and index stats
  PRINT [values]        Draw the tree level by level
  COMPACT               Rebuild the tree without tombstones
  CHECK                 Verify the tree invariants
  SEED <n>              Insert n random entries
  HELP                  Show this help
  EXIT                  Terminate this session
`

// Options tune a Cli.
type Options struct {
	Prompt bool
	Color  bool
}

// Cli reads commands line by line and applies them to an index.
type Cli struct {
	scanner    *bufio.Scanner
	out        io.Writer
	idx        *index.Index[string, string]
	visualizer *Visualizer
	opts       Options
}

// NewCli returns a shell reading from in and writing to out.
func NewCli(in io.Reader, out io.Writer, idx *index.Index[string, string], opts Options) *Cli {
	return &Cli{
		scanner:    bufio.NewScanner(in),
		out:        out,
		idx:        idx,
		visualizer: NewVisualizer(idx, opts.Color),
		opts:       opts,
	}
}

// Start runs until EXIT or the end of input.
func (c *Cli) Start() error {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return nil
		}
		c.printPrompt()
	}
	return c.scanner.Err()
}

func (c *Cli) printHelp() {
	fmt.Fprint(c.out, helpText)
}

func (c *Cli) printPrompt() {
	if c.opts.Prompt {
		fmt.Fprint(c.out, "> ")
	}
}

// processInput runs one line and reports whether the session continues.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command, args := strings.ToLower(fields[0]), fields[1:]
	switch command {
	default:
		fmt.Fprintf(c.out, "Unknown command %q\n", command)
	case "set":
		c.processSetCommand(args)
	case "get":
		c.processGetCommand(args)
	case "del":
		c.processDeleteCommand(args)
	case "scan":
		c.processScanCommand(args)
	case "stats":
		c.processStatsCommand()
	case "print":
		c.processPrintCommand(args)
	case "compact":
		fmt.Fprintf(c.out, "Reclaimed %d tombstones.\n", c.idx.Compact())
	case "check":
		c.processCheckCommand()
	case "seed":
		c.processSeedCommand(args)
	case "help":
		c.printHelp()
	case "exit":
		return false
	}
	return true
}

func (c *Cli) processSetCommand(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: SET <key> <value>")
		return
	}
	c.idx.Put(args[0], strings.Join(args[1:], " "))
	fmt.Fprintln(c.out, "OK")
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: GET <key>")
		return
	}
	val, ok := c.idx.Get(args[0])
	if !ok {
		fmt.Fprintln(c.out, "Key not found.")
		return
	}
	fmt.Fprintln(c.out, val)
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: DEL <key>")
		return
	}
	if !c.idx.Delete(args[0]) {
		fmt.Fprintln(c.out, "Key not found.")
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Cli) processScanCommand(args []string) {
	if len(args) > 2 {
		fmt.Fprintln(c.out, "Usage: SCAN [from [to]]")
		return
	}
	var r index.Range[string]
	if len(args) > 0 {
		r.From = &args[0]
	}
	if len(args) > 1 {
		r.To = &args[1]
	}

	entries := c.idx.Scan(r)
	for _, e := range entries {
		fmt.Fprintf(c.out, "%s = %s\n", e.Key, e.Value)
	}
	fmt.Fprintf(c.out, "(%d entries)\n", len(entries))
}

func (c *Cli) processStatsCommand() {
	s := c.idx.Stats()
	fmt.Fprintf(c.out, "order=%d height=%d nodes=%d leaves=%d\n", s.Order, s.Height, s.NumNodes, s.NumLeaves)
	fmt.Fprintf(c.out, "live=%d tombstones=%d occupancy=%.1f%% underfull=%d\n", s.NumLive, s.NumTombstones, s.Occupancy, s.Underfull)
	fmt.Fprintf(c.out, "compactions=%d filter_bits=%d filter_entries=%d\n", s.Compactions, s.FilterBits, s.FilterEntries)
}

func (c *Cli) processPrintCommand(args []string) {
	values := len(args) == 1 && strings.EqualFold(args[0], "values")
	if len(args) > 1 || (len(args) == 1 && !values) {
		fmt.Fprintln(c.out, "Usage: PRINT [values]")
		return
	}
	if err := c.visualizer.Render(c.out, values); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Cli) processCheckCommand() {
	if err := c.idx.Verify(); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Cli) processSeedCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: SEED <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintln(c.out, "Usage: SEED <n>, n must be a positive number")
		return
	}
	before := c.idx.Len()
	Seed(c.idx, n)
	fmt.Fprintf(c.out, "Seeded %d new keys.\n", c.idx.Len()-before)
}

// Seed inserts n random word pairs into idx. Keys may repeat.
func Seed(idx *index.Index[string, string], n int) {
	for i := 0; i < n; i++ {
		idx.Put(faker.Word()+faker.Word(), faker.Word()+faker.Word())
	}
}
