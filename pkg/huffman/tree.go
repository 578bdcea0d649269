package huffman

import (
	"slices"

	"huffpack_go/pkg/bitstream"
)

/*** ---------- Frequencies ---------- ***/

// Frequencies counts occurrences of every byte value.
type Frequencies [256]uint64

func (f *Frequencies) Add(p []byte) {
	for _, b := range p {
		f[b]++
	}
}

/*** ---------- CodeTree ---------- ***/

// Node is either a leaf carrying a symbol or a branch owning exactly two
// children. Trees are never modified after construction.
type Node struct {
	weight      uint64
	symbol      byte
	left, right *Node
}

func (n *Node) Leaf() bool     { return n.left == nil && n.right == nil }
func (n *Node) Weight() uint64 { return n.weight }
func (n *Node) Symbol() byte   { return n.symbol }
func (n *Node) Left() *Node    { return n.left }
func (n *Node) Right() *Node   { return n.right }

// BuildTree builds the Huffman tree for freq. The terminator always gets a
// leaf, even when its count is zero.
//
// Leaves start in ascending symbol order. Each round picks the lowest
// weight node (earliest on ties), then the lowest of the rest (earliest on
// ties), removes both and appends their branch with the first pick on the
// left. The result is fully determined by freq.
func BuildTree(freq Frequencies) *Node {
	if freq[Terminator] == 0 {
		freq[Terminator] = 1
	}

	nodes := make([]*Node, 0, len(freq))
	for sym, cnt := range freq {
		if cnt > 0 {
			nodes = append(nodes, &Node{weight: cnt, symbol: byte(sym)})
		}
	}

	for len(nodes) > 1 {
		i := lowest(nodes, -1)
		j := lowest(nodes, i)
		branch := &Node{
			weight: nodes[i].weight + nodes[j].weight,
			left:   nodes[i],
			right:  nodes[j],
		}
		hi, lo := max(i, j), min(i, j)
		nodes = slices.Delete(nodes, hi, hi+1)
		nodes = slices.Delete(nodes, lo, lo+1)
		nodes = append(nodes, branch)
	}
	return nodes[0]
}

// lowest returns the index of the first node with minimal weight, skipping
// index skip.
func lowest(nodes []*Node, skip int) int {
	best := -1
	for i, n := range nodes {
		if i == skip {
			continue
		}
		if best < 0 || n.weight < nodes[best].weight {
			best = i
		}
	}
	return best
}

/*** ---------- CodeTable ---------- ***/

type code struct {
	path bitstream.Path
	word uint64 // path right-aligned, valid when path.Len() <= 64
}

// CodeTable maps symbols to their root-to-leaf paths (0 = left, 1 = right).
// It is read-only once built and safe for concurrent lookups.
type CodeTable struct {
	codes [256]code
	set   [256]bool
	n     int
}

// NewCodeTable derives the table from the tree. A tree that is a single
// leaf gives that leaf the one-bit code 0.
func NewCodeTable(root *Node) *CodeTable {
	t := &CodeTable{}
	if root.Leaf() {
		t.put(root.symbol, bitstream.ParsePath("0"))
		return t
	}
	t.walk(root, bitstream.Path{})
	return t
}

func (t *CodeTable) walk(n *Node, prefix bitstream.Path) {
	if n.Leaf() {
		t.put(n.symbol, prefix)
		return
	}
	t.walk(n.left, prefix.Append(false))
	t.walk(n.right, prefix.Append(true))
}

func (t *CodeTable) put(sym byte, p bitstream.Path) {
	c := code{path: p}
	if p.Len() <= 64 {
		for i := 0; i < p.Len(); i++ {
			c.word <<= 1
			if p.Bit(i) {
				c.word |= 1
			}
		}
	}
	if !t.set[sym] {
		t.n++
	}
	t.codes[sym] = c
	t.set[sym] = true
}

// Lookup returns the path for sym.
func (t *CodeTable) Lookup(sym byte) (bitstream.Path, bool) {
	return t.codes[sym].path, t.set[sym]
}

// Len is the number of symbols with a code.
func (t *CodeTable) Len() int { return t.n }

// Cost is the number of payload bits freq would need with this table,
// ignoring symbols without a code.
func (t *CodeTable) Cost(freq Frequencies) uint64 {
	var bits uint64
	for sym, cnt := range freq {
		if t.set[sym] {
			bits += cnt * uint64(t.codes[sym].path.Len())
		}
	}
	return bits
}
