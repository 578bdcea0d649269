package huffman

import (
	"errors"

	"huffpack_go/pkg/bitstream"
)

// A full tree over at most 256 leaves is never deeper than this.
const maxTreeDepth = 255

// WriteTree serializes n in preorder: a leaf is bit 1 followed by its
// 8-bit symbol, a branch is bit 0 followed by its left then right subtree.
func WriteTree(w *bitstream.Writer, n *Node) error {
	if n.Leaf() {
		if err := w.WriteBit(true); err != nil {
			return err
		}
		return w.WriteByte(n.symbol)
	}
	if err := w.WriteBit(false); err != nil {
		return err
	}
	if err := WriteTree(w, n.left); err != nil {
		return err
	}
	return WriteTree(w, n.right)
}

// ReadTree reverses WriteTree. Running out of input before the tree is
// complete is a format error. Weights are not part of the wire format and
// come back as zero.
func ReadTree(r *bitstream.Reader) (*Node, error) {
	return readNode(r, 0)
}

func readNode(r *bitstream.Reader, depth int) (*Node, error) {
	if depth > maxTreeDepth {
		return nil, formatError("code tree deeper than %d", maxTreeDepth)
	}
	leaf, err := r.ReadBit()
	if err != nil {
		return nil, treeReadError(err)
	}
	if leaf {
		sym, err := r.ReadByte()
		if err != nil {
			return nil, treeReadError(err)
		}
		return &Node{symbol: sym}, nil
	}

	left, err := readNode(r, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := readNode(r, depth+1)
	if err != nil {
		return nil, err
	}
	return &Node{left: left, right: right}, nil
}

func treeReadError(err error) error {
	if errors.Is(err, bitstream.ErrEndOfStream) {
		return formatError("truncated code tree")
	}
	return ioFailure("read tree", err)
}
