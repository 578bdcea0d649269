package huffman

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"huffpack_go/pkg/bitstream"
)

// Decode expands an encoded stream from src into dst. Only opts.Logger is
// used. Output written before an error is not valid.
func Decode(src io.Reader, dst io.Writer, opts Options) (Stats, error) {
	opts = opts.withDefaults()

	head := make([]byte, len(Magic))
	if _, err := io.ReadFull(src, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Stats{}, formatError("missing header")
		}
		return Stats{}, ioFailure("read header", err)
	}
	if !bytes.Equal(head, []byte(Magic)) {
		return Stats{}, formatError("bad header %q", head)
	}

	in := bitstream.NewReader(src)
	root, err := ReadTree(in)
	if err != nil {
		return Stats{}, err
	}

	out := bufio.NewWriter(dst)
	var written int64
	for {
		sym, err := nextSymbol(in, root)
		if err != nil {
			if errors.Is(err, bitstream.ErrEndOfStream) {
				return Stats{}, formatError("payload ends before terminator after %d bytes", written)
			}
			return Stats{}, ioFailure("read payload", err)
		}
		if sym == Terminator {
			break
		}
		if err := out.WriteByte(sym); err != nil {
			return Stats{}, ioFailure("write output", err)
		}
		written++
	}
	if err := out.Flush(); err != nil {
		return Stats{}, ioFailure("flush output", err)
	}

	st := Stats{
		BytesRead:    int64(len(Magic)) + in.Consumed(),
		BytesWritten: written,
		Workers:      1,
	}
	opts.Logger.Debugf("decode: %d -> %d bytes", st.BytesRead, st.BytesWritten)
	return st, nil
}

// nextSymbol walks from root to a leaf, one bit per edge. A lone root leaf
// still consumes the single bit of its code.
func nextSymbol(r *bitstream.Reader, root *Node) (byte, error) {
	if root.Leaf() {
		if _, err := r.ReadBit(); err != nil {
			return 0, err
		}
		return root.symbol, nil
	}
	n := root
	for !n.Leaf() {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			n = n.right
		} else {
			n = n.left
		}
	}
	return n.symbol, nil
}
