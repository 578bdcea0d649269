// Package huffman implements the huffpack file format: a byte-level
// Huffman code whose tree is stored in front of the bit-packed payload.
//
// Layout: the ASCII magic, the preorder code tree, the code of every input
// byte in order, the terminator's code, then zero bits up to a byte
// boundary. There is no alignment between the parts.
package huffman

import (
	"errors"
	"fmt"
	"io"

	"huffpack_go/pkg/bitstream"
)

// Encode compresses src into dst. The input is read twice: once to count
// symbols and once, from the same starting offset, to translate it on a
// pool of workers.
func Encode(src io.ReadSeeker, dst io.Writer, opts Options) (st Stats, err error) {
	opts = opts.withDefaults()
	log := opts.Logger

	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return Stats{}, ioFailure("seek input", err)
	}

	freq, size, err := scan(src, opts.ChunkSize)
	if err != nil {
		return Stats{}, ioFailure("scan input", err)
	}
	if n := freq[Terminator]; n > 0 {
		return Stats{BytesRead: size}, fmt.Errorf("%w: byte %#02x occurs %d times", ErrReservedSymbol, Terminator, n)
	}

	workers := workerCount(size, opts)
	root := BuildTree(freq)
	table := NewCodeTable(root)
	log.Debugf("encode: %d bytes, %d symbols, %d workers", size, table.Len(), workers)

	// st is returned as far as it got, also on failure.
	st = Stats{BytesRead: size, Workers: workers}
	out := bitstream.NewWriter(dst)
	defer func() { st.BytesWritten = out.BytesWritten() }()

	for i := 0; i < len(Magic); i++ {
		if err := out.WriteByte(Magic[i]); err != nil {
			return st, ioFailure("write header", err)
		}
	}
	if err := WriteTree(out, root); err != nil {
		return st, ioFailure("write tree", err)
	}

	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return st, ioFailure("rewind input", err)
	}
	p := newPipeline(table, out, workers, opts)
	st.Chunks, err = p.run(src)
	if err != nil {
		return st, err
	}

	term, _ := table.Lookup(Terminator)
	if err := out.WritePath(term); err != nil {
		return st, ioFailure("write terminator", err)
	}
	if err := out.Finish(); err != nil {
		return st, ioFailure("flush output", err)
	}

	log.Debugf("encode: %d chunks, %d -> %d bytes", st.Chunks, st.BytesRead, out.BytesWritten())
	return st, nil
}

// workerCount is min(MaxWorkers, size/ChunkSize)+1, computed in int64 so a
// large input cannot wrap on 32-bit builds.
func workerCount(size int64, opts Options) int {
	return int(min(int64(opts.MaxWorkers), size/int64(opts.ChunkSize))) + 1
}

// scan counts every byte of r.
func scan(r io.Reader, bufSize int) (Frequencies, int64, error) {
	var (
		freq Frequencies
		size int64
	)
	buf := make([]byte, bufSize)
	for {
		n, err := r.Read(buf)
		freq.Add(buf[:n])
		size += int64(n)
		if errors.Is(err, io.EOF) {
			return freq, size, nil
		}
		if err != nil {
			return freq, size, err
		}
	}
}
