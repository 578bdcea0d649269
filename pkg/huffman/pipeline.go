package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"sync"

	"github.com/icza/bitio"

	"huffpack_go/pkg/bitstream"
	"huffpack_go/pkg/logger"
)

// chunk is a slice of input handed from the producer to one worker.
type chunk struct {
	seq  int
	data []byte
}

// encodedChunk is a worker's translation of one chunk.
type encodedChunk struct {
	seq  int
	bits bitstream.Path
	err  error
}

/*** ---------- reorder buffer ---------- ***/

// reorderBuffer holds completed chunks that arrived ahead of their turn,
// sorted by sequence number.
type reorderBuffer []encodedChunk

// insert adds c in order. It reports false when c.seq is already present.
func (b *reorderBuffer) insert(c encodedChunk) bool {
	i := sort.Search(len(*b), func(i int) bool { return (*b)[i].seq >= c.seq })
	if i < len(*b) && (*b)[i].seq == c.seq {
		return false
	}
	*b = slices.Insert(*b, i, c)
	return true
}

// popNext removes and returns the first chunk if its number is seq.
func (b *reorderBuffer) popNext(seq int) (encodedChunk, bool) {
	if len(*b) == 0 || (*b)[0].seq != seq {
		return encodedChunk{}, false
	}
	c := (*b)[0]
	*b = slices.Delete(*b, 0, 1)
	return c, true
}

/*** ---------- pipeline ---------- ***/

// pipeline runs one producer, a fixed pool of workers and a collector.
// The collector is the calling goroutine and is the only user of out.
type pipeline struct {
	table     *CodeTable
	out       *bitstream.Writer
	workers   int
	chunkSize int
	queue     int
	log       logger.Logger

	// translate turns a chunk into bits; tests swap it to inject latency.
	translate func(chunk) encodedChunk
}

func newPipeline(table *CodeTable, out *bitstream.Writer, workers int, opts Options) *pipeline {
	p := &pipeline{
		table:     table,
		out:       out,
		workers:   workers,
		chunkSize: opts.ChunkSize,
		queue:     opts.QueueDepth,
		log:       opts.Logger,
	}
	p.translate = p.encodeChunk
	return p
}

// run streams src through the workers and writes every chunk's bits in
// original order. It returns the number of chunks.
func (p *pipeline) run(src io.Reader) (int, error) {
	work := make(chan chunk, p.queue)
	done := make(chan encodedChunk, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			n := 0
			for c := range work {
				done <- p.translate(c)
				n++
			}
			p.log.Debugf("worker %d finished after %d chunks", id, n)
		}(i)
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	var (
		produced int
		readErr  error
		prodDone = make(chan struct{})
	)
	go func() {
		defer close(prodDone)
		produced, readErr = p.produce(src, work)
	}()

	flushed, err := p.collect(done)
	<-prodDone

	if readErr != nil {
		return flushed, ioFailure("read input", readErr)
	}
	if err != nil {
		return flushed, err
	}
	if flushed != produced {
		return flushed, fmt.Errorf("%w: flushed %d of %d chunks", ErrPipelineConsistency, flushed, produced)
	}
	return produced, nil
}

// produce reads src in chunkSize pieces and closes work when done.
func (p *pipeline) produce(src io.Reader, work chan<- chunk) (int, error) {
	defer close(work)
	seq := 0
	for {
		buf := make([]byte, p.chunkSize)
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			work <- chunk{seq: seq, data: buf[:n]}
			seq++
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return seq, nil
		default:
			return seq, err
		}
	}
}

// collect writes encoded chunks in sequence order until done is closed.
// After the first error it keeps draining so no worker blocks forever.
func (p *pipeline) collect(done <-chan encodedChunk) (int, error) {
	var (
		pending  reorderBuffer
		next     int
		firstErr error
	)
	for ec := range done {
		if firstErr != nil {
			continue
		}
		if ec.err != nil {
			firstErr = ec.err
			continue
		}
		if ec.seq != next {
			if ec.seq < next || !pending.insert(ec) {
				firstErr = fmt.Errorf("%w: chunk %d delivered twice", ErrPipelineConsistency, ec.seq)
			}
			continue
		}

		firstErr = p.flush(ec)
		next++
		for firstErr == nil {
			c, ok := pending.popNext(next)
			if !ok {
				break
			}
			firstErr = p.flush(c)
			next++
		}
	}
	if firstErr != nil {
		return next, firstErr
	}
	if len(pending) > 0 {
		return next, fmt.Errorf("%w: %d chunks left in reorder buffer (waiting for %d, first buffered %d)",
			ErrPipelineConsistency, len(pending), next, pending[0].seq)
	}
	return next, nil
}

func (p *pipeline) flush(ec encodedChunk) error {
	if err := p.out.WritePath(ec.bits); err != nil {
		return ioFailure("write chunk", err)
	}
	return nil
}

// encodeChunk packs the codes of every byte in c, in order.
func (p *pipeline) encodeChunk(c chunk) encodedChunk {
	var buf bytes.Buffer
	buf.Grow(len(c.data))
	bw := bitio.NewWriter(&buf)

	nbits := 0
	for _, b := range c.data {
		if !p.table.set[b] {
			return encodedChunk{seq: c.seq, err: fmt.Errorf("%w: symbol %#02x has no code", ErrPipelineConsistency, b)}
		}
		cd := p.table.codes[b]
		if err := writeCode(bw, cd); err != nil {
			return encodedChunk{seq: c.seq, err: err}
		}
		nbits += cd.path.Len()
	}
	if err := bw.Close(); err != nil {
		return encodedChunk{seq: c.seq, err: err}
	}
	return encodedChunk{seq: c.seq, bits: bitstream.NewPath(buf.Bytes(), nbits)}
}

func writeCode(bw *bitio.Writer, c code) error {
	if n := c.path.Len(); n <= 64 {
		return bw.WriteBits(c.word, uint8(n))
	}
	for i := 0; i < c.path.Len(); i++ {
		if err := bw.WriteBool(c.path.Bit(i)); err != nil {
			return err
		}
	}
	return nil
}
