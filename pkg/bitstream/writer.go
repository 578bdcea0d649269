// Package bitstream packs and unpacks individual bits over byte-oriented
// sinks and sources. Bits are ordered MSB-first within each byte.
package bitstream

import "io"

// DefaultWriterCapacity is the number of buffered bits above which the
// writer hands whole bytes to the sink.
const DefaultWriterCapacity = 128 * 128

/*** ---------- Writer ---------- ***/

// Writer buffers bits and writes whole bytes to the underlying sink.
// Bits that do not yet fill a byte stay at the front of the buffer until
// more bits arrive or Finish pads them out.
type Writer struct {
	w       io.Writer
	buf     []byte // len(buf) == ceil(nbits/8), unused low bits are zero
	nbits   int
	capBits int
	written int64
}

func NewWriter(w io.Writer) *Writer { return NewWriterSize(w, DefaultWriterCapacity) }

// NewWriterSize returns a Writer that flushes once more than capBits bits
// are buffered.
func NewWriterSize(w io.Writer, capBits int) *Writer {
	if capBits < 8 {
		capBits = 8
	}
	return &Writer{
		w:       w,
		buf:     make([]byte, 0, capBits/8+2),
		capBits: capBits,
	}
}

func (w *Writer) WriteBit(b bool) error {
	w.pushBit(b)
	return w.maybeFlush()
}

func (w *Writer) WriteByte(b byte) error {
	w.pushByte(b)
	return w.maybeFlush()
}

// WritePath appends every bit of p in order.
func (w *Writer) WritePath(p Path) error {
	full := p.n / 8
	for i := 0; i < full; i++ {
		w.pushByte(p.buf[i])
	}
	for i := full * 8; i < p.n; i++ {
		w.pushBit(p.Bit(i))
	}
	return w.maybeFlush()
}

// Finish writes every buffered bit, zero padding the last byte.
func (w *Writer) Finish() error {
	if len(w.buf) == 0 {
		return nil
	}
	n, err := w.w.Write(w.buf)
	w.written += int64(n)
	if err != nil {
		return err
	}
	w.buf = w.buf[:0]
	w.nbits = 0
	return nil
}

// BytesWritten is the number of bytes handed to the sink so far.
func (w *Writer) BytesWritten() int64 { return w.written }

// Buffered is the number of bits not yet handed to the sink.
func (w *Writer) Buffered() int { return w.nbits }

func (w *Writer) pushBit(b bool) {
	idx := w.nbits >> 3
	if idx == len(w.buf) {
		w.buf = append(w.buf, 0)
	}
	if b {
		w.buf[idx] |= 0x80 >> uint(w.nbits&7)
	}
	w.nbits++
}

func (w *Writer) pushByte(b byte) {
	off := uint(w.nbits & 7)
	if off == 0 {
		w.buf = append(w.buf, b)
	} else {
		w.buf[len(w.buf)-1] |= b >> off
		w.buf = append(w.buf, b<<(8-off))
	}
	w.nbits += 8
}

func (w *Writer) maybeFlush() error {
	if w.nbits <= w.capBits {
		return nil
	}
	return w.flushWhole()
}

// flushWhole writes all complete bytes and keeps the trailing partial
// byte, if any, as the new first byte of the buffer.
func (w *Writer) flushWhole() error {
	ready := w.nbits >> 3
	if ready == 0 {
		return nil
	}
	n, err := w.w.Write(w.buf[:ready])
	w.written += int64(n)
	if err != nil {
		return err
	}
	left := w.nbits & 7
	if left > 0 {
		w.buf[0] = w.buf[ready]
		w.buf = w.buf[:1]
	} else {
		w.buf = w.buf[:0]
	}
	w.nbits = left
	return nil
}
