package bitstream

import (
	"errors"
	"io"
)

// DefaultReaderBlockSize is the number of bytes requested per refill.
const DefaultReaderBlockSize = 16

// ErrEndOfStream reports that the source has no more bytes. It is distinct
// from any error returned by the source itself.
var ErrEndOfStream = errors.New("bitstream: end of stream")

/*** ---------- Reader ---------- ***/

// Reader hands out bits and bytes from an underlying source, refilling an
// internal buffer in fixed-size blocks.
type Reader struct {
	r        io.Reader
	block    []byte
	buf      []byte // valid bytes of the current block
	pos      int    // next bit in buf
	consumed int64
}

func NewReader(r io.Reader) *Reader { return NewReaderSize(r, DefaultReaderBlockSize) }

func NewReaderSize(r io.Reader, blockSize int) *Reader {
	if blockSize < 1 {
		blockSize = 1
	}
	return &Reader{r: r, block: make([]byte, blockSize)}
}

func (r *Reader) ReadBit() (bool, error) {
	if r.remaining() == 0 {
		if err := r.refill(); err != nil {
			return false, err
		}
	}
	bit := r.buf[r.pos>>3]&(0x80>>uint(r.pos&7)) != 0
	r.pos++
	return bit, nil
}

// ReadByte reads the next 8 bits. When fewer than 8 bits are left in the
// buffer, the leftover high bits are spliced with the first bits of the
// next block.
func (r *Reader) ReadByte() (byte, error) {
	rem := r.remaining()
	if rem == 0 {
		if err := r.refill(); err != nil {
			return 0, err
		}
		rem = r.remaining()
	}
	if rem >= 8 {
		b := r.peekByte()
		r.pos += 8
		return b, nil
	}

	// rem is 1..7: all of it lives in the last byte of buf.
	hi := r.buf[r.pos>>3] << uint(r.pos&7)
	if err := r.refill(); err != nil {
		return 0, err
	}
	lo := r.buf[0] >> uint(rem)
	r.pos = 8 - rem
	return hi | lo, nil
}

// Consumed is the number of bytes pulled from the source so far.
func (r *Reader) Consumed() int64 { return r.consumed }

func (r *Reader) remaining() int { return len(r.buf)*8 - r.pos }

func (r *Reader) peekByte() byte {
	i, off := r.pos>>3, uint(r.pos&7)
	if off == 0 {
		return r.buf[i]
	}
	return r.buf[i]<<off | r.buf[i+1]>>(8-off)
}

// refill replaces the buffer with the next block. Unread bits in the old
// buffer are discarded, so callers save what they need first.
func (r *Reader) refill() error {
	n, err := io.ReadAtLeast(r.r, r.block, 1)
	r.buf = r.block[:n]
	r.pos = 0
	r.consumed += int64(n)
	if n > 0 {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return ErrEndOfStream
	}
	return err
}
