package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"testing/iotest"

	"github.com/icza/bitio"
)

func TestReaderBitsAndBytes(t *testing.T) {
	// 1 00000001 0 00000010 1 ... produced by the writer test pattern
	var src bytes.Buffer
	w := NewWriter(&src)
	if err := w.WriteBit(true); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 1000; i++ {
		_ = w.WriteByte(byte(i % 256))
		_ = w.WriteBit(i%2 == 0)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(bytes.NewReader(src.Bytes()))
	bit, err := r.ReadBit()
	if err != nil || !bit {
		t.Fatalf("first bit = %v, %v", bit, err)
	}
	for i := 1; i < 1000; i++ {
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if b != byte(i%256) {
			t.Fatalf("byte %d = %d, want %d", i, b, i%256)
		}
		bit, err := r.ReadBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if bit != (i%2 == 0) {
			t.Fatalf("bit %d = %v", i, bit)
		}
	}
}

// Every leftover offset 0..7 at a refill boundary, for several block sizes.
func TestReaderByteStraddlesRefill(t *testing.T) {
	for lead := 0; lead < 8; lead++ {
		for _, block := range []int{1, 2, 3, 5, 7, 16} {
			t.Run(fmt.Sprintf("lead%d/block%d", lead, block), func(t *testing.T) {
				var src bytes.Buffer
				w := NewWriter(&src)
				for i := 0; i < lead; i++ {
					_ = w.WriteBit(i%2 == 0)
				}
				for i := 0; i < 256; i++ {
					_ = w.WriteByte(byte(i))
				}
				if err := w.Finish(); err != nil {
					t.Fatal(err)
				}

				r := NewReaderSize(bytes.NewReader(src.Bytes()), block)
				for i := 0; i < lead; i++ {
					bit, err := r.ReadBit()
					if err != nil {
						t.Fatal(err)
					}
					if bit != (i%2 == 0) {
						t.Fatalf("lead bit %d = %v", i, bit)
					}
				}
				for i := 0; i < 256; i++ {
					b, err := r.ReadByte()
					if err != nil {
						t.Fatalf("byte %d: %v", i, err)
					}
					if b != byte(i) {
						t.Fatalf("byte %d = %#x, want %#x", i, b, i)
					}
				}
			})
		}
	}
}

func TestReaderOneByteSource(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01}
	r := NewReaderSize(iotest.OneByteReader(bytes.NewReader(data)), 4)
	if _, err := r.ReadBit(); err != nil {
		t.Fatal(err)
	}
	// remaining stream after one bit: 1011110 10101101 ...
	want := []byte{0xBD, 0x5B, 0x7D, 0xDE}
	for i, w := range want {
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if b != w {
			t.Errorf("byte %d = %#x, want %#x", i, b, w)
		}
	}
}

func TestReaderMatchesBitio(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	type op struct {
		isByte bool
		bit    bool
		b      byte
	}
	ops := make([]op, 4000)

	var src bytes.Buffer
	ref := bitio.NewWriter(&src)
	for i := range ops {
		if rnd.Intn(2) == 0 {
			ops[i] = op{bit: rnd.Intn(2) == 1}
			if err := ref.WriteBool(ops[i].bit); err != nil {
				t.Fatal(err)
			}
		} else {
			ops[i] = op{isByte: true, b: byte(rnd.Intn(256))}
			if err := ref.WriteByte(ops[i].b); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := ref.Close(); err != nil {
		t.Fatal(err)
	}

	for _, block := range []int{1, 3, DefaultReaderBlockSize, 4096} {
		r := NewReaderSize(bytes.NewReader(src.Bytes()), block)
		for i, o := range ops {
			if o.isByte {
				b, err := r.ReadByte()
				if err != nil || b != o.b {
					t.Fatalf("block %d op %d: got %#x, %v want %#x", block, i, b, err, o.b)
				}
				continue
			}
			bit, err := r.ReadBit()
			if err != nil || bit != o.bit {
				t.Fatalf("block %d op %d: got %v, %v want %v", block, i, bit, err, o.bit)
			}
		}
	}
}

func TestReaderEndOfStream(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xF0}))
	for i := 0; i < 4; i++ {
		if _, err := r.ReadBit(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.ReadByte(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("ReadByte across end: got %v, want ErrEndOfStream", err)
	}
	if _, err := r.ReadBit(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("ReadBit at end: got %v, want ErrEndOfStream", err)
	}

	r = NewReader(bytes.NewReader(nil))
	if _, err := r.ReadByte(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("empty source: got %v, want ErrEndOfStream", err)
	}
	if r.Consumed() != 0 {
		t.Errorf("Consumed = %d", r.Consumed())
	}
}

func TestReaderSourceErrorIsNotEndOfStream(t *testing.T) {
	srcErr := errors.New("bad sector")
	r := NewReader(iotest.ErrReader(srcErr))
	_, err := r.ReadBit()
	if !errors.Is(err, srcErr) {
		t.Fatalf("got %v, want %v", err, srcErr)
	}
	if errors.Is(err, ErrEndOfStream) {
		t.Error("source failure reported as end of stream")
	}

	// data then failure: the failure surfaces once the data is used up
	r = NewReaderSize(errReaderAfter([]byte{0xAB}, srcErr), 8)
	if b, err := r.ReadByte(); err != nil || b != 0xAB {
		t.Fatalf("got %#x, %v", b, err)
	}
	if _, err := r.ReadBit(); !errors.Is(err, srcErr) {
		t.Errorf("got %v, want %v", err, srcErr)
	}
}

type errAfter struct {
	data []byte
	err  error
}

func errReaderAfter(data []byte, err error) *errAfter { return &errAfter{data: data, err: err} }

func (e *errAfter) Read(p []byte) (int, error) {
	if len(e.data) == 0 {
		return 0, e.err
	}
	n := copy(p, e.data)
	e.data = e.data[n:]
	return n, nil
}
