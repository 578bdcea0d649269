package bitstream

import "strings"

// Path is an ordered sequence of bits packed MSB-first.
// The zero value is an empty path. Paths are treated as immutable values:
// Append returns a new Path and never touches the receiver's storage.
type Path struct {
	buf []byte
	n   int
}

// NewPath wraps n bits from packed. Bits past n in the last byte are ignored.
func NewPath(packed []byte, n int) Path {
	if n < 0 {
		n = 0
	}
	if limit := len(packed) * 8; n > limit {
		n = limit
	}
	return Path{buf: packed[:(n+7)/8], n: n}
}

// ParsePath builds a Path from a string of '0' and '1' characters.
// Other characters are skipped.
func ParsePath(s string) Path {
	var p Path
	for _, c := range s {
		switch c {
		case '0':
			p = p.Append(false)
		case '1':
			p = p.Append(true)
		}
	}
	return p
}

func (p Path) Len() int { return p.n }

// Bit reports the i-th bit; true means 1 (right child).
func (p Path) Bit(i int) bool {
	return p.buf[i>>3]&(0x80>>uint(i&7)) != 0
}

// Append returns a copy of p with one more bit at the end.
func (p Path) Append(bit bool) Path {
	out := make([]byte, (p.n+8)/8)
	copy(out, p.buf)
	if r := p.n & 7; r != 0 {
		out[p.n>>3] &= 0xff << uint(8-r)
	}
	if bit {
		out[p.n>>3] |= 0x80 >> uint(p.n&7)
	}
	return Path{buf: out, n: p.n + 1}
}

// Bytes returns the packed bits; the final partial byte is zero padded.
func (p Path) Bytes() []byte {
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	if r := p.n & 7; r != 0 {
		out[len(out)-1] &= 0xff << uint(8-r)
	}
	return out
}

func (p Path) Equal(o Path) bool {
	if p.n != o.n {
		return false
	}
	for i := 0; i < p.n; i++ {
		if p.Bit(i) != o.Bit(i) {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	var sb strings.Builder
	sb.Grow(p.n)
	for i := 0; i < p.n; i++ {
		if p.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
