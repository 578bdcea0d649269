package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrIO wraps failures of the underlying source or sink.
	ErrIO = errors.New("huffman: i/o failure")
	// ErrFormat covers a bad magic header, a truncated or malformed tree and
	// a payload that ends before the terminator.
	ErrFormat = errors.New("huffman: invalid format")
	// ErrPipelineConsistency means the encoder lost, duplicated or could not
	// translate a chunk. The output must be discarded.
	ErrPipelineConsistency = errors.New("huffman: pipeline consistency violated")
	// ErrReservedSymbol is returned when the input contains the terminator byte.
	ErrReservedSymbol = errors.New("huffman: input contains reserved terminator byte")
)

func ioFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

func formatError(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, v...))
}
