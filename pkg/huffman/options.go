package huffman

import "huffpack_go/pkg/logger"

const (
	// Magic opens every encoded stream.
	Magic = "HUFFMAN 0.1 Matthias Kind"
	// Extension is appended to encoded file names.
	Extension = ".huff"
	// Terminator marks the end of the payload (ASCII file separator).
	Terminator byte = 0x1C

	DefaultChunkSize  = 128 * 1024
	DefaultMaxWorkers = 4
	DefaultQueueDepth = 4
)

// Options tunes the encode pipeline. Zero fields take the defaults.
type Options struct {
	ChunkSize  int
	MaxWorkers int
	QueueDepth int
	Logger     logger.Logger
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.QueueDepth <= 0 {
		o.QueueDepth = DefaultQueueDepth
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// Stats describes one encode or decode run.
type Stats struct {
	BytesRead    int64
	BytesWritten int64
	Workers      int
	Chunks       int
}

// Ratio is output size over input size, 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.BytesRead == 0 {
		return 0
	}
	return float64(s.BytesWritten) / float64(s.BytesRead)
}
