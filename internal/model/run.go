package model

import "time"

type Mode string

const (
	ModeEncode Mode = "encode"
	ModeDecode Mode = "decode"
)

// Run records one encode or decode invocation.
type Run struct {
	ID            string        `json:"id"`
	Mode          Mode          `json:"mode"`
	Name          string        `json:"name"`
	BytesIn       int64         `json:"bytes_in"`
	BytesOut      int64         `json:"bytes_out"`
	Workers       int           `json:"workers"`
	Chunks        int           `json:"chunks"`
	BaselineBytes int64         `json:"baseline_bytes,omitempty"` // zstd size of the same input, 0 if not measured
	Duration      time.Duration `json:"duration_ns"`
	CreatedAt     time.Time     `json:"created_at"`
	Err           string        `json:"error,omitempty"`
}

// Ratio is output over input size.
func (r *Run) Ratio() float64 {
	if r.BytesIn == 0 {
		return 0
	}
	return float64(r.BytesOut) / float64(r.BytesIn)
}
