package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"huffpack_go/internal/model"
	"huffpack_go/internal/repo"
	"huffpack_go/pkg/huffman"
	"huffpack_go/pkg/logger"
)

type CodecService struct {
	repo        repo.RunRepo
	logger      logger.Logger
	opts        huffman.Options
	compareZstd bool
	now         func() time.Time
}

func NewCodecService(r repo.RunRepo, l logger.Logger, opts huffman.Options, compareZstd bool) *CodecService {
	if opts.Logger == nil {
		opts.Logger = l
	}
	return &CodecService{repo: r, logger: l, opts: opts, compareZstd: compareZstd, now: time.Now}
}

// EncodeBytes compresses data held in memory.
func (s *CodecService) EncodeBytes(ctx context.Context, name string, data []byte) ([]byte, *model.Run, error) {
	var out bytes.Buffer
	run, err := s.track(ctx, model.ModeEncode, name, func() (huffman.Stats, error) {
		return huffman.Encode(bytes.NewReader(data), &out, s.opts)
	}, func() io.Reader { return bytes.NewReader(data) })
	if err != nil {
		return nil, run, err
	}
	return out.Bytes(), run, nil
}

// DecodeBytes expands data held in memory.
func (s *CodecService) DecodeBytes(ctx context.Context, name string, data []byte) ([]byte, *model.Run, error) {
	var out bytes.Buffer
	run, err := s.track(ctx, model.ModeDecode, name, func() (huffman.Stats, error) {
		return huffman.Decode(bytes.NewReader(data), &out, s.opts)
	}, nil)
	if err != nil {
		return nil, run, err
	}
	return out.Bytes(), run, nil
}

// EncodeFile compresses inPath into outPath. outPath is removed on failure.
func (s *CodecService) EncodeFile(ctx context.Context, inPath, outPath string) (*model.Run, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return s.toFile(ctx, model.ModeEncode, inPath, outPath, func(out io.Writer) (huffman.Stats, error) {
		return huffman.Encode(in, out, s.opts)
	}, func() io.Reader {
		if _, err := in.Seek(0, io.SeekStart); err != nil {
			return nil
		}
		return in
	})
}

// DecodeFile expands inPath into outPath. outPath is removed on failure.
func (s *CodecService) DecodeFile(ctx context.Context, inPath, outPath string) (*model.Run, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return s.toFile(ctx, model.ModeDecode, inPath, outPath, func(out io.Writer) (huffman.Stats, error) {
		return huffman.Decode(in, out, s.opts)
	}, nil)
}

func (s *CodecService) GetRun(ctx context.Context, id string) (*model.Run, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CodecService) ListRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	return s.repo.List(ctx, limit)
}

func (s *CodecService) toFile(ctx context.Context, mode model.Mode, inPath, outPath string,
	op func(io.Writer) (huffman.Stats, error), baseline func() io.Reader) (*model.Run, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	run, err := s.track(ctx, mode, filepath.Base(inPath), func() (huffman.Stats, error) {
		st, err := op(out)
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: close output: %w", huffman.ErrIO, cerr)
		}
		return st, err
	}, baseline)
	if err != nil {
		os.Remove(outPath)
		return run, err
	}
	return run, nil
}

// track runs op, fills in a Run and stores it whether op failed or not.
// baseline, when set and enabled, supplies the input again for the zstd
// comparison.
func (s *CodecService) track(ctx context.Context, mode model.Mode, name string,
	op func() (huffman.Stats, error), baseline func() io.Reader) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}

	start := time.Now()
	st, err := op()
	run.Duration = time.Since(start)
	run.BytesIn = st.BytesRead
	run.BytesOut = st.BytesWritten
	run.Workers = st.Workers
	run.Chunks = st.Chunks
	if err != nil {
		run.Err = err.Error()
		s.logger.Errorf("%s %s failed: %v", mode, name, err)
	} else {
		if s.compareZstd && baseline != nil {
			if r := baseline(); r != nil {
				n, zerr := zstdSize(r)
				if zerr != nil {
					s.logger.Errorf("zstd baseline for %s: %v", name, zerr)
				} else {
					run.BaselineBytes = n
				}
			}
		}
		s.logger.Infof("%s %s: %d -> %d bytes (%.1f%%) in %s, %d workers",
			mode, name, run.BytesIn, run.BytesOut, run.Ratio()*100, run.Duration, run.Workers)
	}

	if serr := s.repo.Save(ctx, run); serr != nil {
		s.logger.Errorf("save run %s: %v", run.ID, serr)
	}
	return run, err
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// zstdSize is the size of r compressed with zstd at default settings.
func zstdSize(r io.Reader) (int64, error) {
	cw := &countingWriter{}
	enc, err := zstd.NewWriter(cw)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(enc, r); err != nil {
		enc.Close()
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

// IsClientError reports whether err was caused by the input rather than by
// the service.
func IsClientError(err error) bool {
	return errors.Is(err, huffman.ErrFormat) || errors.Is(err, huffman.ErrReservedSymbol)
}
