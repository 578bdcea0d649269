package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"huffpack_go/internal/config"
	"huffpack_go/internal/model"
	"huffpack_go/internal/repo"
	"huffpack_go/internal/service"
	"huffpack_go/pkg/huffman"
	"huffpack_go/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type invocation struct {
	mode    model.Mode
	input   string
	output  string
	verbose bool
}

func parseArgs(args []string, stderr io.Writer) (*invocation, error) {
	fs := flag.NewFlagSet("huff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var enc, dec, verbose bool
	var output string
	fs.BoolVar(&enc, "e", false, "encode the input file")
	fs.BoolVar(&enc, "encode", false, "encode the input file")
	fs.BoolVar(&dec, "d", false, "decode the input file")
	fs.BoolVar(&dec, "decode", false, "decode the input file")
	fs.StringVar(&output, "o", "", "output path (derived from the input name by default)")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	if enc && dec {
		return nil, errors.New("-e and -d are mutually exclusive")
	}

	inv := &invocation{input: fs.Arg(0), output: output, verbose: verbose}
	switch {
	case enc:
		inv.mode = model.ModeEncode
	case dec:
		inv.mode = model.ModeDecode
	default:
		inv.mode = inferMode(inv.input)
		fmt.Fprintf(stderr, "no mode given, guessing %s from file name\n", inv.mode)
	}
	if inv.output == "" {
		inv.output = outputPath(inv.mode, inv.input)
	}
	return inv, nil
}

func inferMode(path string) model.Mode {
	if strings.HasSuffix(path, huffman.Extension) {
		return model.ModeDecode
	}
	return model.ModeEncode
}

func outputPath(mode model.Mode, input string) string {
	if mode == model.ModeEncode {
		return huffman.EncodedName(input)
	}
	return huffman.DecodedName(input)
}

func run(args []string, stderr io.Writer) int {
	inv, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg := config.Load()
	level := cfg.LogLevel
	if inv.verbose {
		level = logger.LevelDebug
	}
	logg := logger.NewWriter(stderr, level)

	if _, err := os.Stat(inv.input); err != nil {
		logg.Errorf("%s: %v", inv.input, err)
		return 1
	}
	logg.Infof("%s %s -> %s", inv.mode, inv.input, inv.output)

	svc := service.NewCodecService(repo.NewRunRepoInMemory(), logger.Nop(), cfg.CodecOptions(logg), cfg.CompareZstd)
	ctx := context.Background()
	start := time.Now()
	var r *model.Run
	if inv.mode == model.ModeEncode {
		r, err = svc.EncodeFile(ctx, inv.input, inv.output)
	} else {
		r, err = svc.DecodeFile(ctx, inv.input, inv.output)
	}
	if err != nil {
		logg.Errorf("%s failed: %v", inv.mode, err)
		return 1
	}

	logg.Infof("read %d bytes, wrote %d bytes (%.1f%%)", r.BytesIn, r.BytesOut, r.Ratio()*100)
	if r.BaselineBytes > 0 {
		logg.Infof("zstd baseline: %d bytes", r.BaselineBytes)
	}
	logg.Infof("finished in %s", time.Since(start).Round(time.Millisecond))
	return 0
}
