package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"huffpack_go/pkg/huffapi"
	"huffpack_go/pkg/huffman"
	"huffpack_go/pkg/logger"
)

func main() {
	server := flag.String("server", envOr("HUFF_SERVER", "http://localhost:8080"), "huffpack server address")
	decode := flag.Bool("d", false, "decode instead of encode (default: guessed from the file name)")
	encode := flag.Bool("e", false, "encode")
	runs := flag.Int("runs", 0, "list the newest n runs and exit")
	flag.Parse()

	logg := logger.New()
	client := huffapi.New(*server)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *runs > 0 {
		list, err := client.ListRuns(ctx, *runs)
		if err != nil {
			logg.Errorf("list runs: %v", err)
			os.Exit(1)
		}
		for _, r := range list {
			status := "ok"
			if r.Err != "" {
				status = r.Err
			}
			fmt.Printf("%s  %-6s %-24s %10d -> %10d  %s\n", r.ID, r.Mode, r.Name, r.BytesIn, r.BytesOut, status)
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: huffremote [-server url] [-e|-d] file\n")
		os.Exit(2)
	}
	in := flag.Arg(0)
	data, err := os.ReadFile(in)
	if err != nil {
		logg.Errorf("%v", err)
		os.Exit(1)
	}

	dec := *decode || (!*encode && strings.HasSuffix(in, huffman.Extension))
	var out []byte
	var id, dst string
	if dec {
		dst = huffman.DecodedName(in)
		out, id, err = client.Decode(ctx, filepath.Base(in), data)
	} else {
		dst = huffman.EncodedName(in)
		out, id, err = client.Encode(ctx, filepath.Base(in), data)
	}
	if err != nil {
		logg.Errorf("%v", err)
		os.Exit(1)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		logg.Errorf("%v", err)
		os.Exit(1)
	}
	logg.Infof("run %s: %s (%d bytes) -> %s (%d bytes)", id, in, len(data), dst, len(out))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
