package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"huffpack_go/pkg/logger"
)

func TestParseIniAndEnv(t *testing.T) {
	ini := `
# comment
port = 9000
log_level = debug

[codec]
max_workers = 8
chunk_size = 4096
compare_zstd = true
unknown = 1
`
	cfg := Default()
	parseIni(strings.NewReader(ini), &cfg)

	env := map[string]string{
		"HUFF_CHUNK_SIZE":   "1024",
		"HUFF_DATABASE_URL": "postgres://u@localhost/huff",
		"HUFF_QUEUE_DEPTH":  "-3",
	}
	applyEnv(func(k string) string { return env[k] }, &cfg)
	cfg.normalize()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LogLevel != logger.LevelDebug {
		t.Errorf("LogLevel = %s", cfg.LogLevel)
	}
	if cfg.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d", cfg.MaxWorkers)
	}
	if cfg.ChunkSize != 1024 {
		t.Errorf("ChunkSize = %d, env should win over file", cfg.ChunkSize)
	}
	if cfg.QueueDepth != Default().QueueDepth {
		t.Errorf("QueueDepth = %d, negative should fall back", cfg.QueueDepth)
	}
	if !cfg.CompareZstd {
		t.Error("CompareZstd not set")
	}
	if cfg.DatabaseURL != "postgres://u@localhost/huff" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadReadsConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huff.ini")
	if err := os.WriteFile(path, []byte("[server]\nport = :7070\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HUFF_CONFIG_PATH", path)
	t.Setenv("HUFF_MAX_WORKERS", "2")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Errorf("Port = %q", cfg.Port)
	}
	opts := cfg.CodecOptions(logger.Nop())
	if opts.MaxWorkers != 2 || opts.ChunkSize != Default().ChunkSize {
		t.Errorf("options %+v", opts)
	}
}
