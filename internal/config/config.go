package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"huffpack_go/pkg/huffman"
	"huffpack_go/pkg/logger"
)

// Config is loaded from defaults, then an optional ini file, then HUFF_*
// environment variables.
type Config struct {
	Port         string
	DatabaseURL  string
	MaxWorkers   int
	ChunkSize    int
	QueueDepth   int
	LogLevel     logger.Level
	CompareZstd  bool
	MaxBodyBytes int64
}

func Default() Config {
	return Config{
		Port:         "8080",
		MaxWorkers:   huffman.DefaultMaxWorkers,
		ChunkSize:    huffman.DefaultChunkSize,
		QueueDepth:   huffman.DefaultQueueDepth,
		LogLevel:     logger.LevelInfo,
		MaxBodyBytes: 64 << 20,
	}
}

func Load() *Config {
	cfg := Default()
	path := strings.TrimSpace(os.Getenv("HUFF_CONFIG_PATH"))
	if path == "" {
		path = "huffpack.ini"
	}
	if f, err := os.Open(path); err == nil {
		parseIni(f, &cfg)
		f.Close()
	}
	applyEnv(os.Getenv, &cfg)
	cfg.normalize()
	return &cfg
}

// CodecOptions builds the encoder options for this configuration.
func (c *Config) CodecOptions(l logger.Logger) huffman.Options {
	return huffman.Options{
		ChunkSize:  c.ChunkSize,
		MaxWorkers: c.MaxWorkers,
		QueueDepth: c.QueueDepth,
		Logger:     l,
	}
}

func parseIni(r io.Reader, cfg *Config) {
	scanner := bufio.NewScanner(r)
	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		assign(section, strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(val), cfg)
	}
}

func assign(section, key, val string, cfg *Config) {
	switch section {
	case "", "server":
		switch key {
		case "port":
			if val != "" {
				cfg.Port = val
			}
		case "database_url":
			cfg.DatabaseURL = val
		case "log_level":
			cfg.LogLevel = logger.ParseLevel(val)
		case "max_body_bytes":
			cfg.MaxBodyBytes = int64(parseInt(val, int(cfg.MaxBodyBytes)))
		}
	case "codec":
		switch key {
		case "max_workers":
			cfg.MaxWorkers = parseInt(val, cfg.MaxWorkers)
		case "chunk_size":
			cfg.ChunkSize = parseInt(val, cfg.ChunkSize)
		case "queue_depth":
			cfg.QueueDepth = parseInt(val, cfg.QueueDepth)
		case "compare_zstd":
			cfg.CompareZstd = parseBool(val, cfg.CompareZstd)
		}
	}
}

func applyEnv(getenv func(string) string, cfg *Config) {
	if v := strings.TrimSpace(getenv("HUFF_PORT")); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(getenv("HUFF_DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := getenv("HUFF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = logger.ParseLevel(v)
	}
	cfg.MaxWorkers = parseInt(getenv("HUFF_MAX_WORKERS"), cfg.MaxWorkers)
	cfg.ChunkSize = parseInt(getenv("HUFF_CHUNK_SIZE"), cfg.ChunkSize)
	cfg.QueueDepth = parseInt(getenv("HUFF_QUEUE_DEPTH"), cfg.QueueDepth)
	cfg.CompareZstd = parseBool(getenv("HUFF_COMPARE_ZSTD"), cfg.CompareZstd)
	cfg.MaxBodyBytes = int64(parseInt(getenv("HUFF_MAX_BODY_BYTES"), int(cfg.MaxBodyBytes)))
}

// normalize replaces non-positive values with defaults.
func (c *Config) normalize() {
	def := Default()
	c.Port = strings.TrimPrefix(c.Port, ":")
	if c.Port == "" {
		c.Port = def.Port
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = def.MaxWorkers
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = def.QueueDepth
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = def.MaxBodyBytes
	}
}

func parseInt(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(raw string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}
