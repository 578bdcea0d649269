package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        LevelInfo,
		"error":   LevelError,
		" DEBUG ": LevelDebug,
		"verbose": LevelDebug,
		"1":       LevelError,
		"2":       LevelInfo,
		"7":       LevelDebug,
		"loud":    LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Errorf("failed %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "[INFO] shown 2") || !strings.Contains(out, "[ERROR] failed 3") {
		t.Errorf("missing lines: %q", out)
	}

	buf.Reset()
	l = NewWriter(&buf, LevelError)
	l.Infof("quiet")
	l.Errorf("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Errorf("error level output: %q", buf.String())
	}
}
