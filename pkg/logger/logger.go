package logger

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

type Level int

const (
	LevelError Level = 1
	LevelInfo  Level = 2
	LevelDebug Level = 3
)

// ParseLevel accepts a name (error, info, debug/verbose/trace) or a number.
// Anything unrecognised means info.
func ParseLevel(raw string) Level {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		switch {
		case n >= int(LevelDebug):
			return LevelDebug
		case n <= int(LevelError):
			return LevelError
		default:
			return LevelInfo
		}
	}
	switch strings.ToLower(s) {
	case "error":
		return LevelError
	case "debug", "verbose", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelDebug:
		return "debug"
	default:
		return "info"
	}
}

type stdLogger struct {
	level Level
	out   *log.Logger
}

func New() Logger { return NewWithLevel(LevelInfo) }

func NewWithLevel(level Level) Logger { return NewWriter(os.Stderr, level) }

func NewWriter(w io.Writer, level Level) Logger {
	return &stdLogger{level: level, out: log.New(w, "", log.LstdFlags|log.Lmicroseconds)}
}

func (l *stdLogger) Debugf(format string, v ...any) {
	if l.level >= LevelDebug {
		l.out.Printf("[DEBUG] "+format, v...)
	}
}

func (l *stdLogger) Infof(format string, v ...any) {
	if l.level >= LevelInfo {
		l.out.Printf("[INFO] "+format, v...)
	}
}

func (l *stdLogger) Errorf(format string, v ...any) { l.out.Printf("[ERROR] "+format, v...) }

type nopLogger struct{}

// Nop discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
