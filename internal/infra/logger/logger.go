package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) toZerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is the operational log of the helper: JSON lines to a file and,
// optionally, human readable lines on stdout.
type Logger struct {
	zl    zerolog.Logger
	file  *os.File
	level Level
}

func New(filePath string, level Level, includeStdout bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	writers := []io.Writer{f}

	// Debug stays in the file; stdout only gets Info and above
	if includeStdout {
		console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
		writers = append(writers, minLevelWriter{w: console, min: zerolog.InfoLevel})
	}

	l := NewWithWriter(zerolog.MultiLevelWriter(writers...), level)
	l.file = f
	return l, nil
}

// NewWithWriter logs JSON lines to w only.
func NewWithWriter(w io.Writer, level Level) *Logger {
	zl := zerolog.New(w).Level(level.toZerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl, level: level}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop(), level: LevelFatal}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.zl.Debug().Msgf(f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.zl.Info().Msgf(f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.zl.Warn().Msgf(f, v...) }
func (l *Logger) Error(f string, v ...any) { l.zl.Error().Msgf(f, v...) }
func (l *Logger) Fatal(f string, v ...any) {
	l.zl.WithLevel(zerolog.FatalLevel).Msgf(f, v...)
	os.Exit(1)
}

func (l *Logger) Write(p []byte) (n int, err error) {
	// Echo and other libraries often include a newline at the end
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		l.Info("%s", msg)
	}
	return len(p), nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m minLevelWriter) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	if lvl < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}
