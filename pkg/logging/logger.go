package logging

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/fatih/color"
)

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything. Output below the logger's
// configured level is discarded. It is safe for concurrent use, including
// from the fingerprint engine's worker pool.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
	// level is the maximum level that this logger (and its subloggers) will
	// emit.
	level Level
	// standard is the underlying standard library logger that performs the
	// actual write. It is shared by a logger and all of its subloggers so
	// that output from concurrent operations is serialized line-by-line.
	standard *log.Logger
	// lock serializes access to standard across subloggers.
	lock *sync.Mutex
}

// NewLogger creates a new root logger that writes output at or below the
// specified level to writer.
func NewLogger(level Level, writer io.Writer) *Logger {
	return &Logger{
		level:    level,
		standard: log.New(writer, "", 0),
		lock:     &sync.Mutex{},
	}
}

// Sublogger creates a new sublogger with the specified name.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}

	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	return &Logger{
		prefix:   prefix,
		level:    l.level,
		standard: l.standard,
		lock:     l.lock,
	}
}

// output is the internal logging method. It's a no-op if level is above the
// logger's configured threshold.
func (l *Logger) output(level Level, line string) {
	if l == nil || l.level < level {
		return
	}
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	l.standard.Print(line)
}

// Debugf logs information at LevelDebug with semantics equivalent to
// fmt.Printf. This is the level driven by the general.verbose configuration
// option.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output(LevelDebug, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning at LevelWarn with a yellow "Warning:"
// prefix.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(LevelWarn, color.YellowString("Warning: "+format, v...))
}
