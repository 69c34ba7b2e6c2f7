package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
)

// Logger is a leveled logger on top of log/slog.
// Every message carries an optional tag identifying the emitting object.
type Logger struct {
	slog  *slog.Logger
	level atomic.Int64
}

// Tag is implemented by objects that name themselves in log lines.
type Tag interface {
	String() string
}

func newLogger(h slog.Handler) *Logger {
	l := &Logger{slog: slog.New(h)}
	l.level.Store(int64(LevelInfo))
	return l
}

func handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       slog.Level(LevelTrace),
		ReplaceAttr: replaceAttr,
	}
}

func NewText(w io.Writer) *Logger {
	return newLogger(slog.NewTextHandler(w, handlerOptions()))
}

func NewJson(w io.Writer) *Logger {
	return newLogger(slog.NewJSONHandler(w, handlerOptions()))
}

// SetLevel sets the logging level and returns the previous level.
func (l *Logger) SetLevel(level Level) (prev Level) {
	return Level(l.level.Swap(int64(level)))
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

func (l *Logger) log(t any, msg string, level Level, v ...any) {
	cur := l.Level()
	if cur > level {
		return
	}

	// Skip this function and the level function
	if cur <= LevelDebug {
		if pc, _, _, ok := runtime.Caller(2); ok {
			if f := runtime.FuncForPC(pc); f != nil {
				v = append(v, slog.SourceKey, f.Name())
			}
		}
	}

	if t != nil {
		if tag, ok := t.(Tag); ok {
			v = append([]any{"tag", tag.String()}, v...)
		} else {
			v = append([]any{"tag", t}, v...)
		}
	}

	l.slog.Log(context.Background(), slog.Level(level), msg, v...)
}

func (l *Logger) Trace(t any, msg string, v ...any) {
	l.log(t, msg, LevelTrace, v...)
}

func (l *Logger) Debug(t any, msg string, v ...any) {
	l.log(t, msg, LevelDebug, v...)
}

func (l *Logger) Info(t any, msg string, v ...any) {
	l.log(t, msg, LevelInfo, v...)
}

func (l *Logger) Warn(t any, msg string, v ...any) {
	l.log(t, msg, LevelWarn, v...)
}

func (l *Logger) Error(t any, msg string, v ...any) {
	l.log(t, msg, LevelError, v...)
}

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(t any, msg string, v ...any) {
	l.log(t, msg, LevelFatal, v...)
	os.Exit(1)
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(Level(level).String())
		}
	}
	return a
}
