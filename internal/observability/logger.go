package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LogLevel is the log severity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel maps a level name to its LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
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

// Logger writes leveled key=value lines and carries bound fields. Field
// binding returns a copy, so loggers are safe to share across goroutines.
type Logger struct {
	mu          sync.Mutex
	out         io.Writer
	minLevel    LogLevel
	serviceName string
	fields      []field
}

type field struct {
	key   string
	value interface{}
}

var (
	defaultLogger *Logger
	loggerOnce    sync.Once
)

// NewLogger creates a logger writing to stdout.
func NewLogger(serviceName string, minLevel LogLevel) *Logger {
	return &Logger{
		out:         os.Stdout,
		minLevel:    minLevel,
		serviceName: serviceName,
	}
}

// GetLogger returns the process-wide logger, configured once from
// SERVICE_NAME and LOG_LEVEL.
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		serviceName := os.Getenv("SERVICE_NAME")
		if serviceName == "" {
			serviceName = "photoarc-server"
		}
		defaultLogger = NewLogger(serviceName, ParseLevel(os.Getenv("LOG_LEVEL")))
	})
	return defaultLogger
}

// SetOutput redirects log output, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) bind(extra ...field) *Logger {
	fields := make([]field, 0, len(l.fields)+len(extra))
	fields = append(fields, l.fields...)
	fields = append(fields, extra...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].key < fields[j].key })

	return &Logger{
		out:         l.out,
		minLevel:    l.minLevel,
		serviceName: l.serviceName,
		fields:      fields,
	}
}

// WithField returns a copy of the logger with the field bound.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.bind(field{key, value})
}

// WithFields returns a copy of the logger with all fields bound.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	extra := make([]field, 0, len(fields))
	for k, v := range fields {
		extra = append(extra, field{k, v})
	}
	return l.bind(extra...)
}

// WithContext binds the trace and span ids from ctx, if a recording
// span is present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return l
	}
	return l.bind(
		field{"trace_id", sc.TraceID().String()},
		field{"span_id", sc.SpanID().String()},
	)
}

func (l *Logger) Debug(msg string) { l.emit(LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.emit(LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.emit(LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.emit(LevelError, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.emit(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.emit(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(LevelError, fmt.Sprintf(format, args...))
}

func (l *Logger) emit(level LogLevel, msg string) {
	if level < l.minLevel {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006/01/02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.key, f.value)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, b.String())
}

// Package-level helpers delegating to the default logger.

func Debug(msg string) { GetLogger().Debug(msg) }
func Info(msg string)  { GetLogger().Info(msg) }
func Warn(msg string)  { GetLogger().Warn(msg) }
func Error(msg string) { GetLogger().Error(msg) }

func Debugf(format string, args ...interface{}) { GetLogger().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { GetLogger().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { GetLogger().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { GetLogger().Errorf(format, args...) }

func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

func WithContext(ctx context.Context) *Logger {
	return GetLogger().WithContext(ctx)
}

// Attribute helpers for span fields shared across the codebase.

func RequestID(id string) attribute.KeyValue {
	return attribute.String("request_id", id)
}

func PhotoID(id string) attribute.KeyValue {
	return attribute.String("photo_id", id)
}

func Filename(name string) attribute.KeyValue {
	return attribute.String("filename", name)
}

func Operation(op string) attribute.KeyValue {
	return attribute.String("operation", op)
}

func Duration(d time.Duration) attribute.KeyValue {
	return attribute.Int64("duration_ms", d.Milliseconds())
}
