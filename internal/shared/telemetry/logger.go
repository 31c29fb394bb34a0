// Package telemetry writes one JSON object per log line.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var levels = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

var (
	mu       sync.Mutex
	out      io.Writer = os.Stdout
	minLevel           = levelFromEnv(os.Getenv("LOG_LEVEL"))
)

func levelFromEnv(raw string) int {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return lvl
	}
	return levels["info"]
}

// SetOutput redirects log lines and returns a func restoring the previous writer.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return func() {
		mu.Lock()
		out = prev
		mu.Unlock()
	}
}

// Debug is dropped unless LOG_LEVEL=debug.
func Debug(msg string, fields map[string]any) {
	write("debug", msg, fields)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write("warn", msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write("error", msg, fields)
}

type requestIDKey struct{}

// WithRequestID attaches a request id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Fields adds the request id carried by ctx to fields, allocating when fields is nil.
func Fields(ctx context.Context, fields map[string]any) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	if id := RequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	return fields
}

func write(level, msg string, fields map[string]any) {
	if levels[level] < minLevel {
		return
	}
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	now := time.Now().UTC().Format(time.RFC3339)
	entry["ts"] = now
	entry["level"] = level
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		fmt.Fprintf(out, `{"ts":%q,"level":"error","msg":"logger marshal failed","err":%q}`+"\n", now, err.Error())
		return
	}
	out.Write(append(data, '\n'))
}
