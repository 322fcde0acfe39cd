package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"taskboard-web/internal/core/port"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{" INFO ", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.known {
			t.Errorf("ParseLevel(%q) = %v,%v; want %v,%v", tt.in, got, ok, tt.want, tt.known)
		}
	}
}

func TestSlogAdapter_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.WithFields(port.Fields{"component": "test"}).Error("boom", errors.New("bad"), port.Fields{"task_id": "5"})

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v; out=%s", err, buf.String())
	}
	if rec["msg"] != "boom" || rec["component"] != "test" || rec["task_id"] != "5" || rec["error"] != "bad" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestSlogAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	logger.Warn("shown", nil)
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn record, got %q", buf.String())
	}
}

type recordingLogger struct {
	mu      *sync.Mutex
	records *[]string
	fields  port.Fields
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, records: &[]string{}, fields: port.Fields{}}
}

func (r *recordingLogger) add(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.records = append(*r.records, level+":"+msg)
}

func (r *recordingLogger) Info(msg string, _ port.Fields)           { r.add("info", msg) }
func (r *recordingLogger) Warn(msg string, _ port.Fields)           { r.add("warn", msg) }
func (r *recordingLogger) Error(msg string, _ error, _ port.Fields) { r.add("error", msg) }
func (r *recordingLogger) Debug(msg string, _ port.Fields)          { r.add("debug", msg) }
func (r *recordingLogger) WithFields(fields port.Fields) port.LoggerPort {
	merged := port.Fields{}
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{mu: r.mu, records: r.records, fields: merged}
}

func TestMultiLogger_FansOut(t *testing.T) {
	a, b := newRecordingLogger(), newRecordingLogger()
	multi, err := NewMultiloggerAdapter(a, nil, b)
	if err != nil {
		t.Fatalf("NewMultiloggerAdapter: %v", err)
	}

	multi.WithFields(port.Fields{"k": "v"}).Info("hello", nil)
	multi.Error("oops", nil, nil)

	for name, l := range map[string]*recordingLogger{"a": a, "b": b} {
		got := strings.Join(*l.records, ",")
		if got != "info:hello,error:oops" {
			t.Errorf("logger %s records = %q", name, got)
		}
	}
}

func TestMultiLogger_RequiresLogger(t *testing.T) {
	if _, err := NewMultiloggerAdapter(); err == nil {
		t.Fatal("expected error for empty logger list")
	}
}

type fakeFluent struct {
	tags     []string
	messages []map[string]interface{}
}

func (f *fakeFluent) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.messages = append(f.messages, message.(port.Fields))
	return nil
}

func (f *fakeFluent) Close() error { return nil }

func TestFluentAdapter_FiltersAndMerges(t *testing.T) {
	client := &fakeFluent{}
	adapter := newFluentLoggerAdapter(client, slog.LevelInfo)
	adapter.now = func() time.Time { return time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC) }

	logger := adapter.WithFields(port.Fields{"service_name": "taskboard-web"})
	logger.Debug("dropped", nil)
	logger.Error("failed", errors.New("upstream"), port.Fields{"status_code": 502})

	if len(client.tags) != 1 || client.tags[0] != "error" {
		t.Fatalf("tags = %v", client.tags)
	}
	msg := client.messages[0]
	if msg["service_name"] != "taskboard-web" || msg["error"] != "upstream" || msg["status_code"] != 502 {
		t.Fatalf("unexpected message: %v", msg)
	}
	if msg["timestamp"] != "2026-01-07T10:00:00Z" {
		t.Fatalf("timestamp = %v", msg["timestamp"])
	}
}

func TestNewFluentClient_RequiresTagPrefix(t *testing.T) {
	if _, err := NewFluentClient(FluentConfig{Host: "127.0.0.1", Port: 24224}); err == nil {
		t.Fatal("expected error without tag prefix")
	}
}
