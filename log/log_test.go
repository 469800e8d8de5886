package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestJSONRecords(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWriter("warn", buf)
	l.Infof("dropped %d", 1)
	l.Warnf("kept %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d records: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "kept 2" || rec["level"] != "WARN" {
		t.Errorf("record %v", rec)
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debugf("nothing")
	l.Infof("nothing")
	if l.Slog() != nil {
		t.Errorf("nil logger has a slog logger")
	}
}

func TestRotatedFile(t *testing.T) {
	dir := t.TempDir()
	l := New("debug", dir)
	l.Debugf("frame %d", 1)

	if l.LogFile != filepath.Join(dir, FILENAME) {
		t.Errorf("log file %s", l.LogFile)
	}
	data, err := os.ReadFile(l.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "frame 1") {
		t.Errorf("debug record missing from %s", l.LogFile)
	}
}

func TestStartRecord(t *testing.T) {
	buf := &bytes.Buffer{}
	NewWriter("debug", buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d startup records: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "gogx: logging started" || rec["level"] != "INFO" {
		t.Errorf("record %v", rec)
	}
}
