// Package logging provides tests for the file logger and tail output.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// TestNew tests creating a file-backed logger.
func TestNew(t *testing.T) {
	t.Run("writes to the log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "termtasks.log")
		l, err := New(Options{Path: path, Level: "debug", Format: "logfmt"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		l.Debug("store opened", "tasks", 3)
		if err := l.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		got := string(data)
		for _, want := range []string{"level=debug", "prefix=termtasks", `msg="store opened"`, "tasks=3"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in %q", want, got)
			}
		}
	})

	t.Run("appends across opens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "termtasks.log")
		for _, msg := range []string{"first", "second"} {
			l, err := New(Options{Path: path})
			if err != nil {
				t.Fatal(err)
			}
			l.Info(msg)
			l.Close()
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
			t.Errorf("expected both lines, got %q", data)
		}
	})

	t.Run("level filters records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "termtasks.log")
		l, err := New(Options{Path: path, Level: "warn"})
		if err != nil {
			t.Fatal(err)
		}
		l.Info("hidden")
		l.Warn("shown")
		l.Close()
		data, _ := os.ReadFile(path)
		if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("empty path discards", func(t *testing.T) {
		l, err := New(Options{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		l.Error("nowhere")
		if err := l.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	t.Run("unopenable file still returns a logger", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		l, err := New(Options{Path: filepath.Join(blocker, "termtasks.log")})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if l == nil || l.Logger == nil {
			t.Fatal("expected a usable logger")
		}
		l.Warn("still safe")
	})

	t.Run("rotates oversized file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "termtasks.log")
		if err := os.WriteFile(path, bytes.Repeat([]byte("x"), MaxFileSize+1), 0644); err != nil {
			t.Fatal(err)
		}
		l, err := New(Options{Path: path})
		if err != nil {
			t.Fatal(err)
		}
		l.Close()
		if _, err := os.Stat(path + ".1"); err != nil {
			t.Errorf("expected rotated file: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() > MaxFileSize {
			t.Errorf("log file was not rotated, size %d", info.Size())
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"bogus", log.InfoLevel},
		{"", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLevelAndFormat(t *testing.T) {
	if !ValidLevel("Warn") || ValidLevel("loud") {
		t.Error("ValidLevel mismatch")
	}
	if !ValidFormat("json") || !ValidFormat("logfmt") || !ValidFormat("text") || ValidFormat("xml") {
		t.Error("ValidFormat mismatch")
	}
}

// syncBuffer guards a bytes.Buffer shared with the follow goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestTailLog tests tailing log files.
func TestTailLog(t *testing.T) {
	t.Run("tails entire file when n=0", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		content := []byte("line1\nline2\nline3\n")
		if err := os.WriteFile(logFile, content, 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, logFile, 0, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != string(content) {
			t.Errorf("expected %q, got %q", content, buf.String())
		}
	})

	t.Run("tails last n lines", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("line1\nline2\nline3\nline4\nline5\n"), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, logFile, 2, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "line4\nline5\n" {
			t.Errorf("expected last two lines, got %q", buf.String())
		}
	})

	t.Run("n larger than file shows everything", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("a\nb"), 0644); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, logFile, 10, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "a\nb" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("spans multiple read chunks", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		var content strings.Builder
		for i := 0; i < 2000; i++ {
			content.WriteString(strings.Repeat("x", 20) + "\n")
		}
		content.WriteString("tail-a\ntail-b\n")
		if err := os.WriteFile(logFile, []byte(content.String()), 0644); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, logFile, 3, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != strings.Repeat("x", 20)+"\ntail-a\ntail-b\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, "/nonexistent/file.log", 0, false); err == nil {
			t.Fatal("expected error for non-existent file, got nil")
		}
	})

	t.Run("follow mode with file write", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping follow test on Windows due to file locking issues")
		}

		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("initial\n"), 0644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		buf := &syncBuffer{}
		done := make(chan error, 1)
		go func() {
			done <- TailLog(ctx, buf, logFile, 0, true)
		}()

		time.Sleep(50 * time.Millisecond)
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.WriteString("appended line\n"); err != nil {
			t.Fatal(err)
		}
		f.Close()

		deadline := time.Now().Add(2 * time.Second)
		for !strings.Contains(buf.String(), "appended") && time.Now().Before(deadline) {
			time.Sleep(20 * time.Millisecond)
		}
		cancel()
		if err := <-done; err != nil {
			t.Errorf("follow returned %v", err)
		}

		got := buf.String()
		if !strings.Contains(got, "initial") {
			t.Error("expected initial content in tail output")
		}
		if !strings.Contains(got, "appended") {
			t.Error("expected appended content in tail output")
		}
	})
}
