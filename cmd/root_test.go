// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/query"
	"github.com/nibzard/termtasks/internal/todo"
)

var envNames = []string{
	"FILE", "LOG_DIR", "LOG_LEVEL", "LOG_FORMAT", "LOG_TIMESTAMPS", "LOG_CALLER",
	"SOUND", "NOTIFY", "BOOT", "ANIMATIONS", "FILTER", "HOOK", "HOOK_TIMEOUT",
}

// isolate points HOME and the working directory at temp dirs and returns
// the tasks file path to pass with -file.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range envNames {
		t.Setenv(config.EnvPrefix+name, "")
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", work)
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	return filepath.Join(work, "tasks.json")
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	runErr := fn()
	_ = w.Close()

	output, readErr := io.ReadAll(r)
	_ = r.Close()
	if readErr != nil {
		t.Fatalf("ReadAll() error = %v", readErr)
	}

	return string(output), runErr
}

func run(t *testing.T, file string, args ...string) (string, error) {
	t.Helper()
	full := append([]string{"-file", file}, args...)
	return captureStdout(t, func() error {
		return Run(context.Background(), full)
	})
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Bool("x", false, "")
	return fs
}

func testTime() time.Time {
	return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

func loadTasks(t *testing.T, path string) []todo.Task {
	t.Helper()
	tasks, _, err := todo.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return tasks
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	file := isolate(t)

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}, {"--version"}, {"-v"}, {"version"}} {
		if _, err := run(t, file, args...); err != nil {
			t.Errorf("Run(%v): %v", args, err)
		}
	}

	out, _ := run(t, file, "version")
	if !strings.Contains(out, "termtasks version "+Version) {
		t.Errorf("version output = %q", out)
	}

	_, err := run(t, file, "unknown-command")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command error, got %v", err)
	}

	_, err = run(t, file, "tui")
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("tui without a terminal: got %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	file := isolate(t)

	out, err := run(t, file, "add", "-p", "high", "Buy", "milk")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Added") || !strings.Contains(out, "Buy milk") {
		t.Fatalf("add output = %q", out)
	}
	if _, err := run(t, file, "add", "-due", "2000-01-01", "Pay rent"); err != nil {
		t.Fatalf("add with due: %v", err)
	}

	tasks := loadTasks(t, file)
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	rent, milk := tasks[0], tasks[1]
	if rent.Text != "Pay rent" || rent.DueDate == nil || rent.DueDate.String() != "2000-01-01" {
		t.Fatalf("rent = %+v", rent)
	}
	if milk.Priority != todo.PriorityHigh {
		t.Fatalf("milk priority = %s", milk.Priority)
	}

	out, err = run(t, file, "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "[HIGH] Buy milk") || !strings.Contains(out, "DUE: 2000-01-01 [OVERDUE]") {
		t.Fatalf("ls output = %q", out)
	}
	out, _ = run(t, file, "ls", "overdue")
	if strings.Contains(out, "Buy milk") || !strings.Contains(out, "Pay rent") {
		t.Fatalf("ls overdue = %q", out)
	}
	out, _ = run(t, file, "ls", "-search", "MILK")
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Pay rent") {
		t.Fatalf("ls -search = %q", out)
	}

	if _, err := run(t, file, "done", milk.ID[:6]); err != nil {
		t.Fatalf("done by prefix: %v", err)
	}
	if got := loadTasks(t, file)[1]; !got.Completed || got.CompletedAt == nil {
		t.Fatalf("milk not completed: %+v", got)
	}

	if _, err := run(t, file, "edit", rent.ID, "-due", "", "-text", "Pay rent today"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := loadTasks(t, file)[0]; got.DueDate != nil || got.Text != "Pay rent today" {
		t.Fatalf("edited rent = %+v", got)
	}

	out, err = run(t, file, "stats", "-format", "json")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats query.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("stats json: %v\n%s", err, out)
	}
	if stats.Total != 2 || stats.Completed != 1 || stats.Percent != 50 {
		t.Fatalf("stats = %+v", stats)
	}

	out, _ = run(t, file, "clear")
	if !strings.Contains(out, "Cleared 1 completed task(s).") {
		t.Fatalf("clear output = %q", out)
	}
	out, _ = run(t, file, "clear")
	if !strings.Contains(out, "No completed tasks.") {
		t.Fatalf("second clear output = %q", out)
	}

	if _, err := run(t, file, "rm", rent.ID); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if got := loadTasks(t, file); len(got) != 0 {
		t.Fatalf("tasks after rm = %+v", got)
	}
	out, _ = run(t, file, "ls")
	if !strings.Contains(out, "No tasks found.") {
		t.Fatalf("empty ls = %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	file := isolate(t)

	tests := []struct {
		name string
		args []string
		want error
		msg  string
	}{
		{"empty add", []string{"add", "  "}, todo.ErrEmptyText, ""},
		{"bad priority", []string{"add", "-p", "urgent", "x"}, todo.ErrInvalidPriority, ""},
		{"bad due", []string{"add", "-due", "2024-02-30", "x"}, todo.ErrInvalidDate, ""},
		{"unknown id", []string{"done", "nope"}, todo.ErrNotFound, ""},
		{"missing id", []string{"rm"}, nil, "missing task id"},
		{"bad filter", []string{"ls", "-filter", "soon"}, query.ErrUnknownKind, ""},
		{"bad export format", []string{"export", "-format", "xml"}, nil, "unknown format"},
		{"bad config action", []string{"config", "remove"}, nil, "unknown config action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, file, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("error = %v, want %q", err, tt.msg)
			}
		})
	}

	if _, err := os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("failed commands must not create the tasks file")
	}
}

func TestEditRequiresAChange(t *testing.T) {
	file := isolate(t)
	if _, err := run(t, file, "add", "task"); err != nil {
		t.Fatal(err)
	}
	id := loadTasks(t, file)[0].ID

	_, err := run(t, file, "edit", id)
	if err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Fatalf("got %v", err)
	}
	if _, err := run(t, file, "edit", "-p", "low", id); err != nil {
		t.Fatalf("flags before id: %v", err)
	}
	if got := loadTasks(t, file)[0]; got.Priority != todo.PriorityLow || got.Text != "task" {
		t.Fatalf("task = %+v", got)
	}
}

func TestParseWithRef(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"ref first", []string{"abc", "-x"}, "abc", false},
		{"ref last", []string{"-x", "abc"}, "abc", false},
		{"missing", []string{"-x"}, "", true},
		{"extra", []string{"abc", "def"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet()
			got, err := parseWithRef(fs, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ref = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeTasks(t *testing.T) {
	due, _ := todo.ParseDate("2024-06-20")
	tasks := []todo.Task{{
		ID:        "a1",
		Text:      "Buy milk",
		Priority:  todo.PriorityMed,
		DueDate:   &due,
		CreatedAt: testTime(),
	}}

	jsonOut, err := encodeTasks(tasks, "json")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := todo.EncodeTasks(tasks)
	if string(jsonOut) != string(want) {
		t.Fatalf("json export differs from the tasks file format:\n%s", jsonOut)
	}

	yamlOut, err := encodeTasks(tasks, "yaml")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"tasks:", "text: Buy milk", "priority: MED", "2024-06-20"} {
		if !strings.Contains(string(yamlOut), s) {
			t.Errorf("yaml missing %q:\n%s", s, yamlOut)
		}
	}

	tomlOut, err := encodeTasks(tasks, "toml")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"[[tasks]]", `text = "Buy milk"`, `due_date = "2024-06-20"`} {
		if !strings.Contains(string(tomlOut), s) {
			t.Errorf("toml missing %q:\n%s", s, tomlOut)
		}
	}
	if strings.Contains(string(tomlOut), "completed_at") {
		t.Errorf("toml should omit an absent completed_at:\n%s", tomlOut)
	}
}

func TestExportToFile(t *testing.T) {
	file := isolate(t)
	if _, err := run(t, file, "add", "export me"); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "tasks.yaml")
	if _, err := run(t, file, "export", "-format", "yaml", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "text: export me") {
		t.Fatalf("export file = %s", data)
	}
}

func TestDoctorCommand(t *testing.T) {
	file := isolate(t)

	out, err := run(t, file, "doctor")
	if err != nil {
		t.Fatalf("doctor on missing file: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Not found (will be created on first change)") {
		t.Fatalf("output = %q", out)
	}

	if _, err := run(t, file, "add", "ok"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, file, "doctor", "-v")
	if err != nil {
		t.Fatalf("doctor on valid file: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Valid (JSON Schema)") || !strings.Contains(out, "Tasks: 1") {
		t.Fatalf("output = %q", out)
	}

	if err := os.WriteFile(file, []byte(`[{"id":"x","text":"","completed":false,"priority":"URGENT"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, file, "doctor")
	if err == nil || !strings.Contains(out, "Validation failed") {
		t.Fatalf("invalid file: err=%v\n%s", err, out)
	}

	if err := os.WriteFile(file, []byte("[]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, file, "-hook", "definitely-not-a-real-binary-42", "doctor")
	if err == nil || !strings.Contains(out, "Not found") {
		t.Fatalf("missing hook binary: err=%v\n%s", err, out)
	}
}

func TestConfigCommand(t *testing.T) {
	file := isolate(t)

	out, err := run(t, file, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(none, using defaults)") || !strings.Contains(out, "tasks_file") {
		t.Fatalf("config show = %q", out)
	}
	if !strings.Contains(out, "(flag)") {
		t.Fatalf("-file should be reported as a flag source: %q", out)
	}

	path := filepath.Join(t.TempDir(), "termtasks.toml")
	if _, err := run(t, file, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("example config not written: %v", err)
	}
	_, err = run(t, file, "config", "init", path)
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("second init: %v", err)
	}
}

func TestTailCommand(t *testing.T) {
	file := isolate(t)
	logDir := t.TempDir()

	out, err := run(t, file, "-log-dir", logDir, "tail")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No log file found.") {
		t.Fatalf("tail without log = %q", out)
	}

	logPath := filepath.Join(logDir, "termtasks.log")
	if err := os.WriteFile(logPath, []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, file, "-log-dir", logDir, "tail", "-n", "2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "two\nthree\n") {
		t.Fatalf("tail -n 2 = %q", out)
	}
}

func TestHookRunsAfterMutation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook script needs a POSIX shell")
	}
	file := isolate(t)
	dir := t.TempDir()
	record := filepath.Join(dir, "events")
	script := filepath.Join(dir, "hook.sh")
	body := "#!/bin/sh\necho \"$TERMTASKS_EVENT $TERMTASKS_TASK_TEXT\" >> " + record + "\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, file, "-hook", script, "add", "hooked"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("hook did not run: %v", err)
	}
	if strings.TrimSpace(string(data)) != "add hooked" {
		t.Fatalf("hook saw %q", data)
	}
}
