package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to the task file path to name its lock file.
const LockSuffix = ".lock"

// DecodeTasks parses a task file. Repaired fields are reported as warnings
// rather than errors; only malformed JSON fails.
func DecodeTasks(data []byte) ([]Task, []string, error) {
	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("parse tasks file: %w", err)
	}

	tasks := make([]Task, 0, len(records))
	var warnings []string
	for i, r := range records {
		task, w := r.normalize()
		for _, msg := range w {
			warnings = append(warnings, fmt.Sprintf("[%d].%s", i, msg))
		}
		tasks = append(tasks, task)
	}
	return tasks, warnings, nil
}

// EncodeTasks renders tasks as the on-disk JSON array: 2-space indentation,
// no HTML escaping, trailing newline. A nil slice encodes as [].
func EncodeTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFile reads and decodes the task file at path. Unlike Store.Load it
// reports failures, including a missing file.
func LoadFile(path string) ([]Task, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read tasks file: %w", err)
	}
	return DecodeTasks(data)
}

// SaveFile atomically replaces the task file at path with tasks.
func SaveFile(path string, tasks []Task) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temporary file beside path and renames it
// into place while holding an exclusive lock on path+LockSuffix.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create tasks dir: %w", err)
	}

	lock := flock.New(path + LockSuffix)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock tasks file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	return nil
}
