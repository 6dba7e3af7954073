// Package hooks invokes an external command after task events.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Environment variables passed to the hook command.
const (
	EnvEvent    = "TERMTASKS_EVENT"
	EnvTaskID   = "TERMTASKS_TASK_ID"
	EnvTaskText = "TERMTASKS_TASK_TEXT"
	EnvFile     = "TERMTASKS_FILE"
)

// DefaultTimeout bounds a hook run when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// maxOutput caps the captured combined output.
const maxOutput = 4096

// Options configures a hook invocation.
type Options struct {
	// Command is the executable followed by optional whitespace-separated
	// arguments. The event name and task id are appended.
	Command   string
	Event     string
	TaskID    string
	TaskText  string
	TasksFile string
	WorkDir   string
	Timeout   time.Duration
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	Event    string
	TaskID   string
	Output   string
}

// Invoke runs the hook command for one event. An empty command or event is
// not an error; the hook simply does not run.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	fields := strings.Fields(opts.Command)
	if len(fields) == 0 || strings.TrimSpace(opts.Event) == "" {
		return Result{}, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(fields[1:], opts.Event)
	if opts.TaskID != "" {
		args = append(args, opts.TaskID)
	}

	cmd := exec.CommandContext(ctx, fields[0], args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(), hookEnv(opts)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
		Event:    opts.Event,
		TaskID:   opts.TaskID,
		Output:   capOutput(out.String()),
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("hook command timed out after %s: %w", timeout, err)
		}
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func hookEnv(opts Options) []string {
	return []string{
		EnvEvent + "=" + opts.Event,
		EnvTaskID + "=" + opts.TaskID,
		EnvTaskText + "=" + opts.TaskText,
		EnvFile + "=" + opts.TasksFile,
	}
}

func capOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxOutput {
		return s[:maxOutput]
	}
	return s
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
