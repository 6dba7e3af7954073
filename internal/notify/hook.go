package notify

import (
	"context"
	"time"

	"github.com/nibzard/termtasks/internal/hooks"
)

// HookSink runs the user's hook command after store changes.
type HookSink struct {
	Command   string
	TasksFile string
	Timeout   time.Duration

	invoke func(context.Context, hooks.Options) (hooks.Result, error)
}

// NewHookSink returns nil when command is empty. Check for nil before
// handing the result to NewDispatcher as a Sink.
func NewHookSink(command, tasksFile string, timeout time.Duration) *HookSink {
	if command == "" {
		return nil
	}
	return &HookSink{Command: command, TasksFile: tasksFile, Timeout: timeout, invoke: hooks.Invoke}
}

func (s *HookSink) Name() string { return "hook" }

func (s *HookSink) Accepts(ev Event) bool { return ev.Kind.IsMutation() }

func (s *HookSink) Deliver(ctx context.Context, ev Event) error {
	_, err := s.invoke(ctx, hooks.Options{
		Command:   s.Command,
		Event:     string(ev.Kind),
		TaskID:    ev.TaskID,
		TaskText:  ev.TaskText,
		TasksFile: s.TasksFile,
		Timeout:   s.Timeout,
	})
	return err
}
