// Package query derives read-only views over a task collection: status
// filters, text search, overdue detection and summary statistics. Nothing in
// this package mutates its input.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/termtasks/internal/todo"
)

// ErrUnknownKind is returned by ParseKind for unrecognized filter names.
var ErrUnknownKind = errors.New("unknown filter")

// Kind selects a status-based subset of tasks.
type Kind string

const (
	All       Kind = "all"
	Pending   Kind = "pending"
	Completed Kind = "completed"
	High      Kind = "high"
	Overdue   Kind = "overdue"
)

var kindLabels = map[Kind]string{
	All:       "ALL",
	Pending:   "ACTIVE",
	Completed: "DONE",
	High:      "!HIGH",
	Overdue:   "OVERDUE",
}

// Kinds returns every filter kind in tab order.
func Kinds() []Kind {
	return []Kind{All, Pending, Completed, High, Overdue}
}

// ParseKind converts a filter name to a Kind. Matching is case-insensitive
// and accepts "active" and "done" as aliases. The empty string means All.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "pending", "active":
		return Pending, nil
	case "completed", "done":
		return Completed, nil
	case "high":
		return High, nil
	case "overdue":
		return Overdue, nil
	default:
		return All, fmt.Errorf("%w %q, must be one of: all, pending, completed, high, overdue", ErrUnknownKind, s)
	}
}

// Label is the short tab caption for k.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return strings.ToUpper(string(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// Match reports whether task belongs to the subset k selects on date today.
// Unknown kinds match everything.
func (k Kind) Match(task todo.Task, today todo.Date) bool {
	switch k {
	case Pending:
		return !task.Completed
	case Completed:
		return task.Completed
	case High:
		return !task.Completed && task.Priority == todo.PriorityHigh
	case Overdue:
		return IsOverdue(task, today)
	default:
		return true
	}
}

// IsOverdue reports whether task is incomplete with a due date strictly
// before today.
func IsOverdue(task todo.Task, today todo.Date) bool {
	return !task.Completed && task.DueDate != nil && task.DueDate.Before(today)
}

// Filter returns the tasks selected by kind whose text contains search,
// case-insensitively, preserving input order. A blank search keeps every
// task the status filter selects.
func Filter(tasks []todo.Task, kind Kind, search string, today todo.Date) []todo.Task {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]todo.Task, 0, len(tasks))
	for _, t := range tasks {
		if !kind.Match(t, today) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// OverdueTasks returns the overdue tasks in input order.
func OverdueTasks(tasks []todo.Task, today todo.Date) []todo.Task {
	return Filter(tasks, Overdue, "", today)
}

// Stats summarizes a task collection.
type Stats struct {
	Total        int `json:"total" yaml:"total"`
	Completed    int `json:"completed" yaml:"completed"`
	Pending      int `json:"pending" yaml:"pending"`
	HighPriority int `json:"high_priority" yaml:"high_priority"`
	Overdue      int `json:"overdue" yaml:"overdue"`
	Percent      int `json:"completion_percentage" yaml:"completion_percentage"`
}

// Summarize computes Stats for tasks on date today. HighPriority counts only
// incomplete HIGH tasks; Percent is floor(100*Completed/Total), or 0 when
// there are no tasks.
func Summarize(tasks []todo.Task, today todo.Date) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			continue
		}
		s.Pending++
		if t.Priority == todo.PriorityHigh {
			s.HighPriority++
		}
		if IsOverdue(t, today) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		s.Percent = 100 * s.Completed / s.Total
	}
	return s
}

// Bar renders the completion bar as one '=' per full 10%, padded with
// spaces to width. A width below 10 is treated as 10.
func (s Stats) Bar(width int) string {
	if width < 10 {
		width = 10
	}
	filled := s.Percent / 10
	return strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
}

// DueLabel describes task's due date, e.g. "DUE: 2024-06-14 [OVERDUE]". It
// returns "" when there is no due date.
func DueLabel(task todo.Task, today todo.Date) string {
	if task.DueDate == nil {
		return ""
	}
	label := "DUE: " + task.DueDate.String()
	if IsOverdue(task, today) {
		label += " [OVERDUE]"
	}
	return label
}
