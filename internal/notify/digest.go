package notify

import (
	"fmt"
	"strings"

	"github.com/nibzard/termtasks/internal/query"
	"github.com/nibzard/termtasks/internal/todo"
	"github.com/nibzard/termtasks/internal/utils"
)

const (
	digestItems   = 3
	digestTextLen = 40
)

// OverdueDigest summarizes the overdue tasks as a desktop event. It reports
// false when nothing is overdue.
func OverdueDigest(tasks []todo.Task, today todo.Date) (Event, bool) {
	overdue := query.OverdueTasks(tasks, today)
	if len(overdue) == 0 {
		return Event{}, false
	}

	lines := make([]string, 0, digestItems+1)
	for i, t := range overdue {
		if i == digestItems {
			lines = append(lines, fmt.Sprintf("...and %d more", len(overdue)-digestItems))
			break
		}
		lines = append(lines, utils.Truncate(t.Text, digestTextLen, ""))
	}

	title := fmt.Sprintf("⚠ %d OVERDUE TASK", len(overdue))
	if len(overdue) > 1 {
		title += "S"
	}
	return Event{
		Kind:   Overdue,
		Title:  title,
		Body:   strings.Join(lines, "\n"),
		Urgent: true,
	}, true
}
