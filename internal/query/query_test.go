package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/termtasks/internal/todo"
)

var today = todo.Date{Year: 2024, Month: time.June, Day: 15}

func due(s string) *todo.Date {
	d, err := todo.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func task(id string, completed bool, p todo.Priority, dueDate *todo.Date) todo.Task {
	t := todo.Task{ID: id, Text: "task " + id, Completed: completed, Priority: p, DueDate: dueDate}
	if completed {
		now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		t.CompletedAt = &now
	}
	return t
}

func ids(tasks []todo.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"", All},
		{"all", All},
		{"Pending", Pending},
		{"active", Pending},
		{"completed", Completed},
		{"DONE", Completed},
		{" high ", High},
		{"overdue", Overdue},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("urgent")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindLabels(t *testing.T) {
	var labels []string
	for _, k := range Kinds() {
		assert.True(t, k.Valid())
		labels = append(labels, k.Label())
	}
	assert.Equal(t, []string{"ALL", "ACTIVE", "DONE", "!HIGH", "OVERDUE"}, labels)
	assert.False(t, Kind("bogus").Valid())
}

func TestIsOverdue(t *testing.T) {
	pending := task("a", false, todo.PriorityNone, due("2024-06-14"))
	assert.True(t, IsOverdue(pending, today))

	done := task("a", true, todo.PriorityNone, due("2024-06-14"))
	assert.False(t, IsOverdue(done, today))

	assert.False(t, IsOverdue(task("b", false, todo.PriorityNone, due("2024-06-15")), today), "due today is not overdue")
	assert.False(t, IsOverdue(task("c", false, todo.PriorityNone, nil), today))
	assert.True(t, IsOverdue(task("d", false, todo.PriorityNone, due("2023-12-31")), today))
}

func TestFilter(t *testing.T) {
	tasks := []todo.Task{
		task("h1", false, todo.PriorityHigh, nil),
		task("l1", false, todo.PriorityLow, due("2024-06-14")),
		task("h2", true, todo.PriorityHigh, due("2024-06-01")),
		task("n1", false, todo.PriorityNone, due("2024-06-20")),
		task("h3", false, todo.PriorityHigh, due("2024-06-10")),
	}

	tests := []struct {
		kind Kind
		want []string
	}{
		{All, []string{"h1", "l1", "h2", "n1", "h3"}},
		{Pending, []string{"h1", "l1", "n1", "h3"}},
		{Completed, []string{"h2"}},
		{High, []string{"h1", "h3"}},
		{Overdue, []string{"l1", "h3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(tasks, tt.kind, "", today)))
		})
	}
}

func TestFilterOverdueScenario(t *testing.T) {
	yesterday := today.AddDays(-1)
	tomorrow := today.AddDays(1)
	tasks := []todo.Task{
		task("late", false, todo.PriorityNone, &yesterday),
		task("soon", false, todo.PriorityNone, &tomorrow),
	}
	assert.Equal(t, []string{"late"}, ids(Filter(tasks, Overdue, "", today)))
	assert.Equal(t, []string{"late"}, ids(OverdueTasks(tasks, today)))
}

func TestFilterSearch(t *testing.T) {
	tasks := []todo.Task{
		{ID: "1", Text: "Buy MILK"},
		{ID: "2", Text: "call mom", Completed: true},
		{ID: "3", Text: "milkshake recipe"},
	}
	assert.Equal(t, []string{"1", "3"}, ids(Filter(tasks, All, "milk", today)))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(tasks, All, "  Milk ", today)))
	assert.Equal(t, []string{"2"}, ids(Filter(tasks, Completed, "", today)))
	assert.Empty(t, Filter(tasks, Completed, "milk", today))
	assert.Len(t, Filter(tasks, All, "   ", today), 3)
}

func TestFilterDoesNotMutate(t *testing.T) {
	tasks := []todo.Task{{ID: "1", Text: "a"}, {ID: "2", Text: "b", Completed: true}}
	_ = Filter(tasks, Pending, "a", today)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "2", tasks[1].ID)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil, today))

	single := []todo.Task{task("milk", true, todo.PriorityHigh, nil)}
	s := Summarize(single, today)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 100, s.Percent)
	assert.Equal(t, 0, s.HighPriority, "completed HIGH tasks are not counted")

	mixed := []todo.Task{
		task("a", false, todo.PriorityHigh, due("2024-06-01")),
		task("b", true, todo.PriorityLow, nil),
		task("c", false, todo.PriorityNone, nil),
	}
	assert.Equal(t, Stats{Total: 3, Completed: 1, Pending: 2, HighPriority: 1, Overdue: 1, Percent: 33}, Summarize(mixed, today))
}

func TestStatsBar(t *testing.T) {
	assert.Equal(t, "          ", Stats{}.Bar(10))
	assert.Equal(t, "===       ", Stats{Percent: 33}.Bar(10))
	assert.Equal(t, "==========", Stats{Percent: 100}.Bar(0))
	assert.Equal(t, "=====     ", Stats{Percent: 59}.Bar(10))
}

func TestDueLabel(t *testing.T) {
	assert.Equal(t, "", DueLabel(task("a", false, todo.PriorityNone, nil), today))
	assert.Equal(t, "DUE: 2024-06-14 [OVERDUE]", DueLabel(task("a", false, todo.PriorityNone, due("2024-06-14")), today))
	assert.Equal(t, "DUE: 2024-06-14", DueLabel(task("a", true, todo.PriorityNone, due("2024-06-14")), today))
	assert.Equal(t, "DUE: 2024-06-16", DueLabel(task("a", false, todo.PriorityNone, due("2024-06-16")), today))
}
