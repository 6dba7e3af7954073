package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyText is returned when task text is empty after trimming.
	ErrEmptyText = errors.New("task text is empty")
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidDate is returned for due dates that are not YYYY-MM-DD calendar dates.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidPriority is returned for unknown priority names.
	ErrInvalidPriority = errors.New("invalid priority")
)

// Priority is the urgency tag of a task.
type Priority string

const (
	PriorityNone Priority = "NONE"
	PriorityLow  Priority = "LOW"
	PriorityMed  Priority = "MED"
	PriorityHigh Priority = "HIGH"
)

// Priorities lists every priority from least to most urgent.
func Priorities() []Priority {
	return []Priority{PriorityNone, PriorityLow, PriorityMed, PriorityHigh}
}

// ParsePriority parses a priority name case-insensitively. The empty string
// is NONE; "medium" is accepted for MED.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return PriorityNone, nil
	case "LOW":
		return PriorityLow, nil
	case "MED", "MEDIUM":
		return PriorityMed, nil
	case "HIGH":
		return PriorityHigh, nil
	default:
		return PriorityNone, fmt.Errorf("%w %q, must be one of: NONE, LOW, MED, HIGH", ErrInvalidPriority, s)
	}
}

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMed, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities: NONE=0, LOW=1, MED=2, HIGH=3. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMed:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// Next returns the following priority, wrapping from HIGH back to NONE.
func (p Priority) Next() Priority {
	all := Priorities()
	return all[(p.Rank()+1)%len(all)]
}

// DateLayout is the wire and display format of due dates.
const DateLayout = "2006-01-02"

// unpaddedDateLayout accepts dates such as 2024-6-5 found in older files.
const unpaddedDateLayout = "2006-1-2"

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD calendar date. Month and day may omit the
// leading zero; String always writes the padded form. Out-of-range months
// and days are rejected.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		if t, err = time.Parse(unpaddedDateLayout, s); err != nil {
			return Date{}, fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, s)
		}
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes d as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task is a single to-do record.
type Task struct {
	ID          string     `json:"id" yaml:"id" toml:"id"`
	Text        string     `json:"text" yaml:"text" toml:"text"`
	Completed   bool       `json:"completed" yaml:"completed" toml:"completed"`
	Priority    Priority   `json:"priority" yaml:"priority" toml:"priority"`
	DueDate     *Date      `json:"due_date" yaml:"due_date" toml:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at" toml:"created_at"`
	CompletedAt *time.Time `json:"completed_at" yaml:"completed_at" toml:"completed_at,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// HasDueDate reports whether a due date is set.
func (t *Task) HasDueDate() bool {
	return t.DueDate != nil
}

// clone returns a deep copy so callers cannot alias store-owned pointers.
func (t Task) clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}

// taskRecord is the lenient on-disk shape accepted when reading.
type taskRecord struct {
	ID              string  `json:"id"`
	Text            string  `json:"text"`
	Completed       bool    `json:"completed"`
	Priority        *string `json:"priority"`
	DueDate         *string `json:"due_date"`
	CreatedAt       string  `json:"created_at"`
	LegacyCreatedAt string  `json:"createdAt"`
	CompletedAt     *string `json:"completed_at"`
}

// timestampLayouts are tried in order; naive layouts are read in local time.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalize converts a record into a Task. Problems that were repaired are
// reported as warnings; id and created_at may still be empty/zero and are
// filled in by the store.
func (r taskRecord) normalize() (Task, []string) {
	var warnings []string
	task := Task{
		ID:        strings.TrimSpace(r.ID),
		Text:      r.Text,
		Completed: r.Completed,
		Priority:  PriorityNone,
	}

	if r.Priority != nil {
		p, err := ParsePriority(*r.Priority)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("priority: %v (using NONE)", err))
		}
		task.Priority = p
	}

	if r.DueDate != nil && strings.TrimSpace(*r.DueDate) != "" {
		d, err := ParseDate(*r.DueDate)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("due_date: %v (cleared)", err))
		} else {
			task.DueDate = &d
		}
	}

	created := r.CreatedAt
	if created == "" {
		created = r.LegacyCreatedAt
	}
	if t, ok := parseTimestamp(created); ok {
		task.CreatedAt = t
	} else if created != "" {
		warnings = append(warnings, fmt.Sprintf("created_at: cannot parse %q", created))
	}

	if task.Completed {
		if r.CompletedAt != nil {
			if t, ok := parseTimestamp(*r.CompletedAt); ok {
				task.CompletedAt = &t
			}
		}
		if task.CompletedAt == nil && !task.CreatedAt.IsZero() {
			c := task.CreatedAt
			task.CompletedAt = &c
		}
	}

	return task, warnings
}

// UnmarshalJSON accepts current and legacy task records.
func (t *Task) UnmarshalJSON(data []byte) error {
	var r taskRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	task, _ := r.normalize()
	*t = task
	return nil
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
