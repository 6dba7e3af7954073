package todo

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Store is the authoritative, exclusively owned task collection. Every
// mutation that changes the collection rewrites the backing file.
//
// A Store is not safe for concurrent use; it is driven from a single
// interaction loop.
type Store struct {
	path    string
	tasks   []Task
	clock   Clock
	newID   func() string
	logger  *log.Logger
	saveErr error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for created_at and completed_at.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger that receives persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDFunc overrides id generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Open creates a Store backed by path and loads it. Open never fails: a
// missing or unreadable file yields an empty store.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		clock:  SystemClock,
		newID:  uuid.NewString,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load rereads the backing file, replacing the in-memory collection, and
// returns a copy of it. Read and parse failures are logged and produce an
// empty collection.
func (s *Store) Load() []Task {
	tasks, warnings, err := LoadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("tasks file unreadable, starting empty", "path", s.path, "err", err)
		}
		s.tasks = []Task{}
		return s.Tasks()
	}
	for _, w := range warnings {
		s.logger.Warn("normalized task record", "path", s.path, "detail", w)
	}

	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		if tasks[i].ID == "" || seen[tasks[i].ID] {
			old := tasks[i].ID
			tasks[i].ID = s.freshID(seen)
			s.logger.Warn("assigned new task id", "path", s.path, "old", old, "id", tasks[i].ID)
		}
		seen[tasks[i].ID] = true
		if tasks[i].CreatedAt.IsZero() {
			tasks[i].CreatedAt = s.clock.Now()
			if tasks[i].Completed && tasks[i].CompletedAt == nil {
				c := tasks[i].CreatedAt
				tasks[i].CompletedAt = &c
			}
		}
	}
	s.tasks = tasks
	return s.Tasks()
}

// Save writes the whole collection to the backing file.
func (s *Store) Save() error {
	return SaveFile(s.path, s.tasks)
}

// LastSaveError returns the error from the most recent mutation's save, or
// nil if it succeeded.
func (s *Store) LastSaveError() error {
	return s.saveErr
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Resolve finds a task by exact id or by a unique id prefix.
func (s *Store) Resolve(ref string) (Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, false
	}
	if t, ok := s.Get(ref); ok {
		return t, true
	}
	match := -1
	for i := range s.tasks {
		if strings.HasPrefix(s.tasks[i].ID, ref) {
			if match >= 0 {
				return Task{}, false
			}
			match = i
		}
	}
	if match < 0 {
		return Task{}, false
	}
	return s.tasks[match].clone(), true
}

// Add creates a task at the front of the collection. Empty text (after
// trimming) creates nothing. New tasks never carry a due date; set one
// with Edit.
func (s *Store) Add(text string, priority Priority) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	if !priority.Valid() {
		priority = PriorityNone
	}

	task := Task{
		ID:        s.freshID(nil),
		Text:      text,
		Priority:  priority,
		CreatedAt: s.clock.Now(),
	}
	s.tasks = append([]Task{task}, s.tasks...)
	s.persist("add")
	return task.clone(), true
}

// Toggle flips completion of the task with id, stamping or clearing
// completed_at.
func (s *Store) Toggle(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		now := s.clock.Now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	s.persist("toggle")
	return t.clone(), true
}

// Edit replaces text, priority and due date of the task with id. Empty
// text abandons the edit. A due date that is empty or not a valid
// YYYY-MM-DD date is stored as absent.
func (s *Store) Edit(id, text string, priority Priority, due string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	if !priority.Valid() {
		priority = PriorityNone
	}

	var dueDate *Date
	if due = strings.TrimSpace(due); due != "" {
		d, err := ParseDate(due)
		if err != nil {
			s.logger.Warn("due date cleared", "id", id, "err", err)
		} else {
			dueDate = &d
		}
	}

	t := &s.tasks[i]
	t.Text = text
	t.Priority = priority
	t.DueDate = dueDate
	s.persist("edit")
	return t.clone(), true
}

// Delete removes the task with id.
func (s *Store) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist("delete")
	return true
}

// ClearCompleted removes every completed task and returns how many were
// removed.
func (s *Store) ClearCompleted() int {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	if removed > 0 {
		s.persist("clear_completed")
	}
	return removed
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// freshID returns an id not used by the collection or in taken.
func (s *Store) freshID(taken map[string]bool) string {
	for {
		id := s.newID()
		if id != "" && !taken[id] && s.index(id) < 0 {
			return id
		}
	}
}

// persist saves after a mutation. Failures are logged and recorded; the
// mutation stays in memory.
func (s *Store) persist(op string) {
	if err := s.Save(); err != nil {
		s.saveErr = err
		s.logger.Error("save tasks failed", "op", op, "path", s.path, "err", err)
		return
	}
	s.saveErr = nil
}
