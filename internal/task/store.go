package task

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Draft holds the caller-supplied fields for a new task. Empty optional
// fields receive defaults at construction time.
type Draft struct {
	Title       string
	Description string
	Category    string
	Priority    Priority
	DueDate     string
}

// Filter selects a subset of tasks. Zero value matches everything.
// Category matching is case-insensitive. Both conditions compose with
// AND semantics.
type Filter struct {
	Category  string
	Completed *bool
}

// CategoryCount holds per-category totals.
type CategoryCount struct {
	Total     int
	Completed int
}

// Stats summarizes the store.
type Stats struct {
	Total          int
	Completed      int
	Incomplete     int
	CompletionRate float64
	PerCategory    map[string]CategoryCount
}

// Store is the in-memory ordered collection of tasks. It owns all Task
// instances exclusively; accessors return copies. Not safe for concurrent
// use, which matches the single-threaded menu loop driving it.
type Store struct {
	tasks  []Task
	nextID int
}

// NewStore creates a store seeded with previously persisted tasks.
// The next id is one past the highest existing id and never decreases,
// so ids are not reused within a session even after removals.
func NewStore(tasks []Task) *Store {
	s := &Store{
		tasks:  append([]Task(nil), tasks...),
		nextID: 1,
	}
	for _, t := range s.tasks {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return s
}

// Add validates the draft, applies defaults, assigns the next id, and
// appends the task in insertion order. Returns the new id.
func (s *Store) Add(d Draft) (int, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return 0, &ValidationError{Field: "title", Err: fmt.Errorf("must not be empty")}
	}

	priority := d.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	if !priority.Valid() {
		return 0, &ValidationError{
			Field: "priority",
			Err:   fmt.Errorf("invalid priority %q, must be one of: High, Medium, Low", string(d.Priority)),
		}
	}

	dueDate := strings.TrimSpace(d.DueDate)
	if dueDate != "" {
		if _, err := time.Parse(DueDateLayout, dueDate); err != nil {
			return 0, &ValidationError{
				Field: "due_date",
				Err:   fmt.Errorf("invalid date %q, must be YYYY-MM-DD", d.DueDate),
			}
		}
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = DefaultCategory
	}

	t := Task{
		ID:          s.nextID,
		Title:       title,
		Description: d.Description,
		Category:    category,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t.ID, nil
}

// Remove deletes the task with the given id.
func (s *Store) Remove(id int) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

// MarkComplete sets completed on the task and stamps completed_at.
// Re-marking an already complete task is a no-op success.
func (s *Store) MarkComplete(id int) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			if !s.tasks[i].Completed {
				now := time.Now().UTC()
				s.tasks[i].Completed = true
				s.tasks[i].CompletedAt = &now
			}
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

// MarkIncomplete clears completed and completed_at on the task.
func (s *Store) MarkIncomplete(id int) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = false
			s.tasks[i].CompletedAt = nil
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int) (Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], true
		}
	}
	return Task{}, false
}

// List returns tasks matching the filter, preserving insertion order.
func (s *Store) List(f Filter) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Tasks returns a copy of all tasks in insertion order.
func (s *Store) Tasks() []Task {
	return append([]Task(nil), s.tasks...)
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Categories returns the sorted unique categories in use.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range s.tasks {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

// Stats computes store-wide statistics. The completion rate is 0 for an
// empty store.
func (s *Store) Stats() Stats {
	st := Stats{PerCategory: make(map[string]CategoryCount)}
	for _, t := range s.tasks {
		st.Total++
		cc := st.PerCategory[t.Category]
		cc.Total++
		if t.Completed {
			st.Completed++
			cc.Completed++
		}
		st.PerCategory[t.Category] = cc
	}
	st.Incomplete = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) / float64(st.Total)
	}
	return st
}

// SortForDisplay orders tasks for presentation: incomplete before complete,
// then by priority rank, then by creation time. Store order is untouched;
// callers sort their own copies.
func SortForDisplay(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Completed != tasks[j].Completed {
			return !tasks[i].Completed
		}
		if tasks[i].Priority.Rank() != tasks[j].Priority.Rank() {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
