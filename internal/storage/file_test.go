package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/psandor/todotrack/internal/task"
)

func sampleTasks() []task.Task {
	created := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	completed := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)
	return []task.Task{
		{
			ID:          1,
			Title:       "Buy milk",
			Description: "Semi-skimmed",
			Category:    "Shopping",
			Priority:    task.PriorityHigh,
			DueDate:     "2026-09-01",
			Completed:   true,
			CreatedAt:   created,
			CompletedAt: &completed,
		},
		{
			ID:        2,
			Title:     "Read book",
			Category:  "General",
			Priority:  task.PriorityMedium,
			CreatedAt: created.Add(time.Minute),
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	original := sampleTasks()

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("task count: got %d, want %d", len(loaded), len(original))
	}

	got, want := loaded[0], original[0]
	if got.ID != want.ID || got.Title != want.Title || got.Description != want.Description ||
		got.Category != want.Category || got.Priority != want.Priority ||
		got.DueDate != want.DueDate || got.Completed != want.Completed {
		t.Errorf("first task: got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(*want.CompletedAt) {
		t.Errorf("CompletedAt: got %v, want %v", got.CompletedAt, want.CompletedAt)
	}
	if loaded[1].CompletedAt != nil {
		t.Errorf("second CompletedAt: got %v, want nil", loaded[1].CompletedAt)
	}
}

func TestSaveLoadIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := Save(path, sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading task file: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := Save(path, loaded); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading task file: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("save(load()) changed the file:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestLoadMissingFile(t *testing.T) {
	tasks, err := Load(filepath.Join(t.TempDir(), "no-such-file.json"))
	if err != nil {
		t.Fatalf("Load of a missing file should be the first-run case, got %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks: got %d, want 0", len(tasks))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json\n"},
		{"wrong shape", `{"tasks": []}` + "\n"},
		{"duplicate ids", `[
  {"id": 1, "title": "a", "category": "General", "priority": "Medium", "completed": false, "created_at": "2026-08-01T09:30:00Z"},
  {"id": 1, "title": "b", "category": "General", "priority": "Medium", "completed": false, "created_at": "2026-08-01T09:31:00Z"}
]` + "\n"},
		{"invalid priority", `[
  {"id": 1, "title": "a", "category": "General", "priority": "Urgent", "completed": false, "created_at": "2026-08-01T09:30:00Z"}
]` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("writing task file: %v", err)
			}

			_, err := Load(path)
			var corrupt *task.CorruptError
			if !errors.As(err, &corrupt) {
				t.Fatalf("expected CorruptError, got %v", err)
			}
			if corrupt.Path != path {
				t.Errorf("Path: got %q, want %q", corrupt.Path, path)
			}
		})
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")

	if err := Save(path, sampleTasks()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := Save(path, sampleTasks()[:1]); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("tasks after overwrite: got %d, want 1", len(loaded))
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("leftover files in data dir: %v", names)
	}
}

func TestSaveEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := Save(path, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading task file: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("empty store serialization: got %q, want %q", data, "[]\n")
	}

	tasks, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks: got %d, want 0", len(tasks))
	}
}
