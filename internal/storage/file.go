// Package storage persists the task collection to a JSON file on disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/psandor/todotrack/internal/task"
)

// Load reads and parses the task file at path. A missing file is the
// first-run case and yields an empty collection, not an error. A file
// that exists but cannot be parsed yields a *task.CorruptError; the
// caller decides whether to abort or start empty.
func Load(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &task.CorruptError{Path: path, Err: err}
	}

	// Records that parse as JSON but break the store's invariants are
	// just as unusable as a syntax error.
	if result := task.Validate(tasks, task.ValidateOptions{}); !result.Valid {
		return nil, &task.CorruptError{Path: path, Err: result.Errors[0]}
	}

	return tasks, nil
}

// Save writes the full task collection to path with 2-space indentation.
// The data is written to a temp file in the same directory and renamed
// over the target, so a crash mid-write never truncates the previous
// contents.
func Save(path string, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp task file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod task file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace task file: %w", err)
	}

	return nil
}
