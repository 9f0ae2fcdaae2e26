// Package task defines the task record, its validation rules, and the
// in-memory store.
//
// The persisted task file (tasks.json) is a JSON array of task objects
// following the schema defined in tasks.schema.json:
//
//	[
//	  {
//	    "id": 1,
//	    "title": "Buy milk",
//	    "description": "",
//	    "category": "Shopping",
//	    "priority": "High",
//	    "due_date": "2026-09-01",
//	    "completed": false,
//	    "created_at": "2026-08-01T09:30:00Z",
//	    "completed_at": "2026-08-02T10:00:00Z"
//	  }
//	]
//
// # Validation
//
// The package supports two validation modes:
//
// 1. JSON Schema validation (when a schema file is provided):
//   - Full validation against JSON Schema draft-2020-12
//   - Duplicate id detection is always performed in Go, since JSON Schema
//     cannot express uniqueness over a field
//
// 2. Minimal fallback validation (when no schema is available):
//   - Per-task field checks (positive id, title, priority enum, due date
//     form, created_at presence) plus duplicate id detection
//   - No external dependencies required
//
// # Priority Values
//
//   - "High": sorts first in display order
//   - "Medium": the default
//   - "Low": sorts last
//
// # File Format
//
// When writing task files, the storage package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Stable key ordering (via JSON marshaling)
package task
