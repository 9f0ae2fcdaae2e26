package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validTask(id int) Task {
	return Task{
		ID:        id,
		Title:     "Test task",
		Category:  "General",
		Priority:  PriorityMedium,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidateMinimal(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []Task
		wantErr bool
	}{
		{
			name:    "valid tasks",
			tasks:   []Task{validTask(1), validTask(2)},
			wantErr: false,
		},
		{
			name:    "empty collection",
			tasks:   nil,
			wantErr: false,
		},
		{
			name: "nonpositive id",
			tasks: func() []Task {
				bad := validTask(0)
				return []Task{bad}
			}(),
			wantErr: true,
		},
		{
			name: "missing title",
			tasks: func() []Task {
				bad := validTask(1)
				bad.Title = ""
				return []Task{bad}
			}(),
			wantErr: true,
		},
		{
			name: "invalid priority",
			tasks: func() []Task {
				bad := validTask(1)
				bad.Priority = "Urgent"
				return []Task{bad}
			}(),
			wantErr: true,
		},
		{
			name: "malformed due date",
			tasks: func() []Task {
				bad := validTask(1)
				bad.DueDate = "someday"
				return []Task{bad}
			}(),
			wantErr: true,
		},
		{
			name: "missing created_at",
			tasks: func() []Task {
				bad := validTask(1)
				bad.CreatedAt = time.Time{}
				return []Task{bad}
			}(),
			wantErr: true,
		},
		{
			name:    "duplicate ids",
			tasks:   []Task{validTask(1), validTask(1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.tasks, ValidateOptions{})
			if result.Valid == tt.wantErr {
				t.Errorf("Validate() valid = %v, want error %v (errors: %v)",
					result.Valid, tt.wantErr, result.Errors)
			}
			if result.UsedSchema {
				t.Error("UsedSchema: got true without a schema path")
			}
		})
	}
}

func TestValidateMissingSchemaFallsBack(t *testing.T) {
	result := Validate([]Task{validTask(1)}, ValidateOptions{
		SchemaPath: filepath.Join(t.TempDir(), "no-such-schema.json"),
	})
	if !result.Valid {
		t.Errorf("expected valid result, got errors: %v", result.Errors)
	}
	if result.UsedSchema {
		t.Error("UsedSchema: got true for a missing schema file")
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about the missing schema")
	}
}

func TestValidateWithSchema(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "tasks.schema.json")
	schema := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "priority"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "title": {"type": "string", "minLength": 1},
      "priority": {"enum": ["High", "Medium", "Low"]}
    }
  }
}`
	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		t.Fatalf("writing schema: %v", err)
	}

	result := Validate([]Task{validTask(1)}, ValidateOptions{SchemaPath: schemaPath})
	if !result.UsedSchema {
		t.Fatalf("UsedSchema: got false, warnings: %v", result.Warnings)
	}
	if !result.Valid {
		t.Errorf("expected valid result, got errors: %v", result.Errors)
	}

	bad := validTask(1)
	bad.Priority = "Urgent"
	result = Validate([]Task{bad}, ValidateOptions{SchemaPath: schemaPath})
	if !result.UsedSchema {
		t.Fatalf("UsedSchema: got false, warnings: %v", result.Warnings)
	}
	if result.Valid {
		t.Error("expected schema validation to reject an invalid priority")
	}

	// Duplicate ids pass the schema but must still be caught.
	result = Validate([]Task{validTask(1), validTask(1)}, ValidateOptions{SchemaPath: schemaPath})
	if result.Valid {
		t.Error("expected duplicate ids to be rejected even with schema validation")
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0/priority", "[0].priority"},
		{"#/2/due_date", "[2].due_date"},
	}

	for _, tt := range tests {
		if got := jsonPointerToPath(tt.ptr); got != tt.want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.ptr, got, tt.want)
		}
	}
}
