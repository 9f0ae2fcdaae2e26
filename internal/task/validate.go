package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateOptions controls validation behavior.
type ValidateOptions struct {
	// SchemaPath is the path to the JSON Schema file.
	// If empty, validation uses only minimal fallback checks.
	SchemaPath string
}

// ValidateResult contains validation results.
type ValidateResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate checks a task collection against the persisted-file contract.
// Schema validation is attempted first when a schema path is given; if the
// schema is unavailable the minimal hand-rolled checks run instead.
func Validate(tasks []Task, opts ValidateOptions) *ValidateResult {
	result := &ValidateResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if opts.SchemaPath != "" {
		schemaResult := validateWithSchema(tasks, opts.SchemaPath)
		result.UsedSchema = schemaResult.UsedSchema
		if len(schemaResult.Warnings) > 0 {
			result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		}
		if schemaResult.UsedSchema {
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
			// Schema can't express id uniqueness; always check it by hand.
			validateUniqueIDs(tasks, result)
			return result
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	validateMinimal(tasks, result)
	return result
}

// validateMinimal performs minimal validation without JSON Schema.
func validateMinimal(tasks []Task, result *ValidateResult) {
	for i := range tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateTaskMinimal(&tasks[i], path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
	validateUniqueIDs(tasks, result)
}

func validateUniqueIDs(tasks []Task, result *ValidateResult) {
	seen := make(map[int]int, len(tasks))
	for i := range tasks {
		if first, ok := seen[tasks[i].ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Field: fmt.Sprintf("tasks[%d].id", i),
				Err:   fmt.Errorf("duplicate id %d, first used by tasks[%d]", tasks[i].ID, first),
			})
			continue
		}
		seen[tasks[i].ID] = i
	}
}

// validateTaskMinimal performs minimal per-task validation.
func validateTaskMinimal(t *Task, path string) *ValidationError {
	if t.ID <= 0 {
		return &ValidationError{
			Field: path + ".id",
			Err:   fmt.Errorf("must be a positive integer, got %d", t.ID),
		}
	}

	if t.Title == "" {
		return &ValidationError{
			Field: path + ".title",
			Err:   fmt.Errorf("missing required field"),
		}
	}

	if !t.Priority.Valid() {
		return &ValidationError{
			Field: path + ".priority",
			Err:   fmt.Errorf("invalid priority %q, must be one of: High, Medium, Low", string(t.Priority)),
		}
	}

	if t.DueDate != "" {
		if _, err := time.Parse(DueDateLayout, t.DueDate); err != nil {
			return &ValidationError{
				Field: path + ".due_date",
				Err:   fmt.Errorf("invalid date %q, must be YYYY-MM-DD", t.DueDate),
			}
		}
	}

	if t.CreatedAt.IsZero() {
		return &ValidationError{
			Field: path + ".created_at",
			Err:   fmt.Errorf("missing required field"),
		}
	}

	return nil
}

// validateWithSchema attempts JSON Schema validation.
func validateWithSchema(tasks []Task, schemaPath string) *ValidateResult {
	result := &ValidateResult{
		Valid:      true,
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		UsedSchema: false,
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return result
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return result
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return result
	}

	result.UsedSchema = true

	// Marshal the collection back to JSON for validation.
	data, err := json.Marshal(tasks)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal tasks for validation: %w", err),
		})
		return result
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal tasks for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ValidateResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidateResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Field: jsonPointerToPath(err.InstanceLocation),
			Err:   fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	if ptr == "" {
		return ""
	}
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
