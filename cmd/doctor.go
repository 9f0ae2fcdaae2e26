package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/psandor/todotrack/internal/config"
	"github.com/psandor/todotrack/internal/storage"
	"github.com/psandor/todotrack/internal/task"
)

// doctorCommand checks config, the task file, and the schema.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotrack doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	dataPath := cfg.DataFile
	if len(remaining) == 1 {
		dataPath = remaining[0]
	}
	if !filepath.IsAbs(dataPath) {
		dataPath = filepath.Join(cfg.WorkDir, dataPath)
	}
	schemaPath := cfg.SchemaFile
	if !filepath.IsAbs(schemaPath) {
		schemaPath = filepath.Join(cfg.WorkDir, schemaPath)
	}

	fmt.Println("Todotrack Doctor")
	fmt.Println("================")
	fmt.Println()

	allOK := true

	// Check config
	fmt.Println("Config:")
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Printf("  ✅ Corrupt-file policy: %s\n", cfg.OnCorrupt)
		fmt.Printf("  ✅ Default category: %s\n", cfg.DefaultCategory)
		fmt.Printf("  ✅ Default priority: %s\n", cfg.DefaultPriority)
	}
	fmt.Println()

	// Check task file
	fmt.Printf("Task file: %s\n", dataPath)
	info, err := os.Stat(dataPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on first save)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
		tasks, loadErr := storage.Load(dataPath)
		if loadErr != nil {
			fmt.Printf("  ❌ Load error: %v\n", loadErr)
			allOK = false
		} else {
			result := task.Validate(tasks, task.ValidateOptions{SchemaPath: schemaPath})
			for _, w := range result.Warnings {
				fmt.Printf("  ⚠️  %s\n", w)
			}
			if result.Valid {
				fmt.Println("  ✅ Valid")
			} else {
				fmt.Println("  ❌ Validation failed:")
				for _, e := range result.Errors {
					fmt.Printf("     - %v\n", e)
				}
				allOK = false
			}
			if *verbose {
				fmt.Printf("  Tasks: %d\n", len(tasks))
				for _, t := range tasks {
					status := "pending"
					if t.Completed {
						status = "done"
					}
					fmt.Printf("    - [%s] #%d %s\n", status, t.ID, t.Title)
				}
			}
		}
	}
	fmt.Println()

	// Check schema file
	fmt.Printf("Schema file: %s\n", schemaPath)
	if info, err := os.Stat(schemaPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (validation falls back to minimal checks)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Overall status
	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Todotrack may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}
