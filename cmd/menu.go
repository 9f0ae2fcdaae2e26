package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/psandor/todotrack/internal/config"
	"github.com/psandor/todotrack/internal/logging"
	"github.com/psandor/todotrack/internal/storage"
	"github.com/psandor/todotrack/internal/task"
	"github.com/psandor/todotrack/internal/ui"
)

// menuCommand runs the interactive numbered menu over the task file.
func menuCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotrack menu", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		cfg.DataFile = remaining[0]
	}

	logger := logging.New(cfg)

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	sh := &shell{
		cfg:    cfg,
		store:  store,
		logger: logger,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	return sh.run(ctx)
}

// openStore loads the task file and applies the corrupt-file policy.
func openStore(cfg *config.Config, logger *log.Logger) (*task.Store, error) {
	tasks, err := storage.Load(cfg.DataFile)
	if err != nil {
		var corrupt *task.CorruptError
		if errors.As(err, &corrupt) && cfg.OnCorrupt == config.OnCorruptReset {
			logger.Warn("task file is corrupt, starting with an empty store",
				"path", corrupt.Path, "err", corrupt.Err)
			return task.NewStore(nil), nil
		}
		return nil, fmt.Errorf("loading task file: %w", err)
	}
	logger.Debug("loaded task file", "path", cfg.DataFile, "tasks", len(tasks))
	return task.NewStore(tasks), nil
}

// shell is the interactive menu loop. Each action runs to completion and
// every mutation is flushed to disk before the next prompt.
type shell struct {
	cfg    *config.Config
	store  *task.Store
	logger *log.Logger
	in     *bufio.Reader
	out    io.Writer
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Todotrack - Task Manager")
	fmt.Fprintln(s.out, "========================")

	for {
		if ctx.Err() != nil {
			return nil
		}

		s.printMenu()
		choice, err := s.prompt("Enter your choice (1-8): ", false)
		if err != nil {
			// EOF on stdin ends the session like Exit does.
			return s.flush()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = s.addTask()
		case "2":
			err = s.listTasks("")
		case "3":
			err = s.markTask(true)
		case "4":
			err = s.markTask(false)
		case "5":
			err = s.removeTask()
		case "6":
			s.showStats()
		case "7":
			err = s.filterByCategory()
		case "8":
			fmt.Fprintln(s.out, "All tasks saved. Bye.")
			return s.flush()
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please enter a number from 1-8.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *shell) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Menu:")
	fmt.Fprintln(s.out, "  1. Add Task")
	fmt.Fprintln(s.out, "  2. List Tasks")
	fmt.Fprintln(s.out, "  3. Mark Task Complete")
	fmt.Fprintln(s.out, "  4. Mark Task Incomplete")
	fmt.Fprintln(s.out, "  5. Remove Task")
	fmt.Fprintln(s.out, "  6. View Statistics")
	fmt.Fprintln(s.out, "  7. Filter by Category")
	fmt.Fprintln(s.out, "  8. Exit")
}

// prompt reads one line. With required set it re-prompts until the input
// is non-empty.
func (s *shell) prompt(label string, required bool) (string, error) {
	for {
		fmt.Fprint(s.out, label)
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" || !required {
			return line, nil
		}
		fmt.Fprintln(s.out, "This field is required. Please try again.")
	}
}

func (s *shell) promptID(label string) (int, error) {
	line, err := s.prompt(label, true)
	if err != nil {
		return 0, err
	}
	id, convErr := strconv.Atoi(line)
	if convErr != nil {
		fmt.Fprintln(s.out, "Invalid task ID. Please enter a number.")
		return 0, errBadInput
	}
	return id, nil
}

// errBadInput marks recoverable prompt mistakes; the menu loop continues.
var errBadInput = errors.New("bad input")

func (s *shell) addTask() error {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Add New Task")

	title, err := s.prompt("Title: ", true)
	if err != nil {
		return nil
	}
	description, err := s.prompt("Description (optional): ", false)
	if err != nil {
		return nil
	}

	if cats := s.store.Categories(); len(cats) > 0 {
		fmt.Fprintf(s.out, "Existing categories: %s\n", strings.Join(cats, ", "))
	}
	category, err := s.prompt(fmt.Sprintf("Category (default %s): ", s.cfg.DefaultCategory), false)
	if err != nil {
		return nil
	}
	if category == "" {
		category = s.cfg.DefaultCategory
	}

	priority, err := s.promptPriority()
	if err != nil {
		return nil
	}

	dueDate, err := s.promptDueDate()
	if err != nil {
		return nil
	}

	id, addErr := s.store.Add(task.Draft{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		DueDate:     dueDate,
	})
	if addErr != nil {
		// Prompts already validate each field; anything left is reported
		// and the menu continues.
		fmt.Fprintf(s.out, "Could not add task: %v\n", addErr)
		return nil
	}

	if err := s.flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task added with ID %d.\n", id)
	return nil
}

// promptPriority re-prompts until the input parses or is left blank.
func (s *shell) promptPriority() (task.Priority, error) {
	for {
		line, err := s.prompt(fmt.Sprintf("Priority High/Medium/Low (default %s): ", s.cfg.DefaultPriority), false)
		if err != nil {
			return "", err
		}
		if line == "" {
			line = s.cfg.DefaultPriority
		}
		p, parseErr := task.ParsePriority(line)
		if parseErr == nil {
			return p, nil
		}
		fmt.Fprintf(s.out, "%v\n", parseErr)
	}
}

// promptDueDate re-prompts until the input is a valid date or blank.
func (s *shell) promptDueDate() (string, error) {
	for {
		line, err := s.prompt("Due date YYYY-MM-DD (optional): ", false)
		if err != nil {
			return "", err
		}
		if line == "" {
			return "", nil
		}
		if _, parseErr := time.Parse(task.DueDateLayout, line); parseErr == nil {
			return line, nil
		}
		fmt.Fprintf(s.out, "Invalid date %q, must be YYYY-MM-DD.\n", line)
	}
}

func (s *shell) listTasks(category string) error {
	tasks := s.store.List(task.Filter{Category: category})
	if len(tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks found.")
		return nil
	}

	task.SortForDisplay(tasks)
	fmt.Fprintf(s.out, "\nFound %d task(s):\n", len(tasks))
	for i := range tasks {
		fmt.Fprintln(s.out, ui.FormatTask(&tasks[i]))
		if tasks[i].Description != "" {
			fmt.Fprintf(s.out, "      %s\n", tasks[i].Description)
		}
	}
	return nil
}

func (s *shell) markTask(complete bool) error {
	action := "complete"
	if !complete {
		action = "incomplete"
	}

	id, err := s.promptID("Task ID: ")
	if err != nil {
		return nil
	}

	var markErr error
	if complete {
		markErr = s.store.MarkComplete(id)
	} else {
		markErr = s.store.MarkIncomplete(id)
	}
	if markErr != nil {
		fmt.Fprintf(s.out, "%v\n", markErr)
		return nil
	}

	if err := s.flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task %d marked as %s.\n", id, action)
	return nil
}

func (s *shell) removeTask() error {
	id, err := s.promptID("Task ID to remove: ")
	if err != nil {
		return nil
	}

	t, ok := s.store.Get(id)
	if !ok {
		fmt.Fprintf(s.out, "task %d not found\n", id)
		return nil
	}

	if s.cfg.ConfirmRemove {
		fmt.Fprintln(s.out, ui.FormatTask(&t))
		confirm, err := s.prompt("Remove this task? (y/N): ", false)
		if err != nil {
			return nil
		}
		if !strings.HasPrefix(strings.ToLower(confirm), "y") {
			fmt.Fprintln(s.out, "Removal cancelled.")
			return nil
		}
	}

	if removeErr := s.store.Remove(id); removeErr != nil {
		fmt.Fprintf(s.out, "%v\n", removeErr)
		return nil
	}

	if err := s.flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task %d removed.\n", id)
	return nil
}

func (s *shell) showStats() {
	st := s.store.Stats()

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Statistics:")
	fmt.Fprintf(s.out, "  Total tasks: %d\n", st.Total)
	fmt.Fprintf(s.out, "  Completed:   %d\n", st.Completed)
	fmt.Fprintf(s.out, "  Pending:     %d\n", st.Incomplete)
	fmt.Fprintf(s.out, "  Completion:  %.1f%%\n", st.CompletionRate*100)

	if len(st.PerCategory) == 0 {
		return
	}
	fmt.Fprintln(s.out, "  By category:")
	for _, name := range s.store.Categories() {
		cc := st.PerCategory[name]
		fmt.Fprintf(s.out, "    %s: %d/%d completed\n", name, cc.Completed, cc.Total)
	}
}

func (s *shell) filterByCategory() error {
	if cats := s.store.Categories(); len(cats) > 0 {
		fmt.Fprintf(s.out, "Categories: %s\n", strings.Join(cats, ", "))
	}
	category, err := s.prompt("Category: ", true)
	if err != nil {
		return nil
	}
	return s.listTasks(category)
}

// flush writes the full store to disk. Called after every mutation and on
// exit, so there is never a dirty-state window past a single action.
func (s *shell) flush() error {
	if err := storage.Save(s.cfg.DataFile, s.store.Tasks()); err != nil {
		s.logger.Error("saving task file", "path", s.cfg.DataFile, "err", err)
		return fmt.Errorf("saving task file: %w", err)
	}
	return nil
}
