// Package ui provides a read-only terminal dashboard over the task file.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/psandor/todotrack/internal/config"
	"github.com/psandor/todotrack/internal/storage"
	"github.com/psandor/todotrack/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	doneStyle     = lipgloss.NewStyle().Faint(true)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// taskFilter selects the subset of tasks shown in the list.
type taskFilter struct {
	completed *bool
	priority  task.Priority
}

func (f taskFilter) active() bool {
	return f.completed != nil || f.priority != ""
}

func (f taskFilter) label() string {
	switch {
	case f.priority != "":
		return string(f.priority) + " priority"
	case f.completed != nil && *f.completed:
		return "completed"
	case f.completed != nil:
		return "pending"
	}
	return ""
}

// apply returns the tasks matching the filter, in display order.
func (f taskFilter) apply(tasks []task.Task) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.completed != nil && t.Completed != *f.completed {
			continue
		}
		if f.priority != "" && t.Priority != f.priority {
			continue
		}
		out = append(out, t)
	}
	task.SortForDisplay(out)
	return out
}

// RunTUI starts the dashboard over the configured task file.
func RunTUI(ctx context.Context, cfg *config.Config) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(cfg)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	cfg          *config.Config
	loadErr      error
	tasks        []task.Task
	stats        task.Stats
	filter       taskFilter
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(cfg *config.Config) *tuiModel {
	return &tuiModel{
		cfg:          cfg,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "p":
			pending := false
			m.filter = taskFilter{completed: &pending}
			return m, nil
		case "c":
			completed := true
			m.filter = taskFilter{completed: &completed}
			return m, nil
		case "1":
			m.filter = taskFilter{priority: task.PriorityHigh}
			return m, nil
		case "2":
			m.filter = taskFilter{priority: task.PriorityMedium}
			return m, nil
		case "3":
			m.filter = taskFilter{priority: task.PriorityLow}
			return m, nil
		case "0":
			m.filter = taskFilter{}
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter.active() {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter.label()))
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading task file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.stats)
	writeTasks(&b, m.filter.apply(m.tasks))
	writeConfig(&b, m.cfg)
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	tasks, err := storage.Load(m.cfg.DataFile)
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
	m.stats = task.NewStore(tasks).Stats()
}

func writeTitle(b *strings.Builder) {
	title := "Todotrack"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, st task.Stats) {
	b.WriteString("Overview\n\n")
	b.WriteString(fmt.Sprintf("  Total: %d  Completed: %d  Pending: %d  Rate: %.0f%%\n\n",
		st.Total, st.Completed, st.Incomplete, st.CompletionRate*100))
}

func writeTasks(b *strings.Builder, tasks []task.Task) {
	b.WriteString("Tasks\n\n")
	if len(tasks) == 0 {
		b.WriteString("  No tasks found.\n\n")
		return
	}
	for i := range tasks {
		b.WriteString(FormatTask(&tasks[i]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeConfig(b *strings.Builder, cfg *config.Config) {
	b.WriteString("Configuration\n\n")
	b.WriteString(fmt.Sprintf("  Task File: %s\n\n", cfg.DataFile))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  p            Show pending tasks only\n")
	b.WriteString("  c            Show completed tasks only\n")
	b.WriteString("  1            Filter by High priority\n")
	b.WriteString("  2            Filter by Medium priority\n")
	b.WriteString("  3            Filter by Low priority\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

// FormatTask renders one task line for the dashboard and the menu.
func FormatTask(t *task.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}

	line := fmt.Sprintf("  %s #%d %s %s", box, t.ID, priorityTag(t.Priority), t.Title)
	if t.Category != task.DefaultCategory {
		line += " " + categoryStyle.Render("("+t.Category+")")
	}
	if t.DueDate != "" {
		line += fmt.Sprintf(" [due %s]", t.DueDate)
	}
	if t.Completed {
		return doneStyle.Render(line)
	}
	return line
}

func priorityTag(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return highStyle.Render("HIGH")
	case task.PriorityLow:
		return lowStyle.Render("LOW ")
	default:
		return mediumStyle.Render("MED ")
	}
}

// IsTTY returns true if stdout is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
