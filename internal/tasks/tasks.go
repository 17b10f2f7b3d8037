// Package tasks manages the daily task list, persisted as a flat JSON
// collection in a local file. Single writer; the conversation loop owns
// the manager.
package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "log/slog"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Priorities, loosest to most urgent.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"` // YYYY-MM-DD
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type Manager struct {
	path  string
	tasks []Task
	now   func() time.Time // injectable for date-window tests
}

type fileFormat struct {
	Tasks []Task `json:"tasks"`
}

// NewManager loads the task file, creating it (and its directory) if
// missing.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := m.save(); err != nil {
			return nil, fmt.Errorf("create task file: %w", err)
		}
		log.Info("Created new task file", "path", path)
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	m.tasks = f.Tasks
	log.Info("Loaded tasks", "count", len(m.tasks), "path", path)
	return m, nil
}

func (m *Manager) save() error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(fileFormat{Tasks: m.tasks}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Add creates a task. Empty dueDate defaults to today, empty priority to
// medium.
func (m *Manager) Add(title, description, dueDate, priority string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("task title must not be empty")
	}
	if dueDate == "" {
		dueDate = m.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, dueDate); err != nil {
		return Task{}, fmt.Errorf("due date must be YYYY-MM-DD: %w", err)
	}
	priority = strings.ToLower(priority)
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	case "":
		priority = PriorityMedium
	default:
		return Task{}, fmt.Errorf("unknown priority: %q", priority)
	}

	t := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		CreatedAt:   m.now(),
	}
	m.tasks = append(m.tasks, t)
	if err := m.save(); err != nil {
		return Task{}, err
	}
	log.Info("Added task", "title", title, "due", dueDate)
	return t, nil
}

// Complete marks the first pending task whose title contains the query.
func (m *Manager) Complete(query string) (Task, error) {
	i := m.find(query)
	if i < 0 {
		return Task{}, fmt.Errorf("no task matching %q", query)
	}
	m.tasks[i].Completed = true
	if err := m.save(); err != nil {
		return Task{}, err
	}
	log.Info("Completed task", "title", m.tasks[i].Title)
	return m.tasks[i], nil
}

// Delete removes the first task whose title contains the query.
func (m *Manager) Delete(query string) (Task, error) {
	i := m.find(query)
	if i < 0 {
		return Task{}, fmt.Errorf("no task matching %q", query)
	}
	t := m.tasks[i]
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	if err := m.save(); err != nil {
		return Task{}, err
	}
	log.Info("Deleted task", "title", t.Title)
	return t, nil
}

func (m *Manager) find(query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	for i, t := range m.tasks {
		if strings.Contains(strings.ToLower(t.Title), q) {
			return i
		}
	}
	return -1
}

// All returns a copy of every task.
func (m *Manager) All() []Task {
	out := make([]Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

func (m *Manager) Pending() []Task {
	var out []Task
	for _, t := range m.tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func (m *Manager) DueToday() []Task {
	today := m.now().Format(dateLayout)
	var out []Task
	for _, t := range m.tasks {
		if t.DueDate == today {
			out = append(out, t)
		}
	}
	return out
}

func (m *Manager) Overdue() []Task {
	today := m.now().Format(dateLayout)
	var out []Task
	for _, t := range m.tasks {
		if !t.Completed && t.DueDate < today {
			out = append(out, t)
		}
	}
	return out
}

// Summary phrases the task situation for speech output.
func (m *Manager) Summary() string {
	overdue := m.Overdue()
	var todayPending []Task
	for _, t := range m.DueToday() {
		if !t.Completed {
			todayPending = append(todayPending, t)
		}
	}

	var parts []string
	if n := len(overdue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue %s", n, plural(n, "task")))
	}
	if n := len(todayPending); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s for today", n, plural(n, "task")))
	}
	if len(parts) == 0 {
		return "You have no tasks for today. You're all clear!"
	}

	summary := "You have " + strings.Join(parts, " and ") + "."
	if n := len(todayPending); n > 0 && n <= 5 {
		titles := make([]string, n)
		for i, t := range todayPending {
			titles[i] = fmt.Sprintf("%d. %s", i+1, t.Title)
		}
		summary += " Here they are: " + strings.Join(titles, ", ")
	}
	return summary
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
