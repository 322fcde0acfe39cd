package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"taskboard-web/internal/core/domain"
	"taskboard-web/internal/core/shell"
)

// Колонки доски по умолчанию, в порядке отображения
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

var defaultColumns = []string{StatusToDo, StatusInProgress, StatusDone}

type boardCard struct {
	ID    domain.TaskID
	Title string
}

// Column - одна колонка доски
type Column struct {
	Status string
	Tasks  []boardCard
}

// KanbanView - страница "/kanban"
type KanbanView struct {
	tasks TaskStore
}

func NewKanbanView(tasks TaskStore) *KanbanView {
	return &KanbanView{tasks: tasks}
}

func (v *KanbanView) Render(ctx context.Context, w io.Writer, vc shell.ViewContext) error {
	tasks, err := fetchTasks(ctx, v.tasks)
	if err != nil {
		return err
	}
	columns := GroupByStatus(tasks)
	statuses := make([]string, 0, len(columns))
	for _, c := range columns {
		statuses = append(statuses, c.Status)
	}
	return viewTemplates.ExecuteTemplate(w, "board_view", struct {
		Action   string
		Columns  []Column
		Statuses []string
	}{Action: vc.URL, Columns: columns, Statuses: statuses})
}

// Submit выполняет действие с карточкой доски:
// op=move - PUT {"status": status}, op=delete - DELETE задачи.
func (v *KanbanView) Submit(ctx context.Context, form url.Values) error {
	id := domain.TaskID(strings.TrimSpace(form.Get("id")))
	if id == "" {
		return fmt.Errorf("%w: task id is required", shell.ErrInvalidInput)
	}

	switch op := form.Get("op"); op {
	case "move":
		status := strings.TrimSpace(form.Get("status"))
		if status == "" {
			return fmt.Errorf("%w: status is required", shell.ErrInvalidInput)
		}
		if _, err := v.tasks.UpdateTask(ctx, id, domain.Task{"status": status}); err != nil {
			return upstream("update task", err)
		}
	case "delete":
		if _, err := v.tasks.DeleteTask(ctx, id); err != nil {
			return upstream("delete task", err)
		}
	default:
		return fmt.Errorf("%w: unknown board action %q", shell.ErrInvalidInput, op)
	}
	return nil
}

// GroupByStatus раскладывает задачи по колонкам. Колонки по умолчанию идут первыми
// (даже пустые), незнакомые статусы - следом в порядке первого появления.
// Задача без статуса попадает в Done, если у нее выставлен флаг завершения, иначе в To Do.
func GroupByStatus(tasks []domain.Task) []Column {
	columns := make([]Column, 0, len(defaultColumns))
	index := make(map[string]int, len(defaultColumns))
	for _, status := range defaultColumns {
		index[status] = len(columns)
		columns = append(columns, Column{Status: status})
	}

	for _, t := range tasks {
		status := statusOf(t)
		i, ok := index[status]
		if !ok {
			i = len(columns)
			index[status] = i
			columns = append(columns, Column{Status: status})
		}
		columns[i].Tasks = append(columns[i].Tasks, boardCard{ID: t.ID(), Title: t.Title()})
	}
	return columns
}

func statusOf(t domain.Task) string {
	if s := t.Status(); s != "" {
		return s
	}
	if t.Bool("completed") || t.Bool("is_completed") {
		return StatusDone
	}
	return StatusToDo
}
