package views

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"taskboard-web/internal/adapters/calendar"
	"taskboard-web/internal/core/domain"
	"taskboard-web/internal/core/shell"
	"time"
)

// dueDateLayout - формат значения <input type="date">
const dueDateLayout = "2006-01-02"

// CalendarView - страница "/": список задач в VCalendar и форма с VDatePicker
type CalendarView struct {
	tasks TaskStore
}

func NewCalendarView(tasks TaskStore) *CalendarView {
	return &CalendarView{tasks: tasks}
}

func (v *CalendarView) Render(ctx context.Context, w io.Writer, vc shell.ViewContext) error {
	tasks, err := fetchTasks(ctx, v.tasks)
	if err != nil {
		return err
	}

	cal, err := vc.RenderComponent(calendar.CalendarComponentName, calendar.CalendarProps{Tasks: tasks})
	if err != nil {
		return err
	}
	picker, err := vc.RenderComponent(calendar.DatePickerComponentName, calendar.DatePickerProps{Name: "due_date", Label: "Due date"})
	if err != nil {
		return err
	}

	return viewTemplates.ExecuteTemplate(w, "calendar_view", struct {
		Action     string
		Calendar   template.HTML
		DatePicker template.HTML
	}{
		Action:     vc.URL,
		Calendar:   cal,
		DatePicker: picker,
	})
}

// Submit создает задачу из формы: title обязателен, due_date - необязательная дата YYYY-MM-DD.
// Бэкенд получает JSON через клиент API.
func (v *CalendarView) Submit(ctx context.Context, form url.Values) error {
	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return fmt.Errorf("%w: title is required", shell.ErrInvalidInput)
	}

	task := domain.Task{"title": title}
	if due := strings.TrimSpace(form.Get("due_date")); due != "" {
		if _, err := time.Parse(dueDateLayout, due); err != nil {
			return fmt.Errorf("%w: due_date %q: %v", shell.ErrInvalidInput, due, err)
		}
		task["due_date"] = due
	}

	if _, err := v.tasks.CreateTask(ctx, task); err != nil {
		return upstream("create task", err)
	}
	return nil
}
