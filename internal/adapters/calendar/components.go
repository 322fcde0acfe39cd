package calendar

import (
	"fmt"
	"html/template"
	"io"
	"taskboard-web/internal/core/domain"
	"time"
)

var componentTemplates = template.Must(template.New("calendar").Parse(`
{{define "VCalendar"}}<section class="vc-container" lang="{{.Lang}}" data-title-mask="{{.TitleMask}}">
  <ol class="vc-weekdays">{{range .Weekdays}}<li>{{.}}</li>{{end}}</ol>
  {{if .Items}}<ul class="vc-tasks">{{range .Items}}
    <li class="vc-task{{if .Done}} vc-task--done{{end}}" data-task-id="{{.ID}}">
      <span class="vc-task__title">{{.Title}}</span>{{if .When}} <time>{{.When}}</time>{{end}}
    </li>{{end}}
  </ul>{{else}}<p class="vc-empty">No tasks yet.</p>{{end}}
</section>{{end}}
{{define "VDatePicker"}}<label class="vc-date-picker">{{.Label}}
  <input type="date" name="{{.Name}}" lang="{{.Lang}}" data-mask="{{.InputMask}}"{{if .Value}} value="{{.Value}}"{{end}}>
</label>{{end}}
`))

// CalendarProps - входные данные VCalendar
type CalendarProps struct {
	Tasks []domain.Task
}

// DatePickerProps - входные данные VDatePicker
type DatePickerProps struct {
	Name  string
	Label string
	Value string
}

// dateKeys - ключи дат, которые присылают разные версии бэкенда, по приоритету
var dateKeys = []string{"due_date", "start_time", "start"}

type calendarItem struct {
	ID    domain.TaskID
	Title string
	When  string
	Done  bool
}

// CalendarComponent - компонент VCalendar
type CalendarComponent struct {
	plugin *Plugin
}

func NewCalendarComponent(p *Plugin) *CalendarComponent {
	return &CalendarComponent{plugin: p}
}

func (c *CalendarComponent) Render(w io.Writer, props any) error {
	settings, err := c.plugin.Settings()
	if err != nil {
		return err
	}

	var tasks []domain.Task
	switch p := props.(type) {
	case CalendarProps:
		tasks = p.Tasks
	case *CalendarProps:
		tasks = p.Tasks
	case nil:
	default:
		return fmt.Errorf("VCalendar: unsupported props %T", props)
	}

	items := make([]calendarItem, 0, len(tasks))
	for _, t := range tasks {
		item := calendarItem{
			ID:    t.ID(),
			Title: t.Title(),
			Done:  t.Bool("completed") || t.Bool("is_completed"),
		}
		for _, key := range dateKeys {
			if v := t.String(key); v != "" {
				item.When = v
				break
			}
		}
		items = append(items, item)
	}

	return componentTemplates.ExecuteTemplate(w, "VCalendar", struct {
		Lang      string
		TitleMask string
		Weekdays  []string
		Items     []calendarItem
	}{
		Lang:      settings.Language.String(),
		TitleMask: settings.Masks.Title,
		Weekdays:  Weekdays(settings.FirstDayOfWeek),
		Items:     items,
	})
}

// DatePickerComponent - компонент VDatePicker
type DatePickerComponent struct {
	plugin *Plugin
}

func NewDatePickerComponent(p *Plugin) *DatePickerComponent {
	return &DatePickerComponent{plugin: p}
}

func (c *DatePickerComponent) Render(w io.Writer, props any) error {
	settings, err := c.plugin.Settings()
	if err != nil {
		return err
	}

	var p DatePickerProps
	switch v := props.(type) {
	case DatePickerProps:
		p = v
	case *DatePickerProps:
		p = *v
	case nil:
	default:
		return fmt.Errorf("VDatePicker: unsupported props %T", props)
	}
	if p.Name == "" {
		p.Name = "date"
	}

	return componentTemplates.ExecuteTemplate(w, "VDatePicker", struct {
		DatePickerProps
		Lang      string
		InputMask string
	}{
		DatePickerProps: p,
		Lang:            settings.Language.String(),
		InputMask:       settings.Masks.Input,
	})
}

// Weekdays возвращает короткие английские названия дней недели, начиная с firstDay (1 - воскресенье).
// Локаль плагина сюда не влияет: она попадает только в атрибут lang разметки.
func Weekdays(firstDay int) []string {
	if firstDay < 1 || firstDay > 7 {
		firstDay = 1
	}
	days := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		wd := time.Weekday((firstDay - 1 + i) % 7)
		days = append(days, wd.String()[:3])
	}
	return days
}
