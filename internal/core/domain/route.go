package domain

// ViewName - имя компонента представления, привязанного к маршруту
type ViewName string

const (
	ViewCalendar ViewName = "CalendarView"
	ViewKanban   ViewName = "KanbanView"
)

// Route - одна строка статической таблицы маршрутов
type Route struct {
	Path string
	Name string
	View ViewName
}
