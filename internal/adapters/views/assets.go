// Package views - представления календаря и доски, layout приложения и статические стили.
package views

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	// Stylesheet - общие стили приложения
	Stylesheet = "/static/style.css"
	// MountID - id элемента-точки монтирования в index.html
	MountID = "app"
)

var viewTemplates = template.Must(template.ParseFS(templateFS, "templates/calendar_view.html", "templates/board_view.html"))

// Layout разбирает index.html - документ, в который монтируется приложение
func Layout() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/index.html")
}

// Static возвращает файловую систему со стилями; корень соответствует /static/
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
