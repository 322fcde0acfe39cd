package shell

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"taskboard-web/internal/contextkeys"
	"taskboard-web/internal/core/domain"
	"taskboard-web/internal/core/port"
)

// maxFormBytes ограничивает тело POST-формы
const maxFormBytes = 1 << 20

type navLink struct {
	Name   string
	Title  string
	URL    string
	Active bool
}

// pageData - данные layout-шаблона
type pageData struct {
	Title  string
	Lang   string
	Styles []string
	Nav    []navLink
	Route  domain.Route
	Outlet template.HTML
	Error  string
}

// App - смонтированное приложение. Неизменяемо, безопасно для конкурентных запросов.
type App struct {
	mountID    string
	title      string
	lang       string
	layout     *template.Template
	resolver   Resolver
	views      map[domain.ViewName]View
	components map[string]Component
	provided   map[string]any
	styles     []string
	nav        []navLink
}

func (a *App) MountID() string {
	return a.mountID
}

// ServeHTTP разрешает путь через роутер и рендерит представление в точку монтирования.
// Неизвестный путь - пустая точка монтирования и 404.
// POST передается представлению, если оно реализует FormAction.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"component": "Shell"})

	route, ok := a.resolver.Resolve(r.URL.Path)
	if !ok {
		logger.Debug("No route matched", port.Fields{"path": r.URL.Path})
		a.render(w, r, logger, route, false, http.StatusNotFound, "")
		return
	}

	if r.Method != http.MethodPost {
		a.render(w, r, logger, route, true, http.StatusOK, "")
		return
	}

	action, isForm := a.views[route.View].(FormAction)
	if !isForm {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var err error
	if parseErr := r.ParseForm(); parseErr != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidInput, parseErr)
	} else {
		err = action.Submit(r.Context(), r.PostForm)
	}
	if err == nil {
		logger.Info("Form submitted", port.Fields{"view": string(route.View)})
		http.Redirect(w, r, a.routeURL(route, r.URL.Path), http.StatusSeeOther)
		return
	}

	status, banner := errorStatus(err)
	logger.Error("Form submit failed", err, port.Fields{"view": string(route.View), "status_code": status})
	a.render(w, r, logger, route, true, status, banner)
}

// render собирает страницу. status и banner - результат предыдущего шага (например, формы);
// ошибка рендера представления заменяет их, только если баннера еще нет.
func (a *App) render(w http.ResponseWriter, r *http.Request, logger port.LoggerPort, route domain.Route, matched bool, status int, banner string) {
	data := a.page(route, matched)
	data.Error = banner

	if matched {
		var outlet bytes.Buffer
		vc := ViewContext{
			Route:      route,
			URL:        a.routeURL(route, r.URL.Path),
			components: a.components,
			provided:   a.provided,
		}
		if err := a.views[route.View].Render(r.Context(), &outlet, vc); err != nil {
			viewStatus, viewBanner := errorStatus(err)
			logger.Error("View render failed", err, port.Fields{"view": string(route.View), "status_code": viewStatus})
			if data.Error == "" {
				status, data.Error = viewStatus, viewBanner
			}
		} else {
			data.Outlet = template.HTML(outlet.String())
		}
	}

	var page bytes.Buffer
	if err := a.layout.Execute(&page, data); err != nil {
		logger.Error("Layout render failed", err, nil)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page.Bytes())
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "Please check the form and try again."
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway, "The tasks service is unavailable. Please try again later."
	default:
		return http.StatusInternalServerError, "Something went wrong while rendering this page."
	}
}

// routeURL - адрес именованного маршрута; безымянный маршрут остается на текущем пути
func (a *App) routeURL(route domain.Route, current string) string {
	if route.Name != "" {
		if u, ok := a.resolver.URL(route.Name); ok {
			return u
		}
	}
	return current
}

func (a *App) page(route domain.Route, matched bool) pageData {
	nav := make([]navLink, len(a.nav))
	copy(nav, a.nav)
	if matched {
		for i := range nav {
			nav[i].Active = nav[i].Name == route.Name
		}
	}

	title := a.title
	for _, link := range nav {
		if link.Active {
			title = link.Title + " · " + a.title
		}
	}

	return pageData{
		Title:  title,
		Lang:   a.lang,
		Styles: a.styles,
		Nav:    nav,
		Route:  route,
	}
}
