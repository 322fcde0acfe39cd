// Package router - статическая таблица маршрутов представлений.
// Разрешение - первое точное совпадение пути после снятия базового префикса истории.
package router

import (
	"errors"
	"fmt"
	"strings"
	"taskboard-web/internal/core/domain"
)

var (
	ErrEmptyTable     = errors.New("router: route table is empty")
	ErrInvalidPath    = errors.New("router: route path must start with '/'")
	ErrDynamicSegment = errors.New("router: dynamic segments are not supported")
	ErrDuplicateName  = errors.New("router: duplicate route name")
)

// DefaultRoutes - две страницы приложения: календарь и доска
func DefaultRoutes() []domain.Route {
	return []domain.Route{
		{Path: "/", Name: "calendar", View: domain.ViewCalendar},
		{Path: "/kanban", Name: "board", View: domain.ViewKanban},
	}
}

type Router struct {
	base   string
	routes []domain.Route
	byName map[string]int
}

// New создает роутер. base - префикс истории (аналог BASE_URL), "/" или "" - без префикса.
func New(base string, routes ...domain.Route) (*Router, error) {
	if len(routes) == 0 {
		return nil, ErrEmptyTable
	}

	r := &Router{
		base:   normalizeBase(base),
		routes: make([]domain.Route, 0, len(routes)),
		byName: make(map[string]int, len(routes)),
	}

	for _, route := range routes {
		if !strings.HasPrefix(route.Path, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, route.Path)
		}
		if strings.ContainsAny(route.Path, ":*{}") {
			return nil, fmt.Errorf("%w: %q", ErrDynamicSegment, route.Path)
		}
		route.Path = trimTrailingSlash(route.Path)
		if route.Name != "" {
			if _, exists := r.byName[route.Name]; exists {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, route.Name)
			}
			r.byName[route.Name] = len(r.routes)
		}
		r.routes = append(r.routes, route)
	}

	return r, nil
}

// Resolve возвращает первый маршрут, путь которого совпадает с path.
// Неизвестный путь (или путь вне базового префикса) - ok == false.
func (r *Router) Resolve(path string) (domain.Route, bool) {
	rel, ok := r.strip(path)
	if !ok {
		return domain.Route{}, false
	}
	rel = trimTrailingSlash(rel)
	for _, route := range r.routes {
		if route.Path == rel {
			return route, true
		}
	}
	return domain.Route{}, false
}

// Routes возвращает копию таблицы в исходном порядке
func (r *Router) Routes() []domain.Route {
	out := make([]domain.Route, len(r.routes))
	copy(out, r.routes)
	return out
}

func (r *Router) ByName(name string) (domain.Route, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return domain.Route{}, false
	}
	return r.routes[idx], true
}

// URL строит ссылку на именованный маршрут с учетом базового префикса
func (r *Router) URL(name string) (string, bool) {
	route, ok := r.ByName(name)
	if !ok {
		return "", false
	}
	if r.base == "" {
		return route.Path, true
	}
	if route.Path == "/" {
		return r.base + "/", true
	}
	return r.base + route.Path, true
}

// Base возвращает нормализованный префикс истории ("" - корень)
func (r *Router) Base() string {
	return r.base
}

func (r *Router) strip(path string) (string, bool) {
	if path == "" {
		path = "/"
	}
	if r.base == "" {
		return path, true
	}
	if path == r.base {
		return "/", true
	}
	if strings.HasPrefix(path, r.base+"/") {
		return strings.TrimPrefix(path, r.base), true
	}
	return "", false
}

func normalizeBase(base string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

func trimTrailingSlash(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}
