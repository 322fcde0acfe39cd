package shell

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"taskboard-web/internal/core/domain"
)

// Component - именованный UI-компонент, который представления вставляют в разметку
type Component interface {
	Render(w io.Writer, props any) error
}

// Host - то, что плагин может сделать с приложением при установке
type Host interface {
	Component(name string, c Component) error
	Style(href string)
	Provide(key string, value any)
}

// Plugin устанавливается в приложение до монтирования
type Plugin interface {
	Name() string
	Install(host Host, opts any) error
}

// View рендерит содержимое точки монтирования для маршрута
type View interface {
	Render(ctx context.Context, w io.Writer, vc ViewContext) error
}

// FormAction - представление, которое принимает POST своей формы.
// После успешного Submit оболочка перенаправляет браузер на страницу маршрута (303).
type FormAction interface {
	Submit(ctx context.Context, form url.Values) error
}

// Resolver - таблица маршрутов, к которой привязывается приложение
type Resolver interface {
	Resolve(path string) (domain.Route, bool)
	Routes() []domain.Route
	URL(name string) (string, bool)
}

// ViewContext передается представлению при каждом рендере
type ViewContext struct {
	Route domain.Route
	// URL - адрес страницы маршрута с учетом базового префикса; цель форм представления
	URL        string
	components map[string]Component
	provided   map[string]any
}

// NewViewContext собирает контекст вручную (нужно для тестов представлений)
func NewViewContext(route domain.Route, components map[string]Component, provided map[string]any) ViewContext {
	return ViewContext{Route: route, components: components, provided: provided}
}

// RenderComponent рендерит зарегистрированный компонент в HTML-фрагмент
func (vc ViewContext) RenderComponent(name string, props any) (template.HTML, error) {
	c, ok := vc.components[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	var buf bytes.Buffer
	if err := c.Render(&buf, props); err != nil {
		return "", fmt.Errorf("render component %q: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Provided возвращает значение, которое положил плагин
func (vc ViewContext) Provided(key string) (any, bool) {
	v, ok := vc.provided[key]
	return v, ok
}
