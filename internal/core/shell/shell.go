// Package shell - оболочка приложения: плагины, компоненты, стили
// и однократное монтирование в точку монтирования layout-шаблона.
package shell

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"sync"
	"taskboard-web/internal/contextkeys"
	"taskboard-web/internal/core/domain"
	"taskboard-web/internal/core/port"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Config - параметры оболочки
type Config struct {
	Title  string
	Layout *template.Template
	// Language - язык документа и правил заглавных букв в навигации
	Language language.Tag
	Logger   port.LoggerPort
}

// Shell собирается один раз на старте и после Mount только читается
type Shell struct {
	mu         sync.Mutex
	cfg        Config
	plugins    []string
	components map[string]Component
	styles     []string
	provided   map[string]any
	mounted    bool
}

func New(cfg Config) (*Shell, error) {
	if cfg.Layout == nil {
		return nil, errors.New("shell: layout template is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = contextkeys.NoopLogger()
	}
	if cfg.Language == language.Und {
		cfg.Language = language.English
	}
	return &Shell{
		cfg:        cfg,
		components: make(map[string]Component),
		provided:   make(map[string]any),
	}, nil
}

// Use устанавливает плагин с переданными опциями
func (s *Shell) Use(p Plugin, opts any) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	for _, name := range s.plugins {
		if name == p.Name() {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrDuplicatePlugin, name)
		}
	}
	s.plugins = append(s.plugins, p.Name())
	s.mu.Unlock()

	// Install вызывает Component/Style/Provide, поэтому мьютекс уже отпущен
	if err := p.Install(&installHost{shell: s}, opts); err != nil {
		return fmt.Errorf("install plugin %q: %w", p.Name(), err)
	}
	s.cfg.Logger.Debug("Plugin installed", port.Fields{"plugin": p.Name()})
	return nil
}

// Component регистрирует именованный компонент
func (s *Shell) Component(name string, c Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return ErrAlreadyMounted
	}
	if strings.TrimSpace(name) == "" || c == nil {
		return errors.New("shell: component name and implementation are required")
	}
	if _, exists := s.components[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	s.components[name] = c
	return nil
}

// Style добавляет таблицу стилей; повторы игнорируются, порядок сохраняется
func (s *Shell) Style(href string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.styles {
		if existing == href {
			return
		}
	}
	s.styles = append(s.styles, href)
}

// Provide делает значение доступным всем представлениям
func (s *Shell) Provide(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provided[key] = value
}

// Mount привязывает оболочку к точке монтирования mountID и таблице маршрутов.
// Выполняется ровно один раз; повторный вызов возвращает ErrAlreadyMounted.
func (s *Shell) Mount(mountID string, resolver Resolver, views map[domain.ViewName]View) (*App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return nil, ErrAlreadyMounted
	}
	if err := s.checkMountPoint(mountID); err != nil {
		return nil, err
	}

	routes := resolver.Routes()
	for _, route := range routes {
		if _, ok := views[route.View]; !ok {
			return nil, fmt.Errorf("%w: %q (route %q)", ErrUnknownView, route.View, route.Path)
		}
	}

	caser := cases.Title(s.cfg.Language)
	nav := make([]navLink, 0, len(routes))
	for _, route := range routes {
		if route.Name == "" {
			continue
		}
		href, _ := resolver.URL(route.Name)
		nav = append(nav, navLink{Name: route.Name, Title: caser.String(route.Name), URL: href})
	}

	app := &App{
		mountID:    mountID,
		title:      s.cfg.Title,
		lang:       s.cfg.Language.String(),
		layout:     s.cfg.Layout,
		resolver:   resolver,
		views:      copyViews(views),
		components: copyMap(s.components),
		provided:   copyMap(s.provided),
		styles:     append([]string(nil), s.styles...),
		nav:        nav,
	}
	s.mounted = true

	s.cfg.Logger.Info("Application mounted", port.Fields{
		"mount_id":   mountID,
		"routes":     len(routes),
		"components": len(app.components),
		"plugins":    len(s.plugins),
	})
	return app, nil
}

// Mounted сообщает, было ли приложение уже смонтировано
func (s *Shell) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// checkMountPoint рендерит layout с пустыми данными и ищет элемент id="<mountID>"
func (s *Shell) checkMountPoint(mountID string) error {
	if strings.TrimSpace(mountID) == "" {
		return fmt.Errorf("%w: empty mount id", ErrMountPointNotFound)
	}
	var buf bytes.Buffer
	if err := s.cfg.Layout.Execute(&buf, pageData{Lang: s.cfg.Language.String()}); err != nil {
		return fmt.Errorf("shell: render layout: %w", err)
	}
	re := regexp.MustCompile(`\bid\s*=\s*["']` + regexp.QuoteMeta(mountID) + `["']`)
	if !re.Match(buf.Bytes()) {
		return fmt.Errorf("%w: #%s", ErrMountPointNotFound, mountID)
	}
	return nil
}

type installHost struct {
	shell *Shell
}

func (h *installHost) Component(name string, c Component) error { return h.shell.Component(name, c) }
func (h *installHost) Style(href string)                        { h.shell.Style(href) }
func (h *installHost) Provide(key string, value any)            { h.shell.Provide(key, value) }

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyViews(in map[domain.ViewName]View) map[domain.ViewName]View {
	out := make(map[domain.ViewName]View, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
