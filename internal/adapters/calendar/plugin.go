// Package calendar - плагин календаря: проверенные настройки и компоненты
// VCalendar и VDatePicker. Логики диапазонов дат здесь нет.
package calendar

import (
	"errors"
	"sync"
	"taskboard-web/internal/core/shell"
)

const (
	PluginName = "calendar"
	// ProvideKey - ключ, под которым настройки доступны представлениям
	ProvideKey = "calendar"
	Stylesheet = "/static/calendar.css"

	CalendarComponentName   = "VCalendar"
	DatePickerComponentName = "VDatePicker"
)

var errNotInstalled = errors.New("calendar: plugin is not installed")

type Plugin struct {
	mu        sync.RWMutex
	settings  Settings
	installed bool
}

func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return PluginName
}

// Install проверяет опции, сохраняет настройки и подключает стили календаря.
// Компоненты регистрируются отдельно, через shell.Component.
func (p *Plugin) Install(host shell.Host, opts any) error {
	settings, err := resolveOptions(opts)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.settings = settings
	p.installed = true
	p.mu.Unlock()

	host.Style(Stylesheet)
	host.Provide(ProvideKey, settings)
	return nil
}

// Settings возвращает настройки после установки
func (p *Plugin) Settings() (Settings, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.installed {
		return Settings{}, errNotInstalled
	}
	return p.settings, nil
}
