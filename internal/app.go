package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"taskboard-web/internal/adapters/calendar"
	logger_adapter "taskboard-web/internal/adapters/logger"
	"taskboard-web/internal/adapters/rest"
	"taskboard-web/internal/adapters/router"
	"taskboard-web/internal/adapters/task_api_client"
	"taskboard-web/internal/adapters/views"
	"taskboard-web/internal/configs"
	"taskboard-web/internal/core/domain"
	"taskboard-web/internal/core/port"
	"taskboard-web/internal/core/shell"

	"github.com/fluent/fluent-logger-golang/fluent"
	"golang.org/x/text/language"
)

const shutdownTimeout = 10 * time.Second

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = logger_adapter.NewFluentClient(logger_adapter.FluentConfig{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // имя приложения как префикс тегов
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	baseLogger.WithFields(port.Fields{"component": "app"}).Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application, err := newApp(appConfig, baseLogger)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, err
	}
	application.fluentClient = fluentClient
	return application, nil
}

// newApp собирает клиент API, оболочку, роутер и HTTP-сервер
func newApp(appConfig *configs.AppConfig, baseLogger port.LoggerPort) (*App, error) {
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	// --- 3. КЛИЕНТ API ЗАДАЧ ---
	clientCfg := task_api_client.DefaultConfig(appConfig.ApiClient.TASKS_API_URL)
	clientCfg.BasePath = appConfig.ApiClient.TASKS_API_BASE_PATH
	tasksClient, err := task_api_client.NewClient(clientCfg)
	if err != nil {
		appLogger.Error("Failed to create tasks API client", err, nil)
		return nil, fmt.Errorf("failed to create tasks API client: %w", err)
	}
	appLogger.Info("Tasks API client initialized.", port.Fields{"endpoint": tasksClient.Endpoint()})

	// --- 4. ОБОЛОЧКА: ПЛАГИНЫ, КОМПОНЕНТЫ, СТИЛИ ---
	layout, err := views.Layout()
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	lang, err := language.Parse(appConfig.Calendar.Locale)
	if err != nil {
		appLogger.Warn("Unknown locale, falling back to English", port.Fields{"locale": appConfig.Calendar.Locale})
		lang = language.English
	}

	appShell, err := shell.New(shell.Config{
		Title:    appConfig.Shell.Title,
		Layout:   layout,
		Language: lang,
		Logger:   baseLogger.WithFields(port.Fields{"component": "shell"}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shell: %w", err)
	}

	calendarPlugin := calendar.NewPlugin()
	if err := appShell.Use(calendarPlugin, calendar.Options{
		Locale:         lang.String(),
		FirstDayOfWeek: appConfig.Calendar.FirstDayOfWeek,
	}); err != nil {
		appLogger.Error("Failed to install calendar plugin", err, nil)
		return nil, err
	}

	appShell.Style(views.Stylesheet)
	if err := appShell.Component(calendar.CalendarComponentName, calendar.NewCalendarComponent(calendarPlugin)); err != nil {
		return nil, err
	}
	if err := appShell.Component(calendar.DatePickerComponentName, calendar.NewDatePickerComponent(calendarPlugin)); err != nil {
		return nil, err
	}

	// --- 5. РОУТЕР И МОНТИРОВАНИЕ ---
	viewRouter, err := router.New(appConfig.Shell.BaseURL, router.DefaultRoutes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	// id точки монтирования зафиксирован в layout (templates/index.html)
	shellApp, err := appShell.Mount(views.MountID, viewRouter, map[domain.ViewName]shell.View{
		domain.ViewCalendar: views.NewCalendarView(tasksClient),
		domain.ViewKanban:   views.NewKanbanView(tasksClient),
	})
	if err != nil {
		appLogger.Error("Failed to mount application", err, port.Fields{"mount_id": views.MountID})
		return nil, fmt.Errorf("failed to mount application: %w", err)
	}

	// --- 6. HTTP-СЕРВЕР ---
	serverOpts := rest.Options{
		Port:           appConfig.Rest.PORT,
		APIPrefix:      rest.DefaultAPIPrefix,
		AllowedOrigins: appConfig.Cors.AllowedOrigins,
		Static:         views.Static(),
	}
	if appConfig.ApiClient.PROXY_ENABLED {
		serverOpts.APIProxy, err = rest.NewAPIProxy(
			appConfig.ApiClient.TASKS_API_URL,
			rest.DefaultAPIPrefix,
			appConfig.ApiClient.TASKS_API_BASE_PATH,
			baseLogger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create API proxy: %w", err)
		}
	}

	apiServer := rest.NewServer(serverOpts, shellApp, baseLogger)
	appLogger.Info("REST server configured.", port.Fields{"proxy_enabled": appConfig.ApiClient.PROXY_ENABLED})

	return &App{
		config:    appConfig,
		apiServer: apiServer,
		logger:    appLogger,
	}, nil
}

// Handler - корневой HTTP-обработчик приложения
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run запускает HTTP-сервер и ждет сигнала завершения.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-errorsCh:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		return err
	}
}

func parseLogLevel(levelStr string) slog.Level {
	level, ok := logger_adapter.ParseLevel(levelStr)
	if !ok {
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", strings.TrimSpace(levelStr))
	}
	return level
}
