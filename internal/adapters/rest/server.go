package rest

import (
	"context"
	"io/fs"
	"net/http"
	"taskboard-web/internal/adapters/metrics"
	"taskboard-web/internal/core/port"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAPIPrefix - путь API задач, который видит браузер
const DefaultAPIPrefix = "/api"

// Options - то, что сервер монтирует помимо оболочки приложения
type Options struct {
	Port string
	// APIPrefix - путь, под которым браузер видит API задач; пусто - DefaultAPIPrefix
	APIPrefix string
	// APIProxy - nil, если прокси отключен
	APIProxy       http.Handler
	AllowedOrigins []string
	// Static раздается по /static/
	Static fs.FS
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewServer создает главный роутер: служебные маршруты, статика, прокси API
// и оболочка приложения на все остальные GET/HEAD/POST-запросы.
func NewServer(opts Options, shellApp http.Handler, baseLogger port.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), metrics.Middleware, middleware.Recoverer, SecurityHeadersMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}

	if opts.APIProxy != nil {
		prefix := opts.APIPrefix
		if prefix == "" {
			prefix = DefaultAPIPrefix
		}
		r.Route(prefix, func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   opts.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
				ExposedHeaders:   []string{"X-Trace-ID"},
				AllowCredentials: false,
				MaxAge:           300, // 5 минут
			}))
			r.Handle("/*", opts.APIProxy)
		})
	}

	r.Method(http.MethodGet, "/*", shellApp)
	r.Method(http.MethodHead, "/*", shellApp)
	// формы представлений; оболочка отвечает 405 там, где формы нет
	r.Method(http.MethodPost, "/*", shellApp)

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + opts.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// Handler возвращает корневой обработчик (для тестов и встраивания)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
