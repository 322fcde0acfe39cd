package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"taskboard-web/internal/contextkeys"
	"taskboard-web/internal/core/port"
)

// заголовки CORS выставляет сам сервер, ответы бэкенда их не дублируют
var upstreamCORSHeaders = []string{
	"Access-Control-Allow-Origin",
	"Access-Control-Allow-Credentials",
	"Access-Control-Allow-Headers",
	"Access-Control-Allow-Methods",
	"Access-Control-Expose-Headers",
	"Access-Control-Max-Age",
}

// NewAPIProxy создает обратный прокси к API задач.
// Путь запроса теряет префикс mountPrefix и получает basePath бэкенда:
// /api/tasks/7 при mountPrefix "/api" и basePath "/api" уходит на <target>/api/tasks/7.
func NewAPIProxy(targetURL, mountPrefix, basePath string, logger port.LoggerPort) (http.Handler, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, errors.New("invalid proxy target URL: scheme and host are required")
	}
	mountPrefix = strings.TrimSuffix(mountPrefix, "/")
	basePath = strings.TrimSuffix(basePath, "/")
	proxyLogger := logger.WithFields(port.Fields{"component": "APIProxy", "target": target.Host})

	proxy := httputil.NewSingleHostReverseProxy(target)

	proxy.Director = func(req *http.Request) {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.Host = target.Host

		// req.URL.Path не содержит query-параметров, они остаются в RawQuery
		rest := strings.TrimPrefix(req.URL.Path, mountPrefix)
		if rest != "" && !strings.HasPrefix(rest, "/") {
			rest = "/" + rest
		}
		req.URL.Path = strings.TrimSuffix(target.Path, "/") + basePath + rest
		req.URL.RawPath = ""

		if traceID := contextkeys.TraceIDFromContext(req.Context()); traceID != "" {
			req.Header.Set(contextkeys.TraceHeader, traceID)
		}
	}

	proxy.ModifyResponse = func(resp *http.Response) error {
		for _, h := range upstreamCORSHeaders {
			resp.Header.Del(h)
		}
		return nil
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		proxyLogger.Error("Tasks API is unreachable", err, port.Fields{
			"trace_id": contextkeys.TraceIDFromContext(r.Context()),
			"method":   r.Method,
			"path":     r.URL.Path,
		})
		WriteJSONError(w, http.StatusBadGateway, "tasks service is unavailable")
	}

	return proxy, nil
}
