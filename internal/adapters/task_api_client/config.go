package task_api_client

import (
	"net/http"
	"strings"
)

const (
	// DefaultBasePath - префикс, который добавляется к каждому запросу
	DefaultBasePath = "/api"
	contentTypeJSON = "application/json"
)

// Config - явная конфигурация клиента. Общего изменяемого
// клиента по умолчанию нет: каждый экземпляр получает свой Config.
type Config struct {
	// BaseURL - адрес бэкенда, например http://127.0.0.1:5000
	BaseURL string
	// BasePath добавляется перед путем ресурса ("/api" -> "/api/tasks")
	BasePath string
	// Headers выставляются на каждый запрос
	Headers map[string]string
	// HTTPClient; если nil, используется клиент без таймаута
	HTTPClient *http.Client
}

// DefaultConfig возвращает конфигурацию с префиксом /api и JSON по умолчанию
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:  baseURL,
		BasePath: DefaultBasePath,
		Headers: map[string]string{
			"Content-Type": contentTypeJSON,
		},
	}
}

// withDefaults дополняет незаполненные поля. BasePath не трогаем:
// пустой префикс - допустимое значение.
func (c Config) withDefaults() Config {
	headers := make(map[string]string, len(c.Headers)+1)
	for k, v := range c.Headers {
		headers[k] = v
	}
	if c.Headers == nil {
		headers["Content-Type"] = contentTypeJSON
	}
	c.Headers = headers

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}

	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BasePath != "" {
		c.BasePath = "/" + strings.Trim(c.BasePath, "/")
	}
	return c
}
