package task_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"taskboard-web/internal/contextkeys"
	"taskboard-web/internal/core/domain"
	"taskboard-web/internal/core/port"
)

const tasksPath = "/tasks"

// Client - тонкая обертка над REST API задач
type Client struct {
	cfg Config
}

// NewClient создает клиента из явной конфигурации
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	if cfg.BaseURL == "" {
		return nil, errors.New("tasks api base url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tasks api base url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("tasks api base url %q must be absolute", cfg.BaseURL)
	}

	return &Client{cfg: cfg}, nil
}

// Endpoint возвращает полный адрес коллекции задач
func (c *Client) Endpoint() string {
	return c.cfg.BaseURL + c.cfg.BasePath + tasksPath
}

func (c *Client) taskURL(id domain.TaskID) string {
	return c.Endpoint() + "/" + url.PathEscape(id.String())
}

// GetTasks - GET /tasks
func (c *Client) GetTasks(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, "GetTasks", http.MethodGet, c.Endpoint(), nil)
}

// CreateTask - POST /tasks, тело - переданный объект задачи
func (c *Client) CreateTask(ctx context.Context, task any) (*Response, error) {
	return c.doRequest(ctx, "CreateTask", http.MethodPost, c.Endpoint(), task)
}

// UpdateTask - PUT /tasks/{id}, тело - частичные изменения
func (c *Client) UpdateTask(ctx context.Context, id domain.TaskID, updates any) (*Response, error) {
	return c.doRequest(ctx, "UpdateTask", http.MethodPut, c.taskURL(id), updates)
}

// DeleteTask - DELETE /tasks/{id}, без тела
func (c *Client) DeleteTask(ctx context.Context, id domain.TaskID) (*Response, error) {
	return c.doRequest(ctx, "DeleteTask", http.MethodDelete, c.taskURL(id), nil)
}

func (c *Client) doRequest(ctx context.Context, op, method, target string, payload any) (*Response, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TaskApiClient",
		"method":    op,
	})

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(contextkeys.TraceHeader, traceID)
	}

	clientLogger.Debug("Sending request to tasks api", port.Fields{"http_method": method, "url": target})

	httpResp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		clientLogger.Error("Failed to perform request to tasks api", err, nil)
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		clientLogger.Error("Failed to read tasks api response", err, nil)
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	resp := &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Data:   data,
		Method: method,
		URL:    target,
	}

	if resp.Status < 200 || resp.Status >= 300 {
		statusErr := &StatusError{Response: resp}
		clientLogger.Warn("Received non-success response from tasks api", port.Fields{"status_code": resp.Status})
		return resp, statusErr
	}

	clientLogger.Debug("Tasks api request succeeded", port.Fields{"status_code": resp.Status})
	return resp, nil
}
