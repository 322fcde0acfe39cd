package views

import (
	"context"
	"fmt"
	"taskboard-web/internal/adapters/task_api_client"
	"taskboard-web/internal/core/domain"
	"taskboard-web/internal/core/shell"
)

// TaskStore - то, что представлениям нужно от клиента API задач
type TaskStore interface {
	GetTasks(ctx context.Context) (*task_api_client.Response, error)
	CreateTask(ctx context.Context, task any) (*task_api_client.Response, error)
	UpdateTask(ctx context.Context, id domain.TaskID, updates any) (*task_api_client.Response, error)
	DeleteTask(ctx context.Context, id domain.TaskID) (*task_api_client.Response, error)
}

// fetchTasks запрашивает список задач. Любая ошибка помечается shell.ErrUpstream.
func fetchTasks(ctx context.Context, store TaskStore) ([]domain.Task, error) {
	resp, err := store.GetTasks(ctx)
	if err != nil {
		return nil, upstream("list tasks", err)
	}
	tasks, err := resp.Tasks()
	if err != nil {
		return nil, upstream("list tasks", err)
	}
	return tasks, nil
}

// upstream помечает ошибку вызова API (включая *task_api_client.StatusError) как shell.ErrUpstream
func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, shell.ErrUpstream, err)
}
