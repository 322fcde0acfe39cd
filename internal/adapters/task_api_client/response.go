package task_api_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"taskboard-web/internal/core/domain"
)

// Response - обертка над ответом бэкенда. Тело хранится как есть,
// клиент его не изменяет и не интерпретирует.
type Response struct {
	Status int
	Header http.Header
	Data   []byte
	Method string
	URL    string
}

// Decode разбирает тело ответа в v. Числа остаются json.Number,
// чтобы большие идентификаторы не теряли точность.
func (r *Response) Decode(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.Data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.Method, r.URL, err)
	}
	return nil
}

// Task разбирает тело как одну задачу
func (r *Response) Task() (domain.Task, error) {
	var task domain.Task
	if err := r.Decode(&task); err != nil {
		return nil, err
	}
	return task, nil
}

// Tasks разбирает тело как список задач
func (r *Response) Tasks() ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// StatusError возвращается вместе с Response, если статус не 2xx.
// Никакой доменной интерпретации статуса здесь нет.
type StatusError struct {
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tasks api: %s %s returned status %d", e.Response.Method, e.Response.URL, e.Response.Status)
}
