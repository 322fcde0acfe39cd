package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TaskID - непрозрачный идентификатор задачи, который назначает бэкенд.
// Бэкенд может прислать его как JSON-число или как строку.
type TaskID string

func (id TaskID) String() string {
	return string(id)
}

// UnmarshalJSON принимает и числа, и строки
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or a number: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// Task - запись задачи в том виде, в каком ее прислал бэкенд.
// Схема не фиксирована, клиент ничего не проверяет.
type Task map[string]any

// ID возвращает значение ключа "id" или пустой TaskID
func (t Task) ID() TaskID {
	switch v := t["id"].(type) {
	case string:
		return TaskID(v)
	case json.Number:
		return TaskID(v.String())
	case float64:
		return TaskID(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return TaskID(strconv.Itoa(v))
	case int64:
		return TaskID(strconv.FormatInt(v, 10))
	}
	return ""
}

func (t Task) Title() string {
	return t.String("title")
}

func (t Task) Status() string {
	return strings.TrimSpace(t.String("status"))
}

// String возвращает строковое поле; для нестроковых значений - пустую строку
func (t Task) String(key string) string {
	if s, ok := t[key].(string); ok {
		return s
	}
	return ""
}

// Bool понимает как JSON-булевы значения, так и 0/1 из sqlite-бэкендов
func (t Task) Bool(key string) bool {
	switch v := t[key].(type) {
	case bool:
		return v
	case json.Number:
		return v.String() != "0"
	case float64:
		return v != 0
	}
	return false
}
