package calendar

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/language"
)

//go:embed options.schema.json
var optionsSchemaJSON []byte

const optionsSchemaURL = "calendar/options.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Masks - форматы отображения дат
type Masks struct {
	Title string `json:"title,omitempty"`
	Input string `json:"input,omitempty"`
}

// Options - опции плагина. Нулевые поля заменяются значениями по умолчанию.
type Options struct {
	Locale string `json:"locale,omitempty"`
	// FirstDayOfWeek: 1 - воскресенье, 2 - понедельник, ... 7 - суббота
	FirstDayOfWeek int   `json:"firstDayOfWeek,omitempty"`
	Masks          Masks `json:"masks,omitempty"`
}

// DefaultOptions - то же, что получает плагин при пустых опциях
func DefaultOptions() Options {
	return Options{
		Locale:         "en",
		FirstDayOfWeek: 1,
		Masks: Masks{
			Title: "MMMM YYYY",
			Input: "YYYY-MM-DD",
		},
	}
}

// Settings - проверенные опции, которые плагин отдает компонентам
type Settings struct {
	Options
	Language language.Tag
}

func optionsSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(optionsSchemaURL, bytes.NewReader(optionsSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("add calendar options schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(optionsSchemaURL)
	})
	return compiledSchema, compileErr
}

// resolveOptions проверяет raw по схеме и накладывает его на значения по умолчанию.
// raw может быть nil, Options, *Options или map[string]any.
func resolveOptions(raw any) (Settings, error) {
	opts := DefaultOptions()

	if raw != nil {
		body, err := json.Marshal(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("encode calendar options: %w", err)
		}

		var doc any
		if err := json.Unmarshal(body, &doc); err != nil {
			return Settings{}, fmt.Errorf("calendar options are not valid JSON: %w", err)
		}
		if doc != nil {
			schema, err := optionsSchema()
			if err != nil {
				return Settings{}, err
			}
			if err := schema.Validate(doc); err != nil {
				return Settings{}, fmt.Errorf("calendar options: %w", err)
			}
			if err := json.Unmarshal(body, &opts); err != nil {
				return Settings{}, fmt.Errorf("decode calendar options: %w", err)
			}
		}
	}

	tag, err := language.Parse(opts.Locale)
	if err != nil {
		return Settings{}, fmt.Errorf("calendar locale %q: %w", opts.Locale, err)
	}

	return Settings{Options: opts, Language: tag}, nil
}
