// Package prompt walks a normalized form schema and collects answers
// interactively, one prompt per field type.
package prompt

import (
	"context"
	"errors"

	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/schema"
)

// ErrAborted reports that the user interrupted the fill.
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a basic text input prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no style prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single or multi-select prompt.
type SelectConfig struct {
	Message string
	Options []string
	Help    string
}

// TextAreaConfig configures a multi-line text prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// Driver abstracts the terminal implementation so fill logic can be
// tested without a real terminal.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (string, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]string, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
}

// Filler collects an answer set for a form by prompting per field.
type Filler struct {
	driver Driver
}

// NewFiller builds a Filler over the given driver. A nil driver selects
// the terminal implementation.
func NewFiller(driver Driver) *Filler {
	if driver == nil {
		driver = newSurveyDriver()
	}
	return &Filler{driver: driver}
}

// Fill prompts for the subject name, the group, and every schema field
// in order, returning the collected answers. Signature and richtext
// fields are skipped: the first needs a canvas, the second is display
// content.
func (f *Filler) Fill(ctx context.Context, form schema.FormDefinition) (render.AnswerSet, error) {
	answers := render.AnswerSet{}
	leading := render.DefaultLeading()

	name, err := f.driver.Input(ctx, InputConfig{Message: leading.SubjectLabel})
	if err != nil {
		return nil, err
	}
	if name != "" {
		answers[render.KeySubjectName] = name
	}
	group, err := f.driver.Input(ctx, InputConfig{Message: leading.GroupLabel})
	if err != nil {
		return nil, err
	}
	if group != "" {
		answers[render.KeyGroup] = group
	}

	for _, field := range form.Fields {
		value, ok, err := f.fillField(ctx, field)
		if err != nil {
			return nil, err
		}
		if ok {
			answers[field.ID] = value
		}
	}
	return answers, nil
}

func (f *Filler) fillField(ctx context.Context, field schema.FieldDef) (any, bool, error) {
	message := field.Label
	if message == "" {
		message = field.ID
	}

	switch field.Type {
	case schema.FieldSignature, schema.FieldRichText:
		return nil, false, nil
	case schema.FieldConsent, schema.FieldCheckbox:
		ok, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Help:    field.Description,
		})
		if err != nil {
			return nil, false, err
		}
		return ok, true, nil
	case schema.FieldSelect, schema.FieldRadio:
		if len(field.Options) == 0 {
			return f.inputValue(ctx, field, message)
		}
		value, err := f.driver.Select(ctx, SelectConfig{
			Message: message,
			Options: field.Options,
		})
		if err != nil {
			return nil, false, err
		}
		return value, true, nil
	case schema.FieldCheckboxes:
		values, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message: message,
			Options: field.Options,
		})
		if err != nil {
			return nil, false, err
		}
		if len(values) == 0 {
			return nil, false, nil
		}
		return values, true, nil
	case schema.FieldTextarea:
		value, err := f.driver.TextArea(ctx, TextAreaConfig{Message: message})
		if err != nil {
			return nil, false, err
		}
		if value == "" {
			return nil, false, nil
		}
		return value, true, nil
	default:
		return f.inputValue(ctx, field, message)
	}
}

func (f *Filler) inputValue(ctx context.Context, field schema.FieldDef, message string) (any, bool, error) {
	cfg := InputConfig{Message: message, Help: field.Description}
	if field.Required {
		cfg.Validator = func(s string) error {
			if s == "" {
				return errors.New("a value is required")
			}
			return nil
		}
	}
	value, err := f.driver.Input(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	if value == "" {
		return nil, false, nil
	}
	return value, true, nil
}
