package mdt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FormValidator validates submitted form values.
type FormValidator interface {
	Validate(form FormTemplate, values map[string]string) error
}

// JSONSchemaValidator compiles form schemas and validates submissions.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[FormKind]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[FormKind]*jsonschema.Schema),
	}
}

// Validate ensures every required field is present and select values are known.
func (v *JSONSchemaValidator) Validate(form FormTemplate, values map[string]string) error {
	schema, err := v.schemaFor(form)
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(values))
	for k, val := range values {
		payload[k] = val
	}
	if err := schema.Validate(payload); err != nil {
		return &FormValidationError{
			Form:   form.Kind,
			Fields: form.missingFields(values),
			Err:    err,
		}
	}
	return nil
}

// Compile pre-compiles the schemas of the given forms.
func (v *JSONSchemaValidator) Compile(forms ...FormTemplate) error {
	for _, form := range forms {
		if _, err := v.schemaFor(form); err != nil {
			return err
		}
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(form FormTemplate) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[form.Kind]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(form.Schema())
	if err != nil {
		return nil, fmt.Errorf("mdt: marshal schema %s: %w", form.Kind, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(form.Kind) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("mdt: load schema %s: %w", form.Kind, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("mdt: compile schema %s: %w", form.Kind, err)
	}
	v.mu.Lock()
	v.compiled[form.Kind] = compiled
	v.mu.Unlock()
	return compiled, nil
}
