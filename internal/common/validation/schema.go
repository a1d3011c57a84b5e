// internal/common/validation/schema.go
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"matching-workers/internal/common/errors"
	"matching-workers/pkg/registry"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins the field errors into a single message.
func (r *ValidationResult) Error() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

// Validator validates job variables against a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles schema. A nil or empty schema accepts any object.
func NewValidator(schema map[string]interface{}) (*Validator, error) {
	if len(schema) == 0 {
		return &Validator{}, nil
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// ForActivity compiles the input schema of the registry activity with the given task type.
func ForActivity(reg *registry.ActivityRegistry, taskType string) (*Validator, error) {
	activity, ok := reg.Find(taskType)
	if !ok {
		return nil, fmt.Errorf("activity %q not found in registry", taskType)
	}
	v, err := NewValidator(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("activity %q: %w", taskType, err)
	}
	return v, nil
}

// Decode validates job variables and unmarshals them into out. Any problem
// with the document is reported as an INVALID_INPUT error.
func (v *Validator) Decode(variables string, out interface{}) error {
	result, err := v.ValidateJSON(variables)
	if err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return errors.NewInvalidInputError(result.Error())
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// ValidateJSON validates a raw JSON document such as a job's variables.
func (v *Validator) ValidateJSON(document string) (*ValidationResult, error) {
	if v.schema == nil {
		return &ValidationResult{Valid: true}, nil
	}
	if strings.TrimSpace(document) == "" {
		document = "{}"
	}

	result, err := v.schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}
