package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
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

// Schema is a compiled JSON schema that can be reused across requests.
type Schema struct {
	schema *gojsonschema.Schema
}

func Compile(schemaMap map[string]interface{}) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile panics on an invalid schema; for schemas built from static tables.
func MustCompile(schemaMap map[string]interface{}) *Schema {
	s, err := Compile(schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a decoded JSON document (maps, slices, float64 numbers).
func (s *Schema) Validate(document interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

func ValidateDocument(schemaMap map[string]interface{}, document interface{}) (*ValidationResult, error) {
	s, err := Compile(schemaMap)
	if err != nil {
		return nil, err
	}
	return s.Validate(document)
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   errorField(desc),
			Message: desc.Description(),
			Code:    errorCode(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		if out.Errors[i].Code != out.Errors[j].Code {
			return out.Errors[i].Code < out.Errors[j].Code
		}
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out
}

// errorField names the offending property. For "required" and
// "additional_property_not_allowed" gojsonschema reports the parent, so the
// property name is taken from the error details instead.
func errorField(desc gojsonschema.ResultError) string {
	details := desc.Details()
	switch desc.Type() {
	case "required":
		if p, ok := details["property"].(string); ok {
			return joinField(desc.Field(), p)
		}
	case "additional_property_not_allowed":
		if p, ok := details["property"].(string); ok {
			return joinField(desc.Field(), p)
		}
	}
	return desc.Field()
}

func joinField(parent, child string) string {
	if parent == "" || parent == "(root)" {
		return child
	}
	return parent + "." + child
}

func errorCode(t string) string {
	switch t {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "additional_property_not_allowed":
		return "EXTRA_FIELD"
	case "invalid_type":
		return "INVALID_TYPE"
	case "number_gte", "number_gt":
		return "MINIMUM_VIOLATION"
	case "number_lte", "number_lt":
		return "MAXIMUM_VIOLATION"
	case "enum":
		return "INVALID_ENUM_VALUE"
	default:
		return strings.ToUpper(t)
	}
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (vr *ValidationResult) ErrorsWithCode(code string) []ValidationError {
	var out []ValidationError
	for _, err := range vr.Errors {
		if err.Code == code {
			out = append(out, err)
		}
	}
	return out
}
