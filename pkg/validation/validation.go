package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldType identifies the validation strategy for a field.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeEnum     FieldType = "enum"
	TypeBoolean  FieldType = "boolean"
	TypeFloat    FieldType = "float"
	TypeDatetime FieldType = "datetime"
)

// Rule describes the constraints for a single field.
type Rule struct {
	Type      FieldType
	Required  bool
	MinLength int
	MaxLength int
	MinValue  float64
	MaxValue  float64
	Options   []string
}

// Schema maps field names to their rules.
type Schema map[string]Rule

// Timestamp layouts accepted for datetime fields.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Validate checks a candidate record against a schema for the create path.
// Required fields must be present and non-null, and any field from the
// restricted set found in the input is reported as an error. It returns the
// sanitized record and a field->message error map; the error map is empty
// when the input is valid. The function has no side effects.
func Validate(schema Schema, input map[string]any, restricted []string) (map[string]any, map[string]string) {
	return validate(schema, input, restricted, true)
}

// ValidatePartial validates only the fields present in the input, for the
// update path where a partial record is expected. Required rules still apply
// to provided fields: an explicit null for a required field is an error.
func ValidatePartial(schema Schema, input map[string]any, restricted []string) (map[string]any, map[string]string) {
	return validate(schema, input, restricted, false)
}

func validate(schema Schema, input map[string]any, restricted []string, requirePresence bool) (map[string]any, map[string]string) {
	sanitized := make(map[string]any, len(input))
	errs := make(map[string]string)

	for _, field := range restricted {
		if _, ok := input[field]; ok {
			errs[field] = "field cannot be set by clients"
		}
	}

	for field, rule := range schema {
		value, present := input[field]

		if !present {
			if rule.Required && requirePresence {
				errs[field] = "field is required"
			}
			continue
		}

		if value == nil {
			if rule.Required {
				errs[field] = "field is required"
			} else {
				sanitized[field] = nil
			}
			continue
		}

		clean, err := checkField(rule, value)
		if err != "" {
			errs[field] = err
			continue
		}
		sanitized[field] = clean
	}

	// Fields without a rule pass through untouched.
	for field, value := range input {
		if _, ruled := schema[field]; ruled {
			continue
		}
		if contains(restricted, field) {
			continue
		}
		sanitized[field] = value
	}

	return sanitized, errs
}

func checkField(rule Rule, value any) (any, string) {
	switch rule.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, "must be a string"
		}
		length := utf8.RuneCountInString(s)
		if length < rule.MinLength {
			return nil, fmt.Sprintf("must be at least %d characters", rule.MinLength)
		}
		if rule.MaxLength > 0 && length > rule.MaxLength {
			return nil, fmt.Sprintf("must be at most %d characters", rule.MaxLength)
		}
		return s, ""

	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, "must be a string"
		}
		if !contains(rule.Options, s) {
			return nil, fmt.Sprintf("must be one of: %s", strings.Join(rule.Options, ", "))
		}
		return s, ""

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, "must be a boolean"
		}
		return b, ""

	case TypeFloat:
		f, ok := toFloat(value)
		if !ok {
			return nil, "must be a number"
		}
		if f < rule.MinValue || f > rule.MaxValue {
			return nil, fmt.Sprintf("must be between %g and %g", rule.MinValue, rule.MaxValue)
		}
		return f, ""

	case TypeDatetime:
		s, ok := value.(string)
		if !ok {
			return nil, "must be a datetime string"
		}
		for _, layout := range datetimeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), ""
			}
		}
		return nil, "must be a valid timestamp (e.g. 2006-01-02 15:04:05)"

	default:
		return value, ""
	}
}

// toFloat accepts JSON numbers and native numeric types, but rejects the
// truthy coercions (bool, numeric strings) the validator must not allow.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
