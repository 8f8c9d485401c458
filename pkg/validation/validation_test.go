package validation

import (
	"testing"
	"time"
)

func TestValidate_RequiredFields(t *testing.T) {
	schema := Schema{
		"name":   {Type: TypeString, Required: true, MinLength: 1, MaxLength: 10},
		"active": {Type: TypeBoolean, Required: false},
	}

	tests := []struct {
		name      string
		input     map[string]any
		wantField string
	}{
		{
			name:      "missing required field",
			input:     map[string]any{"active": true},
			wantField: "name",
		},
		{
			name:      "explicit null for required field",
			input:     map[string]any{"name": nil},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Validate(schema, tt.input, nil)
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("expected error for field %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidate_FieldTypes(t *testing.T) {
	schema := Schema{
		"name":   {Type: TypeString, Required: true, MinLength: 2, MaxLength: 5},
		"status": {Type: TypeEnum, Required: true, Options: []string{"Pending", "Started"}},
		"active": {Type: TypeBoolean, Required: true},
		"price":  {Type: TypeFloat, Required: false, MinValue: 0, MaxValue: 100},
		"starts": {Type: TypeDatetime, Required: false},
	}

	tests := []struct {
		name    string
		input   map[string]any
		wantErr string
	}{
		{
			name: "all valid",
			input: map[string]any{
				"name":   "abc",
				"status": "Pending",
				"active": true,
				"price":  12.5,
				"starts": "2030-01-01 00:00:00",
			},
		},
		{
			name: "string too short",
			input: map[string]any{
				"name": "a", "status": "Pending", "active": true,
			},
			wantErr: "name",
		},
		{
			name: "string too long",
			input: map[string]any{
				"name": "abcdef", "status": "Pending", "active": true,
			},
			wantErr: "name",
		},
		{
			name: "enum not in options",
			input: map[string]any{
				"name": "abc", "status": "Running", "active": true,
			},
			wantErr: "status",
		},
		{
			name: "boolean from string rejected",
			input: map[string]any{
				"name": "abc", "status": "Pending", "active": "true",
			},
			wantErr: "active",
		},
		{
			name: "float from string rejected",
			input: map[string]any{
				"name": "abc", "status": "Pending", "active": true, "price": "12.5",
			},
			wantErr: "price",
		},
		{
			name: "float from bool rejected",
			input: map[string]any{
				"name": "abc", "status": "Pending", "active": true, "price": true,
			},
			wantErr: "price",
		},
		{
			name: "float out of range",
			input: map[string]any{
				"name": "abc", "status": "Pending", "active": true, "price": 100.5,
			},
			wantErr: "price",
		},
		{
			name: "unparseable datetime",
			input: map[string]any{
				"name": "abc", "status": "Pending", "active": true, "starts": "tomorrow",
			},
			wantErr: "starts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Validate(schema, tt.input, nil)
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantErr]; !ok {
				t.Errorf("expected error for field %q, got %v", tt.wantErr, errs)
			}
		})
	}
}

func TestValidate_RestrictedFields(t *testing.T) {
	schema := Schema{
		"name": {Type: TypeString, Required: true, MinLength: 1, MaxLength: 10},
	}

	_, errs := Validate(schema, map[string]any{"name": "abc", "id": "x"}, []string{"id", "active"})
	if _, ok := errs["id"]; !ok {
		t.Errorf("expected restricted field error for id, got %v", errs)
	}
	if _, ok := errs["active"]; ok {
		t.Error("absent restricted field should not produce an error")
	}
}

func TestValidate_DatetimeNormalizedToUTC(t *testing.T) {
	schema := Schema{
		"starts": {Type: TypeDatetime, Required: true},
	}

	sanitized, errs := Validate(schema, map[string]any{"starts": "2030-06-15T12:00:00+02:00"}, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	ts, ok := sanitized["starts"].(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", sanitized["starts"])
	}
	if ts.Location() != time.UTC {
		t.Errorf("expected UTC timestamp, got %v", ts.Location())
	}
	if want := time.Date(2030, 6, 15, 10, 0, 0, 0, time.UTC); !ts.Equal(want) {
		t.Errorf("expected %v, got %v", want, ts)
	}
}

func TestValidatePartial_OnlyProvidedFields(t *testing.T) {
	schema := Schema{
		"name":   {Type: TypeString, Required: true, MinLength: 1, MaxLength: 10},
		"active": {Type: TypeBoolean, Required: true},
	}

	sanitized, errs := ValidatePartial(schema, map[string]any{"name": "abc"}, nil)
	if len(errs) != 0 {
		t.Fatalf("partial update should not require absent fields, got %v", errs)
	}
	if sanitized["name"] != "abc" {
		t.Errorf("expected sanitized name, got %v", sanitized)
	}

	// A provided null still violates a required rule.
	_, errs = ValidatePartial(schema, map[string]any{"active": nil}, nil)
	if _, ok := errs["active"]; !ok {
		t.Errorf("expected error for null required field, got %v", errs)
	}
}

func TestValidate_UnruledFieldsPassThrough(t *testing.T) {
	schema := Schema{
		"name": {Type: TypeString, Required: true, MinLength: 1, MaxLength: 10},
	}

	sanitized, errs := Validate(schema, map[string]any{"name": "abc", "extra": 42}, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if sanitized["extra"] != 42 {
		t.Errorf("expected extra field to pass through, got %v", sanitized)
	}
}
