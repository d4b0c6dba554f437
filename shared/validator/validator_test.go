package validator_test

import (
	"net/http"
	"strings"
	"testing"
	"todoapi/shared/failure"
	"todoapi/shared/validator"
)

type describeRequest struct {
	TaskDescription string `json:"taskDescription" validate:"required,notblank,max=16"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError string
	}{
		{name: "valid JSON", body: `{"taskDescription":"Dusting"}`},
		{name: "malformed JSON", body: `{"taskDescription":`, expectError: "failed to decode request body"},
		{name: "empty body", body: ``, expectError: "request body is empty"},
		{name: "missing field", body: `{}`, expectError: "taskDescription is required"},
		{name: "blank field", body: `{"taskDescription":"   "}`, expectError: "taskDescription must not be blank"},
		{name: "too long", body: `{"taskDescription":"a very long description"}`, expectError: "taskDescription must be at most 16 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data describeRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.expectError == "" {
				if err != nil {
					t.Fatalf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			if failure.GetCode(err) != http.StatusBadRequest {
				t.Errorf("expected a 400 failure, got %d", failure.GetCode(err))
			}

			if !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("expected %q in %q", tt.expectError, err.Error())
			}
		})
	}
}

func TestValidateNilReader(t *testing.T) {
	var data describeRequest

	if err := validator.Validate(nil, &data); err == nil {
		t.Error("expected an error for a nil body")
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid uuid", field: "5f8e1f0a-3c56-4a51-9a0e-2b0d4b3c1e11", tag: "uuid", expectError: false},
		{name: "invalid uuid", field: "not-an-id", tag: "uuid", expectError: true},
		{name: "empty required string", field: "", tag: "required", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}
