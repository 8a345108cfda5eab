package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  ErrorResponse
		code int
	}{
		{"internal", InternalServerError, http.StatusInternalServerError},
		{"not found", NotFoundError, http.StatusNotFound},
		{"forbidden", ForbiddenError, http.StatusForbidden},
		{"missing param", NewMissingParamError("id"), http.StatusBadRequest},
		{"invalid param", NewInvalidParamTypeError("id", "int"), http.StatusBadRequest},
		{"validation", NewValidationFailedError(nil), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Code(); got != tt.code {
				t.Errorf("Code() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestValidationErrorBody(t *testing.T) {
	err := NewValidationFailedError(map[string]string{"sddesc": "must not be empty"})

	body, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("marshal: %v", jerr)
	}

	var decoded map[string]any
	if jerr := json.Unmarshal(body, &decoded); jerr != nil {
		t.Fatalf("unmarshal: %v", jerr)
	}
	if decoded["code"] != float64(http.StatusUnprocessableEntity) {
		t.Errorf("code = %v", decoded["code"])
	}
	payload, ok := decoded["payload"].(map[string]any)
	if !ok || payload["sddesc"] != "must not be empty" {
		t.Errorf("payload = %v", decoded["payload"])
	}
}

func TestFromValidationError(t *testing.T) {
	type request struct {
		Name string `validate:"required"`
		Age  int    `validate:"gt=0"`
	}

	err := validator.New().Struct(&request{})
	resp := FromValidationError(err)
	if resp.Code() != http.StatusBadRequest {
		t.Fatalf("code = %d", resp.Code())
	}

	invalid, ok := resp.(*InvalidFieldsError)
	if !ok {
		t.Fatalf("response type %T", resp)
	}
	if len(invalid.Fields) != 2 || invalid.Fields[0].Field != "Name" || invalid.Fields[0].Rule != "required" {
		t.Errorf("fields = %+v", invalid.Fields)
	}

	if FromValidationError(errors.New("boom")) != MalformedBodyError {
		t.Error("non validation errors must map to MalformedBodyError")
	}
}
