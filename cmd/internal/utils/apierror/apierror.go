package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is an error that knows the HTTP status it maps to and is
// rendered as the JSON body of the response.
type ErrorResponse interface {
	error
	Code() int
}

type SimpleError struct {
	Status  int    `json:"code"`
	Message string `json:"message"`
}

func (e *SimpleError) Error() string {
	return e.Message
}

func (e *SimpleError) Code() int {
	return e.Status
}

// ValidationError carries the submitted values with their field errors so the
// form can be shown again.
type ValidationError struct {
	SimpleError
	Payload any `json:"payload"`
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Internal server error")
	NotFoundError         = NewSimple(http.StatusNotFound, "Resource not found")
	ForbiddenError        = NewSimple(http.StatusForbidden, "You are not allowed to do this here")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Malformed request body")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Invalid authorization token")
)

func NewSimple(code int, message string) *SimpleError {
	return &SimpleError{Status: code, Message: message}
}

func NewMissingParamError(name string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing parameter '%s'", name))
}

func NewInvalidParamTypeError(name, typ string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", name, typ))
}

func NewValidationFailedError(payload any) *ValidationError {
	return &ValidationError{
		SimpleError: SimpleError{Status: http.StatusUnprocessableEntity, Message: "Validation failed"},
		Payload:     payload,
	}
}

var UserAlreadyExistsError = NewSimple(http.StatusConflict, "User already exists")

// FieldViolation describes one failed struct validation tag.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type InvalidFieldsError struct {
	SimpleError
	Fields []FieldViolation `json:"fields"`
}

// FromValidationError converts the error of validator.Struct into a 400
// response listing the offending fields.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	resp := &InvalidFieldsError{SimpleError: SimpleError{Status: http.StatusBadRequest, Message: "Invalid fields"}}
	for _, fe := range verrs {
		resp.Fields = append(resp.Fields, FieldViolation{Field: fe.Field(), Rule: fe.Tag()})
	}
	return resp
}
