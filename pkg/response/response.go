// Package response defines the JSON envelope every API endpoint replies with.
package response

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var EmptyRequestBodyResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Empty Request Body",
	Message:    "Request body is empty. Please provide necessary data.",
}

var InvalidRequestBodyResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Invalid Request Body",
	Message:    "Request body is not valid JSON.",
}

var ServerErrorResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusInternalServerError,
	Error:      "Server Error",
	Message:    "An internal server error occurred. Please try again later.",
}

type Response struct {
	Status     string            `json:"status"`
	StatusCode int               `json:"status_code"`
	Error      string            `json:"error,omitempty"`
	Message    string            `json:"message"`
	Details    []validationError `json:"details,omitempty"`
	Data       any               `json:"data,omitempty"`
}

// SuccessResponse wraps data in a success envelope. Only the first data value is used.
func SuccessResponse(statusCode int, msg string, data ...any) Response {
	resp := Response{
		Status:     StatusSuccess,
		StatusCode: statusCode,
		Message:    msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

func BadRequestResponse(msg string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: http.StatusBadRequest,
		Error:      "Bad Request",
		Message:    msg,
	}
}

func NotFoundResponse(msg string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: http.StatusNotFound,
		Error:      "Resource Not Found",
		Message:    msg,
	}
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

func issueForTag(tag string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "url", "http_url":
		return "Invalid url."
	default:
		return "Invalid value."
	}
}

func getValidationErrors(err error) []validationError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	validationErrs := make([]validationError, 0, len(errs))
	for _, e := range errs {
		validationErrs = append(validationErrs, validationError{
			Field: e.Field(),
			Value: e.Value(),
			Issue: issueForTag(e.Tag()),
		})
	}

	return validationErrs
}

// ValidationErrorResponse reports every field that failed validation.
func ValidationErrorResponse(err error) Response {
	return Response{
		Status:     StatusError,
		StatusCode: http.StatusBadRequest,
		Error:      "Validation Error",
		Message:    "Request body contains invalid fields.",
		Details:    getValidationErrors(err),
	}
}
