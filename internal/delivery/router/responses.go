package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	msgTaskNotFound     = "Task not found"
	msgTaskDeleted      = "Task deleted successfully"
	msgMissingPathID    = "Missing id in path"
	msgMethodNotAllowed = "Method Not Allowed"
	msgInternalError    = "Internal Server Error"
)

const (
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderContentType  = "Content-Type"
)

// CORSHeaders returns a fresh copy of the header set attached to every response.
func CORSHeaders() map[string]string {
	return map[string]string{
		HeaderAllowOrigin:  "*",
		HeaderAllowMethods: "OPTIONS,POST,GET,PUT,DELETE",
		HeaderAllowHeaders: "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		HeaderContentType:  "application/json",
	}
}

type messageBody struct {
	Message string `json:"message"`
}

type deletedBody struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newEmptyResponse(status int) Response {
	return Response{
		StatusCode: status,
		Headers:    CORSHeaders(),
	}
}

func newJSONResponse(status int, v any) (Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal response: %w", err)
	}

	return Response{
		StatusCode: status,
		Headers:    CORSHeaders(),
		Body:       string(body),
	}, nil
}

func newMessageResponse(status int, message string) Response {
	resp, _ := newJSONResponse(status, messageBody{Message: message})
	return resp
}

// InternalErrorResponse wraps an unexpected failure into a 500
// response carrying the error text.
func InternalErrorResponse(err error) Response {
	resp, _ := newJSONResponse(http.StatusInternalServerError, errorBody{
		Message: msgInternalError,
		Error:   err.Error(),
	})
	return resp
}

// newValidationResponse reports the first field that failed validation.
// Errors that didn't come from the validator are returned unchanged.
func newValidationResponse(err error) (Response, error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return Response{}, err
	}

	field := validationErrs[0].Field()
	return newMessageResponse(http.StatusBadRequest, fmt.Sprintf("Missing %s in body", field)), nil
}
