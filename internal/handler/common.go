package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"account-records/internal/errors"
)

var validate = validator.New()

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := Response{Data: data}
	json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")

	statusCode := appErr.HTTPStatus()
	errResponse := Error{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}

	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Error: &errResponse})
}

// writeServiceError renders a service error, falling back to a generic
// internal error for anything that is not an AppError.
func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		writeError(w, appErr)
		return
	}
	writeError(w, errors.NewAppError(errors.InternalError, "an unexpected error occurred"))
}

// validateRequest runs struct-tag validation over a decoded request
// body.
func validateRequest(obj interface{}) *errors.AppError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		return errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(verrs.Error())
	}
	return errors.NewAppError(errors.InvalidInput, "invalid request body")
}
