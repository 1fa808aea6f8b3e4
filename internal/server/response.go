package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vigenere-search/internal/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// RespondError writes a JSON error response with logging. Errors that are
// not an *errors.AppError are reported as internal errors without their text.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalWithCause("Internal server error", err)
	}

	status := errors.ToHTTPStatus(appErr)
	if status >= http.StatusInternalServerError {
		log.Error().Err(appErr.Cause).Int("code", int(appErr.Code)).Msg(appErr.Message)
	} else {
		log.Debug().Int("code", int(appErr.Code)).Msg(appErr.Message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(errors.ToJSON(appErr))
}

// RespondSuccess writes a JSON success response
func RespondSuccess(w http.ResponseWriter, data interface{}) {
	RespondJSON(w, http.StatusOK, APIResponse{
		Code: 0,
		Data: data,
	})
}

// RespondJSON writes a raw JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
