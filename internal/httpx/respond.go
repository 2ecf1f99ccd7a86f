// Package httpx holds the small response envelopes every handler shares.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/devlink/service-social-go/internal/validate"
)

// MsgBody is the `{"msg": ...}` envelope used for auth, not-found and
// generic failures.
type MsgBody struct {
	Msg string `json:"msg"`
}

// ErrorsBody is the `{"errors": [...]}` envelope used for validation
// failures and conflicts.
type ErrorsBody struct {
	Errors []validate.FieldError `json:"errors"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Msg writes a `{"msg": ...}` body.
func Msg(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MsgBody{Msg: msg})
}

// ValidationFailed writes the 400 field-error list.
func ValidationFailed(w http.ResponseWriter, errs []validate.FieldError) {
	JSON(w, http.StatusBadRequest, ErrorsBody{Errors: errs})
}

// Conflict writes a single-message 400 error list, matching the shape
// validation failures use.
func Conflict(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, ErrorsBody{Errors: []validate.FieldError{{Msg: msg}}})
}

// ServerError writes the generic 500 body. Detail stays server-side.
func ServerError(w http.ResponseWriter) {
	Msg(w, http.StatusInternalServerError, "Server Error")
}
