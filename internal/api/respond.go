package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

type problem struct {
	Error problemBody `json:"error"`
}

type problemBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, problem{Error: problemBody{Kind: kind, Message: message}})
}

// statusFor maps a domain error kind onto an HTTP status
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, string(domain.KindNotFound)
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, string(domain.KindInvalidState)
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden, string(domain.KindAuthorization)
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, string(domain.KindValidation)
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.Logger.Error("api request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeProblem(w, status, kind, msg)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return false
	}
	return true
}
