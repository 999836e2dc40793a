package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tfarias/rachao/internal/league"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError emits a JSON error envelope with a stable code.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	_ = WriteJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func statusForKind(kind league.Kind) int {
	switch kind {
	case league.KindValidation:
		return http.StatusBadRequest
	case league.KindNotFound:
		return http.StatusNotFound
	case league.KindConflict:
		return http.StatusConflict
	case league.KindForbidden:
		return http.StatusForbidden
	case league.KindPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError maps a domain error onto an HTTP response. Non-domain
// errors are logged and surfaced as a 500 without leaking details.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *league.Error
	if errors.As(err, &domainErr) {
		WriteError(w, statusForKind(domainErr.Kind), domainErr.Code, domainErr.Message)
		return
	}

	log.Ctx(r.Context()).Error().Err(err).Msg("Unhandled handler error")
	WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}
