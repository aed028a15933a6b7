package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

var errNotFound = verrors.New(verrors.ErrCodeNotFound, "not found")

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    verrors.Code `json:"code"`
	Message string       `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case verrors.IsNotFound(err):
		return http.StatusNotFound
	case verrors.IsValidation(err), verrors.Is(err, verrors.ErrCodeUnsupported):
		return http.StatusBadRequest
	case verrors.Is(err, verrors.ErrCodeTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case verrors.Is(err, verrors.ErrCodeBrowser):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status := statusFor(err)
	code := verrors.GetCode(err)
	msg := verrors.UserMessage(err)
	if code == "" {
		code = verrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeRaw(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
