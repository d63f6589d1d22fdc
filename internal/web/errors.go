package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode)
//  3. Error is mapped via core.MapError to a user message and code
//  4. Technical error is logged with the request id for correlation
//  5. User message is written as JSON, or as an HTML alert for browsers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/NikaNal/dept-of-excellence-training/internal/core"
	"github.com/NikaNal/dept-of-excellence-training/internal/logging"
	"github.com/NikaNal/dept-of-excellence-training/internal/web/views"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code, Field) and human-readable
// (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

// respondError logs the technical error server-side and writes the user
// message in the format the client asked for.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if wantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		if err := views.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w); err != nil {
			logger.Error("render error alert", "error", err)
		}
		return
	}

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	writeJSON(w, statusCode, resp)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSchoolNotFound):
		return http.StatusNotFound
	case core.IsValidationError(err), errors.Is(err, core.ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRefreshInProgress):
		return http.StatusConflict
	case errors.Is(err, core.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// wantsHTML reports whether the client prefers an HTML response. API
// clients that send or accept JSON always get JSON.
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return false
	}
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(accept, "text/html")
}
