package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validatorv10 "github.com/go-playground/validator/v10"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/validation"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && logger != nil {
		logger.Warn("json encode error", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	if logger != nil {
		logger.Info("http error",
			logx.String("req_id", reqID(r.Context())),
			logx.Int("status", status),
			logx.String("msg", msg),
		)
	}
	writeJSON(logger, w, r, status, ErrorResponse{Error: msg})
}

// writeServiceError maps dispatch errors onto HTTP statuses.
func writeServiceError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalid), errors.Is(err, apperr.ErrState):
		writeError(logger, w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(logger, w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		writeError(logger, w, r, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrExpired):
		writeError(logger, w, r, http.StatusGone, err.Error())
	case errors.Is(err, apperr.ErrDependency):
		if logger != nil {
			logger.Error("dependency failure", logx.String("req_id", reqID(r.Context())), logx.Err(err))
		}
		writeError(logger, w, r, http.StatusServiceUnavailable, "service unavailable")
	default:
		if logger != nil {
			logger.Error("unexpected error", logx.String("req_id", reqID(r.Context())), logx.Err(err))
		}
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

const (
	bodyLimit = 1 << 20
)

// decodeJSON reads a single JSON object into dst and validates it.
func decodeJSON[T any](logger logx.Logger, v *validatorv10.Validate, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	if v == nil {
		return true
	}
	if err := v.Struct(dst); err != nil {
		writeJSON(logger, w, r, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Fields: validation.Fields(err),
		})
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		return "", errors.New("invalid id")
	}
	return id, nil
}

// intQuery reads a non-negative integer query parameter, def when absent.
func intQuery(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}
