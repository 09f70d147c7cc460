package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/campus-closet/internal/api/httpx"
	"github.com/baharkarakas/campus-closet/internal/api/validate"
	"github.com/baharkarakas/campus-closet/internal/middleware"
	"github.com/baharkarakas/campus-closet/internal/services"
)

// writeErr maps service errors onto the JSON error envelope. Anything that is
// not a known kind is logged and reported as a bare 500.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errs
	switch {
	case errors.As(err, &verrs):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, "validation failed", verrs)
	case errors.Is(err, services.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, err.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.RequestIDFrom(r.Context()),
			"method", r.Method,
			"route", r.URL.Path,
			"err", err,
		)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
	}
}

// decode reads the body into v and runs its validate tags.
func decode(r *http.Request, v any) error {
	if err := httpx.DecodeJSON(r, v); err != nil {
		return services.InvalidRequest("Invalid JSON body")
	}
	return validate.Struct(v)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.InvalidRequest("Invalid " + name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates (UTC).
func parseDate(field, v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, services.InvalidRequest("Invalid " + field)
}
