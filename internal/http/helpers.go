package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/ledger"
	applog "financas/internal/log"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a request body into dst, rejecting oversized payloads
// and unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

// sessionUID returns the authenticated user for the request.
func sessionUID(r *http.Request) (string, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	return session.UID, ok
}

func parsePathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", r.PathValue("id"))
	}
	return id, nil
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func parseYearMonth(r *http.Request) (core.YearMonth, error) {
	now := time.Now()
	ym := core.YearMonth{Year: now.Year(), Month: int(now.Month())}

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.YearMonth{}, fmt.Errorf("invalid year %q", v)
		}
		ym.Year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return core.YearMonth{}, fmt.Errorf("invalid month %q", v)
		}
		ym.Month = m
	}

	return ym, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

var validationErrors = []error{
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrEmptyDescription,
	core.ErrInvalidExpenseKind,
	core.ErrEmptyGoalName,
	core.ErrInvalidGoalTarget,
	core.ErrGoalOverTarget,
	core.ErrInvalidGoalCat,
	core.ErrMissingDeadline,
	core.ErrDescriptionTooLong,
	core.ErrNameTooLong,
}

// writeStoreError maps storage and validation failures to HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ledger.ErrNotFound) {
		respondError(w, http.StatusNotFound, "record not found")
		return
	}
	for _, verr := range validationErrors {
		if errors.Is(err, verr) {
			respondError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
	}

	applog.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
		applog.FieldError, err.Error(),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	respondError(w, http.StatusInternalServerError, "internal error")
}
