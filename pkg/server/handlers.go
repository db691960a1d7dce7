package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/engine"
	"mercator-hq/sanitycheck/pkg/history"
	"mercator-hq/sanitycheck/pkg/record"
)

// ValidateResponse is the body of a successful POST /v1/validate.
type ValidateResponse struct {
	Passed     bool           `json:"passed"`
	Violations []string       `json:"violations"`
	Report     *engine.Report `json:"report"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse is the body of GET /v1/reports.
type ListResponse struct {
	Reports []*history.Entry `json:"reports"`
	Total   int64            `json:"total"`
}

// DefaultListLimit caps GET /v1/reports without ?limit.
const DefaultListLimit = 50

func (s *Server) handleValidate() http.Handler {
	maxBytes := s.config.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxBodyBytes
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "record exceeds size limit")
				return
			}
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		rec, err := record.Parse(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Error loading paper file: "+err.Error())
			return
		}

		report := s.deps.Runner.Run(r.Context(), rec, history.SourceHTTP)
		writeJSON(w, http.StatusOK, ValidateResponse{
			Passed:     report.Passed(),
			Violations: report.Violations,
			Report:     report,
		})
	})
}

func (s *Server) handleListReports() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := parseListQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		entries, err := s.deps.History.Query(r.Context(), q)
		if err != nil {
			var qe *history.QueryError
			if errors.As(err, &qe) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.logger.ErrorContext(r.Context(), "failed to query history", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to query history")
			return
		}
		total, err := s.deps.History.Count(r.Context(), q)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "failed to count history", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to query history")
			return
		}
		writeJSON(w, http.StatusOK, ListResponse{Reports: entries, Total: total})
	})
}

func (s *Server) handleGetReport() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry, err := s.deps.History.Get(r.Context(), r.PathValue("id"))
		switch {
		case errors.Is(err, history.ErrNotFound):
			writeError(w, http.StatusNotFound, "report not found")
		case err != nil:
			s.logger.ErrorContext(r.Context(), "failed to get report", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read history")
		default:
			writeJSON(w, http.StatusOK, entry)
		}
	})
}

// parseListQuery reads limit, offset, source, passed and since (RFC 3339).
func parseListQuery(r *http.Request) (*history.Query, error) {
	v := r.URL.Query()
	q := &history.Query{Limit: DefaultListLimit, Source: v.Get("source")}

	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.New("limit must be an integer")
		}
		q.Limit = n
	}
	if s := v.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.New("offset must be an integer")
		}
		q.Offset = n
	}
	if s := v.Get("passed"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.New("passed must be a boolean")
		}
		q.Passed = &b
	}
	if s := v.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, errors.New("since must be an RFC 3339 timestamp")
		}
		q.Since = &t
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
