// Package server exposes the contact operations over HTTP as JSON.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jeanpaul/contactbook/internal/contact"
	"github.com/jeanpaul/contactbook/internal/export"
)

// Server routes HTTP requests to the contact service. The store does no
// locking, so every operation runs under one mutex.
type Server struct {
	svc      *contact.Service
	exporter *export.Exporter
	logger   *slog.Logger
	router   *chi.Mux
	mu       sync.Mutex
}

func New(svc *contact.Service, exporter *export.Exporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		svc:      svc,
		exporter: exporter,
		logger:   logger,
		router:   chi.NewRouter(),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Route("/contacts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleAdd)
		r.Get("/search", s.handleSearch)
		r.Put("/{index}", s.handleEdit)
		r.Delete("/{index}", s.handleDelete)
	})
	s.router.Post("/export/{format}", s.handleExport)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.svc.List()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var in contact.Contact
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, r, badRequest("invalid JSON body: "+err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.svc.Add(in.Name, in.Phone, in.Email, in.Address)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.svc.Search(q.Get("field"), q.Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, found)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var in contact.Contact
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, r, badRequest("invalid JSON body: "+err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.svc.Edit(index, in.Name, in.Phone, in.Email, in.Address)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.svc.Delete(index)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.Format(chi.URLParam(r, "format"))
	if format != export.FormatCSV && format != export.FormatXLSX {
		s.respondError(w, r, badRequest("unknown export format "+strconv.Quote(string(format))))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.exporter.Export(format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"path": path})
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("index must be a number, got " + strconv.Quote(raw))
	}
	return index, nil
}

// logRequests logs each request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps service errors to HTTP status codes and stable codes.
func statusFor(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, contact.ErrValidation):
		return http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, contact.ErrInvalidField):
		return http.StatusBadRequest, "invalid_field"
	case errors.Is(err, contact.ErrOutOfRange):
		return http.StatusNotFound, "out_of_range"
	case errors.Is(err, contact.ErrNoData):
		return http.StatusConflict, "no_data"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"err", err,
		"request_id", middleware.GetReqID(r.Context()),
	)
	respondJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
