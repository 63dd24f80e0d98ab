// Package server exposes a song.Store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/icco/genstaff/internal/notation"
	"github.com/icco/genstaff/internal/song"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"detail"`
}

// CreateResponse answers POST /song.
type CreateResponse struct {
	ID       string         `json:"id"`
	SongList []song.Summary `json:"songList"`
}

// RenameRequest is the body of PUT /song/{id}/rename.
type RenameRequest struct {
	Name string `json:"name"`
}

type Server struct {
	store  song.Store
	router *mux.Router
	log    *slog.Logger
}

// New builds the routes. A nil log uses slog.Default.
func New(store song.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{store: store, log: log}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.logRequests)
	router.HandleFunc("/songs", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/song", s.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/song/{id}", s.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/song/{id}", s.handleSave).Methods(http.MethodPut)
	router.HandleFunc("/song/{id}/rename", s.handleRename).Methods(http.MethodPut)
	router.HandleFunc("/song/{id}", s.handleDelete).Methods(http.MethodDelete)
	s.router = router
	return s
}

// Handler returns the router wrapped in the CORS policy. origins lists the
// allowed origins; none allows any.
func (s *Server) Handler(origins ...string) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts).Handler(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, origins ...string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(origins...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("could not encode response", "err", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, song.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, song.ErrInvalidSong),
		errors.Is(err, song.ErrUnknownInstrument),
		errors.Is(err, notation.ErrInvalidPitch),
		errors.Is(err, notation.ErrInvalidDurationCode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) readSong(r *http.Request) (*song.Song, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", song.ErrInvalidSong, err)
	}
	return song.Unmarshal(body)
}

// writeList answers with the current song list.
func (s *Server) writeList(w http.ResponseWriter, r *http.Request, status int) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, status, list)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.writeList(w, r, http.StatusOK)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sg, err := s.store.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := song.Marshal(sg, song.JSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sg, err := s.readSong(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, err := s.store.Create(r.Context(), sg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, CreateResponse{ID: id, SongList: list})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sg, err := s.readSong(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sg.ID = mux.Vars(r)["id"]
	if err := s.store.Save(r.Context(), sg); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": sg.ID})
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", song.ErrInvalidSong, err))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.writeError(w, fmt.Errorf("%w: empty name", song.ErrInvalidSong))
		return
	}
	if err := s.store.Rename(r.Context(), mux.Vars(r)["id"], name); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeList(w, r, http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeList(w, r, http.StatusOK)
}
