// Package routes wires the HTTP surface of the proxy.
package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/tabellone/tabellone/internal/board"
	"github.com/tabellone/tabellone/internal/config"
	appmw "github.com/tabellone/tabellone/internal/http/middleware"
)

const banner = "tabellone - station departure board proxy\n"

type Server struct {
	Router *chi.Mux
	Board  *board.Service
	Cfg    *config.Config
	Logger zerolog.Logger
}

type ServerOptions struct {
	Board  *board.Service
	Cfg    *config.Config
	Logger zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{Router: r, Board: opts.Board, Cfg: opts.Cfg, Logger: opts.Logger}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(banner)); err != nil {
			s.Logger.Error().Err(err).Msg("writing liveness banner")
		}
	})

	r.Group(func(pr chi.Router) {
		pr.Use(appmw.RequireKey(opts.Cfg.APIKey))
		pr.Get("/departures/{stationCode}", s.handleDepartures)
		// chi never routes a missing path parameter here, so an empty
		// station code has to be rejected on its own route.
		pr.Get("/departures", s.handleMissingStation)
		pr.Get("/departures/", s.handleMissingStation)
	})

	return s
}

func (s *Server) handleMissingStation(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusBadRequest, "station code required")
}

func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request) {
	stationCode := chi.URLParam(r, "stationCode")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be positive")
			return
		}
		limit = n
	}

	b, err := s.Board.Snapshot(r.Context(), stationCode, limit)
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.Board.Shape(b))
}

// writeBoardError maps the board error taxonomy onto status codes.
// Upstream detail is logged, never echoed to the caller.
func (s *Server) writeBoardError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *board.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	var aerr *board.AuthError
	if errors.As(err, &aerr) {
		writeError(w, http.StatusUnauthorized, aerr.Msg)
		return
	}
	var uerr *board.UpstreamError
	if errors.As(err, &uerr) {
		hlog.FromRequest(r).Error().Err(uerr.Err).Str("op", uerr.Op).Msg("upstream failure")
		writeError(w, http.StatusInternalServerError, "upstream failure")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("unexpected failure")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
