package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	boardsync "retroboard/contexts/collaboration/board-sync-service"
	sessionservice "retroboard/contexts/collaboration/session-service"
	sessionerrors "retroboard/contexts/collaboration/session-service/domain/errors"
	sessionhttp "retroboard/contexts/collaboration/session-service/transport/http"
	"retroboard/internal/platform/messaging"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "retroboard/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	sessions sessionservice.Module
	board    boardsync.Module
	bus      *messaging.Bus
	swagger  bool
}

func New(
	sessions sessionservice.Module,
	board boardsync.Module,
	bus *messaging.Bus,
	logger *slog.Logger,
	addr string,
	swagger bool,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		sessions: sessions,
		board:    board,
		bus:      bus,
		swagger:  swagger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	if s.swagger {
		s.mux.Handle("/swagger/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	s.mux.HandleFunc("POST /api/retros", s.handleCreateRetro)
	s.mux.HandleFunc("GET /api/retros", s.handleListRetros)
	s.mux.HandleFunc("GET /api/retros/{retro_id}", s.handleGetRetro)
	s.mux.HandleFunc("GET /api/tags", s.handleTags)
	s.mux.HandleFunc("GET /api/tags/popular", s.handlePopularTags)

	s.mux.HandleFunc("GET /api/retros/{retro_id}/snapshot", s.handleBoardSnapshot)
	s.mux.HandleFunc("GET /api/retros/{retro_id}/votes/remaining", s.handleRemainingVotes)
	s.mux.HandleFunc("GET /api/retros/{retro_id}/stream", s.handleBoardStream)
	s.mux.HandleFunc("POST /api/retros/{retro_id}/events", s.handleBoardEvent)
}

func (s *Server) handleCreateRetro(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.CreateRetroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sessions.Handler.CreateRetroHandler(r.Context(), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListRetros(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.ListRetrosHandler(r.Context())
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRetro(w http.ResponseWriter, r *http.Request) {
	retroID := r.PathValue("retro_id")
	resp, err := s.sessions.Handler.GetRetroHandler(r.Context(), retroID)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.TagsHandler(r.Context())
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePopularTags(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitRaw := r.URL.Query().Get("limit"); limitRaw != "" {
		value, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeSessionError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = value
	}
	resp, err := s.sessions.Handler.PopularTagsHandler(r.Context(), limit)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSessionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionerrors.ErrInvalidRequest):
		writeSessionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, sessionerrors.ErrRetroNotFound):
		writeSessionError(w, http.StatusNotFound, "retro_not_found", err.Error())
	case errors.Is(err, sessionerrors.ErrConflict):
		writeSessionError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeSessionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSessionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sessionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
