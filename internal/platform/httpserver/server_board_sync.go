package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	boarderrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	gatewaytransport "retroboard/contexts/collaboration/board-sync-service/transport/gateway"
)

// boardEventRequest is the transport frame a client POSTs at the realtime
// endpoint: the inbound event name plus its raw payload.
type boardEventRequest struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// handleBoardEvent godoc
// @Summary Submit one realtime board event
// @Tags board
// @Accept json
// @Produce json
// @Param retro_id path string true "retro id"
// @Param X-Connection-Id header string true "client connection id"
// @Param request body boardEventRequest true "event frame"
// @Success 202 {object} map[string]string
// @Failure 400 {object} gatewaytransport.ErrorResponse
// @Router /api/retros/{retro_id}/events [post]
func (s *Server) handleBoardEvent(w http.ResponseWriter, r *http.Request) {
	connectionID := strings.TrimSpace(r.Header.Get("X-Connection-Id"))
	if connectionID == "" {
		writeBoardError(w, http.StatusBadRequest, "missing_connection", "X-Connection-Id header is required")
		return
	}

	var req boardEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Event) == "" {
		writeBoardError(w, http.StatusBadRequest, "missing_event", "event name is required")
		return
	}

	if err := s.board.Handler.HandleEvent(r.Context(), connectionID, req.Event, req.Payload); err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleBoardSnapshot godoc
// @Summary Fetch the canonical board snapshot
// @Tags board
// @Produce json
// @Param retro_id path string true "retro id"
// @Success 200 {object} gatewaytransport.SnapshotView
// @Failure 404 {object} gatewaytransport.ErrorResponse
// @Router /api/retros/{retro_id}/snapshot [get]
func (s *Server) handleBoardSnapshot(w http.ResponseWriter, r *http.Request) {
	retroID := r.PathValue("retro_id")
	view, err := s.board.Handler.SnapshotHandler(r.Context(), retroID)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleRemainingVotes godoc
// @Summary Remaining vote budget for one participant
// @Tags board
// @Produce json
// @Param retro_id path string true "retro id"
// @Param participant_id query string true "participant id"
// @Success 200 {object} map[string]int
// @Failure 400 {object} gatewaytransport.ErrorResponse
// @Router /api/retros/{retro_id}/votes/remaining [get]
func (s *Server) handleRemainingVotes(w http.ResponseWriter, r *http.Request) {
	retroID := r.PathValue("retro_id")
	participantID := strings.TrimSpace(r.URL.Query().Get("participant_id"))
	if participantID == "" {
		writeBoardError(w, http.StatusBadRequest, "missing_participant", "participant_id query parameter is required")
		return
	}
	remaining, err := s.board.Handler.RemainingVotesHandler(r.Context(), retroID, participantID)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"remaining": remaining})
}

// handleBoardStream streams broadcast frames for the connection as
// server-sent events. The client subscribes to sessions by sending join
// events; tearing the stream down disconnects the participant everywhere.
func (s *Server) handleBoardStream(w http.ResponseWriter, r *http.Request) {
	connectionID := strings.TrimSpace(r.URL.Query().Get("connection_id"))
	if connectionID == "" {
		writeBoardError(w, http.StatusBadRequest, "missing_connection", "connection_id query parameter is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeBoardError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
		return
	}

	frames := s.bus.Attach(connectionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			// Request context is already cancelled; the presence cleanup
			// still has to run.
			_ = s.board.Handler.HandleDisconnect(context.Background(), connectionID)
			return
		case frame, open := <-frames:
			if !open {
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", frame.EventType, data)
			flusher.Flush()
		}
	}
}

func writeBoardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, boarderrors.ErrInvalidInput):
		writeBoardError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, boarderrors.ErrSessionNotFound),
		errors.Is(err, boarderrors.ErrColumnNotFound),
		errors.Is(err, boarderrors.ErrItemNotFound),
		errors.Is(err, boarderrors.ErrActionNotFound),
		errors.Is(err, boarderrors.ErrVoteNotFound):
		writeBoardError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, boarderrors.ErrNotCreator):
		writeBoardError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, boarderrors.ErrSessionClosed),
		errors.Is(err, boarderrors.ErrPhaseUnchanged),
		errors.Is(err, boarderrors.ErrPhaseConflict),
		errors.Is(err, boarderrors.ErrInvalidTransition),
		errors.Is(err, boarderrors.ErrConflict):
		writeBoardError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeBoardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBoardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, gatewaytransport.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
