package commands

import (
	"context"
	"log/slog"
	"strings"

	application "retroboard/contexts/collaboration/board-sync-service/application"
	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	"retroboard/contexts/collaboration/board-sync-service/ports"
)

type JoinCommand struct {
	SessionID     string
	ConnectionID  string
	ParticipantID string
	Name          string
}

type SetReadyCommand struct {
	SessionID    string
	ConnectionID string
	Ready        bool
}

// PresenceUseCase registers connection-scoped participants. Joining a
// closed session is dropped without a broadcast; a participant with two
// tabs holds two independent roster entries.
type PresenceUseCase struct {
	Store    ports.BoardStore
	Registry ports.PresenceRegistry
	Logger   *slog.Logger
}

func (uc PresenceUseCase) Join(ctx context.Context, cmd JoinCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SessionID) == "" || strings.TrimSpace(cmd.ConnectionID) == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := requireOpenSession(ctx, uc.Store, cmd.SessionID); err != nil {
		return err
	}
	if err := uc.Registry.Join(ctx, strings.TrimSpace(cmd.SessionID), entities.Participant{
		ConnectionID:  strings.TrimSpace(cmd.ConnectionID),
		ParticipantID: strings.TrimSpace(cmd.ParticipantID),
		Name:          strings.TrimSpace(cmd.Name),
	}); err != nil {
		return err
	}
	logger.Info("participant joined",
		"event", "presence_joined",
		"module", "collaboration/board-sync-service",
		"layer", "application",
		"session_id", strings.TrimSpace(cmd.SessionID),
		"connection_id", strings.TrimSpace(cmd.ConnectionID),
		"participant_id", strings.TrimSpace(cmd.ParticipantID),
	)
	return nil
}

func (uc PresenceUseCase) SetReady(ctx context.Context, cmd SetReadyCommand) error {
	if strings.TrimSpace(cmd.SessionID) == "" || strings.TrimSpace(cmd.ConnectionID) == "" {
		return domainerrors.ErrInvalidInput
	}
	updated, err := uc.Registry.SetReady(ctx, strings.TrimSpace(cmd.SessionID), strings.TrimSpace(cmd.ConnectionID), cmd.Ready)
	if err != nil {
		return err
	}
	if !updated {
		return domainerrors.ErrNotRegistered
	}
	return nil
}

// Disconnect removes the connection from every session it joined and
// returns the affected session ids so the coordinator can broadcast each
// updated roster.
func (uc PresenceUseCase) Disconnect(ctx context.Context, connectionID string) ([]string, error) {
	if strings.TrimSpace(connectionID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return uc.Registry.Remove(ctx, strings.TrimSpace(connectionID))
}
