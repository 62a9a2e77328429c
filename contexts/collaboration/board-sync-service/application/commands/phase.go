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

// TransitionCommand moves a session into a later phase. Expected, when
// set, is a compare-and-swap precondition: the transition is dropped if
// the session is no longer in that phase. That closes the race between
// several owner connections firing timer-driven advances from independent
// wall clocks.
type TransitionCommand struct {
	SessionID   string
	Target      entities.Phase
	Expected    entities.Phase
	RequestedBy string
}

type ExtendTimerCommand struct {
	SessionID string
}

// PhaseUseCase governs the forward-only session lifecycle. Every effective
// transition stamps PhaseStartTime and clears readiness for the whole
// roster; re-entering the current phase is an idempotent no-op.
type PhaseUseCase struct {
	Store    ports.BoardStore
	Presence ports.PresenceRegistry
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc PhaseUseCase) Transition(ctx context.Context, cmd TransitionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SessionID) == "" || !cmd.Target.Valid() {
		return domainerrors.ErrInvalidInput
	}
	session, err := uc.Store.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return err
	}
	if err := requireCreator(session, cmd.RequestedBy); err != nil {
		return err
	}
	if session.Phase == entities.PhaseClosed {
		return domainerrors.ErrSessionClosed
	}
	if session.Phase == cmd.Target {
		return domainerrors.ErrPhaseUnchanged
	}
	if cmd.Expected != "" && cmd.Expected != session.Phase {
		return domainerrors.ErrPhaseConflict
	}
	if !session.Phase.CanAdvanceTo(cmd.Target) {
		return domainerrors.ErrInvalidTransition
	}

	now := resolveNow(uc.Clock)
	if err := uc.Store.UpdateSessionPhase(ctx, session.SessionID, cmd.Target, now); err != nil {
		return err
	}
	if err := uc.Presence.ResetReady(ctx, session.SessionID); err != nil {
		return err
	}

	logger.Info("phase transition applied",
		"event", "board_phase_transitioned",
		"module", "collaboration/board-sync-service",
		"layer", "application",
		"session_id", session.SessionID,
		"from", string(session.Phase),
		"to", string(cmd.Target),
	)
	return nil
}

// ExtendTimer pushes PhaseStartTime forward by the fixed increment without
// touching phase or readiness. Timer expiry itself stays a client-observed
// deadline; the server never advances phases on its own.
func (uc PhaseUseCase) ExtendTimer(ctx context.Context, cmd ExtendTimerCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	session, err := requireOpenSession(ctx, uc.Store, cmd.SessionID)
	if err != nil {
		return err
	}
	extended := session.PhaseStartTime.Add(entities.TimerExtension)
	if err := uc.Store.UpdateSessionPhaseStart(ctx, session.SessionID, extended); err != nil {
		return err
	}
	logger.Info("phase timer extended",
		"event", "board_timer_extended",
		"module", "collaboration/board-sync-service",
		"layer", "application",
		"session_id", session.SessionID,
		"phase", string(session.Phase),
	)
	return nil
}
